package ports

import "repolines/internal/domain"

// WidgetContent is the fixed, already localized text of one widget state
type WidgetContent struct {
	Body  string // main line (count, loading label or error text)
	Hint  string // click affordance
	State domain.WidgetState
	Title string
	Unit  string // unit label under the count (success only)
}

// Surface is the rendered widget element.
// Only the widget controller calls it; at most one element is mounted.
type Surface interface {
	// Mount creates the element (shown with an entry transition)
	Mount()

	// Render replaces the element content
	Render(content WidgetContent)

	// BeginExit starts the exit transition; Unmount follows
	BeginExit()

	// Unmount removes the element
	Unmount()
}

// Notifier shows a short message to the user without navigating
type Notifier interface {
	Notify(message string)
}
