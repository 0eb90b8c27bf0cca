package ports

// URLOpener opens a URL in a new browsing context
type URLOpener interface {
	// Open opens url outside the current page (new tab/window)
	Open(url string) error
}
