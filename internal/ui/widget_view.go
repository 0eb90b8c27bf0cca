package ui

import (
	"strings"

	"repolines/internal/domain"
	"repolines/internal/ports"
	"repolines/internal/theme"
)

// widgetView is the page-side copy of the widget element
type widgetView struct {
	content ports.WidgetContent
	exiting bool
	mounted bool
}

// render draws the widget box. spinner replaces the state icon while loading.
func (w widgetView) render(spinner string) string {
	icon := theme.StateStyle(w.content.State).Render(w.content.State.Symbol())
	if w.content.State == domain.StateLoading && spinner != "" {
		icon = spinner
	}

	lines := []string{icon + " " + theme.WidgetTitleStyle.Render(w.content.Title)}

	body := w.content.Body
	switch w.content.State {
	case domain.StateSuccess:
		body = theme.WidgetCountStyle.Render(body)
		if w.content.Unit != "" {
			body += " " + theme.WidgetUnitStyle.Render(w.content.Unit)
		}
	case domain.StateError:
		body = theme.ErrorStyle.Render(body)
	default:
		body = theme.NormalStyle.Render(body)
	}
	if w.content.Body != "" {
		lines = append(lines, body)
	}
	if w.content.Hint != "" {
		lines = append(lines, theme.WidgetHintStyle.Render(w.content.Hint))
	}

	box := theme.WidgetBoxStyle
	if w.exiting {
		box = theme.WidgetExitingBoxStyle
	}
	return box.Render(strings.Join(lines, "\n"))
}
