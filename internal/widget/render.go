package widget

import (
	"errors"

	"repolines/internal/domain"
	"repolines/internal/i18n"
	"repolines/internal/ports"
)

// Content builds the localized widget content for a state
func Content(t ports.Translator, state domain.WidgetState, stats *domain.Stats, err error) ports.WidgetContent {
	content := ports.WidgetContent{
		State: state,
		Title: t.T(i18n.KeyTitle),
	}

	switch state {
	case domain.StateLoading:
		content.Body = t.T(i18n.KeyLoading)
		content.Hint = t.T(i18n.KeyClickForDetails)
	case domain.StateSuccess:
		if stats != nil {
			content.Body = t.FormatCount(stats.TotalLines)
		}
		content.Unit = t.T(i18n.KeyLinesOfCode)
		content.Hint = t.T(i18n.KeyClickForDetails)
	case domain.StateError:
		content.Body = t.T(errorKey(err))
		content.Hint = t.T(i18n.KeyClickToRetry)
	case domain.StateNoServer:
		content.Body = t.T(i18n.KeyNoServer)
		content.Hint = t.T(i18n.KeyNoServerHint)
	}
	return content
}

func errorKey(err error) string {
	switch {
	case errors.Is(err, domain.ErrPollTimeout):
		return i18n.KeyPollTimeout
	case errors.Is(err, domain.ErrPollTransientFailure):
		return i18n.KeyPollFailed
	case errors.Is(err, domain.ErrTransportFailure):
		return i18n.KeyConnectFailed
	default:
		return i18n.KeyFetchFailed
	}
}
