package theme

import (
	"github.com/charmbracelet/lipgloss"

	"repolines/internal/domain"
)

// Page styles
var (
	AddressLabelStyle = lipgloss.NewStyle().
				Foreground(ColorSubtle)

	HelpLabelStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	HelpShortcutStyle = lipgloss.NewStyle().
				Foreground(ColorHintKey).
				Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(1, 0)

	LinkStyle = lipgloss.NewStyle().
			Foreground(ColorLink).
			Underline(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorNormal)

	PageStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(1, 0)
)

// Header styles
var (
	AppNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	TaglineStyle = lipgloss.NewStyle().
			Foreground(ColorNormal)

	VersionStyle = lipgloss.NewStyle().
			Foreground(ColorVersion)
)

// Widget styles
var (
	WidgetBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	WidgetExitingBoxStyle = WidgetBoxStyle.
				BorderForeground(ColorDimmed)

	WidgetCountStyle = lipgloss.NewStyle().
				Foreground(ColorHighlight).
				Bold(true)

	WidgetHintStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	WidgetTitleStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true)

	WidgetUnitStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)
)

// DimmedStyle renders the page behind an overlay
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorDimmed)

// SpinnerStyle is used while the statistic is computed
var SpinnerStyle = lipgloss.NewStyle().
	Foreground(ColorLoading)

// ErrorStyle is used for error text
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorError).
	Bold(true)

// StateStyle returns the icon style for a widget state
func StateStyle(state domain.WidgetState) lipgloss.Style {
	switch state {
	case domain.StateError:
		return lipgloss.NewStyle().Foreground(ColorError)
	case domain.StateLoading:
		return lipgloss.NewStyle().Foreground(ColorLoading)
	case domain.StateNoServer:
		return lipgloss.NewStyle().Foreground(ColorNoServer)
	case domain.StateSuccess:
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	default:
		return lipgloss.NewStyle().Foreground(ColorMuted)
	}
}
