package theme

import "github.com/charmbracelet/lipgloss"

// Color is an alias for lipgloss.Color for convenience
type Color = lipgloss.Color

// ColorPrimary is the brand color used for the app name and widget title
const ColorPrimary Color = "99"

// Widget state colors
const (
	ColorError    Color = "196" // Bright red
	ColorLoading  Color = "205" // Pink
	ColorNoServer Color = "214" // Orange
	ColorSuccess  Color = "2"   // Green
)

// UI semantic colors
const (
	ColorBorder    Color = "63"  // Blue - widget border
	ColorDimmed    Color = "240" // Dark gray - page behind the widget
	ColorHighlight Color = "255" // White - emphasis
	ColorMuted     Color = "241" // Gray - secondary text
	ColorNormal    Color = "250" // Default text
	ColorSubtle    Color = "245" // Light gray - labels
	ColorVersion   Color = "240" // Dark gray
)

// Accent colors
const (
	ColorHintKey Color = "226" // Yellow - key hints
	ColorLink    Color = "33"  // Blue - repository links
)
