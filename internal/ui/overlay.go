package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// rect is a screen area in cells
type rect struct {
	h, w, x, y int
}

// contains reports whether the cell (x, y) is inside r
func (r rect) contains(x, y int) bool {
	return r.w > 0 && x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// placeBottomRight renders overlay on top of background, anchored to the
// bottom-right corner with the given margins. The background stays visible
// around the overlay. It returns the composed view and the overlay area.
func placeBottomRight(background, overlay string, width, height, marginX, marginY int) (string, rect) {
	bgLines := strings.Split(background, "\n")
	overlayLines := strings.Split(overlay, "\n")

	// Ensure background fills the screen
	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}

	overlayWidth := 0
	for _, line := range overlayLines {
		if w := lipgloss.Width(line); w > overlayWidth {
			overlayWidth = w
		}
	}
	overlayHeight := len(overlayLines)

	area := rect{
		h: overlayHeight,
		w: overlayWidth,
		x: max(width-overlayWidth-marginX, 0),
		y: max(height-overlayHeight-marginY, 0),
	}

	for i, line := range overlayLines {
		y := area.y + i
		if y >= len(bgLines) {
			break
		}
		bgLines[y] = spliceLine(bgLines[y], line, area.x, overlayWidth)
	}

	return strings.Join(bgLines, "\n"), area
}

// spliceLine replaces the cells [x, x+w) of line with overlay, padding as needed
func spliceLine(line, overlay string, x, w int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < x {
		line += strings.Repeat(" ", x-lineWidth)
		lineWidth = x
	}

	left := ansi.Truncate(line, x, "")
	right := ""
	if lineWidth > x+w {
		right = ansi.TruncateLeft(line, x+w, "")
	}

	if pad := w - lipgloss.Width(overlay); pad > 0 {
		overlay += strings.Repeat(" ", pad)
	}
	return left + overlay + right
}
