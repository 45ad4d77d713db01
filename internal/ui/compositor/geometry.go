package compositor

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// ViewDimensions returns the cell width and line count of a rendered view.
func ViewDimensions(view string) (width, height int) {
	if view == "" {
		return 0, 0
	}
	lines := strings.Split(view, "\n")
	for _, line := range lines {
		width = max(width, lipgloss.Width(line))
	}
	return width, len(lines)
}

// Centered returns the origin that centers a width x height box on the screen.
func Centered(width, height, screenWidth, screenHeight int) (x, y int) {
	return max(0, (screenWidth-width)/2), max(0, (screenHeight-height)/2)
}
