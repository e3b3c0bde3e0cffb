package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay draws the popup centered on top of a greyed out copy of mainContent
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int, popupStyle lipgloss.Style) string {
	styledPopup := popupStyle.Render(popupContent)
	if width <= 0 || height <= 0 {
		return styledPopup
	}

	modalW := lipgloss.Width(styledPopup)
	modalH := lipgloss.Height(styledPopup)
	x := (width - modalW) / 2
	y := (height - modalH) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	base := strings.Split(stripANSI(mainContent), "\n")
	for len(base) < height {
		base = append(base, "")
	}
	popupLines := strings.Split(styledPopup, "\n")

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	out := make([]string, len(base))
	for i, line := range base {
		row := i - y
		if row < 0 || row >= len(popupLines) {
			out[i] = dim.Render(line)
			continue
		}
		// the base is plain text here, so runes can be cut safely
		runes := []rune(line)
		left := padRunes(runes, x)
		right := ""
		if end := x + modalW; end < len(runes) {
			right = string(runes[end:])
		}
		out[i] = dim.Render(left) + popupLines[row] + dim.Render(right)
	}
	return strings.Join(out, "\n")
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

// padRunes returns the first n runes of r, padded with spaces when r is shorter
func padRunes(r []rune, n int) string {
	if len(r) >= n {
		return string(r[:n])
	}
	return string(r) + strings.Repeat(" ", n-len(r))
}
