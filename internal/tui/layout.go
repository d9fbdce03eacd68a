package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to be exactly width columns wide (ANSI-aware) and height
// lines tall, so the footer stays pinned to the bottom of the screen.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")

	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i := range lines {
		lines[i] = fitLine(lines[i], width)
	}

	return strings.Join(lines, "\n")
}

// fitLine pads or cuts ln to width columns, marking cut lines with an ellipsis.
func fitLine(ln string, width int) string {
	w := xansi.StringWidth(ln)
	if w > width {
		switch {
		case width <= 0:
			return ""
		case width == 1:
			ln = xansi.Cut(ln, 0, 1)
		default:
			ln = xansi.Cut(ln, 0, width-1) + "…"
		}
		w = xansi.StringWidth(ln)
	}
	if w < width {
		ln += strings.Repeat(" ", width-w)
	}
	return ln
}
