package publish

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

var (
	rendererMu sync.Mutex
	// Keyed by style + wrap width. Fixed styles avoid WithAutoStyle's terminal queries,
	// which can block inside the TUI.
	renderers = map[string]*glamour.TermRenderer{}
)

// StyleFor picks the glamour standard style for the app's dark-mode setting.
func StyleFor(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}

// Render renders markdown for a terminal. On renderer errors it returns md unchanged.
func Render(md string, width int, style string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	if style == "" {
		style = "dark"
	}

	key := style + ":" + strconv.Itoa(width)
	rendererMu.Lock()
	r := renderers[key]
	rendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		rendererMu.Lock()
		if existing := renderers[key]; existing != nil {
			r = existing
		} else {
			renderers[key] = rr
			r = rr
		}
		rendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
