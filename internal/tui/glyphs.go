package tui

import (
	"os"
	"strings"
	"sync"

	"smartshop/internal/store"
)

// Terminal apps can't change the user's font. Instead we choose between Unicode and
// ASCII glyph sets for UI affordances (checkboxes, separators, arrows).

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference reads SMARTSHOP_TUI_GLYPHS, then config.json tui.glyphs.
// Unknown values are ignored.
func applyGlyphPreference(cfg *store.GlobalConfig) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("SMARTSHOP_TUI_GLYPHS")))
	if v == "" && cfg != nil && cfg.TUI != nil {
		v = strings.ToLower(strings.TrimSpace(cfg.TUI.Glyphs))
	}
	switch v {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func glyphCheckbox(done bool) string {
	if glyphs() == glyphSetASCII {
		if done {
			return "[x]"
		}
		return "[ ]"
	}
	if done {
		return "☑"
	}
	return "☐"
}

func glyphUrgent() string {
	if glyphs() == glyphSetASCII {
		return "!"
	}
	return "●"
}

func glyphBullet() string {
	if glyphs() == glyphSetASCII {
		return "*"
	}
	return "•"
}

func glyphArrow() string {
	if glyphs() == glyphSetASCII {
		return "->"
	}
	return "→"
}

func glyphHRule() string {
	if glyphs() == glyphSetASCII {
		return "-"
	}
	return "─"
}
