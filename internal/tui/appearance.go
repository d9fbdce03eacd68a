package tui

import (
	"os"
	"strings"
	"sync"

	"smartshop/internal/store"
)

type appearanceProfileID string

const (
	appearanceDefault   appearanceProfileID = "default"
	appearanceDracula   appearanceProfileID = "dracula"
	appearanceGruvbox   appearanceProfileID = "gruvbox"
	appearanceSolarized appearanceProfileID = "solarized"
	appearanceMono      appearanceProfileID = "mono"
)

var (
	appearanceMu      sync.RWMutex
	currentAppearance = appearanceDefault
	knownAppearances  = []appearanceProfileID{appearanceDefault, appearanceDracula, appearanceGruvbox, appearanceSolarized, appearanceMono}
)

func resetAppearancePaletteToDefaults() {
	colorMuted = defaultColorMuted
	colorSelectedBg = defaultColorSelectedBg
	colorSelectedFg = defaultColorSelectedFg
	colorSurfaceFg = defaultColorSurfaceFg
	colorControlBg = defaultColorControlBg
	colorInputBg = defaultColorInputBg
	colorAccent = defaultColorAccent
	colorAccentFg = defaultColorAccentFg
	colorHeaderFg = defaultColorHeaderFg
	colorUrgentFg = defaultColorUrgentFg
	colorFlashErrorBg = defaultColorFlashErrorBg
}

// applyAppearancePreference reads SMARTSHOP_TUI_PROFILE, then config.json tui.profile.
func applyAppearancePreference(cfg *store.GlobalConfig) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("SMARTSHOP_TUI_PROFILE")))
	if v == "" && cfg != nil && cfg.TUI != nil {
		v = strings.ToLower(strings.TrimSpace(cfg.TUI.Profile))
	}
	if v == "" {
		v = string(appearanceDefault)
	}
	setAppearanceProfile(appearanceProfileID(v))
}

// setAppearanceProfile switches the palette. Unknown ids are ignored.
func setAppearanceProfile(id appearanceProfileID) {
	appearanceMu.Lock()
	defer appearanceMu.Unlock()

	switch id {
	case appearanceDefault:
		resetAppearancePaletteToDefaults()
	case appearanceDracula:
		resetAppearancePaletteToDefaults()
		colorSelectedBg = ac("#d7d7cf", "#44475a")
		colorSelectedFg = ac("#282a36", "#f8f8f2")
		colorSurfaceFg = ac("#282a36", "#f8f8f2")
		colorControlBg = ac("#e9e9e2", "#1f202a")
		colorInputBg = ac("#e1e1db", "#1b1c25")
		colorMuted = ac("#4b5563", "#9aa0b1")
		colorAccent = ac("#6c4aa6", "#bd93f9")
		colorAccentFg = ac("#f8f8f2", "#282a36")
		colorHeaderFg = ac("#15803d", "#50fa7b")
		colorUrgentFg = ac("#b83280", "#ff79c6")
		colorFlashErrorBg = ac("#b91c1c", "#ff5555")
	case appearanceGruvbox:
		resetAppearancePaletteToDefaults()
		colorSelectedBg = ac("#d5c4a1", "#504945")
		colorSelectedFg = ac("#282828", "#fbf1c7")
		colorSurfaceFg = ac("#3c3836", "#ebdbb2")
		colorControlBg = ac("#ebdbb2", "#1d2021")
		colorInputBg = ac("#ebdbb2", "#1d2021")
		colorMuted = ac("#7c6f64", "#a89984")
		colorAccent = ac("#076678", "#83a598")
		colorAccentFg = ac("#fbf1c7", "#282828")
		colorHeaderFg = ac("#79740e", "#b8bb26")
		colorUrgentFg = ac("#9d0006", "#fb4934")
		colorFlashErrorBg = ac("#cc241d", "#cc241d")
	case appearanceSolarized:
		resetAppearancePaletteToDefaults()
		colorSelectedBg = ac("#eee8d5", "#073642")
		colorSelectedFg = ac("#073642", "#eee8d5")
		colorSurfaceFg = ac("#657b83", "#839496")
		colorControlBg = ac("#eee8d5", "#002b36")
		colorInputBg = ac("#fdf6e3", "#002b36")
		colorMuted = ac("#93a1a1", "#586e75")
		colorAccent = ac("#268bd2", "#268bd2")
		colorAccentFg = ac("#fdf6e3", "#002b36")
		colorHeaderFg = ac("#859900", "#859900")
		colorUrgentFg = ac("#dc322f", "#dc322f")
		colorFlashErrorBg = ac("#dc322f", "#dc322f")
	case appearanceMono:
		resetAppearancePaletteToDefaults()
		colorSelectedBg = ac("0", "15")
		colorSelectedFg = ac("15", "0")
		colorAccent = ac("0", "15")
		colorAccentFg = ac("15", "0")
		colorHeaderFg = ac("0", "15")
		colorUrgentFg = ac("0", "15")
		colorFlashErrorBg = ac("0", "15")
	default:
		return
	}
	currentAppearance = id
}

func appearanceProfile() appearanceProfileID {
	appearanceMu.RLock()
	defer appearanceMu.RUnlock()
	return currentAppearance
}

// nextAppearance returns the profile after the current one, wrapping around.
func nextAppearance() appearanceProfileID {
	cur := appearanceProfile()
	for i, id := range knownAppearances {
		if id == cur {
			return knownAppearances[(i+1)%len(knownAppearances)]
		}
	}
	return appearanceDefault
}
