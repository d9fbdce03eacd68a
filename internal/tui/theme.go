package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark backgrounds. Colors are
// lipgloss.AdaptiveColor pairs; which half is used follows the dark-mode setting.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

// Common semantic colors used across the TUI.
var (
	defaultColorMuted lipgloss.TerminalColor = ac("240", "243")
	colorMuted                               = defaultColorMuted

	defaultColorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedBg                               = defaultColorSelectedBg
	defaultColorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorSelectedFg                               = defaultColorSelectedFg

	defaultColorSurfaceFg lipgloss.TerminalColor = ac("235", "252")
	colorSurfaceFg                               = defaultColorSurfaceFg

	// Slightly elevated surface for controls/inputs so they remain visible on light terminals.
	defaultColorControlBg lipgloss.TerminalColor = ac("252", "235")
	colorControlBg                               = defaultColorControlBg
	defaultColorInputBg   lipgloss.TerminalColor = ac("254", "234")
	colorInputBg                                 = defaultColorInputBg

	defaultColorAccent lipgloss.TerminalColor = ac("27", "62") // blue
	colorAccent                               = defaultColorAccent
	defaultColorAccentFg lipgloss.TerminalColor = ac("255", "235")
	colorAccentFg                               = defaultColorAccentFg

	// Category section headers.
	defaultColorHeaderFg lipgloss.TerminalColor = ac("22", "114") // green
	colorHeaderFg                               = defaultColorHeaderFg

	defaultColorUrgentFg lipgloss.TerminalColor = ac("160", "203") // red
	colorUrgentFg                               = defaultColorUrgentFg

	defaultColorFlashErrorBg lipgloss.TerminalColor = ac("196", "160")
	colorFlashErrorBg                               = defaultColorFlashErrorBg
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleHeader() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorHeaderFg).Bold(true)
}

func styleSelected() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
}

func styleUrgent() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorUrgentFg).Bold(true)
}

// applyColorProfilePreference sets Lip Gloss's color profile for the interactive TUI.
//
// termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which can accidentally disable
// colors in a TUI. Here we only honor NO_COLOR and otherwise follow the terminal.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// If TERM/COLORTERM indicate stronger support than the detector reports, trust the env.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && (profile == termenv.Ascii || profile == termenv.ANSI) {
		profile = termenv.ANSI256
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference picks the light or dark palette.
//
// SMARTSHOP_TUI_THEME=light|dark wins; otherwise the dark-mode setting decides.
func applyThemePreference(darkMode bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SMARTSHOP_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}
	lipgloss.SetHasDarkBackground(darkMode)
}
