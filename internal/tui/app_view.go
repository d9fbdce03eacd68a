package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"smartshop/internal/docs"
	"smartshop/internal/grocery"
	"smartshop/internal/publish"
)

func (m appModel) View() string {
	w := m.width
	if w <= 0 {
		w = 80
	}
	h := m.height
	if h <= 0 {
		h = 24
	}

	header := m.viewHeader(w)
	footer := m.viewFooter(w)
	bodyH := h - lipgloss.Height(header) - lipgloss.Height(footer)

	var body string
	switch m.view {
	case viewSettings:
		body = m.viewSettings(w)
	case viewRecipes:
		body = m.viewRecipes(w)
	case viewHelp:
		body = m.viewHelp(w)
	default:
		body = m.viewList(w)
	}
	if m.modal != modalNone {
		body = lipgloss.Place(w, bodyH, lipgloss.Center, lipgloss.Center, m.viewModal(w))
	}

	return strings.Join([]string{header, normalizePane(body, w, bodyH), footer}, "\n")
}

func (m appModel) viewHeader(w int) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("Smartshop")
	sub := publish.Remaining(len(m.state.ActiveItems()))
	switch m.view {
	case viewSettings:
		sub = "Settings"
	case viewRecipes:
		sub = "Recipe ideas"
	case viewHelp:
		sub = "Help"
	}
	line := title + styleMuted().Render(" "+glyphBullet()+" "+sub)
	return fitLine(line, w) + "\n" + styleMuted().Render(strings.Repeat(glyphHRule(), w))
}

func (m appModel) viewFooter(w int) string {
	var hint string
	switch {
	case m.modal == modalAdd || m.modal == modalVoiceLanguage:
		hint = "enter: save  esc: cancel"
	case m.modal == modalCategory:
		hint = "↑/↓: choose  enter: move  esc: cancel"
	case m.modal == modalOrder:
		hint = "↑/↓: select  K/J: move  enter: done"
	case m.modal != modalNone:
		hint = "y: confirm  n: cancel"
	case m.view == viewSettings:
		hint = "↑/↓: select  enter: change  esc: back  q: quit"
	case m.view == viewRecipes:
		hint = "↑/↓: select  enter: add missing  R: refresh  esc: back"
	case m.view == viewHelp:
		hint = "esc: back  q: quit"
	default:
		hint = "a: add  x: check  c: category  h: completed  y: copy  r: recipes  s: settings  ?: help  q: quit"
	}
	if m.flash == "" {
		return fitLine(styleMuted().Render(hint), w)
	}
	fl := lipgloss.NewStyle().Foreground(colorAccent).Render(m.flash)
	if m.flashErr {
		fl = lipgloss.NewStyle().Foreground(colorAccentFg).Background(colorFlashErrorBg).Bold(true).Render(" " + m.flash + " ")
	}
	return fitLine(fl, w)
}

func (m appModel) viewList(w int) string {
	if len(m.itemsList.Items()) == 0 {
		msg := "Nothing to buy. Press a to add items."
		if !m.showCompleted && len(m.state.CompletedItems()) > 0 {
			msg += fmt.Sprintf(" (%d checked off; h shows them)", len(m.state.CompletedItems()))
		}
		return styleMuted().Render(msg)
	}
	return m.itemsList.View()
}

func (m appModel) settingLine(row settingRow) (label, value string) {
	st := m.state.Settings()
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	switch row {
	case settingVoiceLanguage:
		return "Voice language", st.VoiceLanguage
	case settingDarkMode:
		return "Dark mode", onOff(st.DarkMode)
	case settingWakeLock:
		return "Keep screen awake", onOff(st.WakeLockEnabled)
	case settingAppearance:
		return "Appearance", string(appearanceProfile())
	case settingCategoryOrder:
		var names []string
		for _, r := range categoryRows(st.CategoryOrder) {
			names = append(names, r.(categoryRow).category.Emoji)
		}
		return "Category order", strings.Join(names, " ")
	case settingExport:
		return "Export backup", m.store.Dir
	case settingClearList:
		return "Clear list", fmt.Sprintf("%d items", len(m.state.Items()))
	case settingWipe:
		return "Wipe all data", ""
	}
	return "", ""
}

func (m appModel) viewSettings(w int) string {
	var lines []string
	for i, row := range settingRows {
		label, value := m.settingLine(row)
		ln := fmt.Sprintf(" %-20s %s", label, value)
		if row == settingWipe || row == settingClearList {
			ln = fmt.Sprintf(" %-20s %s", label, styleMuted().Render(value))
		}
		if i == m.settingsIdx {
			lines = append(lines, styleSelected().Render(fitLine(ln, w)))
			continue
		}
		lines = append(lines, ln)
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewRecipes(w int) string {
	switch {
	case m.recipeIngredient == "":
		return styleMuted().Render("Add something to the list to get recipe ideas.")
	case m.recipeErr != "":
		return styleUrgent().Render("Could not load recipes: "+m.recipeErr) + "\n" + styleMuted().Render("R retries.")
	case m.recipeLoading && len(m.recipeMeals) == 0:
		return styleMuted().Render("Looking for meals with " + m.recipeIngredient + "…")
	case len(m.recipeMeals) == 0:
		return styleMuted().Render("No meals found with " + m.recipeIngredient + ".")
	}

	lines := []string{styleHeader().Render("Meals with " + m.recipeIngredient), ""}
	for i, meal := range m.recipeMeals {
		ln := " " + glyphBullet() + " " + meal.Name
		if i == m.recipeIdx {
			lines = append(lines, styleSelected().Render(fitLine(ln, w)))
			continue
		}
		lines = append(lines, ln)
	}
	if m.recipeLoading {
		lines = append(lines, "", styleMuted().Render("Adding ingredients…"))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewHelp(w int) string {
	md, ok := docs.Get("tui")
	if !ok {
		return "help unavailable"
	}
	return publish.Render(md, w, publish.StyleFor(m.state.Settings().DarkMode))
}

func (m appModel) viewModal(w int) string {
	bodyW := modalBodyWidth(w)
	switch m.modal {
	case modalAdd:
		content := renderInputLine(bodyW, m.input.View())
		if preview := m.addPreview(); preview != "" {
			content += "\n\n" + preview
		}
		return renderModalBox(w, "Add items", content)
	case modalVoiceLanguage:
		return renderModalBox(w, "Voice language", renderInputLine(bodyW, m.input.View())+"\n\n"+
			styleMuted().Render("BCP-47 tag, e.g. en-SG or zh-CN"))
	case modalCategory:
		name := ""
		if it, ok := m.state.Item(m.modalForID); ok {
			name = it.Name
		}
		return renderModalBox(w, "Move "+name+" to", m.categoryList.View())
	case modalOrder:
		return renderModalBox(w, "Category order", m.orderList.View())
	case modalConfirmClear:
		return renderConfirmModal(w, "Clear list",
			fmt.Sprintf("Remove all %d items? Learned categories are kept.", len(m.state.Items())),
			"Clear", "Cancel", m.confirmFocus)
	case modalConfirmWipe:
		return renderConfirmModal(w, "Wipe all data",
			"Delete items, learned categories and settings? The starter list comes back.",
			"Wipe", "Cancel", m.confirmFocus)
	}
	return ""
}

// addPreview shows where each dictated part of the add input will land.
func (m appModel) addPreview() string {
	var lines []string
	for _, part := range grocery.SplitSpoken(m.input.Value()) {
		cat, ok := m.state.Preview(part)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s %s", part, glyphArrow(), styleHeader().Render(cat.Label())))
	}
	return strings.Join(lines, "\n")
}
