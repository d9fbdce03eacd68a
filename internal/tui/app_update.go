package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"smartshop/internal/grocery"
	"smartshop/internal/model"
	"smartshop/internal/publish"
	"smartshop/internal/recipe"
	"smartshop/internal/store"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case flashTimeoutMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
			m.flashErr = false
		}
		return m, nil

	case storeChangedMsg:
		return m, tea.Batch(m.reloadCmd(), waitForStoreChange(m.changes))

	case reloadedMsg:
		if msg.base != m.state || msg.rev != m.state.Revision() {
			// The list changed while the reload ran; read again.
			m.log.Debug("dropping stale reload")
			return m, m.reloadCmd()
		}
		if msg.err != nil {
			cmd := m.fail("reload", msg.err)
			return m, cmd
		}
		m.state = msg.state
		applyThemePreference(m.state.Settings().DarkMode)
		m.refreshItems("")
		m.log.Debug("reloaded from disk", "items", len(m.state.Items()))
		return m, nil

	case recipesLoadedMsg:
		if msg.ingredient != m.recipeIngredient {
			// A newer request superseded this one.
			return m, nil
		}
		m.recipeLoading = false
		if msg.err != nil {
			m.recipeErr = msg.err.Error()
			m.log.Warn("recipe suggestions failed", "ingredient", msg.ingredient, "err", msg.err)
			return m, nil
		}
		m.recipeMeals = msg.meals
		m.recipeIdx = 0
		return m, nil

	case mealLoadedMsg:
		m.recipeLoading = false
		if msg.err != nil {
			cmd := m.fail("recipe lookup", msg.err)
			return m, cmd
		}
		if !msg.ok {
			cmd := m.setFlash("recipe not found", true)
			return m, cmd
		}
		added, err := m.state.AddItems(recipe.MissingIngredients(msg.meal, m.state.ActiveItems()))
		if err != nil {
			cmd := m.fail("add ingredients", err)
			return m, cmd
		}
		m.refreshItems("")
		if len(added) == 0 {
			cmd := m.setFlash("Everything for "+msg.meal.Name+" is already on the list", false)
			return m, cmd
		}
		cmd := m.setFlash(fmt.Sprintf("Added %d ingredients for %s", len(added), msg.meal.Name), false)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		switch m.view {
		case viewSettings:
			return m.updateSettings(msg)
		case viewRecipes:
			return m.updateRecipes(msg)
		case viewHelp:
			return m.updateHelp(msg)
		default:
			return m.updateList(msg)
		}
	}

	if m.modal == modalAdd || m.modal == modalVoiceLanguage {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k", "ctrl+p":
		moveCursor(&m.itemsList, -1)
	case "down", "j", "ctrl+n":
		moveCursor(&m.itemsList, 1)
	case "home", "g":
		selectItemID(&m.itemsList, m.firstRowItemID())
	case "end", "G":
		m.itemsList.Select(len(m.itemsList.Items()) - 1)
		if _, ok := selectedItem(m.itemsList); !ok {
			moveCursor(&m.itemsList, -1)
		}
	case "a":
		cmd := m.openInput(modalAdd, "")
		return m, cmd
	case " ", "x":
		it, ok := selectedItem(m.itemsList)
		if !ok {
			return m, nil
		}
		updated, _, err := m.state.ToggleComplete(it.ID)
		if err != nil {
			cmd := m.fail("toggle", err)
			return m, cmd
		}
		m.refreshItems(m.nextSelectionAfterToggle(updated))
	case "c":
		it, ok := selectedItem(m.itemsList)
		if !ok {
			return m, nil
		}
		m.modal = modalCategory
		m.modalForID = it.ID
		m.categoryList.SetItems(categoryRows(m.state.Settings().CategoryOrder))
		m.resizeLists()
		for i, row := range m.categoryList.Items() {
			if row.(categoryRow).category.ID == it.Category.ID {
				m.categoryList.Select(i)
				break
			}
		}
	case "h":
		m.showCompleted = !m.showCompleted
		m.refreshItems("")
	case "y":
		st := m.state.Settings()
		md := publish.RenderListMarkdown(m.state.Items(), st.CategoryOrder, publish.RenderOptions{})
		if err := copyToClipboard(md); err != nil {
			cmd := m.fail("copy", err)
			return m, cmd
		}
		cmd := m.setFlash("Copied list ("+publish.Remaining(len(m.state.ActiveItems()))+")", false)
		return m, cmd
	case "r":
		m.view = viewRecipes
		cmd := m.startRecipes()
		return m, cmd
	case "s":
		m.view = viewSettings
	case "?":
		m.view = viewHelp
	}
	return m, nil
}

// nextSelectionAfterToggle keeps the cursor on the toggled item when it stays visible.
func (m appModel) nextSelectionAfterToggle(it model.Item) string {
	if !it.Completed || m.showCompleted {
		return it.ID
	}
	// The item left the list; stay near where it was.
	idx := m.itemsList.Index()
	rows := m.itemsList.Items()
	for _, delta := range []int{1, -1} {
		for i := idx + delta; i >= 0 && i < len(rows); i += delta {
			if r, ok := rows[i].(listRow); ok && r.selectable() && r.item.ID != it.ID {
				return r.item.ID
			}
		}
	}
	return ""
}

func (m appModel) firstRowItemID() string {
	for _, row := range m.itemsList.Items() {
		if r, ok := row.(listRow); ok && r.selectable() {
			return r.item.ID
		}
	}
	return ""
}

func (m *appModel) openInput(kind modalKind, value string) tea.Cmd {
	m.modal = kind
	m.input.Reset()
	m.input.SetValue(value)
	m.input.CursorEnd()
	switch kind {
	case modalAdd:
		m.input.Placeholder = "e.g. milk and eggs"
	case modalVoiceLanguage:
		m.input.Placeholder = "e.g. en-SG"
	}
	return m.input.Focus()
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.modalForID = ""
	m.confirmFocus = confirmFocusConfirm
	m.input.Blur()
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.closeModal()
		return m, nil
	}

	switch m.modal {
	case modalAdd:
		if msg.String() != "enter" {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		added, err := m.state.AddSpoken(m.input.Value())
		m.closeModal()
		if err != nil {
			cmd := m.fail("add", err)
			return m, cmd
		}
		if len(added) == 0 {
			return m, nil
		}
		m.refreshItems(added[len(added)-1].ID)
		if len(added) == 1 {
			cmd := m.setFlash("Added "+added[0].Name+" to "+added[0].Category.Label(), false)
			return m, cmd
		}
		cmd := m.setFlash(fmt.Sprintf("Added %d items", len(added)), false)
		return m, cmd

	case modalVoiceLanguage:
		if msg.String() != "enter" {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		tag, err := grocery.CanonicalLanguageTag(m.input.Value())
		if err != nil {
			// Keep the modal open so the value can be fixed.
			cmd := m.setFlash(err.Error(), true)
			return m, cmd
		}
		m.closeModal()
		if err := m.state.UpdateVoiceLanguage(tag); err != nil {
			cmd := m.fail("save voice language", err)
			return m, cmd
		}
		cmd := m.setFlash("Voice language set to "+tag, false)
		return m, cmd

	case modalCategory:
		switch msg.String() {
		case "up", "k", "ctrl+p":
			m.categoryList.CursorUp()
		case "down", "j", "ctrl+n":
			m.categoryList.CursorDown()
		case "enter":
			row, ok := m.categoryList.SelectedItem().(categoryRow)
			id := m.modalForID
			m.closeModal()
			if !ok {
				return m, nil
			}
			it, found, err := m.state.UpdateItemCategory(id, row.category.ID)
			if err != nil {
				cmd := m.fail("move", err)
				return m, cmd
			}
			if !found {
				cmd := m.setFlash("item no longer exists", true)
				return m, cmd
			}
			m.refreshItems(it.ID)
			cmd := m.setFlash(fmt.Sprintf("%s %s %s (remembered)", it.Name, glyphArrow(), row.category.Label()), false)
			return m, cmd
		}
		return m, nil

	case modalOrder:
		switch msg.String() {
		case "enter", "q":
			m.closeModal()
		case "up", "k", "ctrl+p":
			m.orderList.CursorUp()
		case "down", "j", "ctrl+n":
			m.orderList.CursorDown()
		case "K", "shift+up":
			cmd := m.moveCategory(-1)
			return m, cmd
		case "J", "shift+down":
			cmd := m.moveCategory(1)
			return m, cmd
		}
		return m, nil

	case modalConfirmClear, modalConfirmWipe:
		switch msg.String() {
		case "tab", "shift+tab", "left", "right", "h", "l":
			if m.confirmFocus == confirmFocusConfirm {
				m.confirmFocus = confirmFocusCancel
			} else {
				m.confirmFocus = confirmFocusConfirm
			}
		case "n":
			m.closeModal()
		case "y":
			return m.confirm()
		case "enter":
			if m.confirmFocus == confirmFocusCancel {
				m.closeModal()
				return m, nil
			}
			return m.confirm()
		}
		return m, nil
	}
	return m, nil
}

func (m appModel) confirm() (tea.Model, tea.Cmd) {
	kind := m.modal
	m.closeModal()
	switch kind {
	case modalConfirmClear:
		if err := m.state.ClearAll(); err != nil {
			cmd := m.fail("clear", err)
			return m, cmd
		}
		m.refreshItems("")
		cmd := m.setFlash("List cleared", false)
		return m, cmd
	case modalConfirmWipe:
		if err := m.state.Wipe(context.Background()); err != nil {
			cmd := m.fail("wipe", err)
			return m, cmd
		}
		applyThemePreference(m.state.Settings().DarkMode)
		m.refreshItems("")
		m.view = viewList
		cmd := m.setFlash("All data wiped", false)
		return m, cmd
	}
	return m, nil
}

// moveCategory shifts the selected category in the display order and saves it.
func (m *appModel) moveCategory(delta int) tea.Cmd {
	rows := append([]list.Item(nil), m.orderList.Items()...)
	i := m.orderList.Index()
	j := i + delta
	if i < 0 || j < 0 || j >= len(rows) {
		return nil
	}
	rows[i], rows[j] = rows[j], rows[i]
	order := make([]string, 0, len(rows))
	for _, r := range rows {
		order = append(order, r.(categoryRow).category.ID)
	}
	if err := m.state.UpdateCategoryOrder(order); err != nil {
		return m.fail("save order", err)
	}
	m.orderList.SetItems(rows)
	m.orderList.Select(j)
	m.refreshItems("")
	return nil
}

func (m appModel) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace", "s":
		m.view = viewList
	case "up", "k", "ctrl+p":
		if m.settingsIdx > 0 {
			m.settingsIdx--
		}
	case "down", "j", "ctrl+n":
		if m.settingsIdx < len(settingRows)-1 {
			m.settingsIdx++
		}
	case "enter", " ":
		return m.activateSetting(settingRows[m.settingsIdx])
	}
	return m, nil
}

func (m appModel) activateSetting(row settingRow) (tea.Model, tea.Cmd) {
	st := m.state.Settings()
	switch row {
	case settingVoiceLanguage:
		cmd := m.openInput(modalVoiceLanguage, st.VoiceLanguage)
		return m, cmd
	case settingDarkMode:
		if err := m.state.UpdateDarkMode(!st.DarkMode); err != nil {
			cmd := m.fail("save dark mode", err)
			return m, cmd
		}
		applyThemePreference(!st.DarkMode)
	case settingWakeLock:
		if err := m.state.UpdateWakeLock(!st.WakeLockEnabled); err != nil {
			cmd := m.fail("save wake lock", err)
			return m, cmd
		}
	case settingAppearance:
		next := nextAppearance()
		setAppearanceProfile(next)
		if m.cfg.TUI == nil {
			m.cfg.TUI = &store.TUIConfig{}
		}
		m.cfg.TUI.Profile = string(next)
		if err := store.SaveConfig(m.cfg); err != nil {
			m.log.Warn("could not save appearance", "err", err)
		}
	case settingCategoryOrder:
		m.modal = modalOrder
		m.orderList.SetItems(categoryRows(st.CategoryOrder))
		m.orderList.Select(0)
		m.resizeLists()
	case settingExport:
		cmd := m.exportBackup()
		return m, cmd
	case settingClearList:
		m.modal = modalConfirmClear
		m.confirmFocus = confirmFocusCancel
	case settingWipe:
		m.modal = modalConfirmWipe
		m.confirmFocus = confirmFocusCancel
	}
	return m, nil
}

func (m *appModel) exportBackup() tea.Cmd {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	b, err := m.store.ExportJSON(ctx)
	if err != nil {
		return m.fail("export", err)
	}
	path := filepath.Join(m.store.Dir, store.BackupFileName(time.Now()))
	if err := store.WriteBackupFile(path, b); err != nil {
		return m.fail("export", err)
	}
	m.log.Info("backup written", "path", path)
	return m.setFlash("Backup written to "+path, false)
}

func (m appModel) updateRecipes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace", "r":
		m.view = viewList
	case "up", "k", "ctrl+p":
		if m.recipeIdx > 0 {
			m.recipeIdx--
		}
	case "down", "j", "ctrl+n":
		if m.recipeIdx < len(m.recipeMeals)-1 {
			m.recipeIdx++
		}
	case "R":
		cmd := m.startRecipes()
		return m, cmd
	case "enter":
		if m.recipeLoading || m.recipeIdx >= len(m.recipeMeals) {
			return m, nil
		}
		cmd := m.lookupMeal(strings.TrimSpace(m.recipeMeals[m.recipeIdx].ID))
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace", "?":
		m.view = viewList
	}
	return m, nil
}
