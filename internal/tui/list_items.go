package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"smartshop/internal/catalog"
	"smartshop/internal/grocery"
	"smartshop/internal/model"
)

type rowKind int

const (
	rowHeader rowKind = iota
	rowItem
)

// listRow is one line of the shopping list: a category header or an item under it.
type listRow struct {
	kind   rowKind
	header string
	count  int
	item   model.Item
}

func (r listRow) FilterValue() string {
	if r.kind == rowHeader {
		return ""
	}
	return r.item.Name
}

func (r listRow) selectable() bool { return r.kind == rowItem }

// buildRows renders the active items grouped in display order, followed by a
// "Completed" section when showCompleted is set.
func buildRows(st *grocery.State, showCompleted bool) []list.Item {
	var rows []list.Item
	for _, g := range st.Grouped() {
		rows = append(rows, listRow{kind: rowHeader, header: g.Label, count: len(g.Items)})
		for _, it := range g.Items {
			rows = append(rows, listRow{kind: rowItem, item: it})
		}
	}
	if showCompleted {
		done := st.CompletedItems()
		if len(done) > 0 {
			rows = append(rows, listRow{kind: rowHeader, header: "✓ Completed", count: len(done)})
			for _, it := range done {
				rows = append(rows, listRow{kind: rowItem, item: it})
			}
		}
	}
	return rows
}

// categoryRow is an entry in the category picker and the order editor.
type categoryRow struct {
	category catalog.Category
}

func (r categoryRow) FilterValue() string { return r.category.Name }
func (r categoryRow) Title() string       { return r.category.Label() }

func categoryRows(order []string) []list.Item {
	var rows []list.Item
	for _, c := range catalog.Ordered(order) {
		rows = append(rows, categoryRow{category: c})
	}
	return rows
}

func newList(title string, items []list.Item, d list.ItemDelegate) list.Model {
	l := list.New(items, d, 0, 0)
	l.Title = title
	// We render our own header + footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("item", "items")
	// Bubble list defaults to quitting on ESC; here ESC is "back/cancel".
	l.KeyMap.Quit.SetKeys("q")
	l.KeyMap.ForceQuit.SetKeys("ctrl+c")
	// Emacs-style navigation aliases.
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	l.KeyMap.CursorUp.SetKeys(append(cursorUpKeys, "ctrl+p")...)
	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	l.KeyMap.CursorDown.SetKeys(append(cursorDownKeys, "ctrl+n")...)
	return l
}

// selectedItem returns the item under the cursor, if the cursor is on an item row.
func selectedItem(l list.Model) (model.Item, bool) {
	r, ok := l.SelectedItem().(listRow)
	if !ok || !r.selectable() {
		return model.Item{}, false
	}
	return r.item, true
}

// selectItemID moves the cursor to id, or to the first item row when id is gone.
func selectItemID(l *list.Model, id string) {
	rows := l.Items()
	first := -1
	for i, it := range rows {
		r, ok := it.(listRow)
		if !ok || !r.selectable() {
			continue
		}
		if first < 0 {
			first = i
		}
		if id != "" && r.item.ID == id {
			l.Select(i)
			return
		}
	}
	if first >= 0 {
		l.Select(first)
	}
}

// moveCursor steps the cursor by delta (+1/-1), skipping header rows. It stays put
// when there is no item row in that direction.
func moveCursor(l *list.Model, delta int) {
	rows := l.Items()
	for i := l.Index() + delta; i >= 0 && i < len(rows); i += delta {
		if r, ok := rows[i].(listRow); ok && r.selectable() {
			l.Select(i)
			return
		}
	}
}

func headerText(r listRow) string {
	return fmt.Sprintf("%s (%d)", r.header, r.count)
}
