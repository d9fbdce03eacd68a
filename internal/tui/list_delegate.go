package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// rowDelegate renders shopping-list rows: bold category headers, one line per item.
type rowDelegate struct{}

func (d rowDelegate) Height() int  { return 1 }
func (d rowDelegate) Spacing() int { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		return
	}
	r, ok := item.(listRow)
	if !ok {
		return
	}

	if r.kind == rowHeader {
		fmt.Fprint(w, styleHeader().Render(fitLine(headerText(r), contentW)))
		return
	}

	it := r.item
	name := it.Name
	if it.Completed {
		name = lipgloss.NewStyle().Strikethrough(true).Render(name)
	}
	parts := []string{"  " + glyphCheckbox(it.Completed), name}
	if sub := strings.TrimSpace(it.Subtitle); sub != "" {
		parts = append(parts, styleMuted().Render(sub))
	}
	if it.Urgent && !it.Completed {
		parts = append(parts, styleUrgent().Render(glyphUrgent()))
	}
	line := fitLine(strings.Join(parts, " "), contentW)

	if index == m.Index() {
		// Strip inner styling so the selection highlight covers the whole row evenly.
		fmt.Fprint(w, styleSelected().Render(xansi.Strip(line)))
		return
	}
	if it.Completed {
		fmt.Fprint(w, styleMuted().Render(line))
		return
	}
	fmt.Fprint(w, line)
}

// compactItemDelegate renders one plain line per entry (category picker, order editor).
type compactItemDelegate struct{}

func (d compactItemDelegate) Height() int  { return 1 }
func (d compactItemDelegate) Spacing() int { return 0 }
func (d compactItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d compactItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		return
	}
	txt := ""
	if t, ok := item.(interface{ Title() string }); ok {
		txt = t.Title()
	} else {
		txt = fmt.Sprint(item)
	}
	line := fitLine(" "+txt, contentW)
	if index == m.Index() {
		fmt.Fprint(w, styleSelected().Render(line))
		return
	}
	fmt.Fprint(w, line)
}
