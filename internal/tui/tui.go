// Package tui is the interactive shopping list.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"smartshop/internal/grocery"
	"smartshop/internal/logging"
	"smartshop/internal/store"
	"smartshop/internal/watch"
)

type Options struct {
	Config *store.GlobalConfig
	Logger *log.Logger

	// State restores the last screen; Run loads it from the store when nil.
	State *store.TUIState
	// Changes delivers on-disk change notifications; Run starts a watcher when nil.
	Changes <-chan struct{}
}

func Run(s store.Store, st *grocery.State, opt Options) error {
	l := logging.OrDiscard(opt.Logger)

	applyColorProfilePreference()
	applyThemePreference(st.Settings().DarkMode)
	applyAppearancePreference(opt.Config)
	applyGlyphPreference(opt.Config)

	if opt.State == nil {
		ts, err := s.LoadTUIState()
		if err != nil {
			l.Warn("could not load tui state", "err", err)
		}
		opt.State = ts
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if opt.Changes == nil {
		w, err := startWatcher(ctx, s.Dir, l)
		if err != nil {
			l.Warn("live reload disabled", "err", err)
		} else {
			defer w.Stop()
			opt.Changes = w.Changes()
		}
	}

	m := newAppModel(s, st, opt)
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if fm, ok := final.(appModel); ok {
		fm.saveTUIState()
	}
	return err
}

// startWatcher watches the store directory for database writes. The watcher is
// released when Start fails.
func startWatcher(ctx context.Context, dir string, l *log.Logger) (*watch.Watcher, error) {
	w, err := watch.New(dir, store.SQLiteFileName, 0, l)
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return nil, err
	}
	return w, nil
}
