// Package grocery owns the shopping list, the learned category overrides and the user's
// settings. Every mutation writes through to the KV store before returning.
package grocery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"smartshop/internal/catalog"
	"smartshop/internal/categorize"
	"smartshop/internal/logging"
	"smartshop/internal/model"
	"smartshop/internal/store"
)

// KV is the document store the state persists to. store.Store satisfies it.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	PutMany(ctx context.Context, docs map[string][]byte) error
	// PutMissing stores only the documents whose keys are absent.
	PutMissing(ctx context.Context, docs map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
}

// State is the single writer for items, overrides and settings. It is not safe for
// concurrent use; outer layers serialize calls (the TUI update loop, one CLI command).
type State struct {
	kv  KV
	log *log.Logger
	cat *categorize.Categorizer

	items     []model.Item
	overrides map[string]string
	settings  model.Settings

	rev uint64
}

type Option func(*State)

func WithLogger(l *log.Logger) Option {
	return func(s *State) { s.log = l }
}

func WithCategorizer(c *categorize.Categorizer) Option {
	return func(s *State) { s.cat = c }
}

func newState(kv KV, opts []Option) *State {
	s := &State{kv: kv, overrides: map[string]string{}, settings: model.DefaultSettings()}
	for _, o := range opts {
		o(s)
	}
	s.log = logging.OrDiscard(s.log)
	if s.cat == nil {
		s.cat = categorize.New()
	}
	return s
}

// Revision counts the writes and wipes made through this state.
func (s *State) Revision() uint64 {
	return s.rev
}

// Items returns every item, newest first.
func (s *State) Items() []model.Item {
	return append([]model.Item(nil), s.items...)
}

// Item looks up an item by id.
func (s *State) Item(id string) (model.Item, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return model.Item{}, false
}

// Overrides returns a copy of the learned name -> category id map.
func (s *State) Overrides() map[string]string {
	out := make(map[string]string, len(s.overrides))
	for k, v := range s.overrides {
		out[k] = v
	}
	return out
}

func (s *State) Settings() model.Settings {
	return s.settings.Clone()
}

// Resolve categorizes name with the current overrides.
func (s *State) Resolve(name string) catalog.Category {
	return s.cat.Resolve(name, s.overrides)
}

// Explain is Resolve with the resolution path.
func (s *State) Explain(name string) categorize.Resolution {
	return s.cat.Explain(name, s.overrides)
}

// Preview is the live categorization shown while typing. ok is false for blank text.
func (s *State) Preview(text string) (catalog.Category, bool) {
	if strings.TrimSpace(text) == "" {
		return catalog.Category{}, false
	}
	return s.Resolve(text), true
}

func (s *State) indexOf(id string) int {
	id = strings.TrimSpace(id)
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) idTaken(id string) bool {
	return s.indexOf(id) >= 0
}

func encodeDocs(items []model.Item, overrides map[string]string, settings *model.Settings) (map[string][]byte, error) {
	docs := map[string][]byte{}
	if items != nil {
		b, err := json.Marshal(items)
		if err != nil {
			return nil, fmt.Errorf("encode items: %w", err)
		}
		docs[store.KeyItems] = b
	}
	if overrides != nil {
		b, err := json.Marshal(overrides)
		if err != nil {
			return nil, fmt.Errorf("encode overrides: %w", err)
		}
		docs[store.KeyOverrides] = b
	}
	if settings != nil {
		b, err := json.Marshal(settings)
		if err != nil {
			return nil, fmt.Errorf("encode settings: %w", err)
		}
		docs[store.KeySettings] = b
	}
	return docs, nil
}

func (s *State) write(items []model.Item, overrides map[string]string, settings *model.Settings) error {
	docs, err := encodeDocs(items, overrides, settings)
	if err != nil {
		return err
	}
	if err := s.kv.PutMany(context.Background(), docs); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	s.rev++
	return nil
}
