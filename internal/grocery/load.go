package grocery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"smartshop/internal/categorize"
	"smartshop/internal/model"
	"smartshop/internal/store"
)

// Load reads the three documents independently. A missing or malformed document falls
// back to its default (logged at WARN) and the default is written back so later runs
// see the same data. Defaults never replace a document another writer stored in the
// meantime. Only store I/O failures are returned.
func Load(ctx context.Context, kv KV, opts ...Option) (*State, error) {
	s := newState(kv, opts)
	// Missing documents are seeded only if still absent; bad ones are replaced.
	missing := map[string][]byte{}
	repaired := map[string][]byte{}
	fallback := func(key string, st docStatus, v any) {
		if st == docMissing {
			missing[key] = mustJSON(v)
		} else {
			repaired[key] = mustJSON(v)
		}
	}

	overrides, st, err := loadDoc[map[string]string](ctx, s, store.KeyOverrides, nil)
	if err != nil {
		return nil, err
	}
	if st != docOK || overrides == nil {
		overrides = map[string]string{}
		fallback(store.KeyOverrides, st, overrides)
	}
	s.overrides = normalizeOverrideKeys(overrides)

	items, st, err := loadDoc[[]model.Item](ctx, s, store.KeyItems, nil)
	if err != nil {
		return nil, err
	}
	if st != docOK || items == nil {
		items, err = SeedItems(s.cat)
		if err != nil {
			return nil, err
		}
		fallback(store.KeyItems, st, items)
	}
	for i := range items {
		// Re-bind to the catalog so a stale or unknown ref can't leak out.
		items[i].Category = model.RefOf(items[i].Category.Category())
	}
	s.items = items

	settings, st, err := loadDoc[model.Settings](ctx, s, store.KeySettings, model.DefaultSettings())
	if err != nil {
		return nil, err
	}
	if st != docOK {
		settings = model.DefaultSettings()
		fallback(store.KeySettings, st, settings)
	}
	if settings.CategoryOrder == nil {
		settings.CategoryOrder = model.DefaultSettings().CategoryOrder
	}
	s.settings = settings

	if len(missing) > 0 {
		if err := kv.PutMissing(ctx, missing); err != nil {
			s.log.Warn("could not write default documents", "err", err)
		}
	}
	if len(repaired) > 0 {
		if err := kv.PutMany(ctx, repaired); err != nil {
			s.log.Warn("could not replace unreadable documents", "err", err)
		}
	}
	return s, nil
}

// normalizeOverrideKeys rewrites keys into Normalize form. On a collision the key that
// was already normalized wins.
func normalizeOverrideKeys(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		nk := categorize.Normalize(k)
		if nk == "" {
			continue
		}
		if _, taken := out[nk]; taken && k != nk {
			continue
		}
		out[nk] = v
	}
	return out
}

type docStatus int

const (
	docOK docStatus = iota
	docMissing
	// docBad covers null and malformed documents.
	docBad
)

// loadDoc decodes one document over init, so fields absent from the document keep
// their init values.
func loadDoc[T any](ctx context.Context, s *State, key string, init T) (T, docStatus, error) {
	var zero T
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		return zero, docMissing, err
	}
	if !found {
		s.log.Debug("document missing; using defaults", "key", key)
		return zero, docMissing, nil
	}
	if string(bytes.TrimSpace(raw)) == "null" {
		s.log.Warn("document is null; using defaults", "key", key)
		return zero, docBad, nil
	}
	v := init
	if err := json.Unmarshal(raw, &v); err != nil {
		s.log.Warn("document malformed; using defaults", "key", key, "err", err)
		return zero, docBad, nil
	}
	return v, docOK, nil
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// SeedItems is the starter list shown on first run, categorized with no overrides.
func SeedItems(cat *categorize.Categorizer) ([]model.Item, error) {
	seed := []struct {
		name, subtitle    string
		completed, urgent bool
	}{
		{"Bananas", "1 bunch • Organic", false, false},
		{"Spinach", "2 bags", false, true},
		{"Avocados", "", false, false},
		{"Almond Milk", "Unsweetened", false, false},
		{"Whole Wheat Bread", "", true, false},
		{"Large Eggs", "", true, false},
	}
	if cat == nil {
		cat = categorize.New()
	}
	out := make([]model.Item, 0, len(seed))
	taken := func(id string) bool {
		for _, it := range out {
			if it.ID == id {
				return true
			}
		}
		return false
	}
	for _, e := range seed {
		id, err := store.NewUniqueID("item", taken)
		if err != nil {
			return nil, err
		}
		out = append(out, model.Item{
			ID:        id,
			Name:      e.name,
			Subtitle:  e.subtitle,
			Category:  model.RefOf(cat.Resolve(e.name, nil)),
			Completed: e.completed,
			Urgent:    e.urgent,
		})
	}
	return out, nil
}

// Wipe deletes every stored document and resets the state to first-run defaults
// without persisting them.
func (s *State) Wipe(ctx context.Context) error {
	if err := s.kv.Delete(ctx, store.DocumentKeys()...); err != nil {
		return err
	}
	items, err := SeedItems(s.cat)
	if err != nil {
		return fmt.Errorf("wipe: seed list: %w", err)
	}
	s.items = items
	s.overrides = map[string]string{}
	s.settings = model.DefaultSettings()
	s.rev++
	s.log.Info("all data wiped")
	return nil
}
