package grocery

import (
	"strings"

	"smartshop/internal/catalog"
	"smartshop/internal/categorize"
	"smartshop/internal/model"
	"smartshop/internal/store"
)

// NewItem is the input to AddItems.
type NewItem struct {
	Name     string
	Subtitle string
}

// AddItem categorizes name and puts the new item at the head of the list.
// A blank name is ignored: ok is false and nothing is written.
func (s *State) AddItem(name, subtitle string) (model.Item, bool, error) {
	added, err := s.AddItems([]NewItem{{Name: name, Subtitle: subtitle}})
	if err != nil || len(added) == 0 {
		return model.Item{}, false, err
	}
	return added[0], true, nil
}

// AddItems adds each entry as AddItem would, in order, with a single write.
// Blank names are skipped. It returns the items actually added.
func (s *State) AddItems(entries []NewItem) ([]model.Item, error) {
	next := s.Items()
	var added []model.Item
	taken := func(id string) bool {
		for _, it := range next {
			if it.ID == id {
				return true
			}
		}
		return false
	}
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		id, err := store.NewUniqueID("item", taken)
		if err != nil {
			return nil, err
		}
		it := model.Item{
			ID:       id,
			Name:     name,
			Subtitle: strings.TrimSpace(e.Subtitle),
			Category: model.RefOf(s.cat.Resolve(name, s.overrides)),
		}
		next = append([]model.Item{it}, next...)
		added = append(added, it)
	}
	if len(added) == 0 {
		return nil, nil
	}
	if err := s.write(next, nil, nil); err != nil {
		return nil, err
	}
	s.items = next
	for _, it := range added {
		s.log.Debug("item added", "id", it.ID, "name", it.Name, "category", it.Category.ID)
	}
	return added, nil
}

// ToggleComplete flips an item's completed flag. Unknown ids are a no-op (found=false).
func (s *State) ToggleComplete(id string) (model.Item, bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Item{}, false, nil
	}
	next := s.Items()
	next[i].Completed = !next[i].Completed
	if err := s.write(next, nil, nil); err != nil {
		return model.Item{}, true, err
	}
	s.items = next
	return next[i], true, nil
}

// UpdateItemCategory moves an item to categoryID and remembers the choice for its name.
// When categoryID is unknown the item keeps its category. The unknown id is recorded
// only if the name has no usable override yet, so an earlier correction survives.
// Every item is then re-resolved against the overrides, and items plus overrides are
// persisted together. Unknown item ids are a no-op (found=false).
func (s *State) UpdateItemCategory(itemID, categoryID string) (model.Item, bool, error) {
	i := s.indexOf(itemID)
	if i < 0 {
		return model.Item{}, false, nil
	}
	categoryID = strings.TrimSpace(categoryID)

	next := s.Items()
	overrides := s.Overrides()
	key := categorize.Normalize(next[i].Name)
	current := next[i].Category

	c, known := catalog.Lookup(categoryID)
	if known {
		next[i].Category = model.RefOf(c)
		overrides[key] = categoryID
	} else {
		s.log.Warn("unknown category id; keeping current category", "item", itemID, "category", categoryID)
		if _, ok := catalog.Lookup(overrides[key]); !ok {
			overrides[key] = categoryID
		}
	}

	next = s.recategorize(next, overrides)
	if !known {
		next[i].Category = current
	}
	if err := s.write(next, overrides, nil); err != nil {
		return model.Item{}, true, err
	}
	s.items = next
	s.overrides = overrides
	return next[i], true, nil
}

// recategorize re-resolves every item, completed ones included.
func (s *State) recategorize(items []model.Item, overrides map[string]string) []model.Item {
	for i := range items {
		c := s.cat.Resolve(items[i].Name, overrides)
		if items[i].Category.ID != c.ID {
			s.log.Debug("item recategorized", "id", items[i].ID, "from", items[i].Category.ID, "to", c.ID)
		}
		items[i].Category = model.RefOf(c)
	}
	return items
}

// ClearAll removes every item. Overrides and settings are untouched.
func (s *State) ClearAll() error {
	next := []model.Item{}
	if err := s.write(next, nil, nil); err != nil {
		return err
	}
	s.items = next
	return nil
}

// ActiveItems returns the items not yet completed, in list order.
func (s *State) ActiveItems() []model.Item {
	return filter(s.items, func(it model.Item) bool { return !it.Completed })
}

// CompletedItems returns the completed items, in list order.
func (s *State) CompletedItems() []model.Item {
	return filter(s.items, func(it model.Item) bool { return it.Completed })
}

func filter(items []model.Item, keep func(model.Item) bool) []model.Item {
	out := []model.Item{}
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// Group is one category section of the active list.
type Group struct {
	Category catalog.Category `json:"-"`
	ID       string           `json:"id"`
	Label    string           `json:"label"`
	Items    []model.Item     `json:"items"`
}

// Grouped buckets the active items by category in the user's display order.
// Empty categories are omitted.
func (s *State) Grouped() []Group {
	return GroupItems(s.ActiveItems(), s.settings.CategoryOrder)
}

// GroupItems buckets items by category id following order (see catalog.Ordered).
func GroupItems(items []model.Item, order []string) []Group {
	byID := map[string][]model.Item{}
	for _, it := range items {
		id := it.Category.Category().ID
		byID[id] = append(byID[id], it)
	}
	var out []Group
	for _, c := range catalog.Ordered(order) {
		if len(byID[c.ID]) == 0 {
			continue
		}
		out = append(out, Group{Category: c, ID: c.ID, Label: c.Label(), Items: byID[c.ID]})
	}
	if out == nil {
		out = []Group{}
	}
	return out
}
