// Package catalog holds the fixed set of grocery categories and their keyword corpus.
package catalog

import "strings"

// OtherID is the id of the catch-all category.
const OtherID = "other"

type Category struct {
	ID       string
	Name     string
	Emoji    string
	Keywords []string
}

// Label renders "<emoji> <name>".
func (c Category) Label() string {
	return c.Emoji + " " + c.Name
}

// IsOther reports whether c is the catch-all category.
func (c Category) IsOther() bool { return c.ID == OtherID }

var categories = []Category{
	{ID: "produce", Name: "Produce", Emoji: "🍎", Keywords: []string{"tomato", "potato", "onion", "garlic", "lettuce", "broccoli", "apple", "banana", "grape", "berry", "herbs", "spinach", "cucumber"}},
	{ID: "dairy-eggs", Name: "Dairy & Eggs", Emoji: "🥛", Keywords: []string{"milk", "yogurt", "cheese", "butter", "egg", "cream", "margarine", "sour cream"}},
	{ID: "meat-seafood", Name: "Meat & Seafood", Emoji: "🥩", Keywords: []string{"chicken", "beef", "pork", "salmon", "prawn", "fish", "steak", "sausage", "bacon"}},
	{ID: "bakery", Name: "Bakery", Emoji: "🍞", Keywords: []string{"bread", "bun", "croissant", "muffin", "cake", "baguette", "pita"}},
	{ID: "pantry", Name: "Pantry", Emoji: "🥫", Keywords: []string{"rice", "pasta", "flour", "sugar", "salt", "oil", "honey", "canned soup", "soy sauce", "oats", "cereal"}},
	{ID: "beverages", Name: "Beverages", Emoji: "🥤", Keywords: []string{"coffee", "tea", "soda", "juice", "water", "beer", "wine"}},
	{ID: "household", Name: "Household", Emoji: "🧽", Keywords: []string{"tissue", "detergent", "soap", "bleach", "battery", "sponge", "foil"}},
}

var other = Category{ID: OtherID, Name: "Other", Emoji: "🛒"}

// Categories returns the keyword-bearing categories in declared order.
// The returned slice is a copy; Keywords slices are shared and must not be mutated.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Other returns the catch-all category.
func Other() Category { return other }

// All returns Categories() followed by Other.
func All() []Category {
	return append(Categories(), other)
}

// Lookup finds a category by id, including Other.
func Lookup(id string) (Category, bool) {
	id = strings.TrimSpace(id)
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	if id == OtherID {
		return other, true
	}
	return Category{}, false
}

// MustLookup returns the category for id, or Other when id is unknown.
func MustLookup(id string) Category {
	if c, ok := Lookup(id); ok {
		return c
	}
	return other
}

// DefaultOrder is the display order used when the user hasn't customized it.
func DefaultOrder() []string {
	out := make([]string, 0, len(categories)+1)
	for _, c := range categories {
		out = append(out, c.ID)
	}
	return append(out, OtherID)
}

// Ordered resolves a user-provided display order against the catalog.
//
// Unknown and duplicate ids are dropped. Categories missing from order are appended in
// their default order.
func Ordered(order []string) []Category {
	seen := map[string]bool{}
	out := make([]Category, 0, len(categories)+1)
	for _, id := range order {
		c, ok := Lookup(id)
		if !ok || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	for _, c := range All() {
		if !seen[c.ID] {
			out = append(out, c)
		}
	}
	return out
}
