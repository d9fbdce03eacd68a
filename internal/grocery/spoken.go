package grocery

import (
	"regexp"
	"strings"

	"smartshop/internal/model"
)

var spokenSeparator = regexp.MustCompile(`(?i)\band\b`)

// SplitSpoken turns dictated text like "milk and eggs and bread" into separate item
// names. Only the whole word "and" splits; "candy" stays intact.
func SplitSpoken(text string) []string {
	var out []string
	for _, part := range spokenSeparator.Split(text, -1) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// AddSpoken splits text with SplitSpoken and adds every part.
func (s *State) AddSpoken(text string) ([]model.Item, error) {
	var entries []NewItem
	for _, name := range SplitSpoken(text) {
		entries = append(entries, NewItem{Name: name})
	}
	return s.AddItems(entries)
}
