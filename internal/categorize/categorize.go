// Package categorize resolves free-text item names to catalog categories.
//
// Resolution order: a user override for the normalized name, then the best approximate
// keyword match across the whole catalog, then the same two steps for the name with a
// trailing "s" removed, and finally the Other category.
package categorize

import (
	"math"
	"strings"

	"smartshop/internal/catalog"
)

// Normalize returns the canonical override key for an item name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type Method string

const (
	MethodOverride Method = "override"
	MethodFuzzy    Method = "fuzzy"
	MethodFallback Method = "fallback"
)

// Resolution describes how a name was resolved.
type Resolution struct {
	Category catalog.Category `json:"-"`
	// CategoryID mirrors Category.ID for output.
	CategoryID string `json:"categoryId"`
	Method     Method `json:"method"`
	// Key is the normalized name that produced the result (the singular form when Plural).
	Key    string `json:"key"`
	Plural bool   `json:"plural"`
	// Keyword and Score are set for fuzzy matches. Score is weighted; lower is better.
	Keyword string  `json:"keyword,omitempty"`
	Score   float64 `json:"score,omitempty"`
}

type corpusEntry struct {
	category catalog.Category
	keyword  string
	norm     float64
}

// Categorizer is immutable after New and safe for concurrent use.
type Categorizer struct {
	matcher Matcher
	corpus  []corpusEntry
}

// New builds a categorizer over the static catalog, scoring with DefaultMatcher.
func New() *Categorizer {
	return NewWithMatcher(DefaultMatcher())
}

func NewWithMatcher(m Matcher) *Categorizer {
	c := &Categorizer{matcher: m}
	for _, cat := range catalog.Categories() {
		for _, kw := range cat.Keywords {
			c.corpus = append(c.corpus, corpusEntry{category: cat, keyword: kw, norm: fieldNorm(kw)})
		}
	}
	return c
}

// Resolve returns the category for name. It never fails; no match yields Other.
func (c *Categorizer) Resolve(name string, overrides map[string]string) catalog.Category {
	return c.Explain(name, overrides).Category
}

// Explain is Resolve with the resolution path attached.
func (c *Categorizer) Explain(name string, overrides map[string]string) Resolution {
	key := Normalize(name)
	if r, ok := c.attempt(key, overrides); ok {
		return r
	}
	if strings.HasSuffix(key, "s") {
		if r, ok := c.attempt(strings.TrimSuffix(key, "s"), overrides); ok {
			r.Plural = true
			return r
		}
	}
	other := catalog.Other()
	return Resolution{Category: other, CategoryID: other.ID, Method: MethodFallback, Key: key}
}

func (c *Categorizer) attempt(key string, overrides map[string]string) (Resolution, bool) {
	if id, ok := overrides[key]; ok {
		if cat, ok := catalog.Lookup(id); ok {
			return Resolution{Category: cat, CategoryID: cat.ID, Method: MethodOverride, Key: key}, true
		}
	}

	best := -1
	bestScore := 0.0
	for i, e := range c.corpus {
		s, ok := c.matcher.Score(key, e.keyword)
		if !ok {
			continue
		}
		s = weigh(s, e.norm)
		// Strictly better only: earlier corpus entries win ties.
		if best < 0 || s < bestScore {
			best = i
			bestScore = s
		}
	}
	if best < 0 {
		return Resolution{}, false
	}
	e := c.corpus[best]
	return Resolution{
		Category:   e.category,
		CategoryID: e.category.ID,
		Method:     MethodFuzzy,
		Key:        key,
		Keyword:    e.keyword,
		Score:      bestScore,
	}, true
}

// fieldNorm penalizes multi-word keywords: 1/sqrt(tokens), rounded to 3 decimals.
func fieldNorm(keyword string) float64 {
	n := len(strings.Fields(keyword))
	if n == 0 {
		n = 1
	}
	return math.Round(1/math.Sqrt(float64(n))*1000) / 1000
}

func weigh(score, norm float64) float64 {
	if score == 0 {
		score = epsilon
	}
	return math.Pow(score, norm)
}

// epsilon is the float64 machine epsilon (2^-52).
const epsilon = 2.220446049250313e-16

var std = New()

// Resolve resolves name with the default categorizer.
func Resolve(name string, overrides map[string]string) catalog.Category {
	return std.Resolve(name, overrides)
}

// Explain explains name with the default categorizer.
func Explain(name string, overrides map[string]string) Resolution {
	return std.Explain(name, overrides)
}
