// Package recipe suggests meals from TheMealDB based on what is on the list, and turns a
// chosen meal's ingredients into new list entries.
package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"smartshop/internal/grocery"
	"smartshop/internal/model"
)

// DefaultBaseURL is TheMealDB's free API root.
const DefaultBaseURL = "https://www.themealdb.com/api/json/v1/1"

// MaxSuggestions caps how many meals Suggest returns.
const MaxSuggestions = 10

// maxIngredients is how many strIngredientN/strMeasureN slots a meal carries.
const maxIngredients = 20

type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient returns a client for baseURL (empty means DefaultBaseURL) with a 10s timeout.
func NewClient(baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type Summary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Thumb string `json:"thumb,omitempty"`
}

type Ingredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure,omitempty"`
}

type Meal struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Category     string       `json:"category,omitempty"`
	Area         string       `json:"area,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
	Source       string       `json:"source,omitempty"`
	Ingredients  []Ingredient `json:"ingredients"`
}

// Suggest lists up to MaxSuggestions meals that use ingredient. No match is an empty slice.
func (c *Client) Suggest(ctx context.Context, ingredient string) ([]Summary, error) {
	ingredient = strings.ToLower(strings.TrimSpace(ingredient))
	if ingredient == "" {
		return []Summary{}, nil
	}
	var resp struct {
		Meals []struct {
			ID    string `json:"idMeal"`
			Name  string `json:"strMeal"`
			Thumb string `json:"strMealThumb"`
		} `json:"meals"`
	}
	if err := c.getJSON(ctx, "/filter.php?i="+url.QueryEscape(ingredient), &resp); err != nil {
		return nil, err
	}
	out := []Summary{}
	for _, m := range resp.Meals {
		if len(out) == MaxSuggestions {
			break
		}
		out = append(out, Summary{ID: m.ID, Name: m.Name, Thumb: m.Thumb})
	}
	return out, nil
}

// Lookup fetches one meal with its ingredient list. ok is false when the id is unknown.
func (c *Client) Lookup(ctx context.Context, mealID string) (Meal, bool, error) {
	mealID = strings.TrimSpace(mealID)
	if mealID == "" {
		return Meal{}, false, nil
	}
	var resp struct {
		Meals []map[string]any `json:"meals"`
	}
	if err := c.getJSON(ctx, "/lookup.php?i="+url.QueryEscape(mealID), &resp); err != nil {
		return Meal{}, false, err
	}
	if len(resp.Meals) == 0 {
		return Meal{}, false, nil
	}
	raw := resp.Meals[0]
	str := func(k string) string {
		v, _ := raw[k].(string)
		return strings.TrimSpace(v)
	}
	m := Meal{
		ID:           str("idMeal"),
		Name:         str("strMeal"),
		Category:     str("strCategory"),
		Area:         str("strArea"),
		Instructions: str("strInstructions"),
		Source:       str("strSource"),
		Ingredients:  []Ingredient{},
	}
	for i := 1; i <= maxIngredients; i++ {
		name := str("strIngredient" + strconv.Itoa(i))
		if name == "" {
			continue
		}
		m.Ingredients = append(m.Ingredients, Ingredient{Name: name, Measure: str("strMeasure" + strconv.Itoa(i))})
	}
	return m, true, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("recipe request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("recipe service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode recipe response: %w", err)
	}
	return nil
}

// MainIngredient is the ingredient suggestions are based on: the newest active item.
func MainIngredient(active []model.Item) string {
	if len(active) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(active[0].Name))
}

// MissingIngredients converts a meal's ingredients to list entries, skipping anything
// already on the active list (case-insensitive name match). Measures become subtitles.
func MissingIngredients(meal Meal, active []model.Item) []grocery.NewItem {
	have := map[string]bool{}
	for _, it := range active {
		have[strings.ToLower(strings.TrimSpace(it.Name))] = true
	}
	out := []grocery.NewItem{}
	for _, ing := range meal.Ingredients {
		key := strings.ToLower(ing.Name)
		if have[key] {
			continue
		}
		have[key] = true
		out = append(out, grocery.NewItem{Name: ing.Name, Subtitle: ing.Measure})
	}
	return out
}
