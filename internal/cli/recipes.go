package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"smartshop/internal/model"
	"smartshop/internal/recipe"
	"smartshop/internal/store"
)

func newRecipesCmd(app *App) *cobra.Command {
	var ingredient string
	var baseURL string

	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Suggest meals for what is on the list (TheMealDB)",
		Long: strings.TrimSpace(`
Suggestions are based on --ingredient, or on the newest active item when omitted.
Use "smartshop recipes add <meal-id>" to put a meal's missing ingredients on the list.
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ing := strings.TrimSpace(ingredient)
			if ing == "" {
				ing = recipe.MainIngredient(st.ActiveItems())
			}
			if ing == "" {
				return writeErr(cmd, errors.New("no active items to base suggestions on (pass --ingredient)"))
			}

			meals, err := recipeClient(app, baseURL).Suggest(cmd.Context(), ing)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": meals,
				"meta": map[string]any{"ingredient": ing},
			})
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <meal-id>",
		Short: "Add a meal's ingredients that are not already on the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			meal, ok, err := recipeClient(app, baseURL).Lookup(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !ok {
				return writeErr(cmd, errNotFound("meal", id))
			}

			added, err := st.AddItems(recipe.MissingIngredients(meal, st.ActiveItems()))
			if err != nil {
				return writeErr(cmd, err)
			}
			if added == nil {
				added = []model.Item{}
			}
			app.logger().Info("recipe ingredients added", "meal", meal.Name, "added", len(added))
			return writeOut(cmd, app, map[string]any{
				"data": added,
				"meta": map[string]any{"meal": meal.Name, "mealId": meal.ID},
			})
		},
	}

	cmd.Flags().StringVar(&ingredient, "ingredient", "", "Ingredient to search by")
	cmd.PersistentFlags().StringVar(&baseURL, "base-url", envOr("SMARTSHOP_RECIPE_URL", ""), "Recipe API root (default: config recipeBaseURL, then TheMealDB)")
	cmd.AddCommand(addCmd)
	return cmd
}

// recipeClient resolves the API root: flag/env, then config.json, then the public default.
func recipeClient(app *App, baseURL string) *recipe.Client {
	if strings.TrimSpace(baseURL) == "" {
		cfg, err := store.LoadConfig()
		if err != nil {
			app.logger().Warn("could not read config", "err", err)
		} else {
			baseURL = cfg.RecipeBaseURL
		}
	}
	return recipe.NewClient(baseURL)
}
