package cli

import (
	"errors"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"smartshop/internal/catalog"
)

type categoryOut struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Emoji    string   `json:"emoji"`
	Keywords []string `json:"keywords"`
}

func toCategoryOut(c catalog.Category) categoryOut {
	kws := c.Keywords
	if kws == nil {
		kws = []string{}
	}
	return categoryOut{ID: c.ID, Name: c.Name, Emoji: c.Emoji, Keywords: kws}
}

func newCategorizeCmd(app *App) *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "categorize <text>",
		Short: "Preview the category a name would get (nothing is saved)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			text := strings.Join(args, " ")
			c, ok := st.Preview(text)
			if !ok {
				return writeErr(cmd, errors.New("text is blank"))
			}
			if explain {
				return writeOut(cmd, app, map[string]any{
					"data": map[string]any{
						"category":   toCategoryOut(c),
						"resolution": st.Explain(text),
					},
				})
			}
			return writeOut(cmd, app, map[string]any{"data": toCategoryOut(c)})
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "Include how the category was chosen (override, fuzzy keyword or fallback)")
	return cmd
}

func newCategoriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ordered := catalog.Ordered(st.Settings().CategoryOrder)
			out := make([]categoryOut, 0, len(ordered))
			for _, c := range ordered {
				out = append(out, toCategoryOut(c))
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
}

func newOverridesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overrides",
		Short: "Learned name → category overrides",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List overrides (sorted by name)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			overrides := st.Overrides()
			names := make([]string, 0, len(overrides))
			for name := range overrides {
				names = append(names, name)
			}
			sort.Strings(names)

			type overrideOut struct {
				Name       string `json:"name"`
				CategoryID string `json:"categoryId"`
				Known      bool   `json:"known"`
			}
			out := make([]overrideOut, 0, len(names))
			for _, name := range names {
				_, known := catalog.Lookup(overrides[name])
				out = append(out, overrideOut{Name: name, CategoryID: overrides[name], Known: known})
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	})

	return cmd
}
