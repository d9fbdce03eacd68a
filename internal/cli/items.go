package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"smartshop/internal/model"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Shopping list commands",
	}

	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsShowCmd(app))
	cmd.AddCommand(newItemsToggleCmd(app))
	cmd.AddCommand(newItemsCategoryCmd(app))
	cmd.AddCommand(newItemsClearCmd(app))

	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var active bool
	var completed bool
	var grouped bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items (newest first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if active && completed {
				return writeErr(cmd, errors.New("--active and --completed are mutually exclusive"))
			}
			st, _, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}

			if grouped {
				if completed {
					return writeErr(cmd, errors.New("--grouped only applies to active items"))
				}
				groups := st.Grouped()
				return writeOut(cmd, app, map[string]any{
					"data": groups,
					"meta": map[string]any{"remaining": len(st.ActiveItems())},
				})
			}

			var items []model.Item
			switch {
			case active:
				items = st.ActiveItems()
			case completed:
				items = st.CompletedItems()
			default:
				items = st.Items()
			}
			return writeOut(cmd, app, map[string]any{
				"data": items,
				"meta": map[string]any{"remaining": len(st.ActiveItems()), "total": len(st.Items())},
			})
		},
	}

	cmd.Flags().BoolVar(&active, "active", false, "Only items not yet completed")
	cmd.Flags().BoolVar(&completed, "completed", false, "Only completed items")
	cmd.Flags().BoolVar(&grouped, "grouped", false, "Group active items by category in display order")
	return cmd
}

func newItemsAddCmd(app *App) *cobra.Command {
	var subtitle string
	var spoken bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an item (category is picked automatically)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			text := strings.Join(args, " ")

			if spoken {
				if strings.TrimSpace(subtitle) != "" {
					return writeErr(cmd, errors.New("--subtitle cannot be combined with --spoken"))
				}
				added, err := st.AddSpoken(text)
				if err != nil {
					return writeErr(cmd, err)
				}
				if added == nil {
					added = []model.Item{}
				}
				return writeOut(cmd, app, map[string]any{"data": added})
			}

			it, ok, err := st.AddItem(text, subtitle)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !ok {
				return writeErr(cmd, errors.New("item name is blank"))
			}
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}

	cmd.Flags().StringVar(&subtitle, "subtitle", "", "Free-form note (quantity, brand, ...)")
	cmd.Flags().BoolVar(&spoken, "spoken", false, `Treat the text as dictation and split it on "and"`)
	return cmd
}

func newItemsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show an item and how its name resolves",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			it, ok := st.Item(id)
			if !ok {
				return writeErr(cmd, errNotFound("item", id))
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"item":       it,
					"resolution": st.Explain(it.Name),
				},
			})
		},
	}
}

func newItemsToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <item-id>",
		Short: "Mark an item completed (or active again)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			it, ok, err := st.ToggleComplete(id)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !ok {
				return writeErr(cmd, errNotFound("item", id))
			}
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}
}

func newItemsCategoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "category <item-id> <category-id>",
		Short: "Move an item to a category and remember it for that name",
		Long: strings.TrimSpace(`
Moves the item and records an override for its (lowercased) name, so items with the
same name land in the chosen category from now on. Every item on the list, including
completed ones, is re-categorized against the updated overrides.

Run "smartshop categories" for the valid category ids.
`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			categoryID := strings.TrimSpace(args[1])
			it, ok, err := st.UpdateItemCategory(id, categoryID)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !ok {
				return writeErr(cmd, errNotFound("item", id))
			}
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}
}

func newItemsClearCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every item (learned categories and settings are kept)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errConfirmRequired("items clear"))
			}
			st, _, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			removed := len(st.Items())
			if err := st.ClearAll(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"removed": removed}})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm")
	return cmd
}
