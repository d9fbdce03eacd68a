package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"smartshop/internal/catalog"
	"smartshop/internal/grocery"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": st.Settings()})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "voice-language <bcp47-tag>",
		Short: "Set the dictation language (e.g. en-SG, zh-CN)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := grocery.CanonicalLanguageTag(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return updateSettings(cmd, app, func(st *grocery.State) error {
				return st.UpdateVoiceLanguage(tag)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "order <category-id,...>",
		Short: "Set the category display order (missing categories keep their default position at the end)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := parseCategoryOrder(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return updateSettings(cmd, app, func(st *grocery.State) error {
				return st.UpdateCategoryOrder(order)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "wake-lock <on|off>",
		Short: "Keep the screen awake while shopping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseToggle(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return updateSettings(cmd, app, func(st *grocery.State) error {
				return st.UpdateWakeLock(on)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "dark-mode <on|off>",
		Short: "Use the dark theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseToggle(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return updateSettings(cmd, app, func(st *grocery.State) error {
				return st.UpdateDarkMode(on)
			})
		},
	})

	return cmd
}

func updateSettings(cmd *cobra.Command, app *App, apply func(*grocery.State) error) error {
	st, _, err := loadState(cmd, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	if err := apply(st); err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, map[string]any{"data": st.Settings()})
}

// parseCategoryOrder splits a comma-separated id list, rejecting unknown or repeated ids.
func parseCategoryOrder(s string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	for _, part := range strings.Split(s, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		if _, ok := catalog.Lookup(id); !ok {
			return nil, errNotFound("category", id)
		}
		if seen[id] {
			return nil, fmt.Errorf("category listed twice: %s", id)
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("missing category ids")
	}
	return out, nil
}

func parseToggle(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes", "enable", "enabled":
		return true, nil
	case "off", "no", "disable", "disabled":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("expected on|off (or true|false), got %q", s)
	}
	return b, nil
}
