package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"smartshop/internal/format"
	"smartshop/internal/grocery"
	"smartshop/internal/logging"
	"smartshop/internal/store"
	"smartshop/internal/tui"
)

type App struct {
	Dir        string
	PrettyJSON bool
	Format     string
	LogLevel   string

	log *log.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "smartshop",
		Short:        "Smartshop: a categorized shopping list (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  smartshop

  # Scriptable commands
  smartshop items add "Bananas" --subtitle "1 bunch"
  smartshop items list --grouped

  # See where a name would land
  smartshop categorize "oat milk" --explain

  # Direct item lookup (shortcut for: smartshop items show <item-id>)
  smartshop item-k3j9x2qa
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(cmd.ErrOrStderr(), app.LogLevel)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.log = l
		app.Format = strings.ToLower(strings.TrimSpace(app.Format))
		switch app.Format {
		case "json", "edn", "yaml", "yml":
			return nil
		default:
			return writeErr(cmd, fmt.Errorf("unsupported --format %q (expected %s)", app.Format, strings.Join(format.Formats, "|")))
		}
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("SMARTSHOP_DIR", ""), "Path to store dir (default: ~/.smartshop)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("SMARTSHOP_FORMAT", "json"), "Output format (json|edn|yaml)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("SMARTSHOP_LOG_LEVEL", "warn"), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newCategorizeCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newOverridesCmd(app))
	cmd.AddCommand(newSettingsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newWipeCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newRecipesCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	s, err := openStore(app)
	if err != nil {
		return err
	}
	// The alt screen owns the terminal; log to a file instead of stderr.
	l, closer, err := logging.NewFile(s.Dir, app.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	st, err := grocery.Load(context.Background(), s, grocery.WithLogger(l))
	if err != nil {
		return err
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		l.Warn("could not read config; using defaults", "err", err)
		cfg = &store.GlobalConfig{}
	}
	return tui.Run(s, st, tui.Options{Config: cfg, Logger: l})
}

func openStore(app *App) (store.Store, error) {
	dir := strings.TrimSpace(app.Dir)
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return store.Store{}, err
		}
		dir = d
		app.Dir = dir
	}
	s := store.Store{Dir: dir}
	if err := s.Ensure(); err != nil {
		return store.Store{}, err
	}
	return s, nil
}

func loadState(cmd *cobra.Command, app *App) (*grocery.State, store.Store, error) {
	s, err := openStore(app)
	if err != nil {
		return nil, store.Store{}, err
	}
	st, err := grocery.Load(cmd.Context(), s, grocery.WithLogger(app.logger()))
	if err != nil {
		return nil, s, err
	}
	return st, s, nil
}

func (app *App) logger() *log.Logger {
	return logging.OrDiscard(app.log)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
