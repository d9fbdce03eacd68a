package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"smartshop/internal/grocery"
	"smartshop/internal/store"
)

func newExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export items, learned categories and settings as a JSON backup",
		Long: strings.TrimSpace(`
Without --out the backup is printed to stdout as-is (no envelope), so it can be piped.
When --out is a directory, the file is named smartshop_backup_YYYY-MM-DD.json.
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := s.ExportJSON(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}

			out = strings.TrimSpace(out)
			if out == "" || out == "-" {
				if _, err := cmd.OutOrStdout().Write(append(b, '\n')); err != nil {
					return writeErr(cmd, err)
				}
				return nil
			}
			if fi, err := os.Stat(out); err == nil && fi.IsDir() {
				out = filepath.Join(out, store.BackupFileName(time.Now()))
			}
			if err := store.WriteBackupFile(out, b); err != nil {
				return writeErr(cmd, err)
			}
			app.logger().Info("backup written", "path", out, "bytes", len(b))
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"path": out, "bytes": len(b)}})
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output file or directory (default: stdout)")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Restore a JSON backup (documents present in the file replace the stored ones)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				b   []byte
				err error
			)
			if args[0] == "-" {
				b, err = io.ReadAll(cmd.InOrStdin())
			} else {
				b, err = os.ReadFile(args[0])
			}
			if err != nil {
				return writeErr(cmd, err)
			}

			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			keys, err := s.Import(cmd.Context(), b)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("import %s: %w", args[0], err))
			}

			// Reload so derived state (category refs, defaults) reflects the new documents.
			st, err := grocery.Load(cmd.Context(), s, grocery.WithLogger(app.logger()))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"imported":  keys,
					"items":     len(st.Items()),
					"overrides": len(st.Overrides()),
				},
			})
		},
	}
}

func newWipeCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete all items, learned categories and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errConfirmRequired("wipe"))
			}
			st, _, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := st.Wipe(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"wiped": store.DocumentKeys()}})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm")
	return cmd
}
