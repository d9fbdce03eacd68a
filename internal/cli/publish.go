package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"smartshop/internal/publish"
)

func newPublishCmd(app *App) *cobra.Command {
	var out string
	var title string
	var includeCompleted bool
	var overwrite bool
	var render bool
	var asHTML bool
	var width int

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Render the list as a Markdown checklist (derived, not a backup)",
		Long: strings.TrimSpace(`
Without --out the Markdown is printed to stdout (no envelope). --render formats it for the
terminal using the light or dark style from settings. --html produces a printable page instead.
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			settings := st.Settings()
			md := publish.RenderListMarkdown(st.Items(), settings.CategoryOrder, publish.RenderOptions{
				Title:            title,
				IncludeCompleted: includeCompleted,
			})

			if render && asHTML {
				return writeErr(cmd, fmt.Errorf("--render and --html are mutually exclusive"))
			}
			if asHTML {
				md, err = publish.RenderHTML(md, title, settings.VoiceLanguage)
				if err != nil {
					return writeErr(cmd, err)
				}
			}

			out = strings.TrimSpace(out)
			if out == "" {
				if render {
					md = publish.Render(md, width, publish.StyleFor(settings.DarkMode))
				}
				_, err := fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}
			if render {
				return writeErr(cmd, fmt.Errorf("--render only applies to terminal output (drop --out)"))
			}
			res, err := publish.WriteMarkdown(out, md, publish.WriteOptions{Overwrite: overwrite})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&title, "title", "", `Heading (default: "Shopping list")`)
	cmd.Flags().BoolVar(&includeCompleted, "include-completed", false, "Append completed items")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing file")
	cmd.Flags().BoolVar(&render, "render", false, "Render for the terminal")
	cmd.Flags().BoolVar(&asHTML, "html", false, "Emit a standalone HTML page")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for --render")
	return cmd
}
