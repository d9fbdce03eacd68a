package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"smartshop/internal/docs"
	"smartshop/internal/publish"
)

func newDocsCmd(app *App) *cobra.Command {
	var raw bool
	var render bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show built-in documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"topics": docs.Topics()}})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `smartshop docs` to list topics)", topic))
			}

			if render {
				_, err := fmt.Fprint(cmd.OutOrStdout(), publish.Render(body, 80, publish.StyleFor(true)))
				return err
			}
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}

			return writeOut(cmd, app, map[string]any{"data": map[string]any{"topic": topic, "markdown": body}})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no envelope)")
	cmd.Flags().BoolVar(&render, "render", false, "Render markdown for the terminal")

	return cmd
}
