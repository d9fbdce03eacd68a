package main

import (
	"os"
	"strings"

	"smartshop/internal/cli"
	"smartshop/internal/store"
)

func rewriteDirectItemLookupArgs(argv []string) []string {
	// Convenience: `smartshop <item-id>` works like `smartshop items show <item-id>`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (e.g. `smartshop --dir ... <item-id>`), so we look for
	// the first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":       true,
		"--format":    true,
		"--log-level": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && store.LooksLikeItemID(argv[i+1]) {
				return insertShow(argv, i+1)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			// --flag=value form
			if strings.Contains(a, "=") {
				continue
			}
			if boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++ // skip value if present
				continue
			}
			continue
		}

		// First positional token.
		if store.LooksLikeItemID(a) {
			return insertShow(argv, i)
		}
		return argv
	}

	return argv
}

func insertShow(argv []string, at int) []string {
	out := make([]string, 0, len(argv)+2)
	out = append(out, argv[:at]...)
	out = append(out, "items", "show")
	return append(out, argv[at:]...)
}

func main() {
	os.Args = rewriteDirectItemLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
