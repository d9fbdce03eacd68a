package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

type WriteOptions struct {
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteMarkdown writes md to path, refusing to replace an existing file unless asked.
func WriteMarkdown(path, md string, opt WriteOptions) (WriteResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return WriteResult{}, errors.New("missing --out")
	}
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return WriteResult{}, err
	}
	if err := writeFile(path, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{path}}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
