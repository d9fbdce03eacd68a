package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"smartshop/internal/model"
)

// ErrInvalidBackup is returned (wrapped) when a backup file is rejected.
var ErrInvalidBackup = errors.New("invalid backup")

// Bundle is the export/import file: each present field is one stored document, verbatim.
type Bundle struct {
	Items           json.RawMessage `json:"items,omitempty"`
	CustomOverrides json.RawMessage `json:"customOverrides,omitempty"`
	Settings        json.RawMessage `json:"settings,omitempty"`
}

var bundleKeys = map[string]string{
	"items":           KeyItems,
	"customOverrides": KeyOverrides,
	"settings":        KeySettings,
}

// BackupFileName is the default export file name for the given day.
func BackupFileName(now time.Time) string {
	return "smartshop_backup_" + now.Format("2006-01-02") + ".json"
}

// Export reads every stored document into a bundle. Absent documents are omitted.
func (s Store) Export(ctx context.Context) (Bundle, error) {
	var b Bundle
	for field, key := range bundleKeys {
		raw, ok, err := s.Get(ctx, key)
		if err != nil {
			return Bundle{}, err
		}
		if !ok {
			continue
		}
		switch field {
		case "items":
			b.Items = raw
		case "customOverrides":
			b.CustomOverrides = raw
		case "settings":
			b.Settings = raw
		}
	}
	return b, nil
}

// ExportJSON renders the bundle as a single JSON object.
func (s Store) ExportJSON(ctx context.Context) ([]byte, error) {
	b, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(b)
}

// ParseBundle validates a backup file without touching the store.
func ParseBundle(data []byte) (map[string][]byte, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if top == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidBackup)
	}

	docs := map[string][]byte{}
	for field, key := range bundleKeys {
		raw, ok := top[field]
		if !ok {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if bytes.Equal(raw, []byte("null")) {
			return nil, fmt.Errorf("%w: %s is null", ErrInvalidBackup, field)
		}
		if err := validateDocument(field, raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidBackup, field, err)
		}
		doc, err := canonicalDocument(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidBackup, field, err)
		}
		docs[key] = doc
	}
	return docs, nil
}

// canonicalDocument stores documents in the same form ExportJSON writes them:
// compact, with HTML-sensitive characters escaped.
func canonicalDocument(raw []byte) ([]byte, error) {
	return json.Marshal(json.RawMessage(raw))
}

func validateDocument(field string, raw []byte) error {
	switch field {
	case "items":
		var items []struct {
			ID       string             `json:"id"`
			Name     string             `json:"name"`
			Category *model.CategoryRef `json:"category"`
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return err
		}
		for i, it := range items {
			if strings.TrimSpace(it.ID) == "" || strings.TrimSpace(it.Name) == "" {
				return fmt.Errorf("item %d: missing id or name", i)
			}
			if it.Category == nil {
				return fmt.Errorf("item %d: missing category", i)
			}
		}
		// Full decode catches wrongly-typed optional fields (e.g. "completed": "yes").
		var full []model.Item
		return json.Unmarshal(raw, &full)
	case "customOverrides":
		var m map[string]string
		return json.Unmarshal(raw, &m)
	case "settings":
		var st model.Settings
		return json.Unmarshal(raw, &st)
	}
	return nil
}

// Import validates data and replaces every document it carries in one transaction.
// Documents missing from the bundle are left untouched. It returns the keys written.
func (s Store) Import(ctx context.Context, data []byte) ([]string, error) {
	docs, err := ParseBundle(data)
	if err != nil {
		return nil, err
	}
	if err := s.PutMany(ctx, docs); err != nil {
		return nil, err
	}
	return sortedKeys(docs), nil
}

// WriteBackupFile writes b to path atomically.
func WriteBackupFile(path string, b []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return atomicWriteFile(dir, filepath.Base(path)+".*.tmp", path, b, 0o644)
}
