package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func seedDocs(t *testing.T, s Store) map[string][]byte {
	t.Helper()
	docs := map[string][]byte{
		KeyItems:     []byte(`[{"id":"item-aaaaaaaa","name":"Bananas","subtitle":"","category":{"id":"produce","name":"Produce","emoji":"🍎"},"completed":false,"urgent":false}]`),
		KeyOverrides: []byte(`{"bananas":"household"}`),
		KeySettings:  []byte(`{"voiceLanguage":"en-SG","categoryOrder":["produce","other"],"wakeLockEnabled":false,"darkMode":true}`),
	}
	if err := s.PutMany(context.Background(), docs); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return docs
}

func readAll(t *testing.T, s Store) map[string]string {
	t.Helper()
	out := map[string]string{}
	for _, k := range DocumentKeys() {
		v, ok, err := s.Get(context.Background(), k)
		if err != nil {
			t.Fatalf("Get(%s): %v", k, err)
		}
		if ok {
			out[k] = string(v)
		}
	}
	return out
}

func TestBackupRoundTripIsByteIdentical(t *testing.T) {
	ctx := context.Background()

	src := Store{Dir: t.TempDir()}
	seedDocs(t, src)

	raw, err := src.ExportJSON(ctx)
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	path := filepath.Join(t.TempDir(), BackupFileName(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	if err := WriteBackupFile(path, raw); err != nil {
		t.Fatalf("WriteBackupFile: %v", err)
	}
	if filepath.Base(path) != "smartshop_backup_2026-03-01.json" {
		t.Fatalf("unexpected backup name %q", filepath.Base(path))
	}
	fromDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}

	dst := Store{Dir: t.TempDir()}
	keys, err := dst.Import(ctx, fromDisk)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if diff := cmp.Diff([]string{KeyItems, KeyOverrides, KeySettings}, keys); diff != "" {
		t.Fatalf("imported keys (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(readAll(t, src), readAll(t, dst)); diff != "" {
		t.Fatalf("documents differ after round trip (-src +dst):\n%s", diff)
	}
}

func TestImportIndentedBackupRoundTrips(t *testing.T) {
	ctx := context.Background()
	indented := []byte(`{
  "items": [
    {"id": "1", "name": "Milk", "category": {"id": "dairy-eggs", "name": "Dairy & Eggs", "emoji": "🥛"}}
  ],
  "customOverrides": {
    "milk": "dairy-eggs"
  }
}`)

	s := Store{Dir: t.TempDir()}
	if _, err := s.Import(ctx, indented); err != nil {
		t.Fatalf("Import: %v", err)
	}
	first := readAll(t, s)
	want := `[{"id":"1","name":"Milk","category":{"id":"dairy-eggs","name":"Dairy \u0026 Eggs","emoji":"🥛"}}]`
	if got := first[KeyItems]; got != want {
		t.Fatalf("stored items:\n got %s\nwant %s", got, want)
	}

	raw, err := s.ExportJSON(ctx)
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if _, err := s.Import(ctx, raw); err != nil {
		t.Fatalf("re-Import: %v", err)
	}
	if diff := cmp.Diff(first, readAll(t, s)); diff != "" {
		t.Fatalf("documents changed on export/import (-first +second):\n%s", diff)
	}
}

func TestImportMissingKeysLeavesDocumentsUntouched(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	before := seedDocs(t, s)

	if _, err := s.Import(ctx, []byte(`{"customOverrides":{"milk":"pantry"}}`)); err != nil {
		t.Fatalf("Import: %v", err)
	}
	want := map[string]string{
		KeyItems:     string(before[KeyItems]),
		KeyOverrides: `{"milk":"pantry"}`,
		KeySettings:  string(before[KeySettings]),
	}
	if diff := cmp.Diff(want, readAll(t, s)); diff != "" {
		t.Fatalf("documents (-want +got):\n%s", diff)
	}
}

func TestImportRejectsInvalidBackupWithoutWriting(t *testing.T) {
	t.Parallel()

	bad := map[string]string{
		"not json":           `this is not json`,
		"array":              `[1,2,3]`,
		"null":               `null`,
		"items not array":    `{"items":{"id":"x"}}`,
		"item missing name":  `{"items":[{"id":"item-1","category":{"id":"produce"}}]}`,
		"item no category":   `{"items":[{"id":"item-1","name":"Milk"}]}`,
		"bad completed type": `{"items":[{"id":"item-1","name":"Milk","category":{"id":"dairy-eggs"},"completed":"yes"}]}`,
		"overrides not map":  `{"items":[],"customOverrides":["bananas"]}`,
		"settings bad order": `{"settings":{"categoryOrder":"produce"}}`,
		"null settings":      `{"settings":null}`,
	}

	for name, data := range bad {
		name, data := name, data
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := Store{Dir: t.TempDir()}
			before := seedDocs(t, s)

			_, err := s.Import(context.Background(), []byte(data))
			if !errors.Is(err, ErrInvalidBackup) {
				t.Fatalf("expected ErrInvalidBackup, got %v", err)
			}
			got := readAll(t, s)
			for k, v := range before {
				if got[k] != string(v) {
					t.Fatalf("document %s changed after rejected import", k)
				}
			}
		})
	}
}

func TestExportOmitsMissingDocuments(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	if err := s.Put(ctx, KeyOverrides, []byte(`{}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	raw, err := s.ExportJSON(ctx)
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if string(raw) != `{"customOverrides":{}}` {
		t.Fatalf("ExportJSON = %s", raw)
	}
}
