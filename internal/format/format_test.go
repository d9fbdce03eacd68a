package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	ID        string            `json:"id"`
	Completed bool              `json:"completed"`
	Count     int               `json:"count"`
	Tags      []string          `json:"tags"`
	Overrides map[string]string `json:"overrides"`
}

var fixture = sample{
	ID:        "item-abc",
	Count:     2,
	Tags:      []string{"a"},
	Overrides: map[string]string{"almond milk": "dairy-eggs", "tea": "beverages"},
}

func TestWriteEDN_Compact(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, fixture, "edn", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `{:completed false :count 2 :id "item-abc" :overrides {"almond milk" "dairy-eggs" :tea "beverages"} :tags ["a"]}` + "\n"
	if buf.String() != want {
		t.Fatalf("edn:\n got: %s\nwant: %s", buf.String(), want)
	}
}

func TestWriteEDN_Pretty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEDN(&buf, map[string]any{"data": []int{1, 2}}, true); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	want := "{\n  :data [\n    1\n    2\n  ]\n}\n"
	if buf.String() != want {
		t.Fatalf("pretty edn:\n got: %q\nwant: %q", buf.String(), want)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"data": fixture}, "yaml", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"data:\n", "  id: item-abc\n", "  count: 2\n", "    almond milk: dairy-eggs\n", "    - a\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("yaml missing %q:\n%s", want, out)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"ok": true}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.String() != "{\"ok\":true}\n" {
		t.Fatalf("json = %q", buf.String())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, 1, "xml", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
