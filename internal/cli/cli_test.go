package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"smartshop/internal/store"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// isolate keeps tests away from ~/.smartshop and returns a fresh store dir.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("SMARTSHOP_CONFIG_DIR", t.TempDir())
	t.Setenv("SMARTSHOP_DIR", "")
	t.Setenv("SMARTSHOP_FORMAT", "")
	t.Setenv("SMARTSHOP_RECIPE_URL", "")
	return t.TempDir()
}

func mustRun(t *testing.T, args ...string) any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: smartshop %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
	}
	data, ok := env["data"]
	if !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	return data
}

func asMap(t *testing.T, v any) map[string]any {
	t.Helper()
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T: %#v", v, v)
	}
	return m
}

func asList(t *testing.T, v any) []any {
	t.Helper()
	xs, ok := v.([]any)
	if !ok {
		t.Fatalf("expected list, got %T: %#v", v, v)
	}
	return xs
}

func categoryID(t *testing.T, item any) string {
	t.Helper()
	cat := asMap(t, asMap(t, item)["category"])
	id, _ := cat["id"].(string)
	return id
}

func findByName(t *testing.T, items []any, name string) map[string]any {
	t.Helper()
	for _, it := range items {
		m := asMap(t, it)
		if m["name"] == name {
			return m
		}
	}
	t.Fatalf("item %q not found in %#v", name, items)
	return nil
}

func TestItems_FirstRunIsSeeded(t *testing.T) {
	dir := isolate(t)

	items := asList(t, mustRun(t, "--dir", dir, "items", "list"))
	if len(items) != 6 {
		t.Fatalf("expected 6 seeded items, got %d", len(items))
	}
	active := asList(t, mustRun(t, "--dir", dir, "items", "list", "--active"))
	if len(active) != 4 {
		t.Fatalf("expected 4 active seeded items, got %d", len(active))
	}

	// Seeds are persisted, so ids are stable across invocations.
	again := asList(t, mustRun(t, "--dir", dir, "items", "list"))
	if asMap(t, items[0])["id"] != asMap(t, again[0])["id"] {
		t.Fatalf("expected stable ids across runs")
	}
}

func TestItems_AddToggleShow(t *testing.T) {
	dir := isolate(t)

	it := asMap(t, mustRun(t, "--dir", dir, "items", "add", "Soy", "Sauce", "--subtitle", "Light"))
	if it["name"] != "Soy Sauce" || it["subtitle"] != "Light" {
		t.Fatalf("unexpected item: %#v", it)
	}
	if got := categoryID(t, it); got != "pantry" {
		t.Fatalf("category = %q, want pantry", got)
	}
	id, _ := it["id"].(string)
	if !store.LooksLikeItemID(id) {
		t.Fatalf("unexpected id %q", id)
	}

	items := asList(t, mustRun(t, "--dir", dir, "items", "list"))
	if asMap(t, items[0])["id"] != id {
		t.Fatalf("expected new item at the head of the list")
	}

	toggled := asMap(t, mustRun(t, "--dir", dir, "items", "toggle", id))
	if toggled["completed"] != true {
		t.Fatalf("expected completed after toggle: %#v", toggled)
	}
	completed := asList(t, mustRun(t, "--dir", dir, "items", "list", "--completed"))
	findByName(t, completed, "Soy Sauce")

	show := asMap(t, mustRun(t, "--dir", dir, "items", "show", id))
	res := asMap(t, show["resolution"])
	if res["method"] != "fuzzy" || res["categoryId"] != "pantry" {
		t.Fatalf("unexpected resolution: %#v", res)
	}
}

func TestItems_AddBlankFails(t *testing.T) {
	dir := isolate(t)

	before := asList(t, mustRun(t, "--dir", dir, "items", "list"))
	if _, _, err := runCLI(t, []string{"--dir", dir, "items", "add", "   "}); err == nil {
		t.Fatalf("expected blank add to fail")
	}
	after := asList(t, mustRun(t, "--dir", dir, "items", "list"))
	if len(after) != len(before) {
		t.Fatalf("expected list unchanged, got %d -> %d", len(before), len(after))
	}
}

func TestItems_AddSpoken(t *testing.T) {
	dir := isolate(t)

	added := asList(t, mustRun(t, "--dir", dir, "items", "add", "--spoken", "milk and candy AND rice"))
	if len(added) != 3 {
		t.Fatalf("expected 3 items, got %#v", added)
	}
	findByName(t, added, "candy")
	if got := categoryID(t, findByName(t, added, "rice")); got != "pantry" {
		t.Fatalf("rice category = %q, want pantry", got)
	}
}

func TestItems_CategoryOverrideIsLearned(t *testing.T) {
	dir := isolate(t)

	it := asMap(t, mustRun(t, "--dir", dir, "items", "add", "Bananas"))
	if got := categoryID(t, it); got != "produce" {
		t.Fatalf("category = %q, want produce", got)
	}
	id := it["id"].(string)

	moved := asMap(t, mustRun(t, "--dir", dir, "items", "category", id, "household"))
	if got := categoryID(t, moved); got != "household" {
		t.Fatalf("category after move = %q, want household", got)
	}

	// The seeded "Bananas" shares the name and follows the override.
	items := asList(t, mustRun(t, "--dir", dir, "items", "list"))
	for _, x := range items {
		if m := asMap(t, x); m["name"] == "Bananas" && categoryID(t, m) != "household" {
			t.Fatalf("expected every Bananas to be household, got %#v", m)
		}
	}

	again := asMap(t, mustRun(t, "--dir", dir, "items", "add", "bananas"))
	if got := categoryID(t, again); got != "household" {
		t.Fatalf("re-added category = %q, want household", got)
	}

	overrides := asList(t, mustRun(t, "--dir", dir, "overrides", "list"))
	if len(overrides) != 1 {
		t.Fatalf("expected one override, got %#v", overrides)
	}
	o := asMap(t, overrides[0])
	if o["name"] != "bananas" || o["categoryId"] != "household" || o["known"] != true {
		t.Fatalf("unexpected override: %#v", o)
	}
}

func TestItems_UnknownIDs(t *testing.T) {
	dir := isolate(t)

	for _, args := range [][]string{
		{"items", "show", "item-nope"},
		{"items", "toggle", "item-nope"},
		{"items", "category", "item-nope", "produce"},
	} {
		_, stderr, err := runCLI(t, append([]string{"--dir", dir}, args...))
		var nf notFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("%v: expected notFoundError, got %v", args, err)
		}
		if !strings.Contains(string(stderr), "item not found: item-nope") {
			t.Fatalf("%v: unexpected stderr %q", args, stderr)
		}
	}
}

func TestItems_ClearRequiresYesAndKeepsOverrides(t *testing.T) {
	dir := isolate(t)

	it := asMap(t, mustRun(t, "--dir", dir, "items", "add", "Widget"))
	mustRun(t, "--dir", dir, "items", "category", it["id"].(string), "household")

	_, _, err := runCLI(t, []string{"--dir", dir, "items", "clear"})
	var cr confirmRequiredError
	if !errors.As(err, &cr) {
		t.Fatalf("expected confirmRequiredError, got %v", err)
	}

	res := asMap(t, mustRun(t, "--dir", dir, "items", "clear", "--yes"))
	if res["removed"] != float64(7) {
		t.Fatalf("removed = %v, want 7", res["removed"])
	}
	if items := asList(t, mustRun(t, "--dir", dir, "items", "list")); len(items) != 0 {
		t.Fatalf("expected empty list after clear, got %d", len(items))
	}
	if overrides := asList(t, mustRun(t, "--dir", dir, "overrides", "list")); len(overrides) != 1 {
		t.Fatalf("expected overrides kept, got %#v", overrides)
	}
}

func TestItems_ListGrouped(t *testing.T) {
	dir := isolate(t)

	mustRun(t, "--dir", dir, "settings", "order", "other,dairy-eggs,produce")
	groups := asList(t, mustRun(t, "--dir", dir, "items", "list", "--grouped"))
	var ids []string
	for _, g := range groups {
		ids = append(ids, asMap(t, g)["id"].(string))
	}
	// Active seeds: Bananas and Spinach (produce), Avocados and Almond Milk (other).
	// Empty categories are skipped.
	if strings.Join(ids, ",") != "other,produce" {
		t.Fatalf("group order = %v", ids)
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "items", "list", "--grouped", "--completed"}); err == nil {
		t.Fatalf("expected --grouped --completed to fail")
	}
}

func TestCategorize(t *testing.T) {
	dir := isolate(t)

	c := asMap(t, mustRun(t, "--dir", dir, "categorize", "xyz123"))
	if c["id"] != "other" {
		t.Fatalf("xyz123 -> %v, want other", c["id"])
	}

	ex := asMap(t, mustRun(t, "--dir", dir, "categorize", "Bananas", "--explain"))
	if asMap(t, ex["category"])["id"] != "produce" {
		t.Fatalf("unexpected category: %#v", ex)
	}
	res := asMap(t, ex["resolution"])
	if res["keyword"] != "banana" || res["method"] != "fuzzy" {
		t.Fatalf("unexpected resolution: %#v", res)
	}

	// Preview never writes.
	if overrides := asList(t, mustRun(t, "--dir", dir, "overrides", "list")); len(overrides) != 0 {
		t.Fatalf("expected no overrides, got %#v", overrides)
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "categorize", " "}); err == nil {
		t.Fatalf("expected blank text to fail")
	}
}

func TestCategories_FollowDisplayOrder(t *testing.T) {
	dir := isolate(t)

	cats := asList(t, mustRun(t, "--dir", dir, "categories"))
	if len(cats) != 8 {
		t.Fatalf("expected 8 categories, got %d", len(cats))
	}
	if asMap(t, cats[len(cats)-1])["id"] != "other" {
		t.Fatalf("expected other last by default")
	}

	mustRun(t, "--dir", dir, "settings", "order", "other,bakery")
	cats = asList(t, mustRun(t, "--dir", dir, "categories"))
	if asMap(t, cats[0])["id"] != "other" || asMap(t, cats[1])["id"] != "bakery" || asMap(t, cats[2])["id"] != "produce" {
		t.Fatalf("unexpected order: %#v", cats[:3])
	}
}

func TestSettings(t *testing.T) {
	dir := isolate(t)

	st := asMap(t, mustRun(t, "--dir", dir, "settings", "show"))
	if st["voiceLanguage"] != "en-SG" || st["darkMode"] != false {
		t.Fatalf("unexpected defaults: %#v", st)
	}

	st = asMap(t, mustRun(t, "--dir", dir, "settings", "voice-language", "zh-cn"))
	if st["voiceLanguage"] != "zh-CN" {
		t.Fatalf("voiceLanguage = %v, want zh-CN", st["voiceLanguage"])
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "settings", "voice-language", "not a tag!"}); err == nil {
		t.Fatalf("expected invalid tag to fail")
	}

	st = asMap(t, mustRun(t, "--dir", dir, "settings", "dark-mode", "on"))
	if st["darkMode"] != true {
		t.Fatalf("darkMode = %v", st["darkMode"])
	}
	st = asMap(t, mustRun(t, "--dir", dir, "settings", "wake-lock", "false"))
	if st["wakeLockEnabled"] != false {
		t.Fatalf("wakeLockEnabled = %v", st["wakeLockEnabled"])
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "settings", "wake-lock", "maybe"}); err == nil {
		t.Fatalf("expected invalid toggle to fail")
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "settings", "order", "produce,frozen"}); err == nil {
		t.Fatalf("expected unknown category to fail")
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "settings", "order", "produce,produce"}); err == nil {
		t.Fatalf("expected duplicate category to fail")
	}

	// Persisted across runs.
	st = asMap(t, mustRun(t, "--dir", dir, "settings", "show"))
	if st["voiceLanguage"] != "zh-CN" || st["darkMode"] != true {
		t.Fatalf("settings not persisted: %#v", st)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := isolate(t)
	dst := t.TempDir()

	it := asMap(t, mustRun(t, "--dir", src, "items", "add", "Kombucha"))
	mustRun(t, "--dir", src, "items", "category", it["id"].(string), "beverages")
	mustRun(t, "--dir", src, "settings", "dark-mode", "on")

	exported, stderr, err := runCLI(t, []string{"--dir", src, "export"})
	if err != nil {
		t.Fatalf("export: %v\n%s", err, stderr)
	}

	backup := filepath.Join(t.TempDir(), "backup.json")
	if err := os.WriteFile(backup, exported, 0o644); err != nil {
		t.Fatal(err)
	}
	res := asMap(t, mustRun(t, "--dir", dst, "import", backup))
	if fmt.Sprint(res["imported"]) != "[items overrides settings]" {
		t.Fatalf("imported = %v", res["imported"])
	}

	again, _, err := runCLI(t, []string{"--dir", dst, "export"})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(exported, again) {
		t.Fatalf("round trip changed the backup:\n got: %s\nwant: %s", again, exported)
	}
}

func TestExport_ToDirectoryUsesDatedName(t *testing.T) {
	dir := isolate(t)
	outDir := t.TempDir()

	res := asMap(t, mustRun(t, "--dir", dir, "export", "--out", outDir))
	path, _ := res["path"].(string)
	if !strings.HasPrefix(filepath.Base(path), "smartshop_backup_") || filepath.Ext(path) != ".json" {
		t.Fatalf("unexpected backup path %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected backup file: %v", err)
	}
}

func TestImport_InvalidBackupChangesNothing(t *testing.T) {
	dir := isolate(t)
	before := asList(t, mustRun(t, "--dir", dir, "items", "list"))

	bad := filepath.Join(t.TempDir(), "bad.json")
	// Valid overrides but broken items: nothing may be written.
	if err := os.WriteFile(bad, []byte(`{"customOverrides":{"milk":"pantry"},"items":[{"id":"","name":"x"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := runCLI(t, []string{"--dir", dir, "import", bad})
	if !errors.Is(err, store.ErrInvalidBackup) {
		t.Fatalf("expected ErrInvalidBackup, got %v", err)
	}

	after := asList(t, mustRun(t, "--dir", dir, "items", "list"))
	if len(after) != len(before) {
		t.Fatalf("items changed after rejected import")
	}
	if overrides := asList(t, mustRun(t, "--dir", dir, "overrides", "list")); len(overrides) != 0 {
		t.Fatalf("overrides changed after rejected import: %#v", overrides)
	}
}

func TestWipe(t *testing.T) {
	dir := isolate(t)

	it := asMap(t, mustRun(t, "--dir", dir, "items", "add", "Widget"))
	mustRun(t, "--dir", dir, "items", "category", it["id"].(string), "household")
	mustRun(t, "--dir", dir, "settings", "dark-mode", "on")

	if _, _, err := runCLI(t, []string{"--dir", dir, "wipe"}); err == nil {
		t.Fatalf("expected wipe without --yes to fail")
	}
	mustRun(t, "--dir", dir, "wipe", "--yes")

	if items := asList(t, mustRun(t, "--dir", dir, "items", "list")); len(items) != 6 {
		t.Fatalf("expected seeded list after wipe, got %d items", len(items))
	}
	if overrides := asList(t, mustRun(t, "--dir", dir, "overrides", "list")); len(overrides) != 0 {
		t.Fatalf("expected no overrides after wipe")
	}
	if st := asMap(t, mustRun(t, "--dir", dir, "settings", "show")); st["darkMode"] != false {
		t.Fatalf("expected default settings after wipe: %#v", st)
	}
}

func TestPublish(t *testing.T) {
	dir := isolate(t)

	stdout, stderr, err := runCLI(t, []string{"--dir", dir, "publish"})
	if err != nil {
		t.Fatalf("publish: %v\n%s", err, stderr)
	}
	md := string(stdout)
	for _, want := range []string{"# Shopping list", "4 items remaining", "## 🍎 Produce", "- [ ] Bananas _(1 bunch • Organic)_"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in:\n%s", want, md)
		}
	}
	if strings.Contains(md, "Large Eggs") {
		t.Fatalf("completed items should be omitted by default:\n%s", md)
	}

	out := filepath.Join(t.TempDir(), "list.md")
	mustRun(t, "--dir", dir, "publish", "--out", out, "--include-completed")
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "- [x] Large Eggs") {
		t.Fatalf("expected completed section in file:\n%s", b)
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "publish", "--out", out}); err == nil {
		t.Fatalf("expected refusing to overwrite without --overwrite")
	}
	mustRun(t, "--dir", dir, "publish", "--out", out, "--overwrite")

	stdout, _, err = runCLI(t, []string{"--dir", dir, "publish", "--html"})
	if err != nil {
		t.Fatal(err)
	}
	if page := string(stdout); !strings.HasPrefix(page, "<!doctype html>") || !strings.Contains(page, `lang="en-SG"`) {
		t.Fatalf("unexpected html:\n%s", page)
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "publish", "--html", "--render"}); err == nil {
		t.Fatalf("expected --html with --render to fail")
	}
}

func TestRecipes(t *testing.T) {
	dir := isolate(t)

	var gotIngredient string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/filter.php":
			gotIngredient = r.URL.Query().Get("i")
			fmt.Fprint(w, `{"meals":[{"idMeal":"52772","strMeal":"Banana Pancakes","strMealThumb":""}]}`)
		case "/lookup.php":
			if r.URL.Query().Get("i") != "52772" {
				fmt.Fprint(w, `{"meals":null}`)
				return
			}
			fmt.Fprint(w, `{"meals":[{"idMeal":"52772","strMeal":"Banana Pancakes",
				"strIngredient1":"Bananas","strMeasure1":"2",
				"strIngredient2":"Honey","strMeasure2":"1 tbsp",
				"strIngredient3":"","strMeasure3":""}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	meals := asList(t, mustRun(t, "--dir", dir, "recipes", "--base-url", srv.URL))
	if len(meals) != 1 || asMap(t, meals[0])["name"] != "Banana Pancakes" {
		t.Fatalf("unexpected meals: %#v", meals)
	}
	if gotIngredient != "bananas" {
		t.Fatalf("suggestions based on %q, want the newest active item", gotIngredient)
	}

	added := asList(t, mustRun(t, "--dir", dir, "recipes", "add", "52772", "--base-url", srv.URL))
	if len(added) != 1 {
		t.Fatalf("expected only the missing ingredient, got %#v", added)
	}
	honey := asMap(t, added[0])
	if honey["name"] != "Honey" || honey["subtitle"] != "1 tbsp" || categoryID(t, honey) != "pantry" {
		t.Fatalf("unexpected item: %#v", honey)
	}

	_, _, err := runCLI(t, []string{"--dir", dir, "recipes", "add", "1", "--base-url", srv.URL})
	var nf notFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected notFoundError for unknown meal, got %v", err)
	}
}

func TestRecipes_BaseURLFromConfig(t *testing.T) {
	dir := isolate(t)

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"meals":null}`)
	}))
	t.Cleanup(srv.Close)

	if err := store.SaveConfig(&store.GlobalConfig{RecipeBaseURL: srv.URL}); err != nil {
		t.Fatal(err)
	}
	meals := asList(t, mustRun(t, "--dir", dir, "recipes", "--ingredient", "tofu"))
	if len(meals) != 0 || hits != 1 {
		t.Fatalf("expected one call to the configured server, got hits=%d meals=%#v", hits, meals)
	}
}

func TestOutputFormats(t *testing.T) {
	dir := isolate(t)

	stdout, _, err := runCLI(t, []string{"--dir", dir, "--format", "yaml", "settings", "show"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(stdout), "voiceLanguage: en-SG") {
		t.Fatalf("unexpected yaml:\n%s", stdout)
	}

	stdout, _, err = runCLI(t, []string{"--dir", dir, "--format", "edn", "settings", "show"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(stdout), `:voiceLanguage "en-SG"`) {
		t.Fatalf("unexpected edn:\n%s", stdout)
	}

	// Catalog entries behind groups and resolutions stay out of yaml, as they do in json.
	stdout, _, err = runCLI(t, []string{"--dir", dir, "--format", "yaml", "items", "list", "--grouped"})
	if err != nil {
		t.Fatal(err)
	}
	if out := string(stdout); strings.Contains(out, "eywords") || !strings.Contains(out, "id: produce") {
		t.Fatalf("unexpected grouped yaml:\n%s", out)
	}
	stdout, _, err = runCLI(t, []string{"--dir", dir, "--format", "yaml", "categorize", "--explain", "bananas"})
	if err != nil {
		t.Fatal(err)
	}
	out := string(stdout)
	if n := strings.Count(out, "eywords"); n != 1 || !strings.Contains(out, "categoryId: produce") {
		t.Fatalf("expected keywords only on the category (got %d):\n%s", n, out)
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "--format", "xml", "settings", "show"}); err == nil {
		t.Fatalf("expected unknown format to fail")
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "--log-level", "loud", "settings", "show"}); err == nil {
		t.Fatalf("expected unknown log level to fail")
	}
}

func TestDocs(t *testing.T) {
	isolate(t)

	data := asMap(t, mustRun(t, "docs"))
	topics := fmt.Sprint(data["topics"])
	if !strings.Contains(topics, "categories") {
		t.Fatalf("unexpected topics: %v", topics)
	}

	stdout, _, err := runCLI(t, []string{"docs", "overrides", "--raw"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(stdout), "#") {
		t.Fatalf("expected raw markdown, got:\n%s", stdout)
	}
	if _, _, err := runCLI(t, []string{"docs", "nope"}); err == nil {
		t.Fatalf("expected unknown topic to fail")
	}
}
