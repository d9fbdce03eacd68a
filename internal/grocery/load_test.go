package grocery

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartshop/internal/model"
	"smartshop/internal/store"
)

func TestLoad_EmptyStoreSeedsAndPersistsDefaults(t *testing.T) {
	ctx := context.Background()
	st := store.Store{Dir: t.TempDir()}

	s, err := Load(ctx, st)
	require.NoError(t, err)

	items := s.Items()
	assert.Equal(t, []string{"Bananas", "Spinach", "Avocados", "Almond Milk", "Whole Wheat Bread", "Large Eggs"}, names(items))
	assert.Equal(t, "produce", items[0].Category.ID)
	assert.Equal(t, "1 bunch • Organic", items[0].Subtitle)
	assert.Equal(t, "produce", items[1].Category.ID)
	assert.True(t, items[1].Urgent)
	for _, it := range items[2:] {
		assert.Equal(t, "other", it.Category.ID, it.Name)
	}
	assert.Equal(t, []string{"Whole Wheat Bread", "Large Eggs"}, names(s.CompletedItems()))
	assert.Equal(t, model.DefaultSettings(), s.Settings())
	assert.Empty(t, s.Overrides())

	// A second load sees the same persisted list.
	again, err := Load(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, items, again.Items())
}

func TestLoad_MalformedDocumentFallsBackAlone(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	kv.docs[store.KeyItems] = []byte(`{not json`)
	kv.docs[store.KeyOverrides] = []byte(`{"bananas":"household"}`)
	kv.docs[store.KeySettings] = []byte(`{"voiceLanguage":"fr-FR","darkMode":true}`)

	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.WarnLevel)

	s, err := Load(ctx, kv, WithLogger(logger))
	require.NoError(t, err)

	// Seed list is categorized without overrides.
	assert.Equal(t, "produce", s.Items()[0].Category.ID)
	assert.Equal(t, map[string]string{"bananas": "household"}, s.Overrides())
	assert.Equal(t, "fr-FR", s.Settings().VoiceLanguage)
	assert.True(t, s.Settings().DarkMode)
	assert.Equal(t, model.DefaultSettings().CategoryOrder, s.Settings().CategoryOrder)
	assert.Contains(t, buf.String(), "document malformed")
	assert.Contains(t, buf.String(), "key=items")
}

func TestLoad_RebindsUnknownCategoriesToOther(t *testing.T) {
	kv := newMemKV()
	kv.docs[store.KeyItems] = []byte(`[
		{"id":"item-a","name":"Peas","subtitle":"","category":{"id":"frozen","name":"Frozen","emoji":"🧊"},"completed":false,"urgent":false},
		{"id":"item-b","name":"Milk","subtitle":"","category":{"id":"dairy-eggs","name":"Old name","emoji":"x"},"completed":true,"urgent":false}
	]`)

	s, err := Load(context.Background(), kv)
	require.NoError(t, err)
	items := s.Items()
	assert.Equal(t, model.CategoryRef{ID: "other", Name: "Other", Emoji: "🛒"}, items[0].Category)
	assert.Equal(t, "Dairy & Eggs", items[1].Category.Name)
}

func TestLoad_NullDocumentsUseDefaults(t *testing.T) {
	kv := newMemKV()
	kv.docs[store.KeyItems] = []byte(`null`)
	kv.docs[store.KeyOverrides] = []byte(`null`)
	kv.docs[store.KeySettings] = []byte(` null `)

	s, err := Load(context.Background(), kv)
	require.NoError(t, err)
	assert.Len(t, s.Items(), 6)
	assert.NotNil(t, s.Overrides())
	assert.Equal(t, model.DefaultSettings(), s.Settings())
}

func TestLoad_WriteFailureIsNotFatal(t *testing.T) {
	kv := newMemKV()
	kv.fail = errDiskFull

	s, err := Load(context.Background(), kv)
	require.NoError(t, err)
	assert.Len(t, s.Items(), 6)
}

func TestLoad_NormalizesOverrideKeys(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	kv.docs[store.KeyItems] = []byte(`[]`)
	kv.docs[store.KeyOverrides] = []byte(`{"  Bananas ":"household","MILK":"pantry","milk":"frozen-foods","":"other"}`)

	s, err := Load(ctx, kv)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"bananas": "household", "milk": "frozen-foods"}, s.Overrides())

	it, _, err := s.AddItem("bananas", "")
	require.NoError(t, err)
	assert.Equal(t, "household", it.Category.ID)
}

// racingKV stores a document from another writer just before defaults are seeded.
type racingKV struct {
	*memKV
	key string
	doc []byte
}

func (r racingKV) PutMissing(ctx context.Context, docs map[string][]byte) error {
	r.docs[r.key] = r.doc
	return r.memKV.PutMissing(ctx, docs)
}

func TestLoad_DefaultsDoNotReplaceConcurrentWrite(t *testing.T) {
	kv := racingKV{
		memKV: newMemKV(),
		key:   store.KeyItems,
		doc:   []byte(`[{"id":"item-x","name":"Tea","category":{"id":"beverages"}}]`),
	}
	kv.docs[store.KeySettings] = []byte(`{not json`)

	s, err := Load(context.Background(), kv)
	require.NoError(t, err)
	assert.Len(t, s.Items(), 6)

	assert.Equal(t, string(kv.doc), string(kv.docs[store.KeyItems]))
	assert.Equal(t, `{}`, string(kv.docs[store.KeyOverrides]))

	// Unreadable documents are still replaced.
	var settings model.Settings
	require.NoError(t, json.Unmarshal(kv.docs[store.KeySettings], &settings))
	assert.Equal(t, model.DefaultSettings(), settings)
}
