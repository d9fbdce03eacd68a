package grocery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// memKV is an in-memory KV that counts writes and can be told to fail them.
type memKV struct {
	docs   map[string][]byte
	writes int
	fail   error
}

func newMemKV() *memKV { return &memKV{docs: map[string][]byte{}} }

func (m *memKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.docs[key]
	return v, ok, nil
}

func (m *memKV) PutMany(_ context.Context, docs map[string][]byte) error {
	if m.fail != nil {
		return m.fail
	}
	m.writes++
	for k, v := range docs {
		m.docs[k] = append([]byte(nil), v...)
	}
	return nil
}

func (m *memKV) PutMissing(ctx context.Context, docs map[string][]byte) error {
	missing := map[string][]byte{}
	for k, v := range docs {
		if _, ok := m.docs[k]; !ok {
			missing[k] = v
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return m.PutMany(ctx, missing)
}

func (m *memKV) Delete(_ context.Context, keys ...string) error {
	if m.fail != nil {
		return m.fail
	}
	for _, k := range keys {
		delete(m.docs, k)
	}
	return nil
}

var errDiskFull = errors.New("disk full")

// emptyState loads a state whose list starts empty.
func emptyState(t *testing.T) (*State, *memKV) {
	t.Helper()
	kv := newMemKV()
	kv.docs["items"] = []byte(`[]`)
	s, err := Load(context.Background(), kv)
	require.NoError(t, err)
	return s, kv
}
