package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Document keys. Each holds one JSON document.
const (
	KeyItems     = "items"
	KeyOverrides = "overrides"
	KeySettings  = "settings"
)

// DocumentKeys lists every document the app persists.
func DocumentKeys() []string {
	return []string{KeyItems, KeyOverrides, KeySettings}
}

// Get returns the raw document stored under key. ok is false when the key is absent.
func (s Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, false, err
	}
	defer db.Close()

	var v string
	err = db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(v), true, nil
}

// Put stores a single document.
func (s Store) Put(ctx context.Context, key string, value []byte) error {
	return s.PutMany(ctx, map[string][]byte{key: value})
}

// PutMany stores several documents in one transaction: readers see all of them or none.
func (s Store) PutMany(ctx context.Context, docs map[string][]byte) error {
	return s.putDocs(ctx, docs, `INSERT OR REPLACE`)
}

// PutMissing stores the documents whose keys are absent, in one transaction. Existing
// documents are left as they are.
func (s Store) PutMissing(ctx context.Context, docs map[string][]byte) error {
	return s.putDocs(ctx, docs, `INSERT OR IGNORE`)
}

func (s Store) putDocs(ctx context.Context, docs map[string][]byte, verb string) error {
	if len(docs) == 0 {
		return nil
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	nowMs := time.Now().UTC().UnixMilli()
	for _, k := range sortedKeys(docs) {
		if strings.TrimSpace(k) == "" {
			return errors.New("put: empty key")
		}
		if _, err := tx.ExecContext(ctx, verb+` INTO kv(k, v, updated_at_unixms) VALUES(?, ?, ?)`, k, string(docs[k]), nowMs); err != nil {
			return fmt.Errorf("put %s: %w", k, err)
		}
	}
	return tx.Commit()
}

// Delete removes the given keys in one transaction. Missing keys are ignored.
func (s Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE k = ?`, k); err != nil {
			return fmt.Errorf("delete %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func sortedKeys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
