package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// NewID returns prefix-<suffix> where suffix is 8 chars of base32 (lowercase, no padding).
// 8 chars base32 ~= 40 bits (~1 trillion) of space.
func NewID(prefix string) (string, error) {
	var b [5]byte // 40 bits -> 8 base32 chars
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}

// NewUniqueID retries NewID until exists reports the id as free.
func NewUniqueID(prefix string, exists func(string) bool) (string, error) {
	for {
		id, err := NewID(prefix)
		if err != nil {
			return "", err
		}
		if exists == nil || !exists(id) {
			return id, nil
		}
	}
}

// LooksLikeItemID reports whether s has the shape of an item id.
func LooksLikeItemID(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "item-") {
		return false
	}
	suffix := strings.TrimPrefix(s, "item-")
	if suffix == "" {
		return false
	}
	for _, r := range suffix {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
