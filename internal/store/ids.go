package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32
// (lowercase, no padding). 8 chars base32 ~= 40 bits of space.
func newRandomID(prefix string) (string, error) {
	var b [5]byte // 40 bits -> 8 base32 chars
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}

func idExists(db *DB, id string) bool {
	for _, a := range db.Actors {
		if a.ID == id {
			return true
		}
	}
	for _, p := range db.Products {
		if p.ID == id {
			return true
		}
	}
	for _, o := range db.Orders {
		if o.ID == id {
			return true
		}
	}
	for _, r := range db.Reviews {
		if r.ID == id {
			return true
		}
	}
	for _, c := range db.ChatRules {
		if c.ID == id {
			return true
		}
	}
	return false
}
