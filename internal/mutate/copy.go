package mutate

import (
	"errors"
	"strings"

	"larder-cli/internal/perm"
	"larder-cli/internal/store"
)

var ErrEmptyCopyKey = errors.New("empty copy key")
var ErrEmptyCopyValue = errors.New("empty copy value")

type CopyResult struct {
	Key          string
	Value        string
	Changed      bool
	EventPayload map[string]any
}

// SetCopyValue sets one site copy string. The key does not have to be one of
// the default keys; the storefront simply ignores keys it doesn't render.
// Callers are responsible for saving db and appending the copy.set event.
func SetCopyValue(db *store.DB, actorID, key, value string) (CopyResult, error) {
	actorID = strings.TrimSpace(actorID)
	key = strings.TrimSpace(key)
	if db == nil || actorID == "" {
		return CopyResult{}, nil
	}
	if key == "" {
		return CopyResult{}, ErrEmptyCopyKey
	}
	if strings.TrimSpace(value) == "" {
		return CopyResult{}, ErrEmptyCopyValue
	}
	if !perm.CanEditStorefront(db, actorID) {
		return CopyResult{}, PermissionError{ActorID: actorID, Action: "copy.set"}
	}

	if db.Copy == nil {
		db.Copy = map[string]string{}
	}
	prev := db.Copy[key]
	if prev == value {
		return CopyResult{Key: key, Value: value, Changed: false}, nil
	}
	db.Copy[key] = value
	return CopyResult{
		Key:          key,
		Value:        value,
		Changed:      true,
		EventPayload: map[string]any{"from": prev, "to": value},
	}, nil
}
