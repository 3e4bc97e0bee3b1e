package mutate

import (
	"errors"
	"strings"

	"larder-cli/internal/model"
	"larder-cli/internal/perm"
	"larder-cli/internal/store"
)

var ErrInvalidTheme = errors.New("invalid theme")

type ThemeResult struct {
	Theme        model.Theme
	Changed      bool
	EventPayload map[string]any
}

// SetTheme replaces the whole theme record. The persistence contract is a
// whole-record upsert; partial-field semantics live in the editor layer.
func SetTheme(db *store.DB, actorID string, theme model.Theme) (ThemeResult, error) {
	actorID = strings.TrimSpace(actorID)
	if db == nil || actorID == "" {
		return ThemeResult{}, nil
	}
	if strings.TrimSpace(theme.PrimaryColor) == "" ||
		strings.TrimSpace(theme.BackgroundColor) == "" ||
		strings.TrimSpace(theme.TextColor) == "" ||
		theme.CardRadius < 0 || theme.ButtonRadius < 0 {
		return ThemeResult{}, ErrInvalidTheme
	}
	if !perm.CanEditStorefront(db, actorID) {
		return ThemeResult{}, PermissionError{ActorID: actorID, Action: "theme.set"}
	}

	prev := db.Theme
	if prev == theme {
		return ThemeResult{Theme: theme, Changed: false}, nil
	}
	db.Theme = theme
	return ThemeResult{
		Theme:        theme,
		Changed:      true,
		EventPayload: map[string]any{"from": prev, "to": theme},
	}, nil
}
