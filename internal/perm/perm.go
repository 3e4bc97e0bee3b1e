package perm

import (
	"strings"

	"larder-cli/internal/model"
	"larder-cli/internal/store"
)

// CanEditStorefront reports whether the actor may enter edit mode and mutate
// storefront content (copy, theme, product name/price).
//
// Rules:
// - admin and manager roles can edit.
// - staff (and unknown actors) cannot.
//
// Callers treat false as a silent no-op; denial is never surfaced as an error.
func CanEditStorefront(db *store.DB, actorID string) bool {
	if db == nil {
		return false
	}
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return false
	}
	a, ok := db.FindActor(actorID)
	if !ok {
		return false
	}
	switch a.Role {
	case model.RoleAdmin, model.RoleManager:
		return true
	default:
		return false
	}
}

// CanManageOrders reports whether the actor may change order status or
// moderate reviews. All known operators can; unknown actors cannot.
func CanManageOrders(db *store.DB, actorID string) bool {
	if db == nil {
		return false
	}
	_, ok := db.FindActor(strings.TrimSpace(actorID))
	return ok
}
