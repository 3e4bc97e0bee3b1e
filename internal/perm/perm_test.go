package perm

import (
	"testing"

	"larder-cli/internal/model"
	"larder-cli/internal/store"
)

func testDB() *store.DB {
	return &store.DB{
		Actors: []model.Actor{
			{ID: "op-admin", Role: model.RoleAdmin},
			{ID: "op-manager", Role: model.RoleManager},
			{ID: "op-staff", Role: model.RoleStaff},
		},
	}
}

func TestCanEditStorefront(t *testing.T) {
	t.Parallel()

	db := testDB()
	cases := []struct {
		actorID string
		want    bool
	}{
		{"op-admin", true},
		{"op-manager", true},
		{"op-staff", false},
		{"op-ghost", false},
		{"", false},
		{"  op-admin  ", true},
	}
	for _, c := range cases {
		if got := CanEditStorefront(db, c.actorID); got != c.want {
			t.Errorf("CanEditStorefront(%q): got %v want %v", c.actorID, got, c.want)
		}
	}
	if CanEditStorefront(nil, "op-admin") {
		t.Errorf("nil db should deny")
	}
}

func TestCanManageOrders(t *testing.T) {
	t.Parallel()

	db := testDB()
	if !CanManageOrders(db, "op-staff") {
		t.Fatalf("staff should manage orders")
	}
	if CanManageOrders(db, "op-ghost") {
		t.Fatalf("unknown actor should be denied")
	}
}
