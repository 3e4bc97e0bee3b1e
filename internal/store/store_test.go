package store

import (
	"testing"
	"time"

	"larder-cli/internal/model"
)

func seedDB(t *testing.T) *DB {
	t.Helper()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	db := &DB{
		Version:        1,
		CurrentActorID: "op-admin",
		Actors: []model.Actor{
			{ID: "op-admin", Name: "Ana", Role: model.RoleAdmin, CreatedAt: now},
			{ID: "op-staff", Name: "Sam", Role: model.RoleStaff, CreatedAt: now},
		},
		Products: []model.Product{
			{ID: "prod-apples", Name: "Apples", Category: "fruit", PriceCents: 250, Unit: "kg", CreatedBy: "op-admin", CreatedAt: now, UpdatedAt: now},
			{ID: "prod-bread", Name: "Sourdough", Category: "bakery", PriceCents: 480, Unit: "each", CreatedBy: "op-admin", CreatedAt: now, UpdatedAt: now},
		},
		Orders: []model.Order{
			{
				ID:       "ord-1",
				Customer: "Riley",
				Lines: []model.OrderLine{
					{ProductID: "prod-apples", Quantity: 2, PriceCents: 250},
					{ProductID: "prod-bread", Quantity: 1, PriceCents: 480},
				},
				Status:    model.OrderPending,
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
		Reviews: []model.Review{
			{ID: "rev-1", ProductID: "prod-apples", Author: "Riley", Rating: 5, Body: "Crisp!", Published: true, CreatedAt: now},
		},
		ChatRules: []model.ChatRule{
			{ID: "rule-1", Keywords: []string{"delivery"}, Reply: "We deliver daily before noon."},
		},
		Copy:  map[string]string{CopyHeroTitle: "Custom headline"},
		Theme: DefaultTheme(),
	}
	fillDefaults(db)
	return db
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := Store{Dir: dir}
	db := seedDB(t)

	if err := s.Save(db); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(got.Products) != 2 {
		t.Fatalf("products: got %d, want 2", len(got.Products))
	}
	p, ok := got.FindProduct("prod-bread")
	if !ok {
		t.Fatalf("prod-bread not found after round trip")
	}
	if p.PriceCents != 480 || p.Category != "bakery" {
		t.Fatalf("prod-bread fields wrong: %+v", p)
	}
	if got.CurrentActorID != "op-admin" {
		t.Fatalf("current actor: got %q", got.CurrentActorID)
	}
	if got.Copy[CopyHeroTitle] != "Custom headline" {
		t.Fatalf("copy override lost: %q", got.Copy[CopyHeroTitle])
	}
	if got.Theme != db.Theme {
		t.Fatalf("theme round trip: got %+v want %+v", got.Theme, db.Theme)
	}
	if o, ok := got.FindOrder("ord-1"); !ok || o.TotalCents() != 980 {
		t.Fatalf("order total: got %+v", o)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := Store{Dir: dir}

	// Fresh workspace: nothing saved yet.
	db, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for k, want := range DefaultCopy() {
		if db.Copy[k] != want {
			t.Fatalf("copy default %q: got %q want %q", k, db.Copy[k], want)
		}
	}
	if db.Theme != DefaultTheme() {
		t.Fatalf("theme default: got %+v", db.Theme)
	}
}

func TestLoadedCopyOverridesDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := Store{Dir: dir}
	db := seedDB(t)
	db.Copy[CopyCTAAddCart] = "Buy Now"
	if err := s.Save(db); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Copy[CopyCTAAddCart] != "Buy Now" {
		t.Fatalf("override lost: %q", got.Copy[CopyCTAAddCart])
	}
	// Untouched keys keep defaults.
	if got.Copy[CopyCTACheckout] != DefaultCopy()[CopyCTACheckout] {
		t.Fatalf("default lost: %q", got.Copy[CopyCTACheckout])
	}
}

func TestAppendAndListEvents(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := Store{Dir: dir}
	if err := s.AppendEvent("op-admin", "product.set_price", "prod-apples", map[string]any{"from": 250, "to": 300}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.AppendEvent("op-admin", "copy.set", "hero_title", map[string]any{"to": "x"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	evs, err := s.ListEvents(0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(evs) != 2 {
		t.Fatalf("events: got %d want 2", len(evs))
	}
	for _, ev := range evs {
		if ev.ActorID != "op-admin" || ev.ID == "" {
			t.Fatalf("bad event: %+v", ev)
		}
	}
}

func TestAppendEventRequiresActor(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	if err := s.AppendEvent("", "copy.set", "hero_title", nil); err == nil {
		t.Fatalf("expected error for missing actor")
	}
}

func TestUniqueIDPrefix(t *testing.T) {
	t.Parallel()

	db := &DB{}
	p, err := db.NewProduct("Oat Milk", 320, "op-admin")
	if err != nil {
		t.Fatalf("new product: %v", err)
	}
	if len(p.ID) <= len("prod-") || p.ID[:5] != "prod-" {
		t.Fatalf("unexpected id: %q", p.ID)
	}
}
