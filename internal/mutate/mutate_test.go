package mutate

import (
	"errors"
	"testing"
	"time"

	"larder-cli/internal/model"
	"larder-cli/internal/store"
)

func testDB() *store.DB {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return &store.DB{
		Version: 1,
		Actors: []model.Actor{
			{ID: "op-admin", Role: model.RoleAdmin},
			{ID: "op-staff", Role: model.RoleStaff},
		},
		Products: []model.Product{
			{ID: "prod-apples", Name: "Apples", PriceCents: 250, CreatedAt: now, UpdatedAt: now},
		},
		Orders: []model.Order{
			{ID: "ord-1", Customer: "Riley", Status: model.OrderPending, CreatedAt: now, UpdatedAt: now},
		},
		Copy:  map[string]string{"hero_title": "Fresh from the Larder"},
		Theme: store.DefaultTheme(),
	}
}

func TestSetProductName(t *testing.T) {
	t.Parallel()

	db := testDB()
	res, err := SetProductName(db, "op-admin", "prod-apples", "Braeburn Apples")
	if err != nil {
		t.Fatalf("set name: %v", err)
	}
	if !res.Changed || res.Product.Name != "Braeburn Apples" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.EventPayload["from"] != "Apples" {
		t.Fatalf("payload: %+v", res.EventPayload)
	}

	// Unchanged value is a no-op.
	res, err = SetProductName(db, "op-admin", "prod-apples", "Braeburn Apples")
	if err != nil || res.Changed {
		t.Fatalf("expected no-op, got %+v err=%v", res, err)
	}

	if _, err := SetProductName(db, "op-admin", "prod-apples", "  "); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestSetProductPricePermissions(t *testing.T) {
	t.Parallel()

	db := testDB()
	if _, err := SetProductPrice(db, "op-staff", "prod-apples", 300); err == nil {
		t.Fatalf("staff should not set prices")
	} else {
		var pe PermissionError
		if !errors.As(err, &pe) {
			t.Fatalf("expected PermissionError, got %T", err)
		}
	}
	if db.Products[0].PriceCents != 250 {
		t.Fatalf("price should be unchanged")
	}

	if _, err := SetProductPrice(db, "op-admin", "prod-apples", -1); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}

	res, err := SetProductPrice(db, "op-admin", "prod-apples", 300)
	if err != nil || !res.Changed {
		t.Fatalf("admin price change failed: %+v err=%v", res, err)
	}
}

func TestSetCopyValue(t *testing.T) {
	t.Parallel()

	db := testDB()
	res, err := SetCopyValue(db, "op-admin", "cta_add_cart", "Buy Now")
	if err != nil || !res.Changed {
		t.Fatalf("set copy: %+v err=%v", res, err)
	}
	if db.Copy["cta_add_cart"] != "Buy Now" {
		t.Fatalf("copy not applied")
	}

	if _, err := SetCopyValue(db, "op-admin", "cta_add_cart", " "); !errors.Is(err, ErrEmptyCopyValue) {
		t.Fatalf("expected ErrEmptyCopyValue, got %v", err)
	}
	if _, err := SetCopyValue(db, "op-staff", "cta_add_cart", "Nope"); err == nil {
		t.Fatalf("staff should not set copy")
	}
}

func TestSetTheme(t *testing.T) {
	t.Parallel()

	db := testDB()
	theme := db.Theme
	theme.AccentColor = "#ff00aa"
	res, err := SetTheme(db, "op-admin", theme)
	if err != nil || !res.Changed {
		t.Fatalf("set theme: %+v err=%v", res, err)
	}
	if db.Theme.AccentColor != "#ff00aa" {
		t.Fatalf("theme not applied")
	}

	bad := theme
	bad.PrimaryColor = ""
	if _, err := SetTheme(db, "op-admin", bad); !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
}

func TestSetOrderStatus(t *testing.T) {
	t.Parallel()

	db := testDB()
	if _, err := SetOrderStatus(db, "op-staff", "ord-1", model.OrderPacked); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("pending->packed should be rejected, got %v", err)
	}

	res, err := SetOrderStatus(db, "op-staff", "ord-1", model.OrderPaid)
	if err != nil || !res.Changed {
		t.Fatalf("pending->paid failed: %+v err=%v", res, err)
	}
	if db.Orders[0].Status != model.OrderPaid {
		t.Fatalf("status not applied")
	}

	if _, err := SetOrderStatus(db, "op-staff", "ord-404", model.OrderPaid); err == nil {
		t.Fatalf("missing order should error")
	}
}

func TestReviews(t *testing.T) {
	t.Parallel()

	db := testDB()
	if _, err := AddReview(db, "op-staff", "prod-apples", "Riley", 7, "!"); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}

	res, err := AddReview(db, "op-staff", "prod-apples", "Riley", 5, "Crisp!")
	if err != nil || !res.Changed {
		t.Fatalf("add review: %+v err=%v", res, err)
	}
	if res.Review.Published {
		t.Fatalf("new reviews start unpublished")
	}

	pub, err := SetReviewPublished(db, "op-staff", res.Review.ID, true)
	if err != nil || !pub.Changed || !pub.Review.Published {
		t.Fatalf("publish: %+v err=%v", pub, err)
	}
}
