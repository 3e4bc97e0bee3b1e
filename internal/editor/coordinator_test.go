package editor

import (
	"reflect"
	"testing"
	"time"

	"larder-cli/internal/model"
)

func TestCopyMutationOptimisticThenConfirmed(t *testing.T) {
	gw := newFakeGateway()
	gw.copy["cta_add_cart"] = "Add to Cart"
	s := newTestSession(t, gw, SessionConfig{ActorID: "act-admin"})

	s.RequestCopyMutation("cta_add_cart", "Buy Now")
	if got := s.CopyValue("cta_add_cart"); got != "Buy Now" {
		t.Fatalf("optimistic value not visible, got %q", got)
	}

	waitFor(t, "persist to finish", func() bool { return !s.Saving() })
	if got := s.CopyValue("cta_add_cart"); got != "Buy Now" {
		t.Fatalf("confirmed value lost, got %q", got)
	}
	if got := s.FeedbackMessage(); got != "Saved" {
		t.Fatalf("feedback = %q, want Saved", got)
	}

	gw.mu.Lock()
	persisted := gw.copy["cta_add_cart"]
	gw.mu.Unlock()
	if persisted != "Buy Now" {
		t.Fatalf("backend value = %q", persisted)
	}
}

func TestCopyMutationRollbackOnFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.copy["cta_add_cart"] = "Add to Cart"
	gw.failures = 1
	s := newTestSession(t, gw, SessionConfig{ActorID: "act-admin"})

	s.RequestCopyMutation("cta_add_cart", "Buy Now")
	if got := s.CopyValue("cta_add_cart"); got != "Buy Now" {
		t.Fatalf("optimistic value not visible, got %q", got)
	}

	waitFor(t, "rollback", func() bool { return s.CopyValue("cta_add_cart") == "Add to Cart" })
	if got := s.FeedbackMessage(); got != "Save failed" {
		t.Fatalf("feedback = %q, want Save failed", got)
	}

	gw.mu.Lock()
	persisted := gw.copy["cta_add_cart"]
	gw.mu.Unlock()
	if persisted != "Add to Cart" {
		t.Fatalf("backend value = %q", persisted)
	}
}

// When an older write fails while a newer one is still pending on the same
// field, the field is not rolled back; the newer mutation decides it.
func TestFailureWithNewerPendingKeepsLatest(t *testing.T) {
	gw := newFakeGateway()
	gw.copy["hero_title"] = "Welcome"
	gw.gate = make(chan struct{})
	gw.failures = 1
	s := newTestSession(t, gw, SessionConfig{ActorID: "act-admin"})

	s.RequestCopyMutation("hero_title", "Harvest Week")
	s.RequestCopyMutation("hero_title", "Harvest Month")

	gw.gate <- struct{}{} // release the first write; it fails
	waitFor(t, "first outcome", func() bool { return s.FeedbackMessage() == "Save failed" })
	if got := s.CopyValue("hero_title"); got != "Harvest Month" {
		t.Fatalf("rolled back over a newer pending mutation, got %q", got)
	}

	gw.gate <- struct{}{} // release the second write; it succeeds
	waitFor(t, "persist to finish", func() bool { return !s.Saving() })
	if got := s.CopyValue("hero_title"); got != "Harvest Month" {
		t.Fatalf("final value = %q", got)
	}
}

func TestPerFieldPersistOrder(t *testing.T) {
	gw := newFakeGateway()
	gw.copy["hero_title"] = "Welcome"
	gw.gate = make(chan struct{})
	s := newTestSession(t, gw, SessionConfig{ActorID: "act-admin"})

	s.RequestCopyMutation("hero_title", "One")
	s.RequestCopyMutation("hero_title", "Two")
	s.RequestCopyMutation("hero_title", "Three")

	for i := 0; i < 3; i++ {
		gw.gate <- struct{}{}
	}
	waitFor(t, "persists to finish", func() bool { return !s.Saving() })

	want := []string{"copy:hero_title", "copy:hero_title", "copy:hero_title"}
	if got := gw.callList(); !reflect.DeepEqual(got, want) {
		t.Fatalf("calls = %v", got)
	}
	if got := s.CopyValue("hero_title"); got != "Three" {
		t.Fatalf("final value = %q", got)
	}
}

func TestUnauthorizedMutationIgnored(t *testing.T) {
	gw := newFakeGateway()
	gw.authorized = false
	gw.copy["hero_title"] = "Welcome"
	s := newTestSession(t, gw, SessionConfig{ActorID: "act-guest"})

	s.RequestCopyMutation("hero_title", "Hacked")
	if got := s.CopyValue("hero_title"); got != "Welcome" {
		t.Fatalf("unauthorized mutation applied, got %q", got)
	}
	if s.Saving() {
		t.Fatalf("unauthorized mutation enqueued a persist")
	}
}

func TestThemeMutationProjectsAndRollsBack(t *testing.T) {
	gw := newFakeGateway()
	gw.theme = model.Theme{PrimaryColor: "#2f6f4f", AccentColor: "#d97706"}
	gw.failures = 1
	sink := newMapSink()
	s := newTestSession(t, gw, SessionConfig{ActorID: "act-admin", Sink: sink})

	s.RequestThemeMutation(ThemePatch{PrimaryColor: strPtr("#1d4ed8")})
	if got := sink.token("color-primary"); got != "#1d4ed8" {
		t.Fatalf("projection not applied, color-primary = %q", got)
	}

	waitFor(t, "rollback", func() bool { return sink.token("color-primary") == "#2f6f4f" })
	if got := s.ThemeValue(ThemeFieldPrimaryColor); got != "#2f6f4f" {
		t.Fatalf("theme record not reverted, got %q", got)
	}
	// Untouched fields survive the round trip.
	if got := s.ThemeValue(ThemeFieldAccentColor); got != "#d97706" {
		t.Fatalf("accent color = %q", got)
	}
}

func TestThemeMutationPersistsWholeRecord(t *testing.T) {
	gw := newFakeGateway()
	gw.theme = model.Theme{PrimaryColor: "#2f6f4f", CardRadius: 8}
	s := newTestSession(t, gw, SessionConfig{ActorID: "act-admin"})

	s.RequestThemeMutation(ThemePatch{CardRadius: intPtr(12)})
	waitFor(t, "persist to finish", func() bool { return !s.Saving() })

	gw.mu.Lock()
	saved := gw.theme
	gw.mu.Unlock()
	if saved.CardRadius != 12 || saved.PrimaryColor != "#2f6f4f" {
		t.Fatalf("persisted theme = %+v", saved)
	}
}

func TestProductMutationTrackedOnly(t *testing.T) {
	gw := newFakeGateway()
	gw.products["prd-1"] = ProductState{Name: "Rye Loaf", PriceCents: 450}
	s := newTestSession(t, gw, SessionConfig{ActorID: "act-admin"})

	s.RequestProductMutation("prd-unknown", ProductFields{Name: strPtr("Ghost")})
	if s.Saving() {
		t.Fatalf("untracked product enqueued a persist")
	}

	s.RequestProductMutation("prd-1", ProductFields{PriceCents: intPtr(475)})
	p, _ := s.Product("prd-1")
	if p.PriceCents != 475 || p.Name != "Rye Loaf" {
		t.Fatalf("optimistic product state = %+v", p)
	}

	waitFor(t, "persist to finish", func() bool { return !s.Saving() })
	gw.mu.Lock()
	saved := gw.products["prd-1"]
	gw.mu.Unlock()
	if saved.PriceCents != 475 {
		t.Fatalf("persisted product = %+v", saved)
	}
}

func TestFeedbackClearsAfterTTL(t *testing.T) {
	gw := newFakeGateway()
	gw.copy["hero_title"] = "Welcome"
	s := newTestSession(t, gw, SessionConfig{
		ActorID:           "act-admin",
		SuccessMessageTTL: 20 * time.Millisecond,
	})

	s.RequestCopyMutation("hero_title", "Harvest Week")
	waitFor(t, "feedback", func() bool { return s.FeedbackMessage() == "Saved" })
	waitFor(t, "feedback clear", func() bool { return s.FeedbackMessage() == "" })
}

func TestCloseDiscardsPendingOutcome(t *testing.T) {
	gw := newFakeGateway()
	gw.copy["hero_title"] = "Welcome"
	gw.gate = make(chan struct{})
	gw.failures = 1
	s := newTestSession(t, gw, SessionConfig{ActorID: "act-admin"})

	s.RequestCopyMutation("hero_title", "Harvest Week")
	s.Close()
	gw.gate <- struct{}{}

	// The failed write resolves after Close; nothing may change.
	time.Sleep(20 * time.Millisecond)
	if got := s.CopyValue("hero_title"); got != "Harvest Week" {
		t.Fatalf("state mutated after Close, got %q", got)
	}
	if got := s.FeedbackMessage(); got != "" {
		t.Fatalf("feedback set after Close: %q", got)
	}
}
