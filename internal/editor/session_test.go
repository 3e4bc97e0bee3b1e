package editor

import (
	"testing"

	"larder-cli/internal/model"
)

func TestToggleEditModeRequiresAuthorization(t *testing.T) {
	gw := newFakeGateway()
	gw.authorized = false
	s := newTestSession(t, gw, SessionConfig{ActorID: "act-guest"})

	s.ToggleEditMode()
	if s.EditModeActive() {
		t.Fatalf("edit mode enabled without authorization")
	}
	if s.Gate().Active() {
		t.Fatalf("gate armed without authorization")
	}
}

func TestToggleEditModeArmsGate(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(t, gw, SessionConfig{ActorID: "act-admin"})

	s.ToggleEditMode()
	if !s.EditModeActive() || !s.Gate().Active() {
		t.Fatalf("expected edit mode on and gate armed")
	}

	s.SetThemePanelOpen(true)
	if !s.ThemePanelOpen() {
		t.Fatalf("expected theme panel open")
	}

	s.ToggleEditMode()
	if s.EditModeActive() || s.Gate().Active() {
		t.Fatalf("expected edit mode off and gate disarmed")
	}
	if s.ThemePanelOpen() {
		t.Fatalf("theme panel should close with edit mode")
	}
}

func TestThemePanelRequiresEditMode(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(t, gw, SessionConfig{ActorID: "act-admin"})

	s.SetThemePanelOpen(true)
	if s.ThemePanelOpen() {
		t.Fatalf("theme panel opened outside edit mode")
	}
}

func TestSessionSeedsDefaultsAndLoadedWins(t *testing.T) {
	gw := newFakeGateway()
	gw.copy["hero_title"] = "Fresh from the farm"
	s := newTestSession(t, gw, SessionConfig{
		ActorID: "act-admin",
		DefaultCopy: map[string]string{
			"hero_title":  "Welcome",
			"footer_note": "Open daily",
		},
	})

	if got := s.CopyValue("hero_title"); got != "Fresh from the farm" {
		t.Fatalf("loaded copy should win, got %q", got)
	}
	if got := s.CopyValue("footer_note"); got != "Open daily" {
		t.Fatalf("default copy should survive, got %q", got)
	}
}

func TestSessionProjectsSeededTheme(t *testing.T) {
	gw := newFakeGateway()
	gw.theme = model.Theme{PrimaryColor: "#2f6f4f", CardRadius: 8}
	sink := newMapSink()
	newTestSession(t, gw, SessionConfig{ActorID: "act-admin", Sink: sink})

	if got := sink.token("color-primary"); got != "#2f6f4f" {
		t.Fatalf("color-primary = %q", got)
	}
	if got := sink.token("radius-card"); got != "8" {
		t.Fatalf("radius-card = %q", got)
	}
}

func TestTrackProductFirstRegistrationWins(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(t, gw, SessionConfig{ActorID: "act-admin"})

	s.TrackProduct("prd-1", ProductState{Name: "Rye Loaf", PriceCents: 450})
	s.TrackProduct("prd-1", ProductState{Name: "Stale", PriceCents: 1})

	p, ok := s.Product("prd-1")
	if !ok || p.Name != "Rye Loaf" || p.PriceCents != 450 {
		t.Fatalf("unexpected product state: %+v ok=%v", p, ok)
	}
}
