package editor

import "testing"

func TestGateInactiveAllowsEverything(t *testing.T) {
	g := NewGate()
	g.Install(MarkerExempt())
	if !g.Allow(Target{"product-card", "cta_add_cart"}) {
		t.Fatalf("inactive gate blocked an interaction")
	}
}

func TestGateActiveBlocksUnmarkedTargets(t *testing.T) {
	g := NewGate()
	g.Install(MarkerExempt())
	g.SetActive(true)

	if g.Allow(Target{"product-card", "cta_add_cart"}) {
		t.Fatalf("active gate allowed an unmarked target")
	}
	if !g.Allow(Target{"toolbar", EditorControlMarker, "save-button"}) {
		t.Fatalf("editor control blocked")
	}
	if !g.Allow(Target{ThemePanelMarker, "color-picker"}) {
		t.Fatalf("theme panel blocked")
	}
}

func TestGateInstallFirstWins(t *testing.T) {
	g := NewGate()
	g.Install(func(Target) bool { return false })
	g.Install(func(Target) bool { return true })
	g.SetActive(true)

	if g.Allow(Target{"anything"}) {
		t.Fatalf("second Install replaced the predicate")
	}
}

func TestGateWithoutPredicateDeniesWhenActive(t *testing.T) {
	g := NewGate()
	g.SetActive(true)
	if g.Allow(Target{"anything"}) {
		t.Fatalf("active gate without predicate allowed an interaction")
	}
}

func TestMarkerExemptCustomMarkers(t *testing.T) {
	pred := MarkerExempt("chat-widget")
	if !pred(Target{"page", "chat-widget", "input"}) {
		t.Fatalf("custom marker not exempt")
	}
	if pred(Target{"page", EditorControlMarker}) {
		t.Fatalf("default marker exempt despite custom list")
	}
}
