package editor

import (
	"testing"

	"larder-cli/internal/model"
)

func TestProjectorApplyUnknownFieldIgnored(t *testing.T) {
	sink := newMapSink()
	p := NewProjector(sink)
	p.Apply("logoSize", "64")
	if len(sink.tokens) != 0 {
		t.Fatalf("unknown field reached the sink: %v", sink.tokens)
	}
}

func TestProjectorApplyTheme(t *testing.T) {
	sink := newMapSink()
	p := NewProjector(sink)
	p.ApplyTheme(model.Theme{
		PrimaryColor:    "#2f6f4f",
		AccentColor:     "#d97706",
		BackgroundColor: "#fdfcf8",
		TextColor:       "#1f2937",
		HeadingFont:     "Fraunces",
		BodyFont:        "Inter",
		CardRadius:      8,
		ButtonRadius:    4,
	})

	checks := map[string]string{
		"color-primary":    "#2f6f4f",
		"color-accent":     "#d97706",
		"color-background": "#fdfcf8",
		"color-text":       "#1f2937",
		"font-heading":     "Fraunces",
		"font-body":        "Inter",
		"radius-card":      "8",
		"radius-button":    "4",
	}
	for token, want := range checks {
		if got := sink.token(token); got != want {
			t.Errorf("%s = %q, want %q", token, got, want)
		}
	}
}

func TestProjectorIdempotent(t *testing.T) {
	sink := newMapSink()
	p := NewProjector(sink)
	p.Apply(ThemeFieldPrimaryColor, "#1d4ed8")
	p.Apply(ThemeFieldPrimaryColor, "#1d4ed8")
	if got := sink.token("color-primary"); got != "#1d4ed8" {
		t.Fatalf("color-primary = %q", got)
	}
	if len(sink.tokens) != 1 {
		t.Fatalf("unexpected tokens: %v", sink.tokens)
	}
}

func TestProjectorNilSink(t *testing.T) {
	p := NewProjector(nil)
	p.ApplyTheme(model.Theme{PrimaryColor: "#fff"}) // must not panic
}

func TestThemeFieldValue(t *testing.T) {
	th := model.Theme{PrimaryColor: "#2f6f4f", CardRadius: 8}
	if got := ThemeFieldValue(th, ThemeFieldPrimaryColor); got != "#2f6f4f" {
		t.Fatalf("primaryColor = %q", got)
	}
	if got := ThemeFieldValue(th, ThemeFieldCardRadius); got != "8" {
		t.Fatalf("cardRadius = %q", got)
	}
	if got := ThemeFieldValue(th, "nope"); got != "" {
		t.Fatalf("unknown field = %q", got)
	}
}
