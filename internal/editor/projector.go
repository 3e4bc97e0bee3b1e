package editor

import (
	"strconv"

	"larder-cli/internal/model"
)

// StyleSink receives style-token writes. The TUI's palette and the web
// preview's CSS custom properties both implement it; tests use a map.
type StyleSink interface {
	SetToken(name, value string)
}

// Theme field names accepted by the projector and by ThemeValue.
const (
	ThemeFieldPrimaryColor    = "primaryColor"
	ThemeFieldAccentColor     = "accentColor"
	ThemeFieldBackgroundColor = "backgroundColor"
	ThemeFieldTextColor       = "textColor"
	ThemeFieldHeadingFont     = "headingFont"
	ThemeFieldBodyFont        = "bodyFont"
	ThemeFieldCardRadius      = "cardRadius"
	ThemeFieldButtonRadius    = "buttonRadius"
)

// styleTokens maps theme field names to style-token names.
var styleTokens = map[string]string{
	ThemeFieldPrimaryColor:    "color-primary",
	ThemeFieldAccentColor:     "color-accent",
	ThemeFieldBackgroundColor: "color-background",
	ThemeFieldTextColor:       "color-text",
	ThemeFieldHeadingFont:     "font-heading",
	ThemeFieldBodyFont:        "font-body",
	ThemeFieldCardRadius:      "radius-card",
	ThemeFieldButtonRadius:    "radius-button",
}

// Projector translates theme field values into style tokens, synchronously
// and independent of persistence. The same call serves forward application
// on edit and reverse application on rollback; applying a value twice leaves
// the sink exactly as applying it once.
type Projector struct {
	sink StyleSink
}

func NewProjector(sink StyleSink) *Projector {
	return &Projector{sink: sink}
}

// Apply projects one theme field. Unknown field names are ignored.
func (p *Projector) Apply(field, value string) {
	if p == nil || p.sink == nil {
		return
	}
	token, ok := styleTokens[field]
	if !ok {
		return
	}
	p.sink.SetToken(token, value)
}

// ApplyTheme projects every field of the record.
func (p *Projector) ApplyTheme(t model.Theme) {
	p.Apply(ThemeFieldPrimaryColor, t.PrimaryColor)
	p.Apply(ThemeFieldAccentColor, t.AccentColor)
	p.Apply(ThemeFieldBackgroundColor, t.BackgroundColor)
	p.Apply(ThemeFieldTextColor, t.TextColor)
	p.Apply(ThemeFieldHeadingFont, t.HeadingFont)
	p.Apply(ThemeFieldBodyFont, t.BodyFont)
	p.Apply(ThemeFieldCardRadius, strconv.Itoa(t.CardRadius))
	p.Apply(ThemeFieldButtonRadius, strconv.Itoa(t.ButtonRadius))
}

// ThemeFieldValue reads one field of a theme record by name; unknown names
// return "".
func ThemeFieldValue(t model.Theme, field string) string {
	switch field {
	case ThemeFieldPrimaryColor:
		return t.PrimaryColor
	case ThemeFieldAccentColor:
		return t.AccentColor
	case ThemeFieldBackgroundColor:
		return t.BackgroundColor
	case ThemeFieldTextColor:
		return t.TextColor
	case ThemeFieldHeadingFont:
		return t.HeadingFont
	case ThemeFieldBodyFont:
		return t.BodyFont
	case ThemeFieldCardRadius:
		return strconv.Itoa(t.CardRadius)
	case ThemeFieldButtonRadius:
		return strconv.Itoa(t.ButtonRadius)
	}
	return ""
}
