package web

import (
	"sort"
	"strings"

	"larder-cli/internal/editor"
	"larder-cli/internal/model"
)

// cssSink collects style tokens as CSS custom properties.
type cssSink struct {
	tokens map[string]string
}

func (c *cssSink) SetToken(name, value string) {
	if c.tokens == nil {
		c.tokens = map[string]string{}
	}
	c.tokens[name] = value
}

// RenderThemeCSS projects a theme record into a :root block of custom
// properties. Radius tokens get a px suffix; everything else is verbatim.
func RenderThemeCSS(t model.Theme) string {
	sink := &cssSink{}
	editor.NewProjector(sink).ApplyTheme(t)

	names := make([]string, 0, len(sink.tokens))
	for n := range sink.tokens {
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, n := range names {
		v := sink.tokens[n]
		if strings.HasPrefix(n, "radius-") {
			v += "px"
		}
		b.WriteString("  --" + n + ": " + v + ";\n")
	}
	b.WriteString("}\n")
	return b.String()
}
