package web

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// descriptionMarkdown converts operator-authored product copy: GFM tables
// and strikethrough, :emoji: shortcodes, single newlines as breaks. Raw HTML
// in the source stays escaped, which is what makes the template.HTML return
// value safe to inject.
var descriptionMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, emoji.Emoji),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// renderMarkdownHTML renders one description for the storefront page. When
// conversion fails the escaped source goes out in a <pre> block instead of
// the description silently disappearing.
func renderMarkdownHTML(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := descriptionMarkdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(buf.String())
}
