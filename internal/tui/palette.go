package tui

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Package-level palette the styles read from. Theme edits retint the running
// TUI by writing through the paletteSink; the defaults match the stock theme
// record so a brand-new workspace looks the same everywhere.
var (
	paletteMu sync.RWMutex

	colorPrimary    = lipgloss.Color("#2f6f4f")
	colorAccent     = lipgloss.Color("#e07a3f")
	colorBackground = lipgloss.Color("#faf7f2")
	colorText       = lipgloss.Color("#2b2b2b")
	colorMuted      = lipgloss.AdaptiveColor{Light: "#8a8a8a", Dark: "#6b6b6b"}
	colorError      = lipgloss.Color("#c0392b")

	cardBorder = lipgloss.RoundedBorder()
)

// asciiBorder keeps card frames legible on terminals without box-drawing
// glyphs.
var asciiBorder = lipgloss.Border{
	Top:         "-",
	Bottom:      "-",
	Left:        "|",
	Right:       "|",
	TopLeft:     "+",
	TopRight:    "+",
	BottomLeft:  "+",
	BottomRight: "+",
}

// applyGlyphPreference honors the tui.glyphs setting from config.json:
// "ascii" swaps the rounded card border for plain +-| characters, anything
// else keeps the default glyph set.
func applyGlyphPreference(glyphs string) {
	paletteMu.Lock()
	defer paletteMu.Unlock()
	if strings.EqualFold(strings.TrimSpace(glyphs), "ascii") {
		cardBorder = asciiBorder
	} else {
		cardBorder = lipgloss.RoundedBorder()
	}
}

func primaryColor() lipgloss.Color {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	return colorPrimary
}

func accentColor() lipgloss.Color {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	return colorAccent
}

func backgroundColor() lipgloss.Color {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	return colorBackground
}

func textColor() lipgloss.Color {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	return colorText
}

// paletteSink maps projected style tokens onto the palette. Font and radius
// tokens have no terminal rendering and are ignored.
type paletteSink struct{}

func (paletteSink) SetToken(name, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	paletteMu.Lock()
	defer paletteMu.Unlock()
	switch name {
	case "color-primary":
		colorPrimary = lipgloss.Color(value)
	case "color-accent":
		colorAccent = lipgloss.Color(value)
	case "color-background":
		colorBackground = lipgloss.Color(value)
	case "color-text":
		colorText = lipgloss.Color(value)
	}
}

// applyColorProfilePreference sets Lip Gloss's color profile before the
// program starts. termenv's detector can under-report what the terminal
// supports, so if TERM/COLORTERM claim more we trust the env. NO_COLOR
// disables color entirely.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && (profile == termenv.Ascii || profile == termenv.ANSI) {
		profile = termenv.ANSI256
	}

	lipgloss.SetColorProfile(profile)
}

func headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(primaryColor())
}

func accentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(accentColor())
}

func mutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted)
}

func errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError)
}

func ctaStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(backgroundColor()).
		Background(primaryColor()).
		Padding(0, 1)
}

func focusedFieldStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(textColor()).
		Background(accentColor()).
		Padding(0, 1)
}

func cardStyle() lipgloss.Style {
	paletteMu.RLock()
	border := cardBorder
	paletteMu.RUnlock()
	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(primaryColor()).
		Padding(0, 1)
}
