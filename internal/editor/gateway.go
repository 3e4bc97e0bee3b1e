package editor

import (
	"context"

	"larder-cli/internal/model"
)

// ProductState is the editable slice of a product the session tracks:
// the fields the live editor can change in place.
type ProductState struct {
	Name       string
	PriceCents int
}

// ProductFields is a partial product update. Nil fields are left untouched.
type ProductFields struct {
	Name       *string
	PriceCents *int
}

func (f ProductFields) empty() bool {
	return f.Name == nil && f.PriceCents == nil
}

func (f ProductFields) applyTo(p ProductState) ProductState {
	if f.Name != nil {
		p.Name = *f.Name
	}
	if f.PriceCents != nil {
		p.PriceCents = *f.PriceCents
	}
	return p
}

// Gateway is the narrow persistence contract the editor session consumes.
// Writes are whole-value with success-or-failure semantics; there is no
// partial success and the session never retries.
type Gateway interface {
	LoadInitialCopy(ctx context.Context) (map[string]string, error)
	LoadInitialTheme(ctx context.Context) (model.Theme, error)
	LoadInitialProducts(ctx context.Context) (map[string]ProductState, error)
	CheckAuthorized(ctx context.Context, actorID string) (bool, error)

	PersistCopy(ctx context.Context, key, value string) error
	PersistTheme(ctx context.Context, theme model.Theme) error
	PersistProductFields(ctx context.Context, productID string, fields ProductFields) error
}

// ThemePatch is a partial theme update. Nil fields are left untouched.
// Persistence always receives the whole patched record.
type ThemePatch struct {
	PrimaryColor    *string
	AccentColor     *string
	BackgroundColor *string
	TextColor       *string
	HeadingFont     *string
	BodyFont        *string
	CardRadius      *int
	ButtonRadius    *int
}

func (p ThemePatch) empty() bool {
	return p.PrimaryColor == nil && p.AccentColor == nil && p.BackgroundColor == nil &&
		p.TextColor == nil && p.HeadingFont == nil && p.BodyFont == nil &&
		p.CardRadius == nil && p.ButtonRadius == nil
}

func (p ThemePatch) applyTo(t model.Theme) model.Theme {
	if p.PrimaryColor != nil {
		t.PrimaryColor = *p.PrimaryColor
	}
	if p.AccentColor != nil {
		t.AccentColor = *p.AccentColor
	}
	if p.BackgroundColor != nil {
		t.BackgroundColor = *p.BackgroundColor
	}
	if p.TextColor != nil {
		t.TextColor = *p.TextColor
	}
	if p.HeadingFont != nil {
		t.HeadingFont = *p.HeadingFont
	}
	if p.BodyFont != nil {
		t.BodyFont = *p.BodyFont
	}
	if p.CardRadius != nil {
		t.CardRadius = *p.CardRadius
	}
	if p.ButtonRadius != nil {
		t.ButtonRadius = *p.ButtonRadius
	}
	return t
}
