package publish

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"larder-cli/internal/model"
	"larder-cli/internal/store"
)

type RenderOptions struct {
	IncludeArchived bool
	IncludeReviews  bool
}

// RenderProductMarkdown renders one product page.
func RenderProductMarkdown(db *store.DB, productID string, opt RenderOptions) (string, error) {
	if db == nil {
		return "", fmt.Errorf("missing db")
	}
	p, ok := db.FindProduct(strings.TrimSpace(productID))
	if !ok {
		return "", fmt.Errorf("product not found: %s", productID)
	}
	if p.Archived && !opt.IncludeArchived {
		return "", fmt.Errorf("product archived (use --include-archived): %s", p.ID)
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(p.Name))
	writeLn("")
	writeLn("## Meta")
	writeLn("")
	writeLn("- ID: " + p.ID)
	if strings.TrimSpace(p.Category) != "" {
		writeLn("- Category: " + strings.TrimSpace(p.Category))
	}
	writeLn("- Price: " + FormatPrice(p.PriceCents) + priceUnitSuffix(p.Unit))
	if p.Archived {
		writeLn("- Archived: true")
	}
	if len(p.Tags) > 0 {
		tags := make([]string, 0, len(p.Tags))
		for _, t := range p.Tags {
			t = strings.TrimSpace(t)
			if t != "" {
				tags = append(tags, t)
			}
		}
		sort.Strings(tags)
		if len(tags) > 0 {
			writeLn("- Tags: " + strings.Join(tags, ", "))
		}
	}
	writeLn("- Created: " + p.CreatedAt.UTC().Format(time.RFC3339))
	writeLn("- Updated: " + p.UpdatedAt.UTC().Format(time.RFC3339))

	desc := strings.TrimSpace(p.Description)
	if desc != "" {
		writeLn("")
		writeLn("## Description")
		writeLn("")
		writeLn(desc)
	}

	if opt.IncludeReviews {
		reviews := db.PublishedReviews(p.ID)
		if len(reviews) > 0 {
			writeLn("")
			writeLn("## Reviews")
			for _, r := range reviews {
				writeLn("")
				writeLn(fmt.Sprintf("### %s (%d/5)", strings.TrimSpace(r.Author), r.Rating))
				writeLn("")
				writeLn(strings.TrimSpace(r.Body))
			}
		}
	}

	return buf.String(), nil
}

// RenderCatalogIndexMarkdown renders the catalog index: hero copy followed by
// a product table grouped by category.
func RenderCatalogIndexMarkdown(db *store.DB, products []*model.Product, opt RenderOptions) (string, error) {
	if db == nil {
		return "", fmt.Errorf("missing db")
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(db.Copy[store.CopyHeroTitle]))
	if sub := strings.TrimSpace(db.Copy[store.CopyHeroSubtitle]); sub != "" {
		writeLn("")
		writeLn(sub)
	}

	byCategory := map[string][]*model.Product{}
	categories := make([]string, 0)
	for _, p := range products {
		if p == nil || (p.Archived && !opt.IncludeArchived) {
			continue
		}
		cat := strings.TrimSpace(p.Category)
		if cat == "" {
			cat = "Other"
		}
		if _, ok := byCategory[cat]; !ok {
			categories = append(categories, cat)
		}
		byCategory[cat] = append(byCategory[cat], p)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		writeLn("")
		writeLn("## " + cat)
		writeLn("")
		list := byCategory[cat]
		sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		for _, p := range list {
			writeLn(fmt.Sprintf("- [%s](products/%s.md): %s%s", strings.TrimSpace(p.Name), p.ID, FormatPrice(p.PriceCents), priceUnitSuffix(p.Unit)))
		}
	}

	if note := strings.TrimSpace(db.Copy[store.CopyFooterNote]); note != "" {
		writeLn("")
		writeLn("---")
		writeLn("")
		writeLn(note)
	}

	return buf.String(), nil
}

// FormatPrice renders cents as a decimal amount, "4.50" for 450.
func FormatPrice(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ParsePrice is the inverse of FormatPrice for operator input: it accepts
// "4.50", "4.5", "4" or "$4.50" and returns cents.
func ParsePrice(s string) (int, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return 0, errors.New("empty price")
	}
	whole, frac, _ := strings.Cut(s, ".")
	w, err := strconv.Atoi(whole)
	if err != nil || w < 0 || strings.HasPrefix(whole, "-") {
		return 0, errors.New("invalid price")
	}
	cents := w * 100
	switch len(frac) {
	case 0:
	case 1:
		d, err := strconv.Atoi(frac)
		if err != nil || d < 0 {
			return 0, errors.New("invalid price")
		}
		cents += d * 10
	case 2:
		d, err := strconv.Atoi(frac)
		if err != nil || d < 0 {
			return 0, errors.New("invalid price")
		}
		cents += d
	default:
		return 0, errors.New("invalid price")
	}
	return cents, nil
}

func priceUnitSuffix(unit string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return ""
	}
	return " / " + unit
}
