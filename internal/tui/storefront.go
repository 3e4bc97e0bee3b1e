package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"larder-cli/internal/editor"
	"larder-cli/internal/model"
	"larder-cli/internal/publish"
	"larder-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// fieldRef identifies one editable region on the storefront page.
type fieldRef struct {
	kind  string // copy | product-name | product-price | theme
	key   string // copy key, product id, or theme field name
	label string
}

// storefrontFields enumerates the editable regions in render order: the copy
// strings first, then each visible product's name and price.
func (m *appModel) storefrontFields() []fieldRef {
	fields := []fieldRef{
		{kind: "copy", key: store.CopyHeroTitle, label: "Hero title"},
		{kind: "copy", key: store.CopyHeroSubtitle, label: "Hero subtitle"},
		{kind: "copy", key: store.CopyCTAAddCart, label: "Add-to-cart label"},
		{kind: "copy", key: store.CopyCTACheckout, label: "Checkout label"},
		{kind: "copy", key: store.CopyReviewsTitle, label: "Reviews title"},
		{kind: "copy", key: store.CopyChatGreeting, label: "Chat greeting"},
		{kind: "copy", key: store.CopyFooterNote, label: "Footer note"},
	}
	for _, p := range m.db.ActiveProducts() {
		fields = append(fields,
			fieldRef{kind: "product-name", key: p.ID, label: "Name: " + p.Name},
			fieldRef{kind: "product-price", key: p.ID, label: "Price: " + p.Name},
		)
	}
	return fields
}

// themeFields is the theme panel in display order.
var themeFields = []fieldRef{
	{kind: "theme", key: editor.ThemeFieldPrimaryColor, label: "Primary color"},
	{kind: "theme", key: editor.ThemeFieldAccentColor, label: "Accent color"},
	{kind: "theme", key: editor.ThemeFieldBackgroundColor, label: "Background color"},
	{kind: "theme", key: editor.ThemeFieldTextColor, label: "Text color"},
	{kind: "theme", key: editor.ThemeFieldHeadingFont, label: "Heading font"},
	{kind: "theme", key: editor.ThemeFieldBodyFont, label: "Body font"},
	{kind: "theme", key: editor.ThemeFieldCardRadius, label: "Card radius"},
	{kind: "theme", key: editor.ThemeFieldButtonRadius, label: "Button radius"},
}

func (m appModel) updateStorefrontKey(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	gate := m.session.Gate()

	// Editor controls are exempt from the gate, page interactions are not.
	switch key {
	case "e":
		if gate.Allow(editor.Target{editor.EditorControlMarker, "edit-toggle"}) {
			m.session.ToggleEditMode()
			m.fieldIdx = 0
			m.flash = ""
		}
		return m, nil

	case "t":
		if !m.session.EditModeActive() {
			return m, nil
		}
		if gate.Allow(editor.Target{editor.ThemePanelMarker, "theme-toggle"}) {
			m.session.SetThemePanelOpen(!m.session.ThemePanelOpen())
			m.themeIdx = 0
		}
		return m, nil
	}

	if m.session.ThemePanelOpen() {
		return m.updateThemePanelKey(key)
	}

	if m.session.EditModeActive() {
		return m.updateEditModeKey(key)
	}

	// Browse mode: plain shop interactions, all gated (the gate is inactive
	// here, so they pass; they stop passing the moment edit mode arms it).
	switch key {
	case "j", "down":
		if gate.Allow(editor.Target{"storefront", "catalog"}) {
			if n := len(m.db.ActiveProducts()); n > 0 {
				m.productIdx = (m.productIdx + 1) % n
			}
		}
	case "k", "up":
		if gate.Allow(editor.Target{"storefront", "catalog"}) {
			if n := len(m.db.ActiveProducts()); n > 0 {
				m.productIdx = (m.productIdx - 1 + n) % n
			}
		}
	case "a":
		if gate.Allow(editor.Target{"storefront", "product-card", "add-to-cart"}) {
			m.addFocusedToCart()
		}
	case "c":
		if gate.Allow(editor.Target{"storefront", "checkout"}) {
			m.checkoutCart()
		}
	}
	return m, nil
}

func (m appModel) updateEditModeKey(key string) (tea.Model, tea.Cmd) {
	fields := m.storefrontFields()
	if len(fields) == 0 {
		return m, nil
	}
	switch key {
	case "tab", "down", "j":
		m.fieldIdx = (m.fieldIdx + 1) % len(fields)
	case "shift+tab", "up", "k":
		m.fieldIdx = (m.fieldIdx - 1 + len(fields)) % len(fields)
	case "enter":
		m.openFieldEditor(fields[m.fieldIdx])
	}
	return m, nil
}

func (m appModel) updateThemePanelKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc":
		m.session.SetThemePanelOpen(false)
	case "down", "j", "tab":
		m.themeIdx = (m.themeIdx + 1) % len(themeFields)
	case "up", "k", "shift+tab":
		m.themeIdx = (m.themeIdx - 1 + len(themeFields)) % len(themeFields)
	case "enter":
		m.openFieldEditor(themeFields[m.themeIdx])
	}
	return m, nil
}

func (m *appModel) openFieldEditor(f fieldRef) {
	m.editTarget = f
	m.editingField = true
	m.flash = ""
	m.input.SetValue(m.currentFieldValue(f))
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *appModel) currentFieldValue(f fieldRef) string {
	switch f.kind {
	case "copy":
		return m.session.CopyValue(f.key)
	case "product-name":
		if p, ok := m.session.Product(f.key); ok {
			return p.Name
		}
	case "product-price":
		if p, ok := m.session.Product(f.key); ok {
			return publish.FormatPrice(p.PriceCents)
		}
	case "theme":
		return m.session.ThemeValue(f.key)
	}
	return ""
}

func (m *appModel) commitFieldEdit() {
	v := strings.TrimSpace(m.input.Value())
	f := m.editTarget

	switch f.kind {
	case "copy":
		if v == "" {
			m.flash = "value cannot be empty"
			return
		}
		m.session.RequestCopyMutation(f.key, v)
	case "product-name":
		if v == "" {
			m.flash = "name cannot be empty"
			return
		}
		m.session.RequestProductMutation(f.key, editor.ProductFields{Name: &v})
	case "product-price":
		cents, err := publish.ParsePrice(v)
		if err != nil {
			m.flash = err.Error()
			return
		}
		m.session.RequestProductMutation(f.key, editor.ProductFields{PriceCents: &cents})
	case "theme":
		patch, err := themePatchFor(f.key, v)
		if err != nil {
			m.flash = err.Error()
			return
		}
		m.session.RequestThemeMutation(patch)
	}
}

func themePatchFor(field, value string) (editor.ThemePatch, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return editor.ThemePatch{}, errors.New("value cannot be empty")
	}
	switch field {
	case editor.ThemeFieldPrimaryColor:
		return editor.ThemePatch{PrimaryColor: &value}, nil
	case editor.ThemeFieldAccentColor:
		return editor.ThemePatch{AccentColor: &value}, nil
	case editor.ThemeFieldBackgroundColor:
		return editor.ThemePatch{BackgroundColor: &value}, nil
	case editor.ThemeFieldTextColor:
		return editor.ThemePatch{TextColor: &value}, nil
	case editor.ThemeFieldHeadingFont:
		return editor.ThemePatch{HeadingFont: &value}, nil
	case editor.ThemeFieldBodyFont:
		return editor.ThemePatch{BodyFont: &value}, nil
	case editor.ThemeFieldCardRadius:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return editor.ThemePatch{}, errors.New("radius must be a non-negative integer")
		}
		return editor.ThemePatch{CardRadius: &n}, nil
	case editor.ThemeFieldButtonRadius:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return editor.ThemePatch{}, errors.New("radius must be a non-negative integer")
		}
		return editor.ThemePatch{ButtonRadius: &n}, nil
	}
	return editor.ThemePatch{}, errors.New("unknown theme field: " + field)
}

func (m *appModel) addFocusedToCart() {
	products := m.db.ActiveProducts()
	if len(products) == 0 {
		return
	}
	if m.productIdx >= len(products) {
		m.productIdx = 0
	}
	p := products[m.productIdx]
	m.cart[p.ID]++
	m.flash = ""
}

func (m *appModel) checkoutCart() {
	if len(m.cart) == 0 {
		m.flash = "cart is empty"
		return
	}
	lines := make([]model.OrderLine, 0, len(m.cart))
	for id, qty := range m.cart {
		p, ok := m.db.FindProduct(id)
		if !ok {
			continue
		}
		lines = append(lines, model.OrderLine{ProductID: id, Quantity: qty, PriceCents: p.PriceCents})
	}
	order, err := m.db.NewOrder("Walk-in", lines)
	if err != nil {
		m.flash = err.Error()
		return
	}
	m.cart = map[string]int{}
	m.saveAndLog("order.create", order.ID, map[string]any{"totalCents": order.TotalCents()})
}

func (m appModel) viewStorefrontPage() string {
	editMode := m.session.EditModeActive()
	fields := m.storefrontFields()
	focused := func(f fieldRef) bool {
		if !editMode || m.editingField || m.session.ThemePanelOpen() {
			return false
		}
		cur := fields[m.fieldIdx%len(fields)]
		return cur.kind == f.kind && cur.key == f.key
	}
	renderField := func(f fieldRef, text string) string {
		if focused(f) {
			return focusedFieldStyle().Render(text)
		}
		return text
	}

	var b strings.Builder

	hero := renderField(fieldRef{kind: "copy", key: store.CopyHeroTitle}, m.session.CopyValue(store.CopyHeroTitle))
	b.WriteString(headerStyle().Render(hero))
	b.WriteString("\n")
	b.WriteString(renderField(fieldRef{kind: "copy", key: store.CopyHeroSubtitle}, m.session.CopyValue(store.CopyHeroSubtitle)))
	b.WriteString("\n\n")

	cta := m.session.CopyValue(store.CopyCTAAddCart)
	for i, p := range m.db.ActiveProducts() {
		name := p.Name
		priceCents := p.PriceCents
		if ps, ok := m.session.Product(p.ID); ok {
			name = ps.Name
			priceCents = ps.PriceCents
		}

		var card strings.Builder
		card.WriteString(renderField(fieldRef{kind: "product-name", key: p.ID}, name))
		card.WriteString("\n")
		price := publish.FormatPrice(priceCents)
		if p.Unit != "" {
			price += " / " + p.Unit
		}
		card.WriteString(renderField(fieldRef{kind: "product-price", key: p.ID}, price))
		card.WriteString("\n")
		button := ctaStyle().Render(renderField(fieldRef{kind: "copy", key: store.CopyCTAAddCart}, cta))
		card.WriteString(button)
		if qty := m.cart[p.ID]; qty > 0 {
			card.WriteString(mutedStyle().Render(fmt.Sprintf("  x%d in cart", qty)))
		}

		style := cardStyle()
		if !editMode && i == m.productIdx {
			style = style.BorderForeground(accentColor())
		}
		b.WriteString(style.Render(card.String()))
		b.WriteString("\n")
	}

	// Browse mode shows the highlighted product's description under the cards.
	if !editMode {
		products := m.db.ActiveProducts()
		if len(products) > 0 {
			p := products[m.productIdx%len(products)]
			if strings.TrimSpace(p.Description) != "" {
				b.WriteString("\n")
				b.WriteString(renderMarkdown(p.Description, m.width))
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(renderField(fieldRef{kind: "copy", key: store.CopyFooterNote}, mutedStyle().Render(m.session.CopyValue(store.CopyFooterNote))))

	if m.session.ThemePanelOpen() {
		b.WriteString("\n\n")
		b.WriteString(m.viewThemePanel())
	}
	if m.editingField {
		b.WriteString("\n\n")
		b.WriteString(headerStyle().Render("Edit " + m.editTarget.label))
		b.WriteString("\n")
		b.WriteString(m.input.View())
	}

	return b.String()
}

func (m appModel) viewThemePanel() string {
	var b strings.Builder
	b.WriteString(headerStyle().Render("Theme"))
	b.WriteString("\n")
	for i, f := range themeFields {
		line := fmt.Sprintf("%-18s %s", f.label, m.session.ThemeValue(f.key))
		if i == m.themeIdx && !m.editingField {
			line = focusedFieldStyle().Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle().Render("enter edit - esc close"))
	return cardStyle().Render(b.String())
}
