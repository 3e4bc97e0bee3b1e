package tui

import (
	"fmt"
	"strings"

	"larder-cli/internal/model"
	"larder-cli/internal/mutate"
	"larder-cli/internal/orderflow"
	"larder-cli/internal/publish"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

type productItem struct{ product model.Product }

func (i productItem) FilterValue() string { return i.product.Name }
func (i productItem) Title() string {
	name := i.product.Name
	if i.product.Archived {
		name += " (archived)"
	}
	return name
}
func (i productItem) Description() string {
	parts := []string{publish.FormatPrice(i.product.PriceCents)}
	if i.product.Unit != "" {
		parts[0] += " / " + i.product.Unit
	}
	if i.product.Category != "" {
		parts = append(parts, i.product.Category)
	}
	return strings.Join(parts, " - ")
}

type orderItem struct{ order model.Order }

func (i orderItem) FilterValue() string { return i.order.Customer }
func (i orderItem) Title() string {
	return fmt.Sprintf("%s - %s", i.order.Customer, i.order.Status)
}
func (i orderItem) Description() string {
	return fmt.Sprintf("%d line(s), total %s", len(i.order.Lines), publish.FormatPrice(i.order.TotalCents()))
}

type reviewItem struct{ review model.Review }

func (i reviewItem) FilterValue() string { return i.review.Author }
func (i reviewItem) Title() string {
	state := "unpublished"
	if i.review.Published {
		state = "published"
	}
	return fmt.Sprintf("%s %d/5 (%s)", i.review.Author, i.review.Rating, state)
}
func (i reviewItem) Description() string {
	body := strings.TrimSpace(i.review.Body)
	if xansi.StringWidth(body) > 60 {
		body = xansi.Cut(body, 0, 57) + "..."
	}
	return body
}

type ruleItem struct{ rule model.ChatRule }

func (i ruleItem) FilterValue() string { return strings.Join(i.rule.Keywords, " ") }
func (i ruleItem) Title() string       { return strings.Join(i.rule.Keywords, ", ") }
func (i ruleItem) Description() string { return i.rule.Reply }

func newList(items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	// ESC is back/cancel here, never quit.
	l.KeyMap.Quit.SetKeys("q")
	return l
}

func (m *appModel) refreshLists() {
	products := make([]list.Item, 0, len(m.db.Products))
	for _, p := range m.db.Products {
		products = append(products, productItem{product: p})
	}
	m.productsList.SetItems(products)

	orders := make([]list.Item, 0, len(m.db.Orders))
	for _, o := range m.db.Orders {
		orders = append(orders, orderItem{order: o})
	}
	m.ordersList.SetItems(orders)

	reviews := make([]list.Item, 0, len(m.db.Reviews))
	for _, r := range m.db.Reviews {
		reviews = append(reviews, reviewItem{review: r})
	}
	m.reviewsList.SetItems(reviews)

	rules := make([]list.Item, 0, len(m.db.ChatRules))
	for _, cr := range m.db.ChatRules {
		rules = append(rules, ruleItem{rule: cr})
	}
	m.rulesList.SetItems(rules)
}

func (m *appModel) resizeLists() {
	w, h := m.width, m.height-3
	if h < 3 {
		h = 3
	}
	m.productsList.SetSize(w, h)
	m.ordersList.SetSize(w, h)
	m.reviewsList.SetSize(w, h)
	m.rulesList.SetSize(w, h)
}

func (m appModel) updateListViewKey(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.view == viewOrders && key == "n":
		m.advanceSelectedOrder()
		return m, nil
	case m.view == viewReviews && key == "p":
		m.toggleSelectedReviewPublished()
		return m, nil
	}
	return m.updateActiveList(msg)
}

func (m appModel) updateActiveList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case viewProducts:
		m.productsList, cmd = m.productsList.Update(msg)
	case viewOrders:
		m.ordersList, cmd = m.ordersList.Update(msg)
	case viewReviews:
		m.reviewsList, cmd = m.reviewsList.Update(msg)
	case viewChatRules:
		m.rulesList, cmd = m.rulesList.Update(msg)
	}
	return m, cmd
}

// advanceSelectedOrder moves the selected order to the next status in the
// fulfillment flow. Orders with a choice of successors take the first
// non-cancel one.
func (m *appModel) advanceSelectedOrder() {
	it, ok := m.ordersList.SelectedItem().(orderItem)
	if !ok {
		return
	}
	next := ""
	for _, s := range orderflow.NextStatuses(it.order.Status) {
		if s != model.OrderCancelled {
			next = string(s)
			break
		}
	}
	if next == "" {
		m.flash = "order is in a terminal state"
		return
	}

	res, err := mutate.SetOrderStatus(m.db, m.actorID, it.order.ID, model.OrderStatus(next))
	if err != nil {
		m.flash = err.Error()
		return
	}
	if !res.Changed {
		return
	}
	m.flash = ""
	m.saveAndLog("order.set_status", it.order.ID, res.EventPayload)
}

func (m *appModel) toggleSelectedReviewPublished() {
	it, ok := m.reviewsList.SelectedItem().(reviewItem)
	if !ok {
		return
	}
	res, err := mutate.SetReviewPublished(m.db, m.actorID, it.review.ID, !it.review.Published)
	if err != nil {
		m.flash = err.Error()
		return
	}
	if !res.Changed {
		return
	}
	m.flash = ""
	m.saveAndLog("review.set_published", it.review.ID, res.EventPayload)
}
