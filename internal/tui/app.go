// Package tui is the operator terminal: storefront preview with an in-place
// live editor, plus product, order, review and chat-rule management.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"larder-cli/internal/editor"
	"larder-cli/internal/gateway"
	"larder-cli/internal/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type view int

const (
	viewStorefront view = iota
	viewProducts
	viewOrders
	viewReviews
	viewChatRules
)

func (v view) title() string {
	switch v {
	case viewStorefront:
		return "Storefront"
	case viewProducts:
		return "Products"
	case viewOrders:
		return "Orders"
	case viewReviews:
		return "Reviews"
	case viewChatRules:
		return "Chat"
	}
	return ""
}

type reloadTickMsg struct{}

type appModel struct {
	dir       string
	workspace string
	actorID   string
	store     store.Store
	db        *store.DB
	session   *editor.Session

	width  int
	height int

	view view

	productsList list.Model
	ordersList   list.Model
	reviewsList  list.Model
	rulesList    list.Model

	// Storefront browse state.
	productIdx int
	cart       map[string]int

	// Storefront edit state.
	fieldIdx     int
	editingField bool
	editTarget   fieldRef
	input        textinput.Model
	themeIdx     int

	flash string

	lastDBModTime  time.Time
	lastWALModTime time.Time
}

// Run starts the TUI against a workspace directory.
func Run(dir, workspace, actorID string) error {
	s := store.Store{Dir: dir}
	db, err := s.Load()
	if err != nil {
		return err
	}
	if strings.TrimSpace(actorID) == "" {
		actorID = db.CurrentActorID
	}

	gw := gateway.New(s, actorID)
	session := editor.NewSession(gw, editor.SessionConfig{
		ActorID:      actorID,
		DefaultCopy:  store.DefaultCopy(),
		DefaultTheme: store.DefaultTheme(),
		Sink:         paletteSink{},
	})
	defer session.Close()

	applyColorProfilePreference()
	if cfg, err := store.LoadConfig(); err == nil && cfg.TUI != nil {
		applyGlyphPreference(cfg.TUI.Glyphs)
	}

	m := newAppModel(dir, workspace, actorID, db, session)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func newAppModel(dir, workspace, actorID string, db *store.DB, session *editor.Session) appModel {
	m := appModel{
		dir:       dir,
		workspace: workspace,
		actorID:   actorID,
		store:     store.Store{Dir: dir},
		db:        db,
		session:   session,
		view:      viewStorefront,
		cart:      map[string]int{},
	}

	m.productsList = newList([]list.Item{})
	m.ordersList = newList([]list.Item{})
	m.reviewsList = newList([]list.Item{})
	m.rulesList = newList([]list.Item{})

	m.input = textinput.New()
	m.input.CharLimit = 200

	m.trackVisibleProducts()
	m.refreshLists()
	m.captureStoreModTimes()
	return m
}

func (m appModel) Init() tea.Cmd { return tickReload() }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case reloadTickMsg:
		if m.storeChanged() {
			_ = m.reloadFromDisk()
		}
		return m, tickReload()

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m.updateActiveList(msg)
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// The field editor swallows everything except its own commit/cancel keys.
	if m.editingField {
		switch key {
		case "enter":
			m.commitFieldEdit()
			m.editingField = false
			return m, nil
		case "esc":
			m.editingField = false
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "1", "2", "3", "4", "5":
		m.view = view(int(key[0] - '1'))
		m.flash = ""
		return m, nil
	case "r":
		_ = m.reloadFromDisk()
		return m, nil
	}

	if m.view == viewStorefront {
		return m.updateStorefrontKey(key, msg)
	}
	return m.updateListViewKey(key, msg)
}

func tickReload() tea.Cmd {
	return tea.Tick(750*time.Millisecond, func(time.Time) tea.Msg { return reloadTickMsg{} })
}

func (m *appModel) captureStoreModTimes() {
	m.lastDBModTime = fileModTime(filepath.Join(m.dir, "index.sqlite"))
	m.lastWALModTime = fileModTime(filepath.Join(m.dir, "index.sqlite-wal"))
}

func (m *appModel) storeChanged() bool {
	dbMT := fileModTime(filepath.Join(m.dir, "index.sqlite"))
	walMT := fileModTime(filepath.Join(m.dir, "index.sqlite-wal"))
	return dbMT.After(m.lastDBModTime) || walMT.After(m.lastWALModTime)
}

func fileModTime(path string) time.Time {
	st, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return st.ModTime()
}

func (m *appModel) reloadFromDisk() error {
	db, err := m.store.Load()
	if err != nil {
		return err
	}
	m.db = db
	m.captureStoreModTimes()
	m.trackVisibleProducts()
	m.refreshLists()
	return nil
}

// trackVisibleProducts registers every rendered product with the edit
// session so its name and price become editable in place.
func (m *appModel) trackVisibleProducts() {
	for _, p := range m.db.ActiveProducts() {
		m.session.TrackProduct(p.ID, editor.ProductState{Name: p.Name, PriceCents: p.PriceCents})
	}
}

func (m *appModel) saveAndLog(typ, entityID string, payload map[string]any) {
	if err := m.store.Save(m.db); err != nil {
		m.flash = err.Error()
		return
	}
	if err := m.store.AppendEvent(m.actorID, typ, entityID, payload); err != nil {
		m.flash = err.Error()
		return
	}
	m.captureStoreModTimes()
	m.refreshLists()
}

func (m appModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var body string
	switch m.view {
	case viewStorefront:
		body = m.viewStorefrontPage()
	case viewProducts:
		body = m.productsList.View()
	case viewOrders:
		body = m.ordersList.View()
	case viewReviews:
		body = m.reviewsList.View()
	case viewChatRules:
		body = m.rulesList.View()
	}

	return strings.Join([]string{m.viewHeader(), body, m.viewStatusBar()}, "\n")
}

func (m appModel) viewHeader() string {
	tabs := make([]string, 0, 5)
	for v := viewStorefront; v <= viewChatRules; v++ {
		label := fmt.Sprintf("%d:%s", int(v)+1, v.title())
		if v == m.view {
			label = headerStyle().Render("[" + label + "]")
		} else {
			label = mutedStyle().Render(" " + label + " ")
		}
		tabs = append(tabs, label)
	}
	ws := mutedStyle().Render(" " + m.workspace)
	return strings.Join(tabs, " ") + ws
}

func (m appModel) viewStatusBar() string {
	parts := make([]string, 0, 4)

	if m.session.EditModeActive() {
		parts = append(parts, accentStyle().Render("EDIT"))
	}
	if m.session.Saving() {
		parts = append(parts, mutedStyle().Render("saving..."))
	}
	if fb := m.session.FeedbackMessage(); fb != "" {
		if fb == "Save failed" {
			parts = append(parts, errorStyle().Render(fb))
		} else {
			parts = append(parts, accentStyle().Render(fb))
		}
	}
	if m.flash != "" {
		parts = append(parts, errorStyle().Render(m.flash))
	}

	help := "q quit - 1..5 views - r reload"
	switch {
	case m.editingField:
		help = "enter save - esc cancel"
	case m.view == viewStorefront && m.session.EditModeActive():
		help = "tab next field - enter edit - t theme - e done"
	case m.view == viewStorefront:
		help = "j/k browse - a add to cart - c checkout - e edit mode"
	case m.view == viewOrders:
		help = "n advance status - j/k browse"
	case m.view == viewReviews:
		help = "p publish/unpublish - j/k browse"
	}
	parts = append(parts, mutedStyle().Render(help))

	return strings.Join(parts, "  ")
}
