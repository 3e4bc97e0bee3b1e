// Package web serves a live storefront preview. Pages are server-rendered;
// a datastar SSE stream re-patches the main region whenever the workspace
// store changes, so edits made in the TUI show up without a reload.
package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"larder-cli/internal/chat"
	"larder-cli/internal/model"
	"larder-cli/internal/publish"
	"larder-cli/internal/store"

	"github.com/starfederation/datastar-go/datastar"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

type ServerConfig struct {
	Addr      string
	Dir       string
	Workspace string
}

type Server struct {
	mu   sync.RWMutex
	cfg  ServerConfig
	tmpl *template.Template
	bc   *storeBroadcaster
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.Dir = strings.TrimSpace(cfg.Dir)
	cfg.Workspace = strings.TrimSpace(cfg.Workspace)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if cfg.Dir == "" {
		return nil, errors.New("web: dir is empty")
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"trim":     strings.TrimSpace,
		"price":    publish.FormatPrice,
		"markdown": renderMarkdownHTML,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	srv := &Server{cfg: cfg, tmpl: tmpl}
	srv.bc = newStoreBroadcaster(cfg.Dir)
	go srv.bc.watchLoop()
	return srv, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Close() {
	s.mu.RLock()
	bc := s.bc
	s.mu.RUnlock()
	bc.Stop()
}

func (s *Server) dir() string {
	s.mu.RLock()
	d := s.cfg.Dir
	s.mu.RUnlock()
	return d
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /events", s.handleStorefrontEvents)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /static/theme.css", s.handleThemeCSS)
	mux.HandleFunc("GET /products/{productId}", s.handleProduct)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /", s.handleStorefront)
	return mux
}

func (s *Server) ListenAndServe() error {
	return http.ListenAndServe(s.cfg.Addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// handleThemeCSS renders the theme record as CSS custom properties. The
// stylesheet is re-fetched by the events stream patch, so a theme edit in
// the TUI restyles the open preview.
func (s *Server) handleThemeCSS(w http.ResponseWriter, r *http.Request) {
	db, err := (store.Store{Dir: s.dir()}).Load()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, RenderThemeCSS(db.Theme))
}

type storefrontVM struct {
	Workspace string
	Now       string
	Copy      map[string]string
	Theme     model.Theme
	Products  []productCardVM
}

type productCardVM struct {
	ID          string
	Name        string
	Category    string
	PriceCents  int
	Unit        string
	ReviewCount int
}

type productVM struct {
	Workspace string
	Copy      map[string]string
	Product   model.Product
	Reviews   []model.Review
}

func (s *Server) storefrontVM(db *store.DB) storefrontVM {
	vm := storefrontVM{
		Workspace: s.cfg.Workspace,
		Now:       time.Now().Format(time.RFC3339),
		Copy:      db.Copy,
		Theme:     db.Theme,
	}
	for _, p := range db.ActiveProducts() {
		vm.Products = append(vm.Products, productCardVM{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			PriceCents:  p.PriceCents,
			Unit:        p.Unit,
			ReviewCount: len(db.PublishedReviews(p.ID)),
		})
	}
	return vm
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func (s *Server) handleStorefront(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	db, err := (store.Store{Dir: s.dir()}).Load()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeHTMLTemplate(w, "storefront.html", s.storefrontVM(db))
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	db, err := (store.Store{Dir: s.dir()}).Load()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	id := strings.TrimSpace(r.PathValue("productId"))
	p, ok := db.FindProduct(id)
	if !ok || p.Archived {
		http.NotFound(w, r)
		return
	}
	s.writeHTMLTemplate(w, "product.html", productVM{
		Workspace: s.cfg.Workspace,
		Copy:      db.Copy,
		Product:   *p,
		Reviews:   db.PublishedReviews(p.ID),
	})
}

// handleChat answers a visitor message from the workspace chat rules and
// appends the exchange to the chat log via a datastar element patch.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	msg := strings.TrimSpace(r.FormValue("message"))
	if msg == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	db, err := (store.Store{Dir: s.dir()}).Load()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	reply := chat.NewResponder(db.ChatRules, db.Copy[store.CopyChatGreeting]).Reply(msg)

	html, err := s.renderTemplate("chat_exchange.html", map[string]string{
		"Message": msg,
		"Reply":   reply,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)
	_ = sse.PatchElements(html,
		datastar.WithSelector("#chat-log"),
		datastar.WithMode(datastar.ElementPatchModeAppend),
	)
}

// handleStorefrontEvents streams main-region re-renders while the store
// changes underneath the open page.
func (s *Server) handleStorefrontEvents(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	s.mu.RLock()
	bc := s.bc
	s.mu.RUnlock()

	ch, cancel := bc.subscribe()
	defer cancel()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-ch:
			db, err := (store.Store{Dir: s.dir()}).Load()
			if err != nil {
				_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
				continue
			}
			html, err := s.renderTemplate("storefront_main.html", s.storefrontVM(db))
			if err != nil {
				_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
				continue
			}
			_ = sse.PatchElements(html,
				datastar.WithSelector("#larder-main"),
				datastar.WithMode(datastar.ElementPatchModeOuter),
			)
			_ = sse.ExecuteScript(`document.getElementById("theme-css").href = "/static/theme.css?v=" + Date.now()`)
		}
	}
}

// storeBroadcaster polls the SQLite files for change and fans out a nudge to
// every open events stream. Polling keeps it dependency-free and works when
// another process (CLI, TUI) owns the write.
type storeBroadcaster struct {
	dir string

	mu   sync.Mutex
	subs map[chan struct{}]struct{}

	stopOnce sync.Once
	stopCh   chan struct{}
}

func newStoreBroadcaster(dir string) *storeBroadcaster {
	return &storeBroadcaster{
		dir:    filepath.Clean(strings.TrimSpace(dir)),
		subs:   map[chan struct{}]struct{}{},
		stopCh: make(chan struct{}),
	}
}

func (b *storeBroadcaster) Stop() {
	if b == nil {
		return
	}
	b.stopOnce.Do(func() {
		close(b.stopCh)
	})
}

func (b *storeBroadcaster) subscribe() (ch chan struct{}, cancel func()) {
	ch = make(chan struct{}, 8)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch, func() {
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
		close(ch)
	}
}

func (b *storeBroadcaster) broadcast() {
	b.mu.Lock()
	for ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	b.mu.Unlock()
}

// fingerprint stamps the database and its WAL. Cheap enough to run every
// second.
func (b *storeBroadcaster) fingerprint() string {
	var modNano, size int64
	for _, name := range []string{"index.sqlite", "index.sqlite-wal"} {
		st, err := os.Stat(filepath.Join(b.dir, name))
		if err != nil {
			continue
		}
		if st.ModTime().UnixNano() > modNano {
			modNano = st.ModTime().UnixNano()
		}
		size += st.Size()
	}
	if modNano == 0 && size == 0 {
		return ""
	}
	return strconv.FormatInt(modNano, 10) + ":" + strconv.FormatInt(size, 10)
}

func (b *storeBroadcaster) watchLoop() {
	lastFP := ""
	t := time.NewTicker(1 * time.Second)
	defer t.Stop()

	for {
		select {
		case <-b.stopCh:
			return
		case <-t.C:
		}

		fp := b.fingerprint()
		if fp == "" || fp == lastFP {
			continue
		}
		first := lastFP == ""
		lastFP = fp
		if first {
			continue
		}
		b.broadcast()
	}
}
