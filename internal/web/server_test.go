package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"larder-cli/internal/model"
	"larder-cli/internal/store"
)

func seedWorkspace(t *testing.T) string {
	t.Helper()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	dir := t.TempDir()
	s := store.Store{Dir: dir}
	db := &store.DB{
		Version: 1,
		Actors: []model.Actor{
			{ID: "op-admin", Name: "Ana", Role: model.RoleAdmin, CreatedAt: now},
		},
		Products: []model.Product{
			{ID: "prod-apples", Name: "Apples", Category: "fruit", PriceCents: 250, Unit: "kg", Description: "Crisp **heritage** apples.", CreatedBy: "op-admin", CreatedAt: now, UpdatedAt: now},
			{ID: "prod-old", Name: "Last Season", PriceCents: 100, Archived: true, CreatedBy: "op-admin", CreatedAt: now, UpdatedAt: now},
		},
		Reviews: []model.Review{
			{ID: "rev-1", ProductID: "prod-apples", Author: "Riley", Rating: 5, Body: "Crisp!", Published: true, CreatedAt: now},
		},
		ChatRules: []model.ChatRule{
			{ID: "rule-1", Keywords: []string{"delivery"}, Reply: "We deliver daily before noon."},
		},
		Copy:  map[string]string{store.CopyHeroTitle: "Fresh from the Larder"},
		Theme: store.DefaultTheme(),
	}
	if err := s.Save(db); err != nil {
		t.Fatalf("save: %v", err)
	}
	return dir
}

func testServer(t *testing.T) *Server {
	t.Helper()
	srv, err := NewServer(ServerConfig{Addr: "127.0.0.1:0", Dir: seedWorkspace(t), Workspace: "test"})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStorefrontPage(t *testing.T) {
	t.Parallel()
	h := testServer(t).Handler()

	rec := get(t, h, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, frag := range []string{
		"Fresh from the Larder",
		"prod-apples",
		"2.50 / kg",
		"Add to Cart",
	} {
		if !strings.Contains(body, frag) {
			t.Errorf("missing %q in storefront page", frag)
		}
	}
	if strings.Contains(body, "Last Season") {
		t.Fatalf("archived product rendered")
	}
}

func TestProductPage(t *testing.T) {
	t.Parallel()
	h := testServer(t).Handler()

	rec := get(t, h, "/products/prod-apples")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<strong>heritage</strong>") {
		t.Errorf("markdown description not rendered:\n%s", body)
	}
	if !strings.Contains(body, "Crisp!") {
		t.Errorf("published review missing")
	}

	if rec := get(t, h, "/products/prod-old"); rec.Code != http.StatusNotFound {
		t.Fatalf("archived product status = %d", rec.Code)
	}
	if rec := get(t, h, "/products/prod-missing"); rec.Code != http.StatusNotFound {
		t.Fatalf("missing product status = %d", rec.Code)
	}
}

func TestThemeCSS(t *testing.T) {
	t.Parallel()
	h := testServer(t).Handler()

	rec := get(t, h, "/static/theme.css")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, frag := range []string{
		"--color-primary: #2f6f4f;",
		"--radius-card: 8px;",
		"--font-heading: serif;",
	} {
		if !strings.Contains(body, frag) {
			t.Errorf("missing %q in theme css:\n%s", frag, body)
		}
	}
}

func TestChatReply(t *testing.T) {
	t.Parallel()
	h := testServer(t).Handler()

	form := url.Values{"message": {"do you do delivery?"}}
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "We deliver daily before noon.") {
		t.Fatalf("reply missing from SSE body:\n%s", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	h := testServer(t).Handler()
	if rec := get(t, h, "/health"); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
