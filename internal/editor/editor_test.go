package editor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"larder-cli/internal/model"
)

// fakeGateway is an in-memory Gateway with fault injection: the next
// `failures` persists return an error, and when `gate` is set each persist
// blocks until a value is sent on it.
type fakeGateway struct {
	mu         sync.Mutex
	authorized bool
	copy       map[string]string
	theme      model.Theme
	products   map[string]ProductState

	failures int
	gate     chan struct{}
	calls    []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		authorized: true,
		copy:       map[string]string{},
		products:   map[string]ProductState{},
	}
}

func (g *fakeGateway) LoadInitialCopy(ctx context.Context) (map[string]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := map[string]string{}
	for k, v := range g.copy {
		out[k] = v
	}
	return out, nil
}

func (g *fakeGateway) LoadInitialTheme(ctx context.Context) (model.Theme, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.theme, nil
}

func (g *fakeGateway) LoadInitialProducts(ctx context.Context) (map[string]ProductState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := map[string]ProductState{}
	for id, p := range g.products {
		out[id] = p
	}
	return out, nil
}

func (g *fakeGateway) CheckAuthorized(ctx context.Context, actorID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.authorized, nil
}

func (g *fakeGateway) persist(name string, commit func()) error {
	g.mu.Lock()
	g.calls = append(g.calls, name)
	gate := g.gate
	g.mu.Unlock()
	if gate != nil {
		<-gate
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failures > 0 {
		g.failures--
		return errors.New("backend unavailable")
	}
	commit()
	return nil
}

func (g *fakeGateway) PersistCopy(ctx context.Context, key, value string) error {
	return g.persist("copy:"+key, func() { g.copy[key] = value })
}

func (g *fakeGateway) PersistTheme(ctx context.Context, theme model.Theme) error {
	return g.persist("theme", func() { g.theme = theme })
}

func (g *fakeGateway) PersistProductFields(ctx context.Context, productID string, fields ProductFields) error {
	return g.persist("product:"+productID, func() {
		g.products[productID] = fields.applyTo(g.products[productID])
	})
}

func (g *fakeGateway) callList() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

// mapSink records projected style tokens.
type mapSink struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMapSink() *mapSink {
	return &mapSink{tokens: map[string]string{}}
}

func (m *mapSink) SetToken(name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[name] = value
}

func (m *mapSink) token(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[name]
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func newTestSession(t *testing.T, gw *fakeGateway, cfg SessionConfig) *Session {
	t.Helper()
	if cfg.SuccessMessageTTL == 0 {
		cfg.SuccessMessageTTL = 500 * time.Millisecond
	}
	if cfg.FailureMessageTTL == 0 {
		cfg.FailureMessageTTL = 500 * time.Millisecond
	}
	s := NewSession(gw, cfg)
	t.Cleanup(s.Close)
	if gw.authorized {
		waitFor(t, "authorization", s.Authorized)
	}
	return s
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
