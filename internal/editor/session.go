package editor

import (
	"context"
	"sync"
	"time"

	"larder-cli/internal/model"
)

const (
	defaultSuccessMessageTTL = 2 * time.Second
	defaultFailureMessageTTL = 3 * time.Second
	defaultPersistTimeout    = 5 * time.Second
)

// SessionConfig defines the inputs for an edit session.
type SessionConfig struct {
	// ActorID identifies the operator for the authorization check.
	ActorID string

	// DefaultCopy and DefaultTheme seed the session; values loaded from the
	// gateway override them, so the session is never partially populated.
	DefaultCopy  map[string]string
	DefaultTheme model.Theme

	// Sink receives projected style tokens. Optional; theme projection is a
	// no-op without one.
	Sink StyleSink

	// SuccessMessageTTL / FailureMessageTTL control how long the transient
	// feedback message stays visible. Zero means the defaults (2s / 3s).
	SuccessMessageTTL time.Duration
	FailureMessageTTL time.Duration

	// PersistTimeout caps each gateway write. Zero means 5s.
	PersistTimeout time.Duration
}

// Session is the single source of truth for edit-mode state: the edit-mode
// flag, the authorization flag, the in-memory copy map, theme record and
// product baselines, plus transient UI feedback. One instance per storefront
// view; all mutation funnels through the Request* methods, never directly.
type Session struct {
	mu        sync.Mutex
	gw        Gateway
	cfg       SessionConfig
	gate      *Gate
	projector *Projector

	authorized     bool
	editModeActive bool
	themePanelOpen bool

	copyMap  map[string]string
	theme    model.Theme
	products map[string]ProductState

	saving      int // in-flight persists; the saving flag is saving > 0
	feedback    string
	feedbackGen int // invalidates stale clear timers

	fields map[string]*fieldState

	closed bool
}

// NewSession seeds a session from defaults merged with the gateway's initial
// loads (loaded values win) and kicks off the asynchronous authorization
// check. Load failures are absorbed: the session still renders from defaults.
func NewSession(gw Gateway, cfg SessionConfig) *Session {
	if cfg.SuccessMessageTTL <= 0 {
		cfg.SuccessMessageTTL = defaultSuccessMessageTTL
	}
	if cfg.FailureMessageTTL <= 0 {
		cfg.FailureMessageTTL = defaultFailureMessageTTL
	}
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = defaultPersistTimeout
	}

	s := &Session{
		gw:        gw,
		cfg:       cfg,
		gate:      NewGate(),
		projector: NewProjector(cfg.Sink),
		copyMap:   map[string]string{},
		theme:     cfg.DefaultTheme,
		products:  map[string]ProductState{},
		fields:    map[string]*fieldState{},
	}
	s.gate.Install(MarkerExempt())

	for k, v := range cfg.DefaultCopy {
		s.copyMap[k] = v
	}

	ctx := context.Background()
	if gw != nil {
		if loaded, err := gw.LoadInitialCopy(ctx); err == nil {
			for k, v := range loaded {
				if v != "" {
					s.copyMap[k] = v
				}
			}
		}
		if theme, err := gw.LoadInitialTheme(ctx); err == nil {
			s.theme = theme
		}
		if products, err := gw.LoadInitialProducts(ctx); err == nil {
			for id, p := range products {
				s.products[id] = p
			}
		}

		go func() {
			ok, err := gw.CheckAuthorized(ctx, cfg.ActorID)
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.closed {
				return
			}
			s.authorized = err == nil && ok
		}()
	}

	// Project the seeded theme so consumers start from the loaded tokens.
	s.projector.ApplyTheme(s.theme)

	return s
}

// Close discards the session. Outcomes of still-pending writes are dropped:
// no state mutation happens after Close.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// ToggleEditMode flips edit mode iff the operator is authorized; otherwise it
// is a silent no-op. Turning edit mode on arms the interaction gate; turning
// it off disarms the gate and clears the theme-panel flag so no stale
// exemption region lingers.
func (s *Session) ToggleEditMode() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authorized {
		return
	}
	s.editModeActive = !s.editModeActive
	s.gate.SetActive(s.editModeActive)
	if !s.editModeActive {
		s.themePanelOpen = false
	}
}

func (s *Session) EditModeActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editModeActive
}

func (s *Session) Authorized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authorized
}

// Gate returns the session's interaction gate for wiring into event routing.
func (s *Session) Gate() *Gate {
	return s.gate
}

func (s *Session) ThemePanelOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.themePanelOpen
}

// SetThemePanelOpen opens or closes the theme panel. Opening requires edit
// mode; closing is always allowed.
func (s *Session) SetThemePanelOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if open && !s.editModeActive {
		return
	}
	s.themePanelOpen = open
}

func (s *Session) CopyValue(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyMap[key]
}

// CopyKeys returns the known copy keys (order unspecified).
func (s *Session) CopyKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.copyMap))
	for k := range s.copyMap {
		out = append(out, k)
	}
	return out
}

func (s *Session) ThemeRecord() model.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

func (s *Session) ThemeValue(field string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ThemeFieldValue(s.theme, field)
}

func (s *Session) Product(id string) (ProductState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

// TrackProduct registers a product baseline so its fields become editable in
// this session. Rendering a product card tracks it; already-tracked ids keep
// their session state (which may hold an unconfirmed optimistic value).
func (s *Session) TrackProduct(id string, p ProductState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; ok {
		return
	}
	s.products[id] = p
}

func (s *Session) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving > 0
}

func (s *Session) FeedbackMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedback
}

// setFeedback replaces the transient message and schedules its clear.
// Caller must hold s.mu.
func (s *Session) setFeedback(msg string, ttl time.Duration) {
	s.feedback = msg
	s.feedbackGen++
	gen := s.feedbackGen
	if msg == "" {
		return
	}
	time.AfterFunc(ttl, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || s.feedbackGen != gen {
			return
		}
		s.feedback = ""
	})
}
