package editor

import "sync"

// Region markers recognized by the default exemption predicate. An element
// (or any ancestor) carrying one of these stays interactive in edit mode.
const (
	EditorControlMarker = "editor-control"
	ThemePanelMarker    = "theme-panel"
)

// Target is the chain of region ids from the page root down to the
// interaction target, the editor's equivalent of an event's ancestor path.
type Target []string

// Gate is the page-wide input interceptor. It is installed once per page
// lifetime and branches on an internal active flag, so toggling edit mode
// never attaches or detaches anything.
type Gate struct {
	mu        sync.RWMutex
	installed bool
	active    bool
	exempt    func(Target) bool
}

func NewGate() *Gate {
	return &Gate{}
}

// Install sets the exemption predicate. The first call wins; later calls are
// ignored so a re-rendered page can't stack predicates.
func (g *Gate) Install(exempt func(Target) bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.installed {
		return
	}
	g.installed = true
	g.exempt = exempt
}

func (g *Gate) Installed() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.installed
}

func (g *Gate) SetActive(active bool) {
	g.mu.Lock()
	g.active = active
	g.mu.Unlock()
}

func (g *Gate) Active() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.active
}

// Allow reports whether an interaction on the target may proceed. While the
// gate is inactive everything passes through. While active, only targets the
// exemption predicate accepts proceed; everything else is cancelled so normal
// page behavior can't fire mid-edit.
func (g *Gate) Allow(t Target) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.active {
		return true
	}
	if g.exempt == nil {
		return false
	}
	return g.exempt(t)
}

// MarkerExempt returns an exemption predicate that accepts any target whose
// chain carries one of the given markers. With no markers it uses the
// defaults (editor controls and the theme panel).
func MarkerExempt(markers ...string) func(Target) bool {
	if len(markers) == 0 {
		markers = []string{EditorControlMarker, ThemePanelMarker}
	}
	set := make(map[string]bool, len(markers))
	for _, m := range markers {
		set[m] = true
	}
	return func(t Target) bool {
		for _, region := range t {
			if set[region] {
				return true
			}
		}
		return false
	}
}
