// Package gateway adapts the workspace store to the editor's persistence
// contract. Each write is load-mutate-save against SQLite plus an event-log
// append, serialized behind one mutex since the editor may issue writes for
// different fields concurrently.
package gateway

import (
	"context"
	"sync"

	"larder-cli/internal/editor"
	"larder-cli/internal/model"
	"larder-cli/internal/mutate"
	"larder-cli/internal/perm"
	"larder-cli/internal/store"
)

type StoreGateway struct {
	mu      sync.Mutex
	st      store.Store
	actorID string
}

func New(st store.Store, actorID string) *StoreGateway {
	return &StoreGateway{st: st, actorID: actorID}
}

func (g *StoreGateway) load(ctx context.Context) (*store.DB, error) {
	if err := g.st.Ensure(); err != nil {
		return nil, err
	}
	return g.st.LoadSQLite(ctx)
}

func (g *StoreGateway) LoadInitialCopy(ctx context.Context) (map[string]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	db, err := g.st.Load()
	if err != nil {
		return nil, err
	}
	return db.Copy, nil
}

func (g *StoreGateway) LoadInitialTheme(ctx context.Context) (model.Theme, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	db, err := g.st.Load()
	if err != nil {
		return model.Theme{}, err
	}
	return db.Theme, nil
}

func (g *StoreGateway) LoadInitialProducts(ctx context.Context) (map[string]editor.ProductState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	db, err := g.st.Load()
	if err != nil {
		return nil, err
	}
	out := map[string]editor.ProductState{}
	for _, p := range db.ActiveProducts() {
		out[p.ID] = editor.ProductState{Name: p.Name, PriceCents: p.PriceCents}
	}
	return out, nil
}

func (g *StoreGateway) CheckAuthorized(ctx context.Context, actorID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	db, err := g.load(ctx)
	if err != nil {
		return false, err
	}
	return perm.CanEditStorefront(db, actorID), nil
}

func (g *StoreGateway) PersistCopy(ctx context.Context, key, value string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	db, err := g.load(ctx)
	if err != nil {
		return err
	}
	res, err := mutate.SetCopyValue(db, g.actorID, key, value)
	if err != nil {
		return err
	}
	if !res.Changed {
		return nil
	}
	if err := g.st.SaveSQLite(ctx, db); err != nil {
		return err
	}
	return g.st.AppendEvent(g.actorID, "copy.set", key, res.EventPayload)
}

func (g *StoreGateway) PersistTheme(ctx context.Context, theme model.Theme) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	db, err := g.load(ctx)
	if err != nil {
		return err
	}
	res, err := mutate.SetTheme(db, g.actorID, theme)
	if err != nil {
		return err
	}
	if !res.Changed {
		return nil
	}
	if err := g.st.SaveSQLite(ctx, db); err != nil {
		return err
	}
	return g.st.AppendEvent(g.actorID, "theme.set", "theme", res.EventPayload)
}

// PersistProductFields applies the present fields as individual mutations so
// each carries its own event, then saves once. Any mutation error aborts
// before the save, keeping the write all-or-nothing.
func (g *StoreGateway) PersistProductFields(ctx context.Context, productID string, fields editor.ProductFields) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	db, err := g.load(ctx)
	if err != nil {
		return err
	}

	type applied struct {
		typ     string
		payload map[string]any
	}
	var events []applied

	if fields.Name != nil {
		res, err := mutate.SetProductName(db, g.actorID, productID, *fields.Name)
		if err != nil {
			return err
		}
		if res.Changed {
			events = append(events, applied{"product.set_name", res.EventPayload})
		}
	}
	if fields.PriceCents != nil {
		res, err := mutate.SetProductPrice(db, g.actorID, productID, *fields.PriceCents)
		if err != nil {
			return err
		}
		if res.Changed {
			events = append(events, applied{"product.set_price", res.EventPayload})
		}
	}
	if len(events) == 0 {
		return nil
	}
	if err := g.st.SaveSQLite(ctx, db); err != nil {
		return err
	}
	for _, ev := range events {
		if err := g.st.AppendEvent(g.actorID, ev.typ, productID, ev.payload); err != nil {
			return err
		}
	}
	return nil
}
