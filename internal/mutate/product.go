package mutate

import (
	"errors"
	"strings"
	"time"

	"larder-cli/internal/model"
	"larder-cli/internal/perm"
	"larder-cli/internal/store"
)

var ErrEmptyName = errors.New("empty name")
var ErrInvalidPrice = errors.New("invalid price")

type ProductResult struct {
	Product      *model.Product
	Changed      bool
	EventPayload map[string]any
}

// SetProductName renames a product. Callers are responsible for saving db and
// appending the product.set_name event.
func SetProductName(db *store.DB, actorID, productID, name string) (ProductResult, error) {
	actorID = strings.TrimSpace(actorID)
	productID = strings.TrimSpace(productID)
	name = strings.TrimSpace(name)
	if db == nil || actorID == "" || productID == "" {
		return ProductResult{}, nil
	}
	if name == "" {
		return ProductResult{}, ErrEmptyName
	}

	p, ok := db.FindProduct(productID)
	if !ok {
		return ProductResult{}, NotFoundError{Kind: "product", ID: productID}
	}
	if !perm.CanEditStorefront(db, actorID) {
		return ProductResult{}, PermissionError{ActorID: actorID, Action: "product.set_name"}
	}

	prev := p.Name
	if prev == name {
		return ProductResult{Product: p, Changed: false}, nil
	}
	p.Name = name
	p.UpdatedAt = time.Now().UTC()
	return ProductResult{
		Product:      p,
		Changed:      true,
		EventPayload: map[string]any{"from": prev, "to": name},
	}, nil
}

// SetProductPrice sets a product's unit price in cents. Zero is allowed
// (free samples); negative prices are not.
func SetProductPrice(db *store.DB, actorID, productID string, priceCents int) (ProductResult, error) {
	actorID = strings.TrimSpace(actorID)
	productID = strings.TrimSpace(productID)
	if db == nil || actorID == "" || productID == "" {
		return ProductResult{}, nil
	}
	if priceCents < 0 {
		return ProductResult{}, ErrInvalidPrice
	}

	p, ok := db.FindProduct(productID)
	if !ok {
		return ProductResult{}, NotFoundError{Kind: "product", ID: productID}
	}
	if !perm.CanEditStorefront(db, actorID) {
		return ProductResult{}, PermissionError{ActorID: actorID, Action: "product.set_price"}
	}

	prev := p.PriceCents
	if prev == priceCents {
		return ProductResult{Product: p, Changed: false}, nil
	}
	p.PriceCents = priceCents
	p.UpdatedAt = time.Now().UTC()
	return ProductResult{
		Product:      p,
		Changed:      true,
		EventPayload: map[string]any{"from": prev, "to": priceCents},
	}, nil
}

// SetProductArchived archives or restores a product.
func SetProductArchived(db *store.DB, actorID, productID string, archived bool) (ProductResult, error) {
	actorID = strings.TrimSpace(actorID)
	productID = strings.TrimSpace(productID)
	if db == nil || actorID == "" || productID == "" {
		return ProductResult{}, nil
	}

	p, ok := db.FindProduct(productID)
	if !ok {
		return ProductResult{}, NotFoundError{Kind: "product", ID: productID}
	}
	if !perm.CanEditStorefront(db, actorID) {
		return ProductResult{}, PermissionError{ActorID: actorID, Action: "product.archive"}
	}

	if p.Archived == archived {
		return ProductResult{Product: p, Changed: false}, nil
	}
	p.Archived = archived
	p.UpdatedAt = time.Now().UTC()
	return ProductResult{
		Product:      p,
		Changed:      true,
		EventPayload: map[string]any{"archived": archived},
	}, nil
}
