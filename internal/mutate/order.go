package mutate

import (
	"errors"
	"strings"
	"time"

	"larder-cli/internal/model"
	"larder-cli/internal/orderflow"
	"larder-cli/internal/perm"
	"larder-cli/internal/store"
)

var ErrInvalidOrderStatus = errors.New("invalid order status")
var ErrBadTransition = errors.New("order status transition not allowed")

type OrderResult struct {
	Order        *model.Order
	Changed      bool
	EventPayload map[string]any
}

// SetOrderStatus moves an order through the fulfillment flow, validating the
// transition. Callers are responsible for saving db and appending the
// order.set_status event.
func SetOrderStatus(db *store.DB, actorID, orderID string, status model.OrderStatus) (OrderResult, error) {
	actorID = strings.TrimSpace(actorID)
	orderID = strings.TrimSpace(orderID)
	if db == nil || actorID == "" || orderID == "" {
		return OrderResult{}, nil
	}
	if !orderflow.ValidStatus(status) {
		return OrderResult{}, ErrInvalidOrderStatus
	}

	o, ok := db.FindOrder(orderID)
	if !ok {
		return OrderResult{}, NotFoundError{Kind: "order", ID: orderID}
	}
	if !perm.CanManageOrders(db, actorID) {
		return OrderResult{}, PermissionError{ActorID: actorID, Action: "order.set_status"}
	}

	prev := o.Status
	if prev == status {
		return OrderResult{Order: o, Changed: false}, nil
	}
	if !orderflow.CanTransition(prev, status) {
		return OrderResult{}, ErrBadTransition
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	return OrderResult{
		Order:        o,
		Changed:      true,
		EventPayload: map[string]any{"from": string(prev), "to": string(status)},
	}, nil
}
