package orderflow

import "larder-cli/internal/model"

// Allowed order status transitions. Cancellation is allowed from any
// non-terminal status; delivered and cancelled are terminal.
var transitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderPending: {model.OrderPaid, model.OrderCancelled},
	model.OrderPaid:    {model.OrderPacked, model.OrderCancelled},
	model.OrderPacked:  {model.OrderDelivered, model.OrderCancelled},
}

func ValidStatus(s model.OrderStatus) bool {
	switch s {
	case model.OrderPending, model.OrderPaid, model.OrderPacked, model.OrderDelivered, model.OrderCancelled:
		return true
	}
	return false
}

func Terminal(s model.OrderStatus) bool {
	return s == model.OrderDelivered || s == model.OrderCancelled
}

func CanTransition(from, to model.OrderStatus) bool {
	if from == to {
		return false
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from the given one, in display order.
func NextStatuses(from model.OrderStatus) []model.OrderStatus {
	out := make([]model.OrderStatus, len(transitions[from]))
	copy(out, transitions[from])
	return out
}
