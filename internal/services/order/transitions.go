package order

import "delivra/internal/models"

// successors is the complete transition graph. Any edge not listed here
// is invalid, including everything out of the terminal archived state.
// awaiting is absent on purpose: its only exit (activation to pending) is
// driven by the payment reconciler, never by an actor.
var successors = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:           {models.OrderStatusAccepted, models.OrderStatusCancelled},
	models.OrderStatusAccepted:          {models.OrderStatusPreparing, models.OrderStatusCancelled},
	models.OrderStatusPreparing:         {models.OrderStatusReady, models.OrderStatusCancelled},
	models.OrderStatusReady:             {models.OrderStatusAcceptedByCourier, models.OrderStatusCancelled},
	models.OrderStatusAcceptedByCourier: {models.OrderStatusDelivering, models.OrderStatusCancelled},
	models.OrderStatusDelivering:        {models.OrderStatusDelivered},
	models.OrderStatusDelivered:         {models.OrderStatusArchived},
	models.OrderStatusCancelled:         {models.OrderStatusArchived},
	models.OrderStatusArchived:          {},
}

// CanTransition reports whether to is in from's successor set.
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range successors[from] {
		if next == to {
			return true
		}
	}
	return false
}

// codeGated marks the targets reachable only through the pickup, complete
// and accept endpoints, never through the free-form status endpoint.
func codeGated(to models.OrderStatus) bool {
	switch to {
	case models.OrderStatusAcceptedByCourier, models.OrderStatusDelivering, models.OrderStatusDelivered:
		return true
	}
	return false
}

// roleAllowed authorizes an actor role for a non-gated edge. The
// restaurant drives preparation and pre-assignment cancellation; archiving
// is an admin operation.
func roleAllowed(role string, from, to models.OrderStatus) bool {
	if role == models.RoleAdmin {
		return true
	}
	if role != models.RoleRestaurant {
		return false
	}
	switch to {
	case models.OrderStatusAccepted, models.OrderStatusPreparing, models.OrderStatusReady:
		return true
	case models.OrderStatusCancelled:
		// Cancellation after courier assignment needs an admin.
		return from != models.OrderStatusAcceptedByCourier
	}
	return false
}
