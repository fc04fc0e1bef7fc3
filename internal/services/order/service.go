// Package order implements the order lifecycle state machine: validated
// status transitions, the atomic courier claim, and the code-gated pickup
// and delivery confirmations.
package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"delivra/internal/models"
)

// Store is the slice of the order repository the state machine needs.
// The conditional update methods return the affected row count; zero
// means a concurrent writer won the race.
type Store interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	OrdersByCourier(ctx context.Context, courierID uuid.UUID) ([]models.Order, error)
	OrdersByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (int64, error)
	ClaimForCourier(ctx context.Context, id, courierID uuid.UUID) (int64, error)
	MarkDelivering(ctx context.Context, id, courierID uuid.UUID) (int64, error)
	MarkDelivered(ctx context.Context, id, courierID uuid.UUID) (int64, error)
}

// Loyalty is the fire-and-forget side-effect channel notified after a
// completed delivery or an archived order. Implementations must not block
// or fail the caller.
type Loyalty interface {
	AwardDelivery(orderID, courierID uuid.UUID)
	AwardArchival(orderID, restaurantID uuid.UUID)
}

// Service drives order status transitions.
type Service struct {
	store   Store
	loyalty Loyalty
}

func NewService(store Store, loyalty Loyalty) *Service {
	return &Service{store: store, loyalty: loyalty}
}

// Get returns one order, restricted to its own parties and admins.
func (s *Service) Get(ctx context.Context, id uuid.UUID, claims *models.UserClaims) (*models.Order, error) {
	o, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibleTo(o, claims) {
		return nil, ErrForbidden
	}
	return o, nil
}

// List returns the caller's orders: assigned deliveries for couriers,
// incoming orders for restaurants.
func (s *Service) List(ctx context.Context, claims *models.UserClaims) ([]models.Order, error) {
	switch claims.Role {
	case models.RoleCourier:
		return s.store.OrdersByCourier(ctx, claims.ProfileID)
	case models.RoleRestaurant:
		return s.store.OrdersByRestaurant(ctx, claims.ProfileID)
	default:
		return nil, ErrForbidden
	}
}

// Transition applies a non-gated status change. The expected current
// status rides in the UPDATE's WHERE clause, so of two concurrent
// transition requests exactly one wins and the loser sees
// ErrInvalidTransition.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, newStatus models.OrderStatus, claims *models.UserClaims) (*models.Order, error) {
	o, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if claims.Role == models.RoleRestaurant && o.RestaurantID != claims.ProfileID {
		return nil, ErrForbidden
	}

	if codeGated(newStatus) {
		return nil, fmt.Errorf("%w: %s", ErrGatedTransition, newStatus)
	}
	if !CanTransition(o.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, newStatus)
	}
	if !roleAllowed(claims.Role, o.Status, newStatus) {
		return nil, fmt.Errorf("%w: role %s may not set %s", ErrForbidden, claims.Role, newStatus)
	}

	rows, err := s.store.UpdateStatus(ctx, id, o.Status, newStatus)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, newStatus)
	}
	updated, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if newStatus == models.OrderStatusArchived && s.loyalty != nil {
		s.loyalty.AwardArchival(updated.ID, updated.RestaurantID)
	}
	return updated, nil
}

// Claim lets a courier take an unassigned ready order. The status and
// assignment checks happen in one conditional update, so two concurrent
// claims have exactly one winner; the loser gets ErrAlreadyClaimed,
// distinct from a missing order.
func (s *Service) Claim(ctx context.Context, id uuid.UUID, claims *models.UserClaims) (*models.Order, error) {
	rows, err := s.store.ClaimForCourier(ctx, id, claims.ProfileID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		if _, err := s.store.GetOrder(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrAlreadyClaimed
	}
	return s.store.GetOrder(ctx, id)
}

// Pickup moves a ready or accepted_by_courier order to delivering, gated
// by the pickup code. The match is case-insensitive; a wrong code never
// reveals the expected one.
func (s *Service) Pickup(ctx context.Context, id uuid.UUID, code string, claims *models.UserClaims) (*models.Order, error) {
	o, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.CourierID != nil && *o.CourierID != claims.ProfileID {
		return nil, ErrForbidden
	}
	if o.Status != models.OrderStatusReady && o.Status != models.OrderStatusAcceptedByCourier {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, models.OrderStatusDelivering)
	}
	if !codeMatches(code, o.PickupCode) {
		return nil, ErrCodeMismatch
	}

	rows, err := s.store.MarkDelivering(ctx, id, claims.ProfileID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, models.OrderStatusDelivering)
	}
	return s.store.GetOrder(ctx, id)
}

// Complete moves a delivering order to delivered, gated by the delivery
// code, and fires the loyalty side effect after the update commits.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, code string, claims *models.UserClaims) (*models.Order, error) {
	o, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.CourierID == nil || *o.CourierID != claims.ProfileID {
		return nil, ErrForbidden
	}
	if o.Status != models.OrderStatusDelivering {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, models.OrderStatusDelivered)
	}
	if !codeMatches(code, o.DeliveryCode) {
		return nil, ErrCodeMismatch
	}

	rows, err := s.store.MarkDelivered(ctx, id, claims.ProfileID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, models.OrderStatusDelivered)
	}

	updated, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.loyalty != nil {
		s.loyalty.AwardDelivery(updated.ID, claims.ProfileID)
	}
	return updated, nil
}

func codeMatches(presented, expected string) bool {
	return expected != "" && strings.EqualFold(strings.TrimSpace(presented), expected)
}

func visibleTo(o *models.Order, claims *models.UserClaims) bool {
	switch claims.Role {
	case models.RoleAdmin:
		return true
	case models.RoleRestaurant:
		return o.RestaurantID == claims.ProfileID
	case models.RoleCourier:
		return o.CourierID != nil && *o.CourierID == claims.ProfileID
	case models.RoleClient:
		return o.ClientID == claims.ProfileID
	}
	return false
}
