package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"delivra/internal/models"
)

// OrderRepository is the gorm-backed order store. Every state-changing
// method is a single conditional UPDATE so concurrent transitions on the
// same order have exactly one winner; callers inspect the affected row
// count to classify the loser.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (r *OrderRepository) OrdersByCourier(ctx context.Context, courierID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("courier_id = ?", courierID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list courier orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) OrdersByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurant orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves an order from one status to another. The expected
// current status is part of the WHERE clause, giving compare-and-swap
// semantics. Returns the number of rows updated (0 or 1).
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update order status: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ClaimForCourier atomically assigns an unassigned ready order to a
// courier. The status and courier_id checks share one UPDATE so two
// couriers cannot both win.
func (r *OrderRepository) ClaimForCourier(ctx context.Context, id, courierID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ? AND courier_id IS NULL", id, models.OrderStatusReady).
		Updates(map[string]interface{}{
			"courier_id": courierID,
			"status":     models.OrderStatusAcceptedByCourier,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to claim order: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// MarkDelivering applies the pickup-code-gated transition. Accepted from
// ready or accepted_by_courier; an unassigned order is bound to the acting
// courier in the same statement.
func (r *OrderRepository) MarkDelivering(ctx context.Context, id, courierID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status IN ?", id,
			[]models.OrderStatus{models.OrderStatusReady, models.OrderStatusAcceptedByCourier}).
		Updates(map[string]interface{}{
			"status":     models.OrderStatusDelivering,
			"courier_id": gorm.Expr("COALESCE(courier_id, ?)", courierID),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark order delivering: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// MarkDelivered applies the delivery-code-gated transition and stamps the
// completion time.
func (r *OrderRepository) MarkDelivered(ctx context.Context, id, courierID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ? AND courier_id = ?", id, models.OrderStatusDelivering, courierID).
		Updates(map[string]interface{}{
			"status":       models.OrderStatusDelivered,
			"completed_at": time.Now(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark order delivered: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ApplyApproval records an approved payment: payment status, gateway
// payment id, the commission split, and activation of the order for
// restaurant visibility. The payment_status guard makes notification
// replays a no-op, so the split columns are written exactly once.
func (r *OrderRepository) ApplyApproval(ctx context.Context, id uuid.UUID, split models.CommissionSplit, gatewayPaymentID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND payment_status <> ?", id, models.PaymentStatusApproved).
		Updates(map[string]interface{}{
			"payment_status":        models.PaymentStatusApproved,
			"commission_cents":      split.CommissionCents,
			"restaurant_owed_cents": split.RestaurantOwedCents,
			"courier_owed_cents":    split.CourierOwedCents,
			"gateway_payment_id":    gatewayPaymentID,
			"status": gorm.Expr("CASE WHEN status = ? THEN ? ELSE status END",
				models.OrderStatusAwaiting, models.OrderStatusPending),
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to apply payment approval: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SetPaymentStatus records a non-approved gateway status. The business
// status is left untouched.
func (r *OrderRepository) SetPaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus, gatewayPaymentID string) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_status":     status,
			"gateway_payment_id": gatewayPaymentID,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to set payment status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
