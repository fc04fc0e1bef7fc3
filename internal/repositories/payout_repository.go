package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"delivra/internal/models"
	"delivra/internal/services/payout"
)

// roleColumns resolves the per-role column names for the one generic
// selection/claim implementation. Restaurant and courier share the same
// queries with different columns.
type roleColumns struct {
	partnerIDColumn string
	amountColumn    string
	claimColumn     string

	// settledStatuses are the fulfillment states in which an order counts
	// as settled for this role. Restaurants also settle archived orders;
	// courier batches run before archival so delivered is their terminal.
	settledStatuses []models.OrderStatus
}

func columnsFor(role models.PartnerRole) roleColumns {
	if role == models.PartnerRoleRestaurant {
		return roleColumns{
			partnerIDColumn: "restaurant_id",
			amountColumn:    "restaurant_owed_cents",
			claimColumn:     "restaurant_payout_id",
			settledStatuses: []models.OrderStatus{models.OrderStatusDelivered, models.OrderStatusArchived},
		}
	}
	return roleColumns{
		partnerIDColumn: "courier_id",
		amountColumn:    "courier_owed_cents",
		claimColumn:     "courier_payout_id",
		settledStatuses: []models.OrderStatus{models.OrderStatusDelivered},
	}
}

// PayoutRepository is the gorm-backed payout.Store.
type PayoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

// InTransaction runs fn against a transaction-bound copy of the
// repository. Any error rolls back the whole batch.
func (r *PayoutRepository) InTransaction(ctx context.Context, fn func(tx payout.Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PayoutRepository{db: tx})
	})
}

func (r *PayoutRepository) eligibleScope(db *gorm.DB, cols roleColumns, start, end time.Time) *gorm.DB {
	return db.Model(&models.Order{}).
		Where(cols.partnerIDColumn+" IS NOT NULL").
		Where("status IN ?", cols.settledStatuses).
		Where("payment_status = ?", models.PaymentStatusApproved).
		Where(cols.amountColumn+" > 0").
		Where(cols.claimColumn+" IS NULL").
		Where("updated_at >= ? AND updated_at < ?", start, end)
}

// LockEligibleOrders selects and row-locks every eligible order for the
// role within the period. SKIP LOCKED lets a concurrent batch run proceed
// on the remainder instead of blocking or double-selecting.
func (r *PayoutRepository) LockEligibleOrders(ctx context.Context, role models.PartnerRole, start, end time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.eligibleScope(r.db.WithContext(ctx), columnsFor(role), start, end).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock eligible orders: %w", err)
	}
	return orders, nil
}

// EligibleOrders re-selects one partner's eligible orders inside the
// calling transaction, oldest first so the payout's order list is stable.
func (r *PayoutRepository) EligibleOrders(ctx context.Context, role models.PartnerRole, partnerID uuid.UUID, start, end time.Time) ([]models.Order, error) {
	cols := columnsFor(role)
	var orders []models.Order
	err := r.eligibleScope(r.db.WithContext(ctx), cols, start, end).
		Where(cols.partnerIDColumn+" = ?", partnerID).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to select eligible orders: %w", err)
	}
	return orders, nil
}

func (r *PayoutRepository) CreatePayout(ctx context.Context, p *models.Payout) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create payout: %w", err)
	}
	return nil
}

// ClaimOrders stamps the role's claim marker on the contributing orders.
// The marker-null predicate keeps the claim single-shot; the caller
// compares the affected count against the expected one.
func (r *PayoutRepository) ClaimOrders(ctx context.Context, role models.PartnerRole, payoutID uuid.UUID, orderIDs []uuid.UUID) (int64, error) {
	cols := columnsFor(role)
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id IN ?", orderIDs).
		Where(cols.claimColumn+" IS NULL").
		Update(cols.claimColumn, payoutID)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to claim orders: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *PayoutRepository) PendingPayouts(ctx context.Context) ([]models.Payout, error) {
	var payouts []models.Payout
	err := r.db.WithContext(ctx).
		Where("status = ?", models.PayoutStatusPending).
		Order("created_at ASC").
		Find(&payouts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending payouts: %w", err)
	}
	return payouts, nil
}

// MarkProcessed records a successful transfer. Guarded by the pending
// status so a processed payout is never rewritten.
func (r *PayoutRepository) MarkProcessed(ctx context.Context, id uuid.UUID, externalTxID string) error {
	res := r.db.WithContext(ctx).Model(&models.Payout{}).
		Where("id = ? AND status = ?", id, models.PayoutStatusPending).
		Updates(map[string]interface{}{
			"status":         models.PayoutStatusProcessed,
			"external_tx_id": externalTxID,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to mark payout processed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PayoutRepository) ListPayouts(ctx context.Context) ([]models.Payout, error) {
	var payouts []models.Payout
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&payouts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}
	return payouts, nil
}
