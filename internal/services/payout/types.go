package payout

import (
	"context"
	"time"

	"github.com/google/uuid"

	"delivra/internal/models"
)

// Store is the transactional slice of the ledger store the generator and
// issuer need. LockEligibleOrders must lock the selected rows with a
// non-blocking SKIP LOCKED lock so overlapping batch runs neither deadlock
// nor double-select a partner.
type Store interface {
	InTransaction(ctx context.Context, fn func(tx Store) error) error
	LockEligibleOrders(ctx context.Context, role models.PartnerRole, start, end time.Time) ([]models.Order, error)
	EligibleOrders(ctx context.Context, role models.PartnerRole, partnerID uuid.UUID, start, end time.Time) ([]models.Order, error)
	CreatePayout(ctx context.Context, p *models.Payout) error
	ClaimOrders(ctx context.Context, role models.PartnerRole, payoutID uuid.UUID, orderIDs []uuid.UUID) (int64, error)
	PendingPayouts(ctx context.Context) ([]models.Payout, error)
	MarkProcessed(ctx context.Context, id uuid.UUID, externalTxID string) error
	ListPayouts(ctx context.Context) ([]models.Payout, error)
}

// PartnerDirectory resolves a partner's payout destination.
type PartnerDirectory interface {
	GetPartner(ctx context.Context, id uuid.UUID) (*models.Partner, error)
}

// BatchSummary is returned to the admin after a generation run.
type BatchSummary struct {
	PartnerRole models.PartnerRole     `json:"partner_role"`
	Cycle       models.SettlementCycle `json:"cycle"`
	PeriodStart time.Time              `json:"period_start"`
	PeriodEnd   time.Time              `json:"period_end"`
	Generated   int                    `json:"generated"`
	Payouts     []PayoutSummary        `json:"payouts"`
}

// PayoutSummary describes one generated payout.
type PayoutSummary struct {
	PayoutID    uuid.UUID `json:"payout_id"`
	PartnerID   uuid.UUID `json:"partner_id"`
	AmountCents int64     `json:"amount_cents"`
	OrderCount  int       `json:"order_count"`
}

// DisburseResult reports one issuer run over the pending payouts.
type DisburseResult struct {
	Attempted int            `json:"attempted"`
	Processed int            `json:"processed"`
	Items     []DisburseItem `json:"items"`
}

// DisburseItem is the per-payout outcome; a failed transfer is a note, not
// an error, so one bad destination cannot abort the rest of the run.
type DisburseItem struct {
	PayoutID     uuid.UUID           `json:"payout_id"`
	PartnerID    uuid.UUID           `json:"partner_id"`
	AmountCents  int64               `json:"amount_cents"`
	Status       models.PayoutStatus `json:"status"`
	ExternalTxID string              `json:"external_tx_id,omitempty"`
	Note         string              `json:"note,omitempty"`
}
