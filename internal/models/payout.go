package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Payout is an immutable record of what the platform owes one partner for
// one settlement period. It is created only by the batch generator and
// mutated only by the transfer issuer; it is never deleted.
type Payout struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PartnerID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"partner_id"`
	PartnerRole PartnerRole `gorm:"type:varchar(16);not null" json:"partner_role"`

	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	// Contributing order ids, fixed at creation.
	OrderIDs pq.StringArray `gorm:"type:text[]" json:"order_ids"`

	Status       PayoutStatus `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	ExternalTxID string       `json:"external_tx_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
