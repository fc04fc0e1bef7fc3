package models

import (
	"time"

	"github.com/google/uuid"
)

// Partner is the slice of a restaurant or courier profile this subsystem
// reads: identity plus the payout destination. Profile management lives in
// the external profile service.
type Partner struct {
	ID   uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Role PartnerRole `gorm:"type:varchar(16);not null" json:"role"`
	Name string      `json:"name"`

	// PayoutKey is the PIX-style destination for transfers. An empty key
	// blocks issuance for this partner; it is never treated as zero.
	PayoutKey string `json:"payout_key,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
