package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"delivra/internal/utils"
)

// Order is the settlement view of a marketplace order. All money is held
// in integer minor units. The commission split columns are written exactly
// once, by the payment reconciler at activation, and never recomputed.
type Order struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientID     uuid.UUID  `gorm:"type:uuid;not null" json:"client_id"`
	RestaurantID uuid.UUID  `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	CourierID    *uuid.UUID `gorm:"type:uuid;index" json:"courier_id,omitempty"`

	SubtotalCents       int64 `gorm:"not null" json:"subtotal_cents"`
	DeliveryFeeCents    int64 `gorm:"not null" json:"delivery_fee_cents"`
	TotalCents          int64 `gorm:"not null" json:"total_cents"`
	CommissionCents     int64 `json:"commission_cents"`
	RestaurantOwedCents int64 `json:"restaurant_owed_cents"`
	CourierOwedCents    int64 `json:"courier_owed_cents"`

	Status        OrderStatus   `gorm:"type:varchar(32);not null;default:'awaiting';index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(16);not null;default:'awaiting'" json:"payment_status"`

	// Claim markers. Non-null means the order is already included in a
	// payout batch for that role.
	RestaurantPayoutID *uuid.UUID `gorm:"type:uuid;index" json:"restaurant_payout_id,omitempty"`
	CourierPayoutID    *uuid.UUID `gorm:"type:uuid;index" json:"courier_payout_id,omitempty"`

	PickupCode   string `gorm:"type:varchar(8)" json:"-"`
	DeliveryCode string `gorm:"type:varchar(8)" json:"-"`

	GatewayPaymentID string `json:"gateway_payment_id,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// BeforeCreate assigns the verification codes handed to the client app.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.PickupCode == "" {
		code, err := utils.VerificationCode()
		if err != nil {
			return err
		}
		o.PickupCode = code
	}
	if o.DeliveryCode == "" {
		code, err := utils.VerificationCode()
		if err != nil {
			return err
		}
		o.DeliveryCode = code
	}
	return nil
}

// PartnerID returns the order's partner reference for the given role.
func (o *Order) PartnerID(role PartnerRole) *uuid.UUID {
	if role == PartnerRoleRestaurant {
		id := o.RestaurantID
		return &id
	}
	return o.CourierID
}

// OwedCents returns what the platform owes the given role for this order.
func (o *Order) OwedCents(role PartnerRole) int64 {
	if role == PartnerRoleRestaurant {
		return o.RestaurantOwedCents
	}
	return o.CourierOwedCents
}

// PayoutID returns the claim marker for the given role.
func (o *Order) PayoutID(role PartnerRole) *uuid.UUID {
	if role == PartnerRoleRestaurant {
		return o.RestaurantPayoutID
	}
	return o.CourierPayoutID
}

// CommissionSplit is the set of columns the reconciler writes when a
// payment is approved.
type CommissionSplit struct {
	CommissionCents     int64
	RestaurantOwedCents int64
	CourierOwedCents    int64
}
