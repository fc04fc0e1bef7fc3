// Package reconciler turns payment gateway webhook notifications into
// durable payment state on orders. Notifications are treated as hints:
// the authoritative status always comes from a gateway lookup, and every
// write is idempotent so replays and out-of-order delivery are harmless.
package reconciler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"

	"delivra/internal/models"
)

// Payment is the gateway's view of a payment after lookup.
type Payment struct {
	ID                string
	Status            models.PaymentStatus
	ExternalReference string
}

// Gateway looks up the authoritative payment state.
type Gateway interface {
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)
}

// Store is the order-side surface the reconciler writes through.
type Store interface {
	ApplyApproval(ctx context.Context, id uuid.UUID, split models.CommissionSplit, gatewayPaymentID string) (bool, error)
	SetPaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus, gatewayPaymentID string) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

type Service struct {
	store          Store
	gateway        Gateway
	commissionRate float64
	webhookSecret  string
}

func NewService(store Store, gateway Gateway, commissionRate float64, webhookSecret string) *Service {
	return &Service{
		store:          store,
		gateway:        gateway,
		commissionRate: commissionRate,
		webhookSecret:  webhookSecret,
	}
}

// Notification is the payment reference extracted from a webhook request.
type Notification struct {
	PaymentID string
	Topic     string
}

type notificationBody struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ParseNotification pulls the payment id out of a webhook request,
// preferring query parameters and falling back to the JSON body.
func ParseNotification(queryID, queryTopic string, body []byte) (Notification, error) {
	n := Notification{PaymentID: queryID, Topic: queryTopic}
	if n.PaymentID == "" && len(body) > 0 {
		var parsed notificationBody
		if err := json.Unmarshal(body, &parsed); err == nil {
			n.PaymentID = parsed.Data.ID
			if n.Topic == "" {
				n.Topic = parsed.Type
			}
		}
	}
	if n.PaymentID == "" {
		return n, ErrBadNotification
	}
	return n, nil
}

// CheckSignature verifies the webhook signature header when a secret is
// configured. Verification is best effort: a mismatch is logged but does
// not block processing, since the gateway lookup is what we trust.
func (s *Service) CheckSignature(paymentID, header string) {
	if s.webhookSecret == "" || header == "" {
		return
	}
	if !VerifySignature(s.webhookSecret, paymentID, header) {
		log.Printf("webhook signature mismatch for payment %s", paymentID)
	}
}

// HandleNotification reconciles one payment notification. Approved
// payments get the commission split computed and written once; other
// gateway statuses are mirrored onto the order without touching the
// business status.
func (s *Service) HandleNotification(ctx context.Context, n Notification) error {
	payment, err := s.gateway.GetPayment(ctx, n.PaymentID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}

	orderID, err := uuid.Parse(payment.ExternalReference)
	if err != nil {
		return fmt.Errorf("%w: external reference %q is not an order id", ErrBadNotification, payment.ExternalReference)
	}

	if payment.Status != models.PaymentStatusApproved {
		if err := s.store.SetPaymentStatus(ctx, orderID, payment.Status, payment.ID); err != nil {
			return err
		}
		log.Printf("payment %s for order %s recorded as %s", payment.ID, orderID, payment.Status)
		return nil
	}

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	split := s.Split(order.SubtotalCents, order.DeliveryFeeCents)
	applied, err := s.store.ApplyApproval(ctx, orderID, split, payment.ID)
	if err != nil {
		return err
	}
	if !applied {
		log.Printf("payment %s for order %s already approved, skipping", payment.ID, orderID)
		return nil
	}
	log.Printf("payment %s approved for order %s: commission=%d restaurant=%d courier=%d",
		payment.ID, orderID, split.CommissionCents, split.RestaurantOwedCents, split.CourierOwedCents)
	return nil
}

// Split computes the commission split for an approved payment. The
// commission applies to the item subtotal only; the delivery fee passes
// through to the courier in full.
func (s *Service) Split(subtotalCents, deliveryFeeCents int64) models.CommissionSplit {
	commission := int64(math.Round(float64(subtotalCents) * s.commissionRate))
	return models.CommissionSplit{
		CommissionCents:     commission,
		RestaurantOwedCents: subtotalCents - commission,
		CourierOwedCents:    deliveryFeeCents,
	}
}
