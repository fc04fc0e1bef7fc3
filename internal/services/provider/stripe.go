package provider

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/payout"
)

// Stripe issues real payouts through the Stripe Payouts API.
type Stripe struct {
	currency string
}

// NewStripe configures the stripe client. The account must have payouts
// enabled for the configured currency.
func NewStripe(apiKey, currency string) *Stripe {
	stripe.Key = apiKey
	if currency == "" {
		currency = "brl"
	}
	return &Stripe{currency: currency}
}

func (s *Stripe) TransferToDestination(ctx context.Context, amountCents int64, destination, description, idempotencyKey string) (*Result, error) {
	params := &stripe.PayoutParams{
		Amount:      stripe.Int64(amountCents),
		Currency:    stripe.String(s.currency),
		Description: stripe.String(description),
		Destination: stripe.String(destination),
	}
	params.Context = ctx
	params.SetIdempotencyKey(idempotencyKey)

	p, err := payout.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe payout failed: %w", err)
	}

	return &Result{
		OK:           true,
		ExternalTxID: p.ID,
		Raw: map[string]interface{}{
			"id":     p.ID,
			"status": string(p.Status),
			"amount": p.Amount,
		},
	}, nil
}
