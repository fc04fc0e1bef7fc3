// Package provider abstracts the external transfer rail used to pay
// partners. Implementations must honor the idempotency key so a retried
// request is not executed twice on the provider side.
package provider

import "context"

// Result is the outcome of a transfer attempt. Raw carries the provider
// response verbatim for operator inspection on failure paths.
type Result struct {
	OK           bool
	ExternalTxID string
	Raw          map[string]interface{}
}

// Provider is the single outbound capability this subsystem needs.
// Amounts are always integer minor units.
type Provider interface {
	TransferToDestination(ctx context.Context, amountCents int64, destination, description, idempotencyKey string) (*Result, error)
}
