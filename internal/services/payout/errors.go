package payout

import "errors"

var (
	ErrInvalidRole      = errors.New("invalid partner role")
	ErrInvalidCycle     = errors.New("invalid settlement cycle")
	ErrMissingPayoutKey = errors.New("partner has no payout key configured")
	ErrTransferDeclined = errors.New("transfer declined by provider")
)
