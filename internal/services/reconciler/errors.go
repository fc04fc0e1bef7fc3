package reconciler

import "errors"

var (
	// ErrBadNotification means the webhook payload carried no usable
	// payment reference.
	ErrBadNotification = errors.New("notification carries no payment reference")

	// ErrGateway wraps failures talking to the payment gateway.
	ErrGateway = errors.New("payment gateway lookup failed")
)
