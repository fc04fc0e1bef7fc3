package order

import "errors"

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrGatedTransition   = errors.New("transition requires its dedicated endpoint")
	ErrForbidden         = errors.New("actor is not allowed to perform this transition")
	ErrAlreadyClaimed    = errors.New("order already claimed")
	ErrCodeMismatch      = errors.New("verification code does not match")
)
