package models

import "errors"

// ErrNotFound is the store-level miss shared by the repositories.
var ErrNotFound = errors.New("record not found")
