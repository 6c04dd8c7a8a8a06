package models

import "errors"

// Custom errors
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key violation")
	ErrInvalidID      = errors.New("invalid ID format")
	ErrEmptySlip      = errors.New("ticket slip is empty")
	ErrAlreadySettled = errors.New("purchase already settled")
	ErrNegativePayout = errors.New("payout cannot be negative")
)
