package betting

import (
	"errors"
	"strings"
)

// Validation failure reasons. Each is reported independently inside a
// ValidationError and can be matched with errors.Is.
var (
	ErrBetTypeRequired     = errors.New("bet type is required")
	ErrMethodRequired      = errors.New("purchase method is required")
	ErrNagashiTypeRequired = errors.New("nagashi type is required")
	ErrUnsupportedNagashi  = errors.New("nagashi type is not available for this bet type")
	ErrAxisRequired        = errors.New("axis horse is required")
	ErrAxisPairRequired    = errors.New("two axis horses are required")
	ErrTooManyAxes         = errors.New("too many axis horses selected")
	ErrOpponentsRequired   = errors.New("opponent horses are required")
	ErrFirstRequired       = errors.New("first place horse is required")
	ErrSecondRequired      = errors.New("second place horse is required")
	ErrThirdRequired       = errors.New("third place horses are required")
	ErrHorsesRequired      = errors.New("horse selection is required")
	ErrInvalidAmount       = errors.New("amount must be a positive multiple of the stake unit")
	ErrNoCombinations      = errors.New("selection produces no combinations")
)

// ValidationError aggregates every failed precondition of a selection
type ValidationError struct {
	Reasons []error
}

// Error joins all reasons into one message
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Reasons))
	for i, r := range e.Reasons {
		msgs[i] = r.Error()
	}
	return "invalid selection: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the individual reasons to errors.Is and errors.As
func (e *ValidationError) Unwrap() []error {
	return e.Reasons
}

// Has reports whether reason is among the failures
func (e *ValidationError) Has(reason error) bool {
	for _, r := range e.Reasons {
		if errors.Is(r, reason) {
			return true
		}
	}
	return false
}
