package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for expected failure modes. Services return these (or
// wrap them) so the API layer can map them to HTTP statuses.
var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrMarketExpired       = errors.New("market deadline has passed")
	ErrAlreadyResolved     = errors.New("market already resolved")
	ErrAlreadyResponded    = errors.New("challenge already responded to")
	ErrNotAuthorized       = errors.New("not authorized")
	ErrNotFound            = errors.New("not found")
	ErrBonusAlreadyClaimed = errors.New("daily bonus already claimed")
	ErrDisputeWindowClosed = errors.New("dispute window closed")
	ErrValidation          = errors.New("validation failed")
)

// CreatorBetLimitError is returned when a market creator's cumulative stake
// on their own market would exceed the cap.
type CreatorBetLimitError struct {
	Max     int64
	Current int64
}

func (e *CreatorBetLimitError) Error() string {
	return fmt.Sprintf("creator stake limit reached: %d of %d coins already staked", e.Current, e.Max)
}

// NewValidationError wraps ErrValidation with a human readable message
func NewValidationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
