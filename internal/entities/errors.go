package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation covers malformed or missing input.
	ErrValidation = errors.New("validation error")

	// ErrNotFound covers unknown providers, customers and packages.
	ErrNotFound = errors.New("not found")

	// ErrDateConflict means the provider already has a blocking reservation
	// on the requested day. Recoverable by choosing another date.
	ErrDateConflict = errors.New("date already booked")

	// ErrIDGenerationExhausted means no unique booking id could be produced
	// within the allowed attempts. Rare and retryable.
	ErrIDGenerationExhausted = errors.New("booking id generation exhausted")

	// ErrReservationPersist is a storage failure before anything became
	// visible. Retryable with the same payment reference.
	ErrReservationPersist = errors.New("reservation persist failed")
)

// LedgerDivergenceError reports a partial dual-ledger write that could not be
// compensated. It is not caller-retryable; by the time it surfaces, a
// reconciliation task with the same payload has been durably recorded.
type LedgerDivergenceError struct {
	BookingID        string
	PaymentReference string
	ProviderWritten  bool
	CustomerWritten  bool
	Cause            error
}

func (e *LedgerDivergenceError) Error() string {
	return fmt.Sprintf(
		"ledger divergence for booking %s (provider copy: %t, customer copy: %t): %v",
		e.BookingID, e.ProviderWritten, e.CustomerWritten, e.Cause,
	)
}

func (e *LedgerDivergenceError) Unwrap() error {
	return e.Cause
}
