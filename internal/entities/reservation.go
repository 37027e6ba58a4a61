package entities

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// NonBlockingStatuses lists the terminal statuses that release the
// provider's calendar day. Ledger queries filter on these same values, so
// the SQL and Blocking can never disagree.
func NonBlockingStatuses() [2]ReservationStatus {
	return [2]ReservationStatus{ReservationCancelled, ReservationCompleted}
}

// Blocking reports whether a reservation in this status still occupies the
// provider's calendar day. Anything outside NonBlockingStatuses blocks, so
// half-applied cancellations fail closed.
func (s ReservationStatus) Blocking() bool {
	for _, terminal := range NonBlockingStatuses() {
		if s == terminal {
			return false
		}
	}
	return true
}

// Reservation is logically one record with two physical copies, one in the
// provider ledger and one in the customer ledger. BookingID is the
// correlation key tying the copies together; all monetary amounts are in
// currency minor units.
type Reservation struct {
	BookingID        string            `json:"booking_id" db:"booking_id"`
	ProviderID       uuid.UUID         `json:"provider_id" db:"provider_id"`
	CustomerID       uuid.UUID         `json:"customer_id" db:"customer_id"`
	PackageID        uuid.UUID         `json:"package_id" db:"package_id"`
	PackageName      string            `json:"package_name" db:"package_name"`
	EventDate        Date              `json:"event_date" db:"event_date"`
	Price            int64             `json:"price" db:"price"`
	Commission       int64             `json:"commission" db:"commission"`
	Deposit          int64             `json:"deposit" db:"deposit"`
	Remaining        int64             `json:"remaining" db:"remaining"`
	Status           ReservationStatus `json:"status" db:"status"`
	PaymentReference string            `json:"payment_reference" db:"payment_reference"`
	CreatedAt        time.Time         `json:"created_at" db:"created_at"`
}

type OwnerRole string

const (
	OwnerRoleProvider OwnerRole = "provider"
	OwnerRoleCustomer OwnerRole = "customer"
)

// PaymentConfirmation is the payload the payment layer hands over once a
// package purchase has been charged. It is the sole trigger for reservation
// creation; PaymentReference doubles as the idempotency token.
type PaymentConfirmation struct {
	PaymentReference string    `json:"payment_reference"`
	ProviderID       uuid.UUID `json:"provider_id"`
	CustomerID       uuid.UUID `json:"customer_id"`
	PackageID        uuid.UUID `json:"package_id"`
	EventDate        Date      `json:"event_date"`
	Amount           int64     `json:"amount"`
}

type Availability struct {
	Available            bool   `json:"available"`
	ConflictingBookingID string `json:"conflicting_booking_id,omitempty"`
}
