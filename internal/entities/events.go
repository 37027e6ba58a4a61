package entities

import (
	"github.com/google/uuid"
)

// Event is implemented by every message that goes through the event bus.
// Internal events never leave the service's own topics.
type Event interface {
	IsInternal() bool
}

// PaymentConfirmed_v1 is consumed from the payment layer. It is the sole
// trigger for reservation creation; PaymentReference is the idempotency
// token, so redelivery never books twice.
type PaymentConfirmed_v1 struct {
	Header EventHeader `json:"header"`

	PaymentReference string    `json:"payment_reference"`
	ProviderID       uuid.UUID `json:"provider_id"`
	CustomerID       uuid.UUID `json:"customer_id"`
	PackageID        uuid.UUID `json:"package_id"`
	EventDate        Date      `json:"event_date"`
	Amount           int64     `json:"amount"`
}

func (e PaymentConfirmed_v1) IsInternal() bool {
	return false
}

type ReservationConfirmed_v1 struct {
	Header EventHeader `json:"header"`

	BookingID   string    `json:"booking_id"`
	ProviderID  uuid.UUID `json:"provider_id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	PackageName string    `json:"package_name"`
	EventDate   Date      `json:"event_date"`
	Price       int64     `json:"price"`
	Deposit     int64     `json:"deposit"`
}

func (e ReservationConfirmed_v1) IsInternal() bool {
	return false
}

type ReservationCancelled_v1 struct {
	Header EventHeader `json:"header"`

	BookingID  string    `json:"booking_id"`
	ProviderID uuid.UUID `json:"provider_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	EventDate  Date      `json:"event_date"`
	ActorID    uuid.UUID `json:"actor_id"`
}

func (e ReservationCancelled_v1) IsInternal() bool {
	return false
}

type ReservationCompleted_v1 struct {
	Header EventHeader `json:"header"`

	BookingID  string    `json:"booking_id"`
	ProviderID uuid.UUID `json:"provider_id"`
	CustomerID uuid.UUID `json:"customer_id"`
}

func (e ReservationCompleted_v1) IsInternal() bool {
	return false
}

// LedgerDivergenceDetected_v1 is published when a partial dual-ledger write
// could not be compensated. The payload mirrors the reconciliation task row
// so operators can repair from either source.
type LedgerDivergenceDetected_v1 struct {
	Header EventHeader `json:"header"`

	BookingID        string `json:"booking_id"`
	PaymentReference string `json:"payment_reference"`
	ProviderWritten  bool   `json:"provider_written"`
	CustomerWritten  bool   `json:"customer_written"`
	Reason           string `json:"reason"`
}

func (e LedgerDivergenceDetected_v1) IsInternal() bool {
	return false
}
