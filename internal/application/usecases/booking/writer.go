package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"

	"decorconnect/internal/entities"
	"decorconnect/internal/idempotency"
	"decorconnect/internal/repository"
)

// EventSink publishes domain events after the corresponding write is
// durably committed. The production sink goes through the transactional
// outbox; see OutboxEventSink.
type EventSink interface {
	Publish(ctx context.Context, event entities.Event) error
}

// DualLedgerWriter persists a reservation redundantly: the provider copy
// first, then the customer copy, with a compensating delete when the second
// write fails. The two copies are never written under one transaction; the
// writer's job is to make the divergence window either empty or durably
// recorded.
type DualLedgerWriter struct {
	providerLedger ProviderLedger
	customerLedger CustomerLedger
	reconciliation ReconciliationQueue
	events         EventSink
}

func NewDualLedgerWriter(
	providerLedger ProviderLedger,
	customerLedger CustomerLedger,
	reconciliation ReconciliationQueue,
	events EventSink,
) *DualLedgerWriter {
	return &DualLedgerWriter{
		providerLedger: providerLedger,
		customerLedger: customerLedger,
		reconciliation: reconciliation,
		events:         events,
	}
}

// Write runs the two-phase protocol. The provider copy must be committed
// before the customer copy is attempted, otherwise the compensating delete
// would not be well defined.
func (w *DualLedgerWriter) Write(ctx context.Context, res entities.Reservation) error {
	err := w.providerLedger.Insert(ctx, res)
	if err != nil {
		if errors.Is(err, entities.ErrDateConflict) ||
			errors.Is(err, repository.ErrDuplicatePaymentReference) {
			return err
		}
		return fmt.Errorf("%w: provider copy for %s: %v", entities.ErrReservationPersist, res.BookingID, err)
	}

	err = w.customerLedger.Insert(ctx, res)
	if err != nil {
		return w.compensateCreate(ctx, res, err)
	}

	return w.events.Publish(ctx, entities.ReservationConfirmed_v1{
		Header:      entities.NewEventHeaderWithIdempotencyKey(res.PaymentReference),
		BookingID:   res.BookingID,
		ProviderID:  res.ProviderID,
		CustomerID:  res.CustomerID,
		PackageName: res.PackageName,
		EventDate:   res.EventDate,
		Price:       res.Price,
		Deposit:     res.Deposit,
	})
}

func (w *DualLedgerWriter) compensateCreate(ctx context.Context, res entities.Reservation, cause error) error {
	log.FromContext(ctx).
		WithField("booking_id", res.BookingID).
		WithField("error", cause).
		Warn("customer ledger write failed, compensating provider copy")

	delErr := w.providerLedger.Delete(ctx, res.BookingID)
	if delErr == nil {
		// Nothing visible remains; the caller may retry with the same
		// payment reference.
		return fmt.Errorf("%w: customer copy for %s: %v", entities.ErrReservationPersist, res.BookingID, cause)
	}

	divergence := &entities.LedgerDivergenceError{
		BookingID:        res.BookingID,
		PaymentReference: res.PaymentReference,
		ProviderWritten:  true,
		CustomerWritten:  false,
		Cause:            cause,
	}
	w.reportDivergence(ctx, divergence, "customer ledger write and compensating delete both failed", res)
	return divergence
}

// Cancel flips the status to cancelled on both copies, provider first, and
// follows the same divergence-reporting path on partial failure.
func (w *DualLedgerWriter) Cancel(ctx context.Context, res entities.Reservation, actorID uuid.UUID) error {
	return w.transition(
		ctx, res, entities.ReservationCancelled,
		entities.ReservationCancelled_v1{
			Header:     entities.NewEventHeaderWithIdempotencyKey(idempotency.GetKey(ctx)),
			BookingID:  res.BookingID,
			ProviderID: res.ProviderID,
			CustomerID: res.CustomerID,
			EventDate:  res.EventDate,
			ActorID:    actorID,
		},
	)
}

// Complete marks a fulfilled reservation done on both copies.
func (w *DualLedgerWriter) Complete(ctx context.Context, res entities.Reservation) error {
	return w.transition(
		ctx, res, entities.ReservationCompleted,
		entities.ReservationCompleted_v1{
			Header:     entities.NewEventHeaderWithIdempotencyKey(idempotency.GetKey(ctx)),
			BookingID:  res.BookingID,
			ProviderID: res.ProviderID,
			CustomerID: res.CustomerID,
		},
	)
}

func (w *DualLedgerWriter) transition(
	ctx context.Context,
	res entities.Reservation,
	status entities.ReservationStatus,
	event entities.Event,
) error {
	err := w.providerLedger.UpdateStatus(ctx, res.BookingID, status)
	if err != nil {
		return fmt.Errorf("provider ledger transition to %s: %w", status, err)
	}

	err = w.customerLedger.UpdateStatus(ctx, res.BookingID, status)
	if err != nil {
		divergence := &entities.LedgerDivergenceError{
			BookingID:        res.BookingID,
			PaymentReference: res.PaymentReference,
			ProviderWritten:  true,
			CustomerWritten:  false,
			Cause:            err,
		}
		w.reportDivergence(ctx, divergence,
			fmt.Sprintf("customer ledger transition to %s failed after provider copy", status), res)
		return divergence
	}

	return w.events.Publish(ctx, event)
}

// reportDivergence durably records the repair task and emits the divergence
// event. It must not fail silently: when even the task insert fails, the
// full payload goes to the log as the last resort.
func (w *DualLedgerWriter) reportDivergence(
	ctx context.Context,
	divergence *entities.LedgerDivergenceError,
	reason string,
	res entities.Reservation,
) {
	err := w.reconciliation.Record(ctx, repository.ReconciliationTask{
		BookingID: divergence.BookingID,
		Reason:    reason,
		Payload:   res,
	})
	if err != nil {
		log.FromContext(ctx).
			WithField("booking_id", divergence.BookingID).
			WithField("payment_reference", divergence.PaymentReference).
			WithField("reservation", res).
			WithField("error", err).
			Error("failed to record ledger divergence, manual repair required")
		return
	}

	err = w.events.Publish(ctx, entities.LedgerDivergenceDetected_v1{
		Header:           entities.NewEventHeader(),
		BookingID:        divergence.BookingID,
		PaymentReference: divergence.PaymentReference,
		ProviderWritten:  divergence.ProviderWritten,
		CustomerWritten:  divergence.CustomerWritten,
		Reason:           reason,
	})
	if err != nil {
		log.FromContext(ctx).
			WithField("booking_id", divergence.BookingID).
			WithField("error", err).
			Error("failed to publish ledger divergence event")
	}
}
