package booking_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"decorconnect/internal/entities"
)

func TestCancelReservation(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, f *usecaseFixture) *entities.Reservation {
		t.Helper()
		res, err := f.usecase.CreateReservation(ctx, f.confirmation())
		require.NoError(t, err)
		f.sink.published = nil
		return res
	}

	t.Run("customer cancels their own booking", func(t *testing.T) {
		f := newUsecaseFixture(t)
		res := create(t, f)

		require.NoError(t, f.usecase.CancelReservation(ctx, res.BookingID, f.customer))

		assert.Equal(t, entities.ReservationCancelled, f.providerLedger.reservations[res.BookingID].Status)
		assert.Equal(t, entities.ReservationCancelled, f.customerLedger.reservations[res.BookingID].Status)
		require.Len(t, f.sink.published, 1)
		assert.IsType(t, entities.ReservationCancelled_v1{}, f.sink.published[0])
	})

	t.Run("provider cancels too", func(t *testing.T) {
		f := newUsecaseFixture(t)
		res := create(t, f)

		require.NoError(t, f.usecase.CancelReservation(ctx, res.BookingID, f.provider))
		assert.Equal(t, entities.ReservationCancelled, f.providerLedger.reservations[res.BookingID].Status)
	})

	t.Run("cancellation frees the day for a new booking", func(t *testing.T) {
		f := newUsecaseFixture(t)
		res := create(t, f)

		require.NoError(t, f.usecase.CancelReservation(ctx, res.BookingID, f.customer))

		rebook := f.confirmation()
		rebook.PaymentReference = "pay_rebook"
		rebook.CustomerID = uuid.New()

		again, err := f.usecase.CreateReservation(ctx, rebook)
		require.NoError(t, err)
		assert.NotEqual(t, res.BookingID, again.BookingID)
	})

	t.Run("a stranger cannot cancel", func(t *testing.T) {
		f := newUsecaseFixture(t)
		res := create(t, f)

		err := f.usecase.CancelReservation(ctx, res.BookingID, uuid.New())
		assert.ErrorIs(t, err, entities.ErrValidation)
		assert.Equal(t, entities.ReservationActive, f.providerLedger.reservations[res.BookingID].Status)
	})

	t.Run("cancelling twice is a no-op", func(t *testing.T) {
		f := newUsecaseFixture(t)
		res := create(t, f)

		require.NoError(t, f.usecase.CancelReservation(ctx, res.BookingID, f.customer))
		require.NoError(t, f.usecase.CancelReservation(ctx, res.BookingID, f.customer))
		assert.Len(t, f.sink.published, 1, "second cancel must not publish again")
	})

	t.Run("unknown booking id", func(t *testing.T) {
		f := newUsecaseFixture(t)

		err := f.usecase.CancelReservation(ctx, "DC-2026-0000", uuid.New())
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})
}

func TestCompleteReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("marks both copies completed", func(t *testing.T) {
		f := newUsecaseFixture(t)
		res, err := f.usecase.CreateReservation(ctx, f.confirmation())
		require.NoError(t, err)
		f.sink.published = nil

		require.NoError(t, f.usecase.CompleteReservation(ctx, res.BookingID))
		assert.Equal(t, entities.ReservationCompleted, f.providerLedger.reservations[res.BookingID].Status)
		assert.Equal(t, entities.ReservationCompleted, f.customerLedger.reservations[res.BookingID].Status)
		require.Len(t, f.sink.published, 1)
		assert.IsType(t, entities.ReservationCompleted_v1{}, f.sink.published[0])
	})

	t.Run("completing twice is a no-op", func(t *testing.T) {
		f := newUsecaseFixture(t)
		res, err := f.usecase.CreateReservation(ctx, f.confirmation())
		require.NoError(t, err)

		require.NoError(t, f.usecase.CompleteReservation(ctx, res.BookingID))
		f.sink.published = nil
		require.NoError(t, f.usecase.CompleteReservation(ctx, res.BookingID))
		assert.Empty(t, f.sink.published)
	})

	t.Run("cancelled booking cannot be completed", func(t *testing.T) {
		f := newUsecaseFixture(t)
		res, err := f.usecase.CreateReservation(ctx, f.confirmation())
		require.NoError(t, err)
		require.NoError(t, f.usecase.CancelReservation(ctx, res.BookingID, f.customer))

		err = f.usecase.CompleteReservation(ctx, res.BookingID)
		assert.ErrorIs(t, err, entities.ErrValidation)
	})
}

func TestListReservations(t *testing.T) {
	ctx := context.Background()

	t.Run("provider and customer see their own copies", func(t *testing.T) {
		f := newUsecaseFixture(t)
		res, err := f.usecase.CreateReservation(ctx, f.confirmation())
		require.NoError(t, err)

		providerView, err := f.usecase.ListReservations(ctx, f.provider, entities.OwnerRoleProvider)
		require.NoError(t, err)
		require.Len(t, providerView, 1)
		assert.Equal(t, res.BookingID, providerView[0].BookingID)

		customerView, err := f.usecase.ListReservations(ctx, f.customer, entities.OwnerRoleCustomer)
		require.NoError(t, err)
		require.Len(t, customerView, 1)
		assert.Equal(t, res.BookingID, customerView[0].BookingID)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		f := newUsecaseFixture(t)

		_, err := f.usecase.ListReservations(ctx, uuid.New(), entities.OwnerRole("admin"))
		assert.ErrorIs(t, err, entities.ErrValidation)
	})

	t.Run("get resolves from the provider ledger", func(t *testing.T) {
		f := newUsecaseFixture(t)
		res, err := f.usecase.CreateReservation(ctx, f.confirmation())
		require.NoError(t, err)

		got, err := f.usecase.GetReservation(ctx, res.BookingID)
		require.NoError(t, err)
		assert.Equal(t, res.BookingID, got.BookingID)

		_, err = f.usecase.GetReservation(ctx, "DC-2026-0000")
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})
}
