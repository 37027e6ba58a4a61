package booking_test

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"decorconnect/internal/entities"
	"decorconnect/internal/repository"
)

// In-memory ledger fakes. Error fields inject failures for the compensation
// paths; everything else behaves like the real repositories.

type fakeProviderLedger struct {
	reservations map[string]entities.Reservation

	insertErr       error
	deleteErr       error
	updateErr       error
	missFirstLookup bool

	lookups int
	deletes []string
}

func newFakeProviderLedger() *fakeProviderLedger {
	return &fakeProviderLedger{reservations: map[string]entities.Reservation{}}
}

func (f *fakeProviderLedger) Insert(ctx context.Context, res entities.Reservation) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, existing := range f.reservations {
		if existing.PaymentReference == res.PaymentReference {
			return repository.ErrDuplicatePaymentReference
		}
		if existing.ProviderID == res.ProviderID &&
			existing.EventDate.Equal(res.EventDate) &&
			existing.Status == entities.ReservationActive {
			return fmt.Errorf("%w: day already reserved", entities.ErrDateConflict)
		}
	}
	f.reservations[res.BookingID] = res
	return nil
}

func (f *fakeProviderLedger) Delete(ctx context.Context, bookingID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes = append(f.deletes, bookingID)
	delete(f.reservations, bookingID)
	return nil
}

func (f *fakeProviderLedger) UpdateStatus(ctx context.Context, bookingID string, status entities.ReservationStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	res, ok := f.reservations[bookingID]
	if !ok {
		return entities.ErrNotFound
	}
	res.Status = status
	f.reservations[bookingID] = res
	return nil
}

func (f *fakeProviderLedger) GetByBookingID(ctx context.Context, bookingID string) (*entities.Reservation, error) {
	res, ok := f.reservations[bookingID]
	if !ok {
		return nil, entities.ErrNotFound
	}
	return &res, nil
}

func (f *fakeProviderLedger) GetByPaymentReference(ctx context.Context, paymentReference string) (*entities.Reservation, error) {
	f.lookups++
	if f.missFirstLookup && f.lookups == 1 {
		return nil, entities.ErrNotFound
	}
	for _, res := range f.reservations {
		if res.PaymentReference == paymentReference {
			r := res
			return &r, nil
		}
	}
	return nil, entities.ErrNotFound
}

func (f *fakeProviderLedger) FindBlockingOnDate(ctx context.Context, providerID uuid.UUID, date entities.Date) (*entities.Reservation, error) {
	for _, res := range f.reservations {
		if res.ProviderID == providerID && res.EventDate.Equal(date) && res.Status.Blocking() {
			r := res
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeProviderLedger) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]entities.Reservation, error) {
	var out []entities.Reservation
	for _, res := range f.reservations {
		if res.ProviderID == providerID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (f *fakeProviderLedger) BookingIDExists(ctx context.Context, bookingID string) (bool, error) {
	_, ok := f.reservations[bookingID]
	return ok, nil
}

type fakeCustomerLedger struct {
	reservations map[string]entities.Reservation

	insertErr error
	updateErr error
}

func newFakeCustomerLedger() *fakeCustomerLedger {
	return &fakeCustomerLedger{reservations: map[string]entities.Reservation{}}
}

func (f *fakeCustomerLedger) Insert(ctx context.Context, res entities.Reservation) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.reservations[res.BookingID] = res
	return nil
}

func (f *fakeCustomerLedger) Delete(ctx context.Context, bookingID string) error {
	delete(f.reservations, bookingID)
	return nil
}

func (f *fakeCustomerLedger) UpdateStatus(ctx context.Context, bookingID string, status entities.ReservationStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	res, ok := f.reservations[bookingID]
	if !ok {
		return entities.ErrNotFound
	}
	res.Status = status
	f.reservations[bookingID] = res
	return nil
}

func (f *fakeCustomerLedger) GetByBookingID(ctx context.Context, bookingID string) (*entities.Reservation, error) {
	res, ok := f.reservations[bookingID]
	if !ok {
		return nil, entities.ErrNotFound
	}
	return &res, nil
}

func (f *fakeCustomerLedger) FindBlockingForProviderOnDate(ctx context.Context, providerID uuid.UUID, date entities.Date) (*entities.Reservation, error) {
	for _, res := range f.reservations {
		if res.ProviderID == providerID && res.EventDate.Equal(date) && res.Status.Blocking() {
			r := res
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerLedger) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entities.Reservation, error) {
	var out []entities.Reservation
	for _, res := range f.reservations {
		if res.CustomerID == customerID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (f *fakeCustomerLedger) BookingIDExists(ctx context.Context, bookingID string) (bool, error) {
	_, ok := f.reservations[bookingID]
	return ok, nil
}

type fakePackages struct {
	packages map[uuid.UUID]entities.Package
}

func newFakePackages(pkgs ...entities.Package) *fakePackages {
	f := &fakePackages{packages: map[uuid.UUID]entities.Package{}}
	for _, p := range pkgs {
		f.packages[p.ID] = p
	}
	return f
}

func (f *fakePackages) Get(ctx context.Context, packageID uuid.UUID) (*entities.Package, error) {
	pkg, ok := f.packages[packageID]
	if !ok {
		return nil, entities.ErrNotFound
	}
	return &pkg, nil
}

type fakeReconciliation struct {
	recordErr error
	tasks     []repository.ReconciliationTask
}

func (f *fakeReconciliation) Record(ctx context.Context, task repository.ReconciliationTask) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.tasks = append(f.tasks, task)
	return nil
}

type fakeEventSink struct {
	publishErr error
	published  []entities.Event
}

func (f *fakeEventSink) Publish(ctx context.Context, event entities.Event) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, event)
	return nil
}

type stubIDGenerator struct {
	id  string
	err error
}

func (s stubIDGenerator) Generate(ctx context.Context) (string, error) {
	return s.id, s.err
}

// seqIDGenerator hands out a fresh id per call, like the real generator
// backed by an honest ledger probe.
type seqIDGenerator struct {
	next int
}

func (s *seqIDGenerator) Generate(ctx context.Context) (string, error) {
	s.next++
	return fmt.Sprintf("DC-2026-%04d", 4241+s.next), nil
}
