package booking

import (
	"context"

	"github.com/google/uuid"

	"decorconnect/internal/entities"
	"decorconnect/internal/repository"
)

//go:generate mockgen -destination=mocks/mock_provider_ledger.go -package=mocks decorconnect/internal/application/usecases/booking ProviderLedger
type ProviderLedger interface {
	Insert(ctx context.Context, res entities.Reservation) error
	Delete(ctx context.Context, bookingID string) error
	UpdateStatus(ctx context.Context, bookingID string, status entities.ReservationStatus) error
	GetByBookingID(ctx context.Context, bookingID string) (*entities.Reservation, error)
	GetByPaymentReference(ctx context.Context, paymentReference string) (*entities.Reservation, error)
	FindBlockingOnDate(ctx context.Context, providerID uuid.UUID, date entities.Date) (*entities.Reservation, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]entities.Reservation, error)
	BookingIDExists(ctx context.Context, bookingID string) (bool, error)
}

//go:generate mockgen -destination=mocks/mock_customer_ledger.go -package=mocks decorconnect/internal/application/usecases/booking CustomerLedger
type CustomerLedger interface {
	Insert(ctx context.Context, res entities.Reservation) error
	Delete(ctx context.Context, bookingID string) error
	UpdateStatus(ctx context.Context, bookingID string, status entities.ReservationStatus) error
	GetByBookingID(ctx context.Context, bookingID string) (*entities.Reservation, error)
	FindBlockingForProviderOnDate(ctx context.Context, providerID uuid.UUID, date entities.Date) (*entities.Reservation, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entities.Reservation, error)
	BookingIDExists(ctx context.Context, bookingID string) (bool, error)
}

//go:generate mockgen -destination=mocks/mock_package_catalog.go -package=mocks decorconnect/internal/application/usecases/booking PackageCatalog
type PackageCatalog interface {
	Get(ctx context.Context, packageID uuid.UUID) (*entities.Package, error)
}

//go:generate mockgen -destination=mocks/mock_reconciliation_queue.go -package=mocks decorconnect/internal/application/usecases/booking ReconciliationQueue
type ReconciliationQueue interface {
	Record(ctx context.Context, task repository.ReconciliationTask) error
}

type BookingIDGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// ReservationsUsecase is the booking core: availability, creation,
// cancellation, completion and the per-owner listings.
type ReservationsUsecase struct {
	providerLedger ProviderLedger
	customerLedger CustomerLedger
	packages       PackageCatalog
	idGenerator    BookingIDGenerator
	writer         *DualLedgerWriter
}

func NewReservationsUsecase(
	providerLedger ProviderLedger,
	customerLedger CustomerLedger,
	packages PackageCatalog,
	reconciliation ReconciliationQueue,
	idGenerator BookingIDGenerator,
	events EventSink,
) *ReservationsUsecase {
	return &ReservationsUsecase{
		providerLedger: providerLedger,
		customerLedger: customerLedger,
		packages:       packages,
		idGenerator:    idGenerator,
		writer: NewDualLedgerWriter(
			providerLedger,
			customerLedger,
			reconciliation,
			events,
		),
	}
}

// DualLedgerProbe answers booking id existence against both ledger copies,
// so the id generator never hands out an id present in either one.
type DualLedgerProbe struct {
	Provider ProviderLedger
	Customer CustomerLedger
}

func (p DualLedgerProbe) BookingIDExists(ctx context.Context, bookingID string) (bool, error) {
	exists, err := p.Provider.BookingIDExists(ctx, bookingID)
	if err != nil || exists {
		return exists, err
	}
	return p.Customer.BookingIDExists(ctx, bookingID)
}
