// Package reputation recomputes the derived badge set for a provider. It
// is invoked explicitly after every reservation mutation, from the event
// handlers, so the trigger is visible in the call graph rather than hidden
// in persistence hooks.
package reputation

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"

	"decorconnect/internal/badges"
	"decorconnect/internal/entities"
	"decorconnect/internal/repository"
)

const maxRecomputeAttempts = 3

//go:generate mockgen -destination=mocks/mock_providers_repo.go -package=mocks decorconnect/internal/application/usecases/reputation ProvidersRepo
type ProvidersRepo interface {
	Get(ctx context.Context, providerID uuid.UUID) (*entities.Provider, error)
	UpdateBadges(ctx context.Context, providerID uuid.UUID, badgeSet []entities.Badge, expectedVersion int64) error
}

//go:generate mockgen -destination=mocks/mock_reservation_counter.go -package=mocks decorconnect/internal/application/usecases/reputation ReservationCounter
type ReservationCounter interface {
	CountForProvider(ctx context.Context, providerID uuid.UUID) (int, error)
}

type RecomputeUsecase struct {
	providers    ProvidersRepo
	reservations ReservationCounter
}

func NewRecomputeUsecase(providers ProvidersRepo, reservations ReservationCounter) *RecomputeUsecase {
	return &RecomputeUsecase{
		providers:    providers,
		reservations: reservations,
	}
}

// Recompute derives the badge set from current state and writes it back
// under optimistic concurrency. Badge updates and ledger writes both funnel
// through the provider row's version, so concurrent recomputes cannot lose
// updates; the loser re-reads and retries.
func (u *RecomputeUsecase) Recompute(ctx context.Context, providerID uuid.UUID) ([]entities.Badge, error) {
	for attempt := 0; attempt < maxRecomputeAttempts; attempt++ {
		provider, err := u.providers.Get(ctx, providerID)
		if err != nil {
			return nil, err
		}

		count, err := u.reservations.CountForProvider(ctx, providerID)
		if err != nil {
			return nil, err
		}

		set := badges.Derive(count, provider.AverageRating, provider.PublishedWorkCount)

		err = u.providers.UpdateBadges(ctx, providerID, set, provider.Version)
		if err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				log.FromContext(ctx).
					WithField("provider_id", providerID).
					WithField("attempt", attempt+1).
					Info("badge update lost the version race, retrying")
				continue
			}
			return nil, err
		}

		return set, nil
	}

	return nil, fmt.Errorf("recompute badges for %s: %w", providerID, repository.ErrVersionConflict)
}
