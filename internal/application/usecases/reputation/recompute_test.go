package reputation_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"decorconnect/internal/application/usecases/reputation"
	"decorconnect/internal/entities"
	"decorconnect/internal/repository"
)

type fakeProviders struct {
	provider entities.Provider

	// conflictFirst makes the first UpdateBadges lose the version race, the
	// way a concurrent recompute would.
	conflictFirst bool
	updates       int
}

func (f *fakeProviders) Get(ctx context.Context, providerID uuid.UUID) (*entities.Provider, error) {
	if providerID != f.provider.ID {
		return nil, entities.ErrNotFound
	}
	p := f.provider
	return &p, nil
}

func (f *fakeProviders) UpdateBadges(ctx context.Context, providerID uuid.UUID, badgeSet []entities.Badge, expectedVersion int64) error {
	f.updates++
	if f.conflictFirst && f.updates == 1 {
		f.provider.Version++
		return repository.ErrVersionConflict
	}
	if expectedVersion != f.provider.Version {
		return repository.ErrVersionConflict
	}
	f.provider.Badges = badgeSet
	f.provider.Version++
	return nil
}

type fakeCounter struct {
	count int
	err   error
}

func (f fakeCounter) CountForProvider(ctx context.Context, providerID uuid.UUID) (int, error) {
	return f.count, f.err
}

func TestRecompute(t *testing.T) {
	ctx := context.Background()

	t.Run("derives and persists the badge set", func(t *testing.T) {
		providers := &fakeProviders{provider: entities.Provider{
			ID:                 uuid.New(),
			Name:               "Studio Verde",
			AverageRating:      4.7,
			PublishedWorkCount: 3,
			Version:            1,
		}}
		u := reputation.NewRecomputeUsecase(providers, fakeCounter{count: 12})

		set, err := u.Recompute(ctx, providers.provider.ID)
		require.NoError(t, err)

		assert.Equal(t, []entities.Badge{entities.BadgeTopRated, entities.BadgeMostBooked}, set)
		assert.Equal(t, set, providers.provider.Badges)
		assert.Equal(t, int64(2), providers.provider.Version)
	})

	t.Run("losing the version race retries with fresh state", func(t *testing.T) {
		providers := &fakeProviders{
			provider: entities.Provider{
				ID:            uuid.New(),
				AverageRating: 4.9,
				Version:       5,
			},
			conflictFirst: true,
		}
		u := reputation.NewRecomputeUsecase(providers, fakeCounter{count: 2})

		set, err := u.Recompute(ctx, providers.provider.ID)
		require.NoError(t, err)
		assert.Equal(t, []entities.Badge{entities.BadgeTopRated}, set)
		assert.Equal(t, 2, providers.updates)
	})

	t.Run("unknown provider", func(t *testing.T) {
		providers := &fakeProviders{provider: entities.Provider{ID: uuid.New()}}
		u := reputation.NewRecomputeUsecase(providers, fakeCounter{})

		_, err := u.Recompute(ctx, uuid.New())
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})

	t.Run("gives up after persistent conflicts", func(t *testing.T) {
		providers := &alwaysConflictProviders{id: uuid.New()}
		u := reputation.NewRecomputeUsecase(providers, fakeCounter{count: 1})

		_, err := u.Recompute(ctx, providers.id)
		assert.ErrorIs(t, err, repository.ErrVersionConflict)
		assert.Equal(t, 3, providers.updates)
	})
}

type alwaysConflictProviders struct {
	id      uuid.UUID
	updates int
}

func (f *alwaysConflictProviders) Get(ctx context.Context, providerID uuid.UUID) (*entities.Provider, error) {
	return &entities.Provider{ID: f.id}, nil
}

func (f *alwaysConflictProviders) UpdateBadges(ctx context.Context, providerID uuid.UUID, badgeSet []entities.Badge, expectedVersion int64) error {
	f.updates++
	return repository.ErrVersionConflict
}
