package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"decorconnect/internal/entities"
)

// ErrVersionConflict means the provider row changed between read and write.
// The badge recompute retries with fresh state.
var ErrVersionConflict = errors.New("provider version conflict")

type ProvidersRepo struct {
	db     *sqlx.DB
	getter *trmsqlx.CtxGetter
}

func NewProvidersRepo(db *sqlx.DB, getter *trmsqlx.CtxGetter) *ProvidersRepo {
	return &ProvidersRepo{db: db, getter: getter}
}

func (r *ProvidersRepo) Create(ctx context.Context, provider entities.Provider) error {
	badgesJSON, err := json.Marshal(provider.Badges)
	if err != nil {
		return fmt.Errorf("marshal badges: %w", err)
	}
	if provider.Badges == nil {
		badgesJSON = []byte("[]")
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, `
		INSERT INTO providers (provider_id, name, average_rating, published_work_count, badges, version)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT DO NOTHING`,
		provider.ID,
		provider.Name,
		provider.AverageRating,
		provider.PublishedWorkCount,
		badgesJSON,
		provider.Version,
	)
	if err != nil {
		return fmt.Errorf("insert provider: %w", err)
	}
	return nil
}

func (r *ProvidersRepo) Get(ctx context.Context, providerID uuid.UUID) (*entities.Provider, error) {
	var (
		provider   entities.Provider
		badgesJSON []byte
	)

	err := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx, `
		SELECT provider_id, name, average_rating, published_work_count, badges, version
		FROM providers
		WHERE provider_id = $1`, providerID).
		Scan(
			&provider.ID,
			&provider.Name,
			&provider.AverageRating,
			&provider.PublishedWorkCount,
			&badgesJSON,
			&provider.Version,
		)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: provider %s", entities.ErrNotFound, providerID)
		}
		return nil, fmt.Errorf("get provider %s: %w", providerID, err)
	}

	if err := json.Unmarshal(badgesJSON, &provider.Badges); err != nil {
		return nil, fmt.Errorf("unmarshal badges for provider %s: %w", providerID, err)
	}

	return &provider, nil
}

// UpdateBadges writes a new badge set guarded by the version the caller read.
// A concurrent writer bumps the version, the update matches zero rows and
// the caller retries on ErrVersionConflict.
func (r *ProvidersRepo) UpdateBadges(ctx context.Context, providerID uuid.UUID, badgeSet []entities.Badge, expectedVersion int64) error {
	badgesJSON, err := json.Marshal(badgeSet)
	if err != nil {
		return fmt.Errorf("marshal badges: %w", err)
	}
	if badgeSet == nil {
		badgesJSON = []byte("[]")
	}

	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, `
		UPDATE providers
		SET badges = $1, version = version + 1
		WHERE provider_id = $2 AND version = $3`,
		badgesJSON, providerID, expectedVersion)
	if err != nil {
		return fmt.Errorf("update badges for provider %s: %w", providerID, err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: provider %s at version %d", ErrVersionConflict, providerID, expectedVersion)
	}
	return nil
}
