package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"decorconnect/internal/entities"
)

type PackagesRepo struct {
	db     *sqlx.DB
	getter *trmsqlx.CtxGetter
}

func NewPackagesRepo(db *sqlx.DB, getter *trmsqlx.CtxGetter) *PackagesRepo {
	return &PackagesRepo{db: db, getter: getter}
}

func (r *PackagesRepo) Create(ctx context.Context, pkg entities.Package) error {
	_, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, `
		INSERT INTO packages (package_id, provider_id, name, price, event_type)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING`,
		pkg.ID, pkg.ProviderID, pkg.Name, pkg.Price, pkg.EventType)
	if err != nil {
		return fmt.Errorf("insert package: %w", err)
	}
	return nil
}

func (r *PackagesRepo) Get(ctx context.Context, packageID uuid.UUID) (*entities.Package, error) {
	var pkg entities.Package

	err := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx, `
		SELECT package_id, provider_id, name, price, event_type
		FROM packages
		WHERE package_id = $1`, packageID).
		Scan(&pkg.ID, &pkg.ProviderID, &pkg.Name, &pkg.Price, &pkg.EventType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: package %s", entities.ErrNotFound, packageID)
		}
		return nil, fmt.Errorf("get package %s: %w", packageID, err)
	}

	return &pkg, nil
}
