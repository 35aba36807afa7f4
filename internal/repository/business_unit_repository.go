package repository

import (
	"context"
	"errors"

	"github.com/Dramirezponce/walkergestion-sub000/internal/db"
	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
)

type BusinessUnitRepository struct {
	DB *db.Postgres
}

func (r BusinessUnitRepository) Create(ctx context.Context, name, address string) (*domain.BusinessUnit, error) {
	var u domain.BusinessUnit
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO business_units (name, address, active, created_at, updated_at)
		VALUES ($1,$2, true, now(), now())
		RETURNING id, name, address, active, created_at, updated_at
	`, name, address).Scan(&u.ID, &u.Name, &u.Address, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r BusinessUnitRepository) GetByID(ctx context.Context, id int64) (*domain.BusinessUnit, error) {
	var u domain.BusinessUnit
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT id, name, address, active, created_at, updated_at
		FROM business_units
		WHERE id=$1 AND deleted_at IS NULL
	`, id).Scan(&u.ID, &u.Name, &u.Address, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r BusinessUnitRepository) List(ctx context.Context, limit int) ([]domain.BusinessUnit, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, address, active, created_at, updated_at
		FROM business_units
		WHERE deleted_at IS NULL
		ORDER BY name, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.BusinessUnit
	for rows.Next() {
		var u domain.BusinessUnit
		if err := rows.Scan(&u.ID, &u.Name, &u.Address, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}
