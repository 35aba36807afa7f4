package repository

import (
	"context"

	"github.com/Dramirezponce/walkergestion-sub000/internal/db"
	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
)

type AlertRepository struct {
	DB *db.Postgres
}

func (r AlertRepository) Create(ctx context.Context, a domain.Alert) (*domain.Alert, error) {
	var out domain.Alert
	var unitID, userID pgtype.Int8
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO alerts (title, message, type, business_unit_id, user_id, created_at)
		VALUES ($1,$2,$3,$4,$5, now())
		RETURNING id, title, message, type, business_unit_id, user_id, created_at, read_at
	`, a.Title, a.Message, string(a.Type), a.BusinessUnitID, a.UserID).Scan(
		&out.ID, &out.Title, &out.Message, (*string)(&out.Type), &unitID, &userID, &out.CreatedAt, &out.ReadAt,
	)
	if err != nil {
		return nil, err
	}
	if unitID.Valid {
		out.BusinessUnitID = &unitID.Int64
	}
	if userID.Valid {
		out.UserID = &userID.Int64
	}
	return &out, nil
}

// List returns recent alerts, optionally scoped to one business unit.
func (r AlertRepository) List(ctx context.Context, unitID *int64, limit int) ([]domain.Alert, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, title, message, type, business_unit_id, user_id, created_at, read_at
		FROM alerts
		WHERE deleted_at IS NULL
		  AND ($1::bigint IS NULL OR business_unit_id = $1 OR business_unit_id IS NULL)
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, unitID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Alert
	for rows.Next() {
		var a domain.Alert
		var uid, usr pgtype.Int8
		if err := rows.Scan(&a.ID, &a.Title, &a.Message, (*string)(&a.Type), &uid, &usr, &a.CreatedAt, &a.ReadAt); err != nil {
			return nil, err
		}
		if uid.Valid {
			a.BusinessUnitID = &uid.Int64
		}
		if usr.Valid {
			a.UserID = &usr.Int64
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r AlertRepository) MarkRead(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE alerts SET read_at=now()
		WHERE id=$1 AND deleted_at IS NULL AND read_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
