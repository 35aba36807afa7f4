package repository

import (
	"context"
	"errors"

	"github.com/Dramirezponce/walkergestion-sub000/internal/db"
	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type TransferRepository struct {
	DB *db.Postgres
}

type CreateTransferInput struct {
	FromUserID     *int64
	BusinessUnitID int64
	Amount         int64
	Week           string
	Notes          string
}

func (r TransferRepository) Create(ctx context.Context, in CreateTransferInput) (*domain.Transfer, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO transfers (from_user_id, business_unit_id, amount, week, status, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6, now(), now())
		RETURNING id, from_user_id, business_unit_id, amount, week, status, notes, created_at, updated_at
	`, in.FromUserID, in.BusinessUnitID, in.Amount, in.Week, domain.TransferPending, in.Notes)
	return scanTransfer(row)
}

func (r TransferRepository) GetTransfer(ctx context.Context, id int64) (*domain.Transfer, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, from_user_id, business_unit_id, amount, week, status, notes, created_at, updated_at
		FROM transfers
		WHERE id=$1 AND deleted_at IS NULL
	`, id)
	t, err := scanTransfer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

type TransferFilter struct {
	BusinessUnitID *int64
	Status         *domain.TransferStatus
	Week           *string
	Limit          int
}

func (r TransferRepository) List(ctx context.Context, f TransferFilter) ([]domain.Transfer, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, from_user_id, business_unit_id, amount, week, status, notes, created_at, updated_at
		FROM transfers
		WHERE deleted_at IS NULL
		  AND ($1::bigint IS NULL OR business_unit_id = $1)
		  AND ($2::text IS NULL OR status = $2)
		  AND ($3::text IS NULL OR week = $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4
	`, f.BusinessUnitID, f.Status, f.Week, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// AdvanceStatus moves a transfer from one status to another with a
// check-and-set; it fails with InvalidStateError when the row is no longer in
// the expected status.
func (r TransferRepository) AdvanceStatus(ctx context.Context, id int64, from, to domain.TransferStatus) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE transfers SET status=$3, updated_at=now()
		WHERE id=$1 AND status=$2 AND deleted_at IS NULL
	`, id, from, to)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		cur, err := r.GetTransfer(ctx, id)
		if err != nil {
			return err
		}
		return &domain.InvalidStateError{Entity: "transfer", Status: string(cur.Status), Op: "advance"}
	}
	return nil
}

func scanTransfer(row interface {
	Scan(dest ...any) error
}) (*domain.Transfer, error) {
	var (
		t      domain.Transfer
		from   pgtype.Int8
		status string
	)
	if err := row.Scan(
		&t.ID,
		&from,
		&t.BusinessUnitID,
		&t.Amount.Amount,
		&t.Week,
		&status,
		&t.Notes,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.Status = domain.TransferStatus(status)
	if from.Valid {
		t.FromUserID = &from.Int64
	}
	return &t, nil
}
