package repository

import (
	"context"
	"errors"

	"github.com/Dramirezponce/walkergestion-sub000/internal/db"
	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type RenditionRepository struct {
	DB *db.Postgres
}

// CreateRendition inserts the rendition with its expenses and advances the
// owning transfer to transferStatus, all in one transaction. The partial
// unique index on transfer_id (rejected rows excluded) plus the status
// check-and-set enforce a single live rendition per transfer even under
// concurrent submissions.
func (r RenditionRepository) CreateRendition(ctx context.Context, in *domain.Rendition, transferStatus domain.TransferStatus) (*domain.Rendition, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE transfers SET status=$2, updated_at=now()
		WHERE id=$1 AND status=$3 AND deleted_at IS NULL
	`, in.TransferID, transferStatus, domain.TransferReceived)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, &domain.InvalidStateError{Entity: "transfer", Status: "not received", Op: "render"}
	}

	out := *in
	err = tx.QueryRow(ctx, `
		INSERT INTO renditions
		(transfer_id, business_unit_id, submitted_by, week, transfer_amount, total_expenses, remaining_amount, status, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, now(), now())
		RETURNING id, created_at, updated_at
	`, in.TransferID, in.BusinessUnitID, in.SubmittedBy, in.Week, in.TransferAmount.Amount,
		in.TotalExpenses.Amount, in.RemainingAmount.Amount, in.Status, in.Notes).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, &domain.InvalidStateError{Entity: "transfer", Status: "already rendered", Op: "render"}
		}
		return nil, err
	}

	out.Expenses = make([]domain.Expense, 0, len(in.Expenses))
	for _, e := range in.Expenses {
		e.RenditionID = out.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO expenses (rendition_id, description, amount, category, expense_date, created_at)
			VALUES ($1,$2,$3,$4,$5, now())
			RETURNING id, created_at
		`, out.ID, e.Description, e.Amount.Amount, e.Category, e.Date.Format("2006-01-02")).Scan(&e.ID, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		out.Expenses = append(out.Expenses, e)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r RenditionRepository) GetRendition(ctx context.Context, id int64) (*domain.Rendition, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, transfer_id, business_unit_id, submitted_by, week, transfer_amount, total_expenses, remaining_amount, status, notes, created_at, updated_at
		FROM renditions
		WHERE id=$1
	`, id)
	rd, err := scanRendition(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, rendition_id, description, amount, category, expense_date, created_at
		FROM expenses
		WHERE rendition_id=$1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.RenditionID, &e.Description, &e.Amount.Amount, &e.Category, &e.Date, &e.CreatedAt); err != nil {
			return nil, err
		}
		rd.Expenses = append(rd.Expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rd, nil
}

type RenditionFilter struct {
	BusinessUnitID *int64
	Status         *domain.RenditionStatus
	Limit          int
}

func (r RenditionRepository) List(ctx context.Context, f RenditionFilter) ([]domain.Rendition, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, transfer_id, business_unit_id, submitted_by, week, transfer_amount, total_expenses, remaining_amount, status, notes, created_at, updated_at
		FROM renditions
		WHERE ($1::bigint IS NULL OR business_unit_id = $1)
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, f.BusinessUnitID, f.Status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Rendition
	for rows.Next() {
		rd, err := scanRendition(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rd)
	}
	return items, rows.Err()
}

// DecideRendition approves or rejects a still-open rendition and moves the
// owning transfer to transferStatus atomically.
func (r RenditionRepository) DecideRendition(ctx context.Context, id int64, status domain.RenditionStatus, transferStatus domain.TransferStatus) error {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var transferID int64
	err = tx.QueryRow(ctx, `
		UPDATE renditions SET status=$2, updated_at=now()
		WHERE id=$1 AND status=$3
		RETURNING transfer_id
	`, id, status, domain.RenditionPending).Scan(&transferID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.InvalidStateError{Entity: "rendition", Status: "decided", Op: "decide"}
		}
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE transfers SET status=$2, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
	`, transferID, transferStatus)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// DeleteRendition removes an open rendition with its expenses (cascade) and
// reverts the owning transfer to transferStatus.
func (r RenditionRepository) DeleteRendition(ctx context.Context, id int64, transferStatus domain.TransferStatus) error {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var transferID int64
	err = tx.QueryRow(ctx, `
		DELETE FROM renditions
		WHERE id=$1 AND status=$2
		RETURNING transfer_id
	`, id, domain.RenditionPending).Scan(&transferID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.InvalidStateError{Entity: "rendition", Status: "decided", Op: "delete"}
		}
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE transfers SET status=$2, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
	`, transferID, transferStatus)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func scanRendition(row interface {
	Scan(dest ...any) error
}) (*domain.Rendition, error) {
	var (
		rd          domain.Rendition
		submittedBy pgtype.Int8
		status      string
	)
	if err := row.Scan(
		&rd.ID,
		&rd.TransferID,
		&rd.BusinessUnitID,
		&submittedBy,
		&rd.Week,
		&rd.TransferAmount.Amount,
		&rd.TotalExpenses.Amount,
		&rd.RemainingAmount.Amount,
		&status,
		&rd.Notes,
		&rd.CreatedAt,
		&rd.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rd.Status = domain.RenditionStatus(status)
	if submittedBy.Valid {
		rd.SubmittedBy = &submittedBy.Int64
	}
	return &rd, nil
}
