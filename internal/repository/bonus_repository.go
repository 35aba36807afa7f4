package repository

import (
	"context"
	"errors"

	"github.com/Dramirezponce/walkergestion-sub000/internal/db"
	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
)

type BonusRepository struct {
	DB *db.Postgres
}

func (r BonusRepository) CreateBonus(ctx context.Context, b *domain.Bonus) (*domain.Bonus, error) {
	out := *b
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO bonuses (business_unit_id, month, goal_amount, actual_amount, percentage_achieved, amount, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7, now(), now())
		RETURNING id, created_at, updated_at
	`, b.BusinessUnitID, b.Month, b.GoalAmount.Amount, b.ActualAmount.Amount, b.PercentageAchieved, b.Amount.Amount, b.Status).Scan(
		&out.ID, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r BonusRepository) GetBonus(ctx context.Context, id int64) (*domain.Bonus, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, business_unit_id, month, goal_amount, actual_amount, percentage_achieved, amount, status, created_at, updated_at
		FROM bonuses
		WHERE id=$1
	`, id)
	b, err := scanBonus(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

type BonusFilter struct {
	BusinessUnitID *int64
	Month          *string
	Limit          int
}

func (r BonusRepository) List(ctx context.Context, f BonusFilter) ([]domain.Bonus, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, business_unit_id, month, goal_amount, actual_amount, percentage_achieved, amount, status, created_at, updated_at
		FROM bonuses
		WHERE ($1::bigint IS NULL OR business_unit_id = $1)
		  AND ($2::text IS NULL OR month = $2)
		ORDER BY month DESC, id DESC
		LIMIT $3
	`, f.BusinessUnitID, f.Month, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Bonus
	for rows.Next() {
		b, err := scanBonus(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}

// UpdateBonusStatus advances a bonus along pending -> approved -> paid with a
// check-and-set on the expected predecessor status.
func (r BonusRepository) UpdateBonusStatus(ctx context.Context, id int64, status domain.BonusStatus) error {
	var from domain.BonusStatus
	switch status {
	case domain.BonusApproved:
		from = domain.BonusPending
	case domain.BonusPaid:
		from = domain.BonusApproved
	default:
		return &domain.InvalidStateError{Entity: "bonus", Status: string(status), Op: "transition to"}
	}
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE bonuses SET status=$3, updated_at=now()
		WHERE id=$1 AND status=$2
	`, id, from, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		cur, err := r.GetBonus(ctx, id)
		if err != nil {
			return err
		}
		return &domain.InvalidStateError{Entity: "bonus", Status: string(cur.Status), Op: "advance"}
	}
	return nil
}

// HasOpenBonus reports whether a pending bonus already exists for the unit and
// month; calculation is refused while one is open.
func (r BonusRepository) HasOpenBonus(ctx context.Context, unitID int64, month string) (bool, error) {
	var exists bool
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bonuses
			WHERE business_unit_id=$1 AND month=$2 AND status=$3
		)
	`, unitID, month, domain.BonusPending).Scan(&exists)
	return exists, err
}

func scanBonus(row interface {
	Scan(dest ...any) error
}) (*domain.Bonus, error) {
	var (
		b      domain.Bonus
		status string
	)
	if err := row.Scan(
		&b.ID,
		&b.BusinessUnitID,
		&b.Month,
		&b.GoalAmount.Amount,
		&b.ActualAmount.Amount,
		&b.PercentageAchieved,
		&b.Amount.Amount,
		&status,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.Status = domain.BonusStatus(status)
	return &b, nil
}
