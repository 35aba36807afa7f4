package repository

import (
	"context"
	"errors"

	"github.com/Dramirezponce/walkergestion-sub000/internal/db"
	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
)

type GoalRepository struct {
	DB *db.Postgres
}

// Upsert creates or replaces the goal for (unit, month); the uniqueness of
// that pair is a schema constraint.
func (r GoalRepository) Upsert(ctx context.Context, g domain.Goal) (*domain.Goal, error) {
	var out domain.Goal
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO goals (business_unit_id, month, target_amount, bonus_percentage, created_at, updated_at)
		VALUES ($1,$2,$3,$4, now(), now())
		ON CONFLICT (business_unit_id, month)
		DO UPDATE SET target_amount=EXCLUDED.target_amount, bonus_percentage=EXCLUDED.bonus_percentage, updated_at=now()
		RETURNING id, business_unit_id, month, target_amount, bonus_percentage, created_at, updated_at
	`, g.BusinessUnitID, g.Month, g.TargetAmount.Amount, g.BonusPercentage).Scan(
		&out.ID, &out.BusinessUnitID, &out.Month, &out.TargetAmount.Amount, &out.BonusPercentage, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r GoalRepository) GetGoalForMonth(ctx context.Context, unitID int64, month string) (*domain.Goal, error) {
	var g domain.Goal
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT id, business_unit_id, month, target_amount, bonus_percentage, created_at, updated_at
		FROM goals
		WHERE business_unit_id=$1 AND month=$2
	`, unitID, month).Scan(
		&g.ID, &g.BusinessUnitID, &g.Month, &g.TargetAmount.Amount, &g.BonusPercentage, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r GoalRepository) ListByMonth(ctx context.Context, month string) ([]domain.Goal, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, business_unit_id, month, target_amount, bonus_percentage, created_at, updated_at
		FROM goals
		WHERE month=$1
		ORDER BY business_unit_id
	`, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Goal
	for rows.Next() {
		var g domain.Goal
		if err := rows.Scan(&g.ID, &g.BusinessUnitID, &g.Month, &g.TargetAmount.Amount, &g.BonusPercentage, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}
