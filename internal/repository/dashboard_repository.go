package repository

import (
	"context"

	"github.com/Dramirezponce/walkergestion-sub000/internal/db"
)

type DashboardRepository struct {
	DB *db.Postgres
}

type DashboardSummary struct {
	MonthSales        int64
	TodaySales        int64
	OpenTransfers     int64
	PendingRenditions int64
	PendingBonuses    int64
}

type UnitGoalProgress struct {
	BusinessUnitID int64
	UnitName       string
	TargetAmount   int64
	ActualAmount   int64
}

// Summary aggregates the month's headline numbers, optionally scoped to one
// business unit.
func (r DashboardRepository) Summary(ctx context.Context, unitID *int64, month string) (DashboardSummary, error) {
	var s DashboardSummary
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT
			COALESCE((SELECT SUM(amount) FROM sales
				WHERE to_char(sale_date,'YYYY-MM') = $2
				  AND ($1::bigint IS NULL OR business_unit_id = $1)),0),
			COALESCE((SELECT SUM(amount) FROM sales
				WHERE sale_date = CURRENT_DATE
				  AND ($1::bigint IS NULL OR business_unit_id = $1)),0),
			(SELECT COUNT(*) FROM transfers
				WHERE deleted_at IS NULL AND status IN ('pending','received','rendition_pending')
				  AND ($1::bigint IS NULL OR business_unit_id = $1)),
			(SELECT COUNT(*) FROM renditions
				WHERE status = 'pending'
				  AND ($1::bigint IS NULL OR business_unit_id = $1)),
			(SELECT COUNT(*) FROM bonuses
				WHERE status = 'pending'
				  AND ($1::bigint IS NULL OR business_unit_id = $1))
	`, unitID, month).Scan(&s.MonthSales, &s.TodaySales, &s.OpenTransfers, &s.PendingRenditions, &s.PendingBonuses)
	return s, err
}

// GoalProgress lists, per unit with a goal for the month, the target and the
// sales recorded so far.
func (r DashboardRepository) GoalProgress(ctx context.Context, month string) ([]UnitGoalProgress, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT g.business_unit_id, u.name, g.target_amount,
			COALESCE((SELECT SUM(s.amount) FROM sales s
				WHERE s.business_unit_id = g.business_unit_id
				  AND to_char(s.sale_date,'YYYY-MM') = g.month),0) AS actual
		FROM goals g
		JOIN business_units u ON u.id = g.business_unit_id
		WHERE g.month = $1
		ORDER BY u.name
	`, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []UnitGoalProgress
	for rows.Next() {
		var p UnitGoalProgress
		if err := rows.Scan(&p.BusinessUnitID, &p.UnitName, &p.TargetAmount, &p.ActualAmount); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
