package repository

import (
	"context"
	"time"

	"github.com/Dramirezponce/walkergestion-sub000/internal/db"
	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
)

type SaleRepository struct {
	DB *db.Postgres
}

type CreateSaleInput struct {
	BusinessUnitID int64
	Date           time.Time
	Amount         int64
	CashAmount     int64
	CardAmount     int64
	TransferAmount int64
	RecordedBy     *int64
}

func (r SaleRepository) Create(ctx context.Context, in CreateSaleInput) (*domain.Sale, error) {
	var s domain.Sale
	var recordedBy pgtype.Int8
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO sales (business_unit_id, sale_date, amount, cash_amount, card_amount, transfer_amount, recorded_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7, now())
		RETURNING id, business_unit_id, sale_date, amount, cash_amount, card_amount, transfer_amount, recorded_by, created_at
	`, in.BusinessUnitID, in.Date.Format("2006-01-02"), in.Amount, in.CashAmount, in.CardAmount, in.TransferAmount, in.RecordedBy).Scan(
		&s.ID, &s.BusinessUnitID, &s.Date, &s.Amount.Amount, &s.CashAmount, &s.CardAmount, &s.TransferAmount, &recordedBy, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if recordedBy.Valid {
		s.RecordedBy = &recordedBy.Int64
	}
	return &s, nil
}

type SaleFilter struct {
	BusinessUnitID *int64
	StartDate      *time.Time
	EndDate        *time.Time
	Limit          int
}

func (r SaleRepository) List(ctx context.Context, f SaleFilter) ([]domain.Sale, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, business_unit_id, sale_date, amount, cash_amount, card_amount, transfer_amount, recorded_by, created_at
		FROM sales
		WHERE ($1::bigint IS NULL OR business_unit_id = $1)
		  AND ($2::date IS NULL OR sale_date >= $2)
		  AND ($3::date IS NULL OR sale_date <= $3)
		ORDER BY sale_date DESC, id DESC
		LIMIT $4
	`, f.BusinessUnitID, f.StartDate, f.EndDate, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Sale
	for rows.Next() {
		var s domain.Sale
		var recordedBy pgtype.Int8
		if err := rows.Scan(&s.ID, &s.BusinessUnitID, &s.Date, &s.Amount.Amount, &s.CashAmount, &s.CardAmount, &s.TransferAmount, &recordedBy, &s.CreatedAt); err != nil {
			return nil, err
		}
		if recordedBy.Valid {
			s.RecordedBy = &recordedBy.Int64
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// SumByUnitAndMonth totals sales of one unit whose date falls in the given
// YYYY-MM month. No matching rows sum to zero.
func (r SaleRepository) SumByUnitAndMonth(ctx context.Context, unitID int64, month string) (int64, error) {
	var total int64
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount),0)
		FROM sales
		WHERE business_unit_id = $1 AND to_char(sale_date, 'YYYY-MM') = $2
	`, unitID, month).Scan(&total)
	return total, err
}
