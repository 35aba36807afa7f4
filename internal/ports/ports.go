package ports

import (
	"context"

	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
)

// HealthChecker is used to probe dependencies.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// TransferStore loads transfers for the rendition workflow.
type TransferStore interface {
	GetTransfer(ctx context.Context, id int64) (*domain.Transfer, error)
}

// RenditionStore persists renditions together with their transfer status
// cascade. Every mutation that touches both entities is atomic.
type RenditionStore interface {
	// CreateRendition inserts the rendition with its expenses and moves the
	// transfer to transferStatus in the same transaction. The one-rendition-
	// per-transfer constraint is enforced here.
	CreateRendition(ctx context.Context, r *domain.Rendition, transferStatus domain.TransferStatus) (*domain.Rendition, error)
	GetRendition(ctx context.Context, id int64) (*domain.Rendition, error)
	DecideRendition(ctx context.Context, id int64, status domain.RenditionStatus, transferStatus domain.TransferStatus) error
	DeleteRendition(ctx context.Context, id int64, transferStatus domain.TransferStatus) error
}

// GoalStore loads monthly goals for bonus calculation.
type GoalStore interface {
	GetGoalForMonth(ctx context.Context, unitID int64, month string) (*domain.Goal, error)
}

// SalesSummer aggregates recorded sales per unit and month.
type SalesSummer interface {
	SumByUnitAndMonth(ctx context.Context, unitID int64, month string) (int64, error)
}

// BonusStore persists bonus snapshots and their status transitions.
type BonusStore interface {
	CreateBonus(ctx context.Context, b *domain.Bonus) (*domain.Bonus, error)
	GetBonus(ctx context.Context, id int64) (*domain.Bonus, error)
	UpdateBonusStatus(ctx context.Context, id int64, status domain.BonusStatus) error
	HasOpenBonus(ctx context.Context, unitID int64, month string) (bool, error)
}

// AlertSink receives notification records from state transitions. Emission is
// best-effort: implementations must never propagate failures back to the
// caller.
type AlertSink interface {
	Emit(ctx context.Context, a domain.Alert)
}
