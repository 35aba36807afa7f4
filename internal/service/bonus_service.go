package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
	"github.com/Dramirezponce/walkergestion-sub000/internal/ports"
	"github.com/Dramirezponce/walkergestion-sub000/internal/server/authctx"
)

// BonusService turns monthly sales-vs-goal performance into payout snapshots.
type BonusService struct {
	Goals   ports.GoalStore
	Sales   ports.SalesSummer
	Bonuses ports.BonusStore
	Alerts  ports.AlertSink
	Logger  *slog.Logger
}

// Calculate aggregates the unit's sales for the month, compares them against
// the goal and snapshots a Bonus in pending status. The snapshot is frozen:
// sales recorded afterwards do not change it. While a pending bonus exists
// for the same unit and month, recalculation is refused; once it is approved
// or paid a new calculation produces a separate record.
func (s BonusService) Calculate(ctx context.Context, actor authctx.CurrentUser, unitID int64, month string) (*domain.Bonus, error) {
	if err := requireRole(actor, domain.RoleAdmin, domain.RoleManager); err != nil {
		return nil, err
	}

	goal, err := s.Goals.GetGoalForMonth(ctx, unitID, month)
	if err != nil {
		return nil, err
	}
	if err := ValidateBonusPercentage(goal.BonusPercentage); err != nil {
		return nil, err
	}

	open, err := s.Bonuses.HasOpenBonus(ctx, unitID, month)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, &domain.InvalidStateError{Entity: "bonus", Status: "pending", Op: "recalculate"}
	}

	actual, err := s.Sales.SumByUnitAndMonth(ctx, unitID, month)
	if err != nil {
		return nil, err
	}

	bonus := &domain.Bonus{
		BusinessUnitID:     unitID,
		Month:              month,
		GoalAmount:         goal.TargetAmount,
		ActualAmount:       domain.Money{Amount: actual, Currency: goal.TargetAmount.Currency},
		PercentageAchieved: PercentageAchieved(actual, goal.TargetAmount.Amount),
		Amount:             domain.Money{Amount: ComputeBonus(actual, goal.TargetAmount.Amount, goal.BonusPercentage), Currency: goal.TargetAmount.Currency},
		Status:             domain.BonusPending,
	}

	saved, err := s.Bonuses.CreateBonus(ctx, bonus)
	if err != nil {
		return nil, err
	}

	if Qualifies(actual, goal.TargetAmount.Amount) {
		s.Alerts.Emit(ctx, domain.Alert{
			Title:          "Bono calculado",
			Message:        fmt.Sprintf("Meta de %s superada (%d%%): bono %d", month, saved.PercentageAchieved, saved.Amount.Amount),
			Type:           domain.AlertSuccess,
			BusinessUnitID: &unitID,
		})
	} else {
		s.Alerts.Emit(ctx, domain.Alert{
			Title:          "Meta no alcanzada",
			Message:        fmt.Sprintf("Ventas de %s al %d%% de la meta, sin bono", month, saved.PercentageAchieved),
			Type:           domain.AlertInfo,
			BusinessUnitID: &unitID,
		})
	}
	return saved, nil
}

// Approve moves a pending bonus to approved. Admin only, no reversal.
func (s BonusService) Approve(ctx context.Context, actor authctx.CurrentUser, id int64) (*domain.Bonus, error) {
	return s.advance(ctx, actor, id, domain.BonusApproved)
}

// MarkPaid moves an approved bonus to paid. Admin only, no reversal.
func (s BonusService) MarkPaid(ctx context.Context, actor authctx.CurrentUser, id int64) (*domain.Bonus, error) {
	return s.advance(ctx, actor, id, domain.BonusPaid)
}

func (s BonusService) advance(ctx context.Context, actor authctx.CurrentUser, id int64, status domain.BonusStatus) (*domain.Bonus, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if err := s.Bonuses.UpdateBonusStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.Bonuses.GetBonus(ctx, id)
}
