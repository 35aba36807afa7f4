package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
)

type fakeGoalStore struct {
	// keyed by month; the fixtures use a single business unit
	goals map[string]*domain.Goal
}

func (f *fakeGoalStore) GetGoalForMonth(_ context.Context, _ int64, month string) (*domain.Goal, error) {
	g, ok := f.goals[month]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

type fakeSalesSummer struct {
	totals map[string]int64
}

func (f *fakeSalesSummer) SumByUnitAndMonth(_ context.Context, _ int64, month string) (int64, error) {
	return f.totals[month], nil
}

type fakeBonusStore struct {
	bonuses map[int64]*domain.Bonus
	nextID  int64
}

func (f *fakeBonusStore) CreateBonus(_ context.Context, b *domain.Bonus) (*domain.Bonus, error) {
	f.nextID++
	cp := *b
	cp.ID = f.nextID
	f.bonuses[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeBonusStore) GetBonus(_ context.Context, id int64) (*domain.Bonus, error) {
	b, ok := f.bonuses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBonusStore) UpdateBonusStatus(_ context.Context, id int64, status domain.BonusStatus) error {
	b, ok := f.bonuses[id]
	if !ok {
		return domain.ErrNotFound
	}
	allowed := (status == domain.BonusApproved && b.Status == domain.BonusPending) ||
		(status == domain.BonusPaid && b.Status == domain.BonusApproved)
	if !allowed {
		return &domain.InvalidStateError{Entity: "bonus", Status: string(b.Status), Op: "mark " + string(status)}
	}
	b.Status = status
	return nil
}

func (f *fakeBonusStore) HasOpenBonus(_ context.Context, unitID int64, month string) (bool, error) {
	for _, b := range f.bonuses {
		if b.BusinessUnitID == unitID && b.Month == month && b.Status == domain.BonusPending {
			return true, nil
		}
	}
	return false, nil
}

func newBonusFixture(goal, actual int64, pct float64) (BonusService, *fakeSalesSummer, *fakeBonusStore, *fakeAlertSink) {
	const month = "2025-03"
	goals := &fakeGoalStore{goals: map[string]*domain.Goal{
		month: {
			ID:              1,
			BusinessUnitID:  7,
			Month:           month,
			TargetAmount:    domain.Money{Amount: goal, Currency: "CLP"},
			BonusPercentage: pct,
		},
	}}
	sales := &fakeSalesSummer{totals: map[string]int64{month: actual}}
	bonuses := &fakeBonusStore{bonuses: map[int64]*domain.Bonus{}}
	alerts := &fakeAlertSink{}
	svc := BonusService{
		Goals:   goals,
		Sales:   sales,
		Bonuses: bonuses,
		Alerts:  alerts,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return svc, sales, bonuses, alerts
}

func TestBonusCalculateQualifies(t *testing.T) {
	svc, _, _, alerts := newBonusFixture(1000000, 1200000, 10)

	b, err := svc.Calculate(context.Background(), admin, 7, "2025-03")
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if b.PercentageAchieved != 120 {
		t.Errorf("PercentageAchieved = %d, want 120", b.PercentageAchieved)
	}
	if b.Amount.Amount != 20000 {
		t.Errorf("bonus amount = %d, want 20000", b.Amount.Amount)
	}
	if b.Status != domain.BonusPending {
		t.Errorf("status = %q, want pending", b.Status)
	}
	if b.ActualAmount.Amount != 1200000 || b.GoalAmount.Amount != 1000000 {
		t.Errorf("snapshot amounts = %d/%d, want 1200000/1000000", b.ActualAmount.Amount, b.GoalAmount.Amount)
	}
	if len(alerts.emitted) != 1 || alerts.emitted[0].Title != "Bono calculado" {
		t.Errorf("expected qualification alert, got %+v", alerts.emitted)
	}
}

func TestBonusCalculateBelowGoal(t *testing.T) {
	svc, _, _, alerts := newBonusFixture(1000000, 800000, 10)

	b, err := svc.Calculate(context.Background(), manager, 7, "2025-03")
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if b.Amount.Amount != 0 {
		t.Errorf("bonus amount = %d, want 0", b.Amount.Amount)
	}
	if b.PercentageAchieved != 80 {
		t.Errorf("PercentageAchieved = %d, want 80", b.PercentageAchieved)
	}
	if len(alerts.emitted) != 1 || alerts.emitted[0].Title != "Meta no alcanzada" {
		t.Errorf("expected missed-goal alert, got %+v", alerts.emitted)
	}
}

// The snapshot is frozen at calculation time: sales recorded afterwards do
// not change an existing bonus.
func TestBonusSnapshotIsFrozen(t *testing.T) {
	svc, sales, bonuses, _ := newBonusFixture(1000000, 1200000, 10)

	b, err := svc.Calculate(context.Background(), admin, 7, "2025-03")
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	sales.totals["2025-03"] = 2000000

	got, err := bonuses.GetBonus(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("GetBonus: %v", err)
	}
	if got.ActualAmount.Amount != 1200000 || got.Amount.Amount != 20000 {
		t.Errorf("snapshot changed after new sales: %+v", got)
	}
}

func TestBonusCalculateBlockedWhilePending(t *testing.T) {
	svc, _, _, _ := newBonusFixture(1000000, 1200000, 10)

	if _, err := svc.Calculate(context.Background(), admin, 7, "2025-03"); err != nil {
		t.Fatalf("first Calculate: %v", err)
	}
	_, err := svc.Calculate(context.Background(), admin, 7, "2025-03")
	if !domain.IsInvalidState(err) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}
}

func TestBonusRecalculateAfterApproval(t *testing.T) {
	svc, _, _, _ := newBonusFixture(1000000, 1200000, 10)

	b, err := svc.Calculate(context.Background(), admin, 7, "2025-03")
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if _, err := svc.Approve(context.Background(), admin, b.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	second, err := svc.Calculate(context.Background(), admin, 7, "2025-03")
	if err != nil {
		t.Fatalf("recalculate after approval: %v", err)
	}
	if second.ID == b.ID {
		t.Error("recalculation reused the approved bonus record")
	}
}

func TestBonusCalculateGuards(t *testing.T) {
	t.Run("no goal for month", func(t *testing.T) {
		svc, _, _, _ := newBonusFixture(1000000, 1200000, 10)
		_, err := svc.Calculate(context.Background(), admin, 7, "2025-04")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("rate out of bounds", func(t *testing.T) {
		svc, _, _, _ := newBonusFixture(1000000, 1200000, 60)
		_, err := svc.Calculate(context.Background(), admin, 7, "2025-03")
		if !domain.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("cashier forbidden", func(t *testing.T) {
		svc, _, _, _ := newBonusFixture(1000000, 1200000, 10)
		_, err := svc.Calculate(context.Background(), cashier, 7, "2025-03")
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestBonusStatusLifecycle(t *testing.T) {
	svc, _, _, _ := newBonusFixture(1000000, 1200000, 10)
	b, err := svc.Calculate(context.Background(), admin, 7, "2025-03")
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	t.Run("cannot pay a pending bonus", func(t *testing.T) {
		_, err := svc.MarkPaid(context.Background(), admin, b.ID)
		if !domain.IsInvalidState(err) {
			t.Fatalf("expected InvalidStateError, got %v", err)
		}
	})

	t.Run("manager cannot approve", func(t *testing.T) {
		_, err := svc.Approve(context.Background(), manager, b.ID)
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("pending to approved to paid", func(t *testing.T) {
		approved, err := svc.Approve(context.Background(), admin, b.ID)
		if err != nil {
			t.Fatalf("Approve: %v", err)
		}
		if approved.Status != domain.BonusApproved {
			t.Errorf("status = %q, want approved", approved.Status)
		}

		paid, err := svc.MarkPaid(context.Background(), admin, b.ID)
		if err != nil {
			t.Fatalf("MarkPaid: %v", err)
		}
		if paid.Status != domain.BonusPaid {
			t.Errorf("status = %q, want paid", paid.Status)
		}
	})

	t.Run("paid is terminal", func(t *testing.T) {
		_, err := svc.Approve(context.Background(), admin, b.ID)
		if !domain.IsInvalidState(err) {
			t.Fatalf("expected InvalidStateError, got %v", err)
		}
	})
}
