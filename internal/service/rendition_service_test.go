package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
	"github.com/Dramirezponce/walkergestion-sub000/internal/server/authctx"
)

// In-memory stores backing the service tests. They mirror the repository
// semantics: status CAS on the transfer, one rendition per transfer, and the
// rendition/transfer cascade applied together.

type fakeTransferStore struct {
	transfers map[int64]*domain.Transfer
}

func (f *fakeTransferStore) GetTransfer(_ context.Context, id int64) (*domain.Transfer, error) {
	tr, ok := f.transfers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *tr
	return &cp, nil
}

type fakeRenditionStore struct {
	transfers  *fakeTransferStore
	renditions map[int64]*domain.Rendition
	nextID     int64
	createErr  error
}

func (f *fakeRenditionStore) CreateRendition(_ context.Context, r *domain.Rendition, transferStatus domain.TransferStatus) (*domain.Rendition, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	// Mirrors the partial unique index: rejected renditions do not block a
	// corrected submission.
	for _, existing := range f.renditions {
		if existing.TransferID == r.TransferID && existing.Status != domain.RenditionRejected {
			return nil, &domain.InvalidStateError{Entity: "transfer", Status: "already rendered", Op: "render"}
		}
	}
	tr, ok := f.transfers.transfers[r.TransferID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !domain.CanTransition(tr.Status, transferStatus) {
		return nil, &domain.InvalidStateError{Entity: "transfer", Status: string(tr.Status), Op: "advance"}
	}
	tr.Status = transferStatus
	f.nextID++
	cp := *r
	cp.ID = f.nextID
	f.renditions[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeRenditionStore) GetRendition(_ context.Context, id int64) (*domain.Rendition, error) {
	rd, ok := f.renditions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rd
	return &cp, nil
}

func (f *fakeRenditionStore) DecideRendition(_ context.Context, id int64, status domain.RenditionStatus, transferStatus domain.TransferStatus) error {
	rd, ok := f.renditions[id]
	if !ok {
		return domain.ErrNotFound
	}
	if rd.Status != domain.RenditionPending {
		return &domain.InvalidStateError{Entity: "rendition", Status: string(rd.Status), Op: "decide"}
	}
	rd.Status = status
	f.transfers.transfers[rd.TransferID].Status = transferStatus
	return nil
}

func (f *fakeRenditionStore) DeleteRendition(_ context.Context, id int64, transferStatus domain.TransferStatus) error {
	rd, ok := f.renditions[id]
	if !ok {
		return domain.ErrNotFound
	}
	if rd.Status != domain.RenditionPending {
		return &domain.InvalidStateError{Entity: "rendition", Status: string(rd.Status), Op: "delete"}
	}
	f.transfers.transfers[rd.TransferID].Status = transferStatus
	delete(f.renditions, id)
	return nil
}

type fakeAlertSink struct {
	emitted []domain.Alert
}

func (f *fakeAlertSink) Emit(_ context.Context, a domain.Alert) {
	f.emitted = append(f.emitted, a)
}

func newRenditionFixture(amount int64, status domain.TransferStatus) (RenditionService, *fakeTransferStore, *fakeRenditionStore, *fakeAlertSink) {
	unitID := int64(7)
	transfers := &fakeTransferStore{transfers: map[int64]*domain.Transfer{
		1: {
			ID:             1,
			BusinessUnitID: unitID,
			Amount:         domain.Money{Amount: amount, Currency: "CLP"},
			Week:           "2025-W10",
			Status:         status,
		},
	}}
	renditions := &fakeRenditionStore{transfers: transfers, renditions: map[int64]*domain.Rendition{}}
	alerts := &fakeAlertSink{}
	svc := RenditionService{
		Transfers:  transfers,
		Renditions: renditions,
		Alerts:     alerts,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return svc, transfers, renditions, alerts
}

var manager = authctx.CurrentUser{ID: 5, Email: "manager@walker.cl", Role: domain.RoleManager}
var admin = authctx.CurrentUser{ID: 1, Email: "admin@walker.cl", Role: domain.RoleAdmin}
var cashier = authctx.CurrentUser{ID: 9, Email: "cashier@walker.cl", Role: domain.RoleCashier}

func TestRenditionCreateReconciles(t *testing.T) {
	svc, transfers, _, alerts := newRenditionFixture(100000, domain.TransferReceived)

	rd, err := svc.Create(context.Background(), manager, CreateRenditionInput{
		TransferID: 1,
		Expenses: []domain.Expense{
			expense("Arriendo", 30000),
			expense("Insumos", 20000),
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rd.TotalExpenses.Amount != 50000 {
		t.Errorf("TotalExpenses = %d, want 50000", rd.TotalExpenses.Amount)
	}
	if rd.RemainingAmount.Amount != 50000 {
		t.Errorf("RemainingAmount = %d, want 50000", rd.RemainingAmount.Amount)
	}
	if rd.Status != domain.RenditionPending {
		t.Errorf("rendition status = %q, want pending", rd.Status)
	}
	if got := transfers.transfers[1].Status; got != domain.TransferRenditionPending {
		t.Errorf("transfer status = %q, want rendition_pending", got)
	}
	if len(alerts.emitted) != 1 || alerts.emitted[0].Title != "Rendición enviada" {
		t.Errorf("expected one submission alert, got %+v", alerts.emitted)
	}
}

func TestRenditionCreateAllowsOverspend(t *testing.T) {
	svc, _, _, _ := newRenditionFixture(100000, domain.TransferReceived)

	rd, err := svc.Create(context.Background(), manager, CreateRenditionInput{
		TransferID: 1,
		Expenses:   []domain.Expense{expense("Reparación urgente", 130000)},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rd.RemainingAmount.Amount != -30000 {
		t.Errorf("RemainingAmount = %d, want -30000", rd.RemainingAmount.Amount)
	}
}

func TestRenditionCreateGuards(t *testing.T) {
	valid := []domain.Expense{expense("Luz", 10000)}

	t.Run("transfer not yet received", func(t *testing.T) {
		svc, _, _, _ := newRenditionFixture(100000, domain.TransferPending)
		_, err := svc.Create(context.Background(), manager, CreateRenditionInput{TransferID: 1, Expenses: valid})
		if !domain.IsInvalidState(err) {
			t.Fatalf("expected InvalidStateError, got %v", err)
		}
	})

	t.Run("transfer already completed", func(t *testing.T) {
		svc, _, _, _ := newRenditionFixture(100000, domain.TransferCompleted)
		_, err := svc.Create(context.Background(), manager, CreateRenditionInput{TransferID: 1, Expenses: valid})
		if !domain.IsInvalidState(err) {
			t.Fatalf("expected InvalidStateError, got %v", err)
		}
	})

	t.Run("empty expense list", func(t *testing.T) {
		svc, transfers, _, _ := newRenditionFixture(100000, domain.TransferReceived)
		_, err := svc.Create(context.Background(), manager, CreateRenditionInput{TransferID: 1})
		if !domain.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if got := transfers.transfers[1].Status; got != domain.TransferReceived {
			t.Errorf("failed create moved transfer to %q", got)
		}
	})

	t.Run("unknown transfer", func(t *testing.T) {
		svc, _, _, _ := newRenditionFixture(100000, domain.TransferReceived)
		_, err := svc.Create(context.Background(), manager, CreateRenditionInput{TransferID: 99, Expenses: valid})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("cashier forbidden", func(t *testing.T) {
		svc, _, _, _ := newRenditionFixture(100000, domain.TransferReceived)
		_, err := svc.Create(context.Background(), cashier, CreateRenditionInput{TransferID: 1, Expenses: valid})
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestRenditionSecondSubmissionRejected(t *testing.T) {
	svc, _, _, _ := newRenditionFixture(100000, domain.TransferReceived)
	in := CreateRenditionInput{TransferID: 1, Expenses: []domain.Expense{expense("Luz", 10000)}}

	if _, err := svc.Create(context.Background(), manager, in); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := svc.Create(context.Background(), manager, in)
	if !domain.IsInvalidState(err) {
		t.Fatalf("second Create: expected InvalidStateError, got %v", err)
	}
}

// After a rejection the transfer is back in received and a corrected
// rendition must be accepted; the rejected one stays behind as history.
func TestRenditionResubmitAfterRejection(t *testing.T) {
	svc, transfers, renditions, _ := newRenditionFixture(100000, domain.TransferReceived)

	first, err := svc.Create(context.Background(), manager, CreateRenditionInput{
		TransferID: 1,
		Expenses:   []domain.Expense{expense("Luz", 10000)},
	})
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), admin, first.ID, domain.RenditionRejected); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got := transfers.transfers[1].Status; got != domain.TransferReceived {
		t.Fatalf("transfer status = %q after rejection, want received", got)
	}

	second, err := svc.Create(context.Background(), manager, CreateRenditionInput{
		TransferID: 1,
		Expenses:   []domain.Expense{expense("Luz corregida", 12000)},
	})
	if err != nil {
		t.Fatalf("corrected Create after rejection: %v", err)
	}
	if second.ID == first.ID {
		t.Error("corrected submission reused the rejected rendition")
	}
	if got := transfers.transfers[1].Status; got != domain.TransferRenditionPending {
		t.Errorf("transfer status = %q, want rendition_pending", got)
	}
	if rd := renditions.renditions[first.ID]; rd == nil || rd.Status != domain.RenditionRejected {
		t.Error("rejected rendition was not retained as history")
	}
}

func TestRenditionApproveCompletesTransfer(t *testing.T) {
	svc, transfers, _, alerts := newRenditionFixture(100000, domain.TransferReceived)
	rd, err := svc.Create(context.Background(), manager, CreateRenditionInput{TransferID: 1, Expenses: []domain.Expense{expense("Luz", 10000)}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	out, err := svc.UpdateStatus(context.Background(), admin, rd.ID, domain.RenditionApproved)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if out.Status != domain.RenditionApproved {
		t.Errorf("rendition status = %q, want approved", out.Status)
	}
	if got := transfers.transfers[1].Status; got != domain.TransferCompleted {
		t.Errorf("transfer status = %q, want completed", got)
	}
	last := alerts.emitted[len(alerts.emitted)-1]
	if last.Title != "Rendición aprobada" || last.Type != domain.AlertSuccess {
		t.Errorf("unexpected approval alert: %+v", last)
	}
}

func TestRenditionRejectRevertsTransfer(t *testing.T) {
	svc, transfers, _, alerts := newRenditionFixture(100000, domain.TransferReceived)
	rd, err := svc.Create(context.Background(), manager, CreateRenditionInput{TransferID: 1, Expenses: []domain.Expense{expense("Luz", 10000)}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), admin, rd.ID, domain.RenditionRejected); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got := transfers.transfers[1].Status; got != domain.TransferReceived {
		t.Errorf("transfer status = %q, want received after rejection", got)
	}
	last := alerts.emitted[len(alerts.emitted)-1]
	if last.Title != "Rendición rechazada" || last.Type != domain.AlertWarning {
		t.Errorf("unexpected rejection alert: %+v", last)
	}
}

func TestRenditionUpdateStatusGuards(t *testing.T) {
	svc, _, _, _ := newRenditionFixture(100000, domain.TransferReceived)
	rd, err := svc.Create(context.Background(), manager, CreateRenditionInput{TransferID: 1, Expenses: []domain.Expense{expense("Luz", 10000)}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	t.Run("manager cannot decide", func(t *testing.T) {
		_, err := svc.UpdateStatus(context.Background(), manager, rd.ID, domain.RenditionApproved)
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("pending is not a decision", func(t *testing.T) {
		_, err := svc.UpdateStatus(context.Background(), admin, rd.ID, domain.RenditionPending)
		if !domain.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("no re-decision", func(t *testing.T) {
		if _, err := svc.UpdateStatus(context.Background(), admin, rd.ID, domain.RenditionApproved); err != nil {
			t.Fatalf("UpdateStatus: %v", err)
		}
		_, err := svc.UpdateStatus(context.Background(), admin, rd.ID, domain.RenditionRejected)
		if !domain.IsInvalidState(err) {
			t.Fatalf("expected InvalidStateError, got %v", err)
		}
	})
}

func TestRenditionDelete(t *testing.T) {
	t.Run("pending rendition reverts transfer", func(t *testing.T) {
		svc, transfers, renditions, _ := newRenditionFixture(100000, domain.TransferReceived)
		rd, err := svc.Create(context.Background(), manager, CreateRenditionInput{TransferID: 1, Expenses: []domain.Expense{expense("Luz", 10000)}})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		if err := svc.Delete(context.Background(), manager, rd.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if got := transfers.transfers[1].Status; got != domain.TransferReceived {
			t.Errorf("transfer status = %q, want received after deletion", got)
		}
		if len(renditions.renditions) != 0 {
			t.Error("rendition still present after deletion")
		}
	})

	t.Run("approved rendition cannot be deleted", func(t *testing.T) {
		svc, transfers, _, _ := newRenditionFixture(100000, domain.TransferReceived)
		rd, err := svc.Create(context.Background(), manager, CreateRenditionInput{TransferID: 1, Expenses: []domain.Expense{expense("Luz", 10000)}})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, err := svc.UpdateStatus(context.Background(), admin, rd.ID, domain.RenditionApproved); err != nil {
			t.Fatalf("UpdateStatus: %v", err)
		}

		err = svc.Delete(context.Background(), admin, rd.ID)
		if !domain.IsInvalidState(err) {
			t.Fatalf("expected InvalidStateError, got %v", err)
		}
		if got := transfers.transfers[1].Status; got != domain.TransferCompleted {
			t.Errorf("failed delete moved transfer to %q", got)
		}
	})
}
