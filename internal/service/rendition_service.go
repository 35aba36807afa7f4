package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
	"github.com/Dramirezponce/walkergestion-sub000/internal/ports"
	"github.com/Dramirezponce/walkergestion-sub000/internal/server/authctx"
)

// RenditionService reconciles cash transfers against submitted expenses and
// drives the transfer status cascade.
type RenditionService struct {
	Transfers  ports.TransferStore
	Renditions ports.RenditionStore
	Alerts     ports.AlertSink
	Logger     *slog.Logger
}

type CreateRenditionInput struct {
	TransferID int64
	Expenses   []domain.Expense
	Notes      string
}

// Create validates the expense list, computes the reconciliation totals and
// opens a rendition against a received transfer. The transfer moves to
// rendition_pending in the same transaction. RemainingAmount may come out
// negative; overspend is recorded, not rejected.
func (s RenditionService) Create(ctx context.Context, actor authctx.CurrentUser, in CreateRenditionInput) (*domain.Rendition, error) {
	if err := requireRole(actor, domain.RoleAdmin, domain.RoleManager); err != nil {
		return nil, err
	}

	tr, err := s.Transfers.GetTransfer(ctx, in.TransferID)
	if err != nil {
		return nil, err
	}
	if tr.Status != domain.TransferReceived {
		return nil, &domain.InvalidStateError{Entity: "transfer", Status: string(tr.Status), Op: "render"}
	}
	if tr.Amount.Amount <= 0 {
		return nil, domain.ValidationErrorf("transferAmount", "must be positive")
	}
	if err := ValidateExpenses(in.Expenses); err != nil {
		return nil, err
	}

	total := TotalExpenses(in.Expenses)
	rendition := &domain.Rendition{
		TransferID:      tr.ID,
		BusinessUnitID:  tr.BusinessUnitID,
		SubmittedBy:     &actor.ID,
		Week:            tr.Week,
		TransferAmount:  tr.Amount,
		TotalExpenses:   domain.Money{Amount: total, Currency: tr.Amount.Currency},
		RemainingAmount: domain.Money{Amount: tr.Amount.Amount - total, Currency: tr.Amount.Currency},
		Status:          domain.RenditionPending,
		Notes:           in.Notes,
		Expenses:        in.Expenses,
	}

	saved, err := s.Renditions.CreateRendition(ctx, rendition, domain.TransferRenditionPending)
	if err != nil {
		return nil, err
	}

	s.Alerts.Emit(ctx, domain.Alert{
		Title:          "Rendición enviada",
		Message:        fmt.Sprintf("Rendición de la semana %s: gastos %d, saldo %d", saved.Week, saved.TotalExpenses.Amount, saved.RemainingAmount.Amount),
		Type:           domain.AlertInfo,
		BusinessUnitID: &saved.BusinessUnitID,
	})
	return saved, nil
}

// UpdateStatus approves or rejects an open rendition. Approval completes the
// owning transfer; rejection sends it back to received so a corrected
// rendition can be submitted.
func (s RenditionService) UpdateStatus(ctx context.Context, actor authctx.CurrentUser, id int64, status domain.RenditionStatus) (*domain.Rendition, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if status != domain.RenditionApproved && status != domain.RenditionRejected {
		return nil, domain.ValidationErrorf("status", "must be approved or rejected")
	}

	rd, err := s.Renditions.GetRendition(ctx, id)
	if err != nil {
		return nil, err
	}
	if domain.RenditionDecided(rd.Status) {
		return nil, &domain.InvalidStateError{Entity: "rendition", Status: string(rd.Status), Op: "decide"}
	}

	transferStatus := domain.TransferCompleted
	alertType := domain.AlertSuccess
	alertTitle := "Rendición aprobada"
	if status == domain.RenditionRejected {
		transferStatus = domain.TransferReceived
		alertType = domain.AlertWarning
		alertTitle = "Rendición rechazada"
	}

	if err := s.Renditions.DecideRendition(ctx, id, status, transferStatus); err != nil {
		return nil, err
	}
	rd.Status = status

	s.Alerts.Emit(ctx, domain.Alert{
		Title:          alertTitle,
		Message:        fmt.Sprintf("Rendición de la semana %s por %d", rd.Week, rd.TransferAmount.Amount),
		Type:           alertType,
		BusinessUnitID: &rd.BusinessUnitID,
	})
	return rd, nil
}

// Delete removes a still-open rendition with its expenses and reverts the
// owning transfer to received. Decided renditions cannot be deleted.
func (s RenditionService) Delete(ctx context.Context, actor authctx.CurrentUser, id int64) error {
	if err := requireRole(actor, domain.RoleAdmin, domain.RoleManager); err != nil {
		return err
	}

	rd, err := s.Renditions.GetRendition(ctx, id)
	if err != nil {
		return err
	}
	if domain.RenditionDecided(rd.Status) {
		return &domain.InvalidStateError{Entity: "rendition", Status: string(rd.Status), Op: "delete"}
	}
	return s.Renditions.DeleteRendition(ctx, id, domain.TransferReceived)
}

// requireRole is the single authorization gate for state-transition
// operations.
func requireRole(actor authctx.CurrentUser, roles ...domain.UserRole) error {
	for _, r := range roles {
		if actor.Role == r {
			return nil
		}
	}
	return domain.ErrUnauthorized
}
