package service

import (
	"context"
	"log/slog"

	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
	"github.com/Dramirezponce/walkergestion-sub000/internal/repository"
)

// Alerter persists alerts emitted by state transitions. Emission is
// best-effort: a failed write is logged and swallowed so it never fails the
// transition that produced it.
type Alerter struct {
	Repo   repository.AlertRepository
	Logger *slog.Logger
}

func (a Alerter) Emit(ctx context.Context, alert domain.Alert) {
	if _, err := a.Repo.Create(ctx, alert); err != nil {
		a.Logger.Warn("failed to emit alert", "title", alert.Title, "err", err)
	}
}
