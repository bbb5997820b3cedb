package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/reconciliation"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/identity"
)

type ReconciliationServiceImpl struct {
	reportRepo reconciliation.Repository
	logger     *slog.Logger
}

func NewReconciliationService(logger *slog.Logger, reportRepo reconciliation.Repository) ReconciliationService {
	return &ReconciliationServiceImpl{reportRepo: reportRepo, logger: logger}
}

func (s *ReconciliationServiceImpl) ListOpen(ctx context.Context, page, perPage int) ([]*reconciliation.Report, error) {
	if _, err := identity.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.reportRepo.ListByStatus(ctx, reconciliation.StatusOpen, perPage, (page-1)*perPage)
}

// Resolve closes an open report once an admin has fixed the ledger by hand.
// Returns reconciliation.ErrAlreadyResolved for a closed report.
func (s *ReconciliationServiceImpl) Resolve(ctx context.Context, id uuid.UUID, note string) (*reconciliation.Report, error) {
	actor, err := identity.RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := report.Resolve(actor.UserID, note); err != nil {
		return nil, err
	}
	if err := s.reportRepo.Resolve(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info("Reconciliation report resolved",
		"report_id", id.String(),
		"client_id", report.ClientID.String(),
		"resolved_by", actor.UserID.String(),
	)
	return report, nil
}
