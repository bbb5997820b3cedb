package reconciliation

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, report *Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)
	ListByStatus(ctx context.Context, status Status, limit, offset int) ([]*Report, error)
	// FindOpen returns the open report for the client and source, or nil
	FindOpen(ctx context.Context, clientID uuid.UUID, source Source) (*Report, error)
	Resolve(ctx context.Context, report *Report) error
}

type ErrReportNotFound struct {
	ID uuid.UUID
}

func (e ErrReportNotFound) Error() string {
	return "reconciliation report not found: " + e.ID.String()
}

func (e ErrReportNotFound) Is(target error) bool {
	t, ok := target.(ErrReportNotFound)
	if !ok {
		return false
	}
	return t.ID == uuid.Nil || t.ID == e.ID
}
