package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/reconciliation"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/shared"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/identity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func openReport() *reconciliation.Report {
	return reconciliation.NewPartialFailureReport(uuid.New(), decimal.NewFromInt(10), decimal.Zero, decimal.NewFromInt(10), "", uuid.New(), uuid.New(), errors.New("insert failed"))
}

func TestReconciliationService_ListOpen(t *testing.T) {
	ctx, _ := adminContext()
	repo := &MockReportRepo{}
	reports := []*reconciliation.Report{openReport()}
	repo.On("ListByStatus", mock.Anything, reconciliation.StatusOpen, 25, 50).Return(reports, nil).Once()

	svc := NewReconciliationService(slog.Default(), repo)
	got, err := svc.ListOpen(ctx, 3, 25)
	require.NoError(t, err)
	assert.Equal(t, reports, got)

	clientCtx := identity.WithIdentity(context.Background(), &identity.Identity{UserID: uuid.New(), Role: shared.RoleClient})
	_, err = svc.ListOpen(clientCtx, 1, 25)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	repo.AssertExpectations(t)
}

func TestReconciliationService_Resolve(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(repo *MockReportRepo, report *reconciliation.Report)
		prepare    func(report *reconciliation.Report)
		wantErr    error
	}{
		{
			name: "resolves an open report",
			setupMocks: func(repo *MockReportRepo, report *reconciliation.Report) {
				repo.On("GetByID", mock.Anything, report.ID).Return(report, nil).Once()
				repo.On("Resolve", mock.Anything, report).Return(nil).Once()
			},
		},
		{
			name: "already resolved",
			setupMocks: func(repo *MockReportRepo, report *reconciliation.Report) {
				repo.On("GetByID", mock.Anything, report.ID).Return(report, nil).Once()
			},
			prepare: func(report *reconciliation.Report) {
				_ = report.Resolve(uuid.New(), "fixed")
			},
			wantErr: reconciliation.ErrAlreadyResolved,
		},
		{
			name: "not found",
			setupMocks: func(repo *MockReportRepo, report *reconciliation.Report) {
				repo.On("GetByID", mock.Anything, report.ID).Return(nil, reconciliation.ErrReportNotFound{ID: report.ID}).Once()
			},
			wantErr: reconciliation.ErrReportNotFound{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, admin := adminContext()
			report := openReport()
			if tt.prepare != nil {
				tt.prepare(report)
			}
			repo := &MockReportRepo{}
			tt.setupMocks(repo, report)

			svc := NewReconciliationService(slog.Default(), repo)
			got, err := svc.Resolve(ctx, report.ID, "balance corrected by hand")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, reconciliation.StatusResolved, got.Status)
				require.NotNil(t, got.ResolvedBy)
				assert.Equal(t, admin.UserID, *got.ResolvedBy)
				assert.Equal(t, "balance corrected by hand", got.ResolutionNote)
			}
			repo.AssertExpectations(t)
		})
	}
}
