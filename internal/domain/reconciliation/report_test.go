package reconciliation

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPartialFailureReport(t *testing.T) {
	clientID, adminID, txID := uuid.New(), uuid.New(), uuid.New()

	report := NewPartialFailureReport(clientID, decimal.RequireFromString("-15.00"),
		decimal.RequireFromString("10.00"), decimal.RequireFromString("-5.00"),
		"Manual balance adjustment", adminID, txID, errors.New("connection reset"))

	assert.NotEqual(t, uuid.Nil, report.ID)
	assert.Equal(t, SourcePartialFailure, report.Source)
	assert.Equal(t, StatusOpen, report.Status)
	assert.Equal(t, "connection reset", report.Reason)
	require.NotNil(t, report.TransactionID)
	assert.Equal(t, txID, *report.TransactionID)
	assert.True(t, report.BalanceAfter.Equal(decimal.RequireFromString("-5")))
}

func TestNewAuditReport(t *testing.T) {
	report := NewAuditReport(uuid.New(), decimal.RequireFromString("40.00"), decimal.RequireFromString("25.50"), uuid.New())

	assert.Equal(t, SourceAudit, report.Source)
	assert.True(t, report.Amount.Equal(decimal.RequireFromString("14.50")))
	assert.Contains(t, report.Reason, "40.00")
	assert.Contains(t, report.Reason, "25.50")
}

func TestReport_Resolve(t *testing.T) {
	report := NewAuditReport(uuid.New(), decimal.Zero, decimal.NewFromInt(1), uuid.New())
	adminID := uuid.New()

	require.NoError(t, report.Resolve(adminID, "booking charge re-entered"))
	assert.Equal(t, StatusResolved, report.Status)
	assert.Equal(t, adminID, *report.ResolvedBy)
	assert.NotNil(t, report.ResolvedAt)

	assert.ErrorIs(t, report.Resolve(adminID, "again"), ErrAlreadyResolved)
}

func TestErrReportNotFound_Is(t *testing.T) {
	id := uuid.New()
	assert.ErrorIs(t, ErrReportNotFound{ID: id}, ErrReportNotFound{})
	assert.NotErrorIs(t, ErrReportNotFound{ID: id}, ErrReportNotFound{ID: uuid.New()})
}
