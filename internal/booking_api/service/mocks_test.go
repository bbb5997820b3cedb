package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/client"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/ledger"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/outbox"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/reconciliation"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/shared"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/slot"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) Append(ctx context.Context, tx *ledger.Transaction, message *outbox.Message) error {
	return m.Called(ctx, tx, message).Error(0)
}

func (m *MockLedgerRepo) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*ledger.Transaction, error) {
	args := m.Called(ctx, clientID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Transaction), args.Error(1)
}

func (m *MockLedgerRepo) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepo) LatestByClient(ctx context.Context, clientID uuid.UUID) (*ledger.Transaction, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockLedgerRepo) FinancialStats(ctx context.Context) (*ledger.FinancialStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.FinancialStats), args.Error(1)
}

func (m *MockLedgerRepo) FindBalanceMismatches(ctx context.Context, settledBefore time.Time) ([]ledger.BalanceMismatch, error) {
	args := m.Called(ctx, settledBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.BalanceMismatch), args.Error(1)
}

type MockClientRepo struct {
	mock.Mock
}

func (m *MockClientRepo) GetByID(ctx context.Context, id uuid.UUID) (*client.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Profile), args.Error(1)
}

func (m *MockClientRepo) List(ctx context.Context, limit, offset int) ([]*client.Profile, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*client.Profile), args.Error(1)
}

func (m *MockClientRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepo) GetBalance(ctx context.Context, id uuid.UUID) (*client.BalanceSnapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.BalanceSnapshot), args.Error(1)
}

func (m *MockClientRepo) UpdateBalance(ctx context.Context, id uuid.UUID, newBalance decimal.Decimal, expectedVersion int) error {
	return m.Called(ctx, id, newBalance, expectedVersion).Error(0)
}

type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) Create(ctx context.Context, report *reconciliation.Report) error {
	return m.Called(ctx, report).Error(0)
}

func (m *MockReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*reconciliation.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconciliation.Report), args.Error(1)
}

func (m *MockReportRepo) ListByStatus(ctx context.Context, status reconciliation.Status, limit, offset int) ([]*reconciliation.Report, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reconciliation.Report), args.Error(1)
}

func (m *MockReportRepo) FindOpen(ctx context.Context, clientID uuid.UUID, source reconciliation.Source) (*reconciliation.Report, error) {
	args := m.Called(ctx, clientID, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconciliation.Report), args.Error(1)
}

func (m *MockReportRepo) Resolve(ctx context.Context, report *reconciliation.Report) error {
	return m.Called(ctx, report).Error(0)
}

type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) Create(ctx context.Context, message *outbox.Message) error {
	return m.Called(ctx, message).Error(0)
}

func (m *MockOutboxRepo) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepo) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockOutboxRepo) IncrementAttempts(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOutboxRepo) WithTx(tx pgx.Tx) outbox.Repository {
	return m.Called(tx).Get(0).(outbox.Repository)
}

type MockSlotRepo struct {
	mock.Mock
}

func (m *MockSlotRepo) ListWithBookings(ctx context.Context, from, to time.Time) ([]slot.Slot, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]slot.Slot), args.Error(1)
}

type recordingInvalidator struct {
	keys  []string
	calls [][]string
}

func (r *recordingInvalidator) Invalidate(keys ...string) {
	r.keys = append(r.keys, keys...)
	r.calls = append(r.calls, keys)
}
