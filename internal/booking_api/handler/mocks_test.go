package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/booking_api/middleware"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/booking_api/service"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/client"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/ledger"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/reconciliation"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/slot"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) AdjustBalance(ctx context.Context, clientID uuid.UUID, amount decimal.Decimal, description string) (*service.AdjustmentResult, error) {
	args := m.Called(ctx, clientID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AdjustmentResult), args.Error(1)
}

type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) SummarizeYear(ctx context.Context, year int) (map[string]slot.DaySummary, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]slot.DaySummary), args.Error(1)
}

type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) GetClient(ctx context.Context, id uuid.UUID) (*client.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Profile), args.Error(1)
}

func (m *MockClientService) ListClients(ctx context.Context, page, perPage int) ([]*client.Profile, int64, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*client.Profile), args.Get(1).(int64), args.Error(2)
}

func (m *MockClientService) GetMyProfile(ctx context.Context) (*client.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Profile), args.Error(1)
}

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) ListClientTransactions(ctx context.Context, clientID uuid.UUID, page, perPage int) ([]*ledger.Transaction, int64, error) {
	args := m.Called(ctx, clientID, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*ledger.Transaction), args.Get(1).(int64), args.Error(2)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) FinancialStats(ctx context.Context) (*ledger.FinancialStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.FinancialStats), args.Error(1)
}

type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) ListOpen(ctx context.Context, page, perPage int) ([]*reconciliation.Report, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reconciliation.Report), args.Error(1)
}

func (m *MockReconciliationService) Resolve(ctx context.Context, id uuid.UUID, note string) (*reconciliation.Report, error) {
	args := m.Called(ctx, id, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconciliation.Report), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CorrelationID())
	return r
}

// decodeResponse unmarshals the envelope and re-decodes its data into out
func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) Response {
	t.Helper()
	var envelope Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	if out != nil {
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out))
	}
	return envelope
}
