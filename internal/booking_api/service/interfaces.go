package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/client"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/ledger"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/reconciliation"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/slot"
	"github.com/shopspring/decimal"
)

// AdjustmentResult is what a successful balance adjustment produced
type AdjustmentResult struct {
	NewBalance  decimal.Decimal
	Transaction *ledger.Transaction
}

// LedgerService mutates client credit balances
type LedgerService interface {
	// AdjustBalance adds a signed amount to the client's balance and records the
	// matching transaction. The acting admin is taken from the context.
	// Returns shared.PartialFailureError when the balance was written but the
	// transaction was not.
	AdjustBalance(ctx context.Context, clientID uuid.UUID, amount decimal.Decimal, description string) (*AdjustmentResult, error)
}

// AvailabilityService builds the public booking calendar
type AvailabilityService interface {
	// SummarizeYear returns one summary per day that has at least one slot,
	// keyed by YYYY-MM-DD in the schedule time zone
	SummarizeYear(ctx context.Context, year int) (map[string]slot.DaySummary, error)
}

type ClientService interface {
	GetClient(ctx context.Context, id uuid.UUID) (*client.Profile, error)
	// ListClients returns one page of clients and the total number of clients
	ListClients(ctx context.Context, page, perPage int) ([]*client.Profile, int64, error)
	// GetMyProfile returns the profile of the acting identity
	GetMyProfile(ctx context.Context) (*client.Profile, error)
}

type TransactionService interface {
	// ListClientTransactions returns one page of a client's history, newest first, and the total count
	ListClientTransactions(ctx context.Context, clientID uuid.UUID, page, perPage int) ([]*ledger.Transaction, int64, error)
}

type StatsService interface {
	FinancialStats(ctx context.Context) (*ledger.FinancialStats, error)
}

type ReconciliationService interface {
	ListOpen(ctx context.Context, page, perPage int) ([]*reconciliation.Report, error)
	Resolve(ctx context.Context, id uuid.UUID, note string) (*reconciliation.Report, error)
}
