package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/outbox"
)

// Repository manages the append-only transaction history
type Repository interface {
	// Append stores the transaction and, when message is non-nil, its outbox
	// notification in a single database transaction
	Append(ctx context.Context, tx *Transaction, message *outbox.Message) error
	ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*Transaction, error)
	CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error)
	LatestByClient(ctx context.Context, clientID uuid.UUID) (*Transaction, error)
	FinancialStats(ctx context.Context) (*FinancialStats, error)
	// FindBalanceMismatches skips profiles written after settledBefore, whose
	// transaction record may still be in flight
	FindBalanceMismatches(ctx context.Context, settledBefore time.Time) ([]BalanceMismatch, error)
}

// ErrTransactionNotFound indicates a client without any transaction
type ErrTransactionNotFound struct {
	ClientID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "no transaction found for client: " + e.ClientID.String()
}

// Is matches any ErrTransactionNotFound when the target carries no ID
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	if t.ClientID == uuid.Nil {
		return true
	}
	return e.ClientID == t.ClientID
}
