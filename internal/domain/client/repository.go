package client

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines profile persistence operations
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	List(ctx context.Context, limit, offset int) ([]*Profile, error)
	Count(ctx context.Context) (int64, error)

	// GetBalance reads the balance and its version for a read-modify-write cycle
	GetBalance(ctx context.Context, id uuid.UUID) (*BalanceSnapshot, error)

	// UpdateBalance stores newBalance only if the profile is still at expectedVersion
	UpdateBalance(ctx context.Context, id uuid.UUID, newBalance decimal.Decimal, expectedVersion int) error
}

// ErrConcurrentModification indicates optimistic lock failure
type ErrConcurrentModification struct {
	ClientID uuid.UUID
}

func (e ErrConcurrentModification) Error() string {
	return "concurrent modification detected for client: " + e.ClientID.String()
}

// ErrClientNotFound indicates missing client profile
type ErrClientNotFound struct {
	ClientID uuid.UUID
}

func (e ErrClientNotFound) Error() string {
	return "client not found: " + e.ClientID.String()
}

// Is matches any ErrClientNotFound when the target carries no ID
func (e ErrClientNotFound) Is(target error) bool {
	t, ok := target.(ErrClientNotFound)
	if !ok {
		return false
	}
	if t.ClientID == uuid.Nil {
		return true
	}
	return e.ClientID == t.ClientID
}
