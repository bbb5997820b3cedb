package client

import (
	"time"

	"github.com/google/uuid"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Profile represents a client (or admin) of the swim school
type Profile struct {
	ID        uuid.UUID           `json:"id"`
	FullName  string              `json:"full_name"`
	Email     string              `json:"email"`
	Phone     string              `json:"phone,omitempty"`
	Role      shared.Role         `json:"role"`
	Balance   decimal.NullDecimal `json:"balance"` // NULL until the first credit movement
	Version   int                 `json:"version"` // For optimistic locking
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// CurrentBalance returns the stored balance, treating a missing value as zero
func (p *Profile) CurrentBalance() decimal.Decimal {
	if !p.Balance.Valid {
		return decimal.Zero
	}
	return p.Balance.Decimal
}

// IsAdmin reports whether the profile belongs to an administrator
func (p *Profile) IsAdmin() bool {
	return p.Role == shared.RoleAdmin
}

// BalanceSnapshot is the slice of a profile the ledger mutator reads before
// writing a new balance. Version is the compare-and-swap token for that write.
type BalanceSnapshot struct {
	ClientID uuid.UUID
	FullName string
	Email    string
	Balance  decimal.Decimal
	Version  int
}

// NewBalanceSnapshot builds a snapshot from stored values; a NULL balance reads as zero.
func NewBalanceSnapshot(id uuid.UUID, fullName, email string, stored decimal.NullDecimal, version int) *BalanceSnapshot {
	balance := decimal.Zero
	if stored.Valid {
		balance = stored.Decimal
	}
	return &BalanceSnapshot{
		ClientID: id,
		FullName: fullName,
		Email:    email,
		Balance:  balance,
		Version:  version,
	}
}

// Apply returns the balance after adding a signed delta
func (s *BalanceSnapshot) Apply(amount decimal.Decimal) decimal.Decimal {
	return s.Balance.Add(amount)
}
