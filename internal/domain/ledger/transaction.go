package ledger

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for amounts finer than a cent
var ErrInvalidAmount = errors.New("amount must have at most 2 decimal places")

// TransactionType classifies a credit movement
type TransactionType string

const (
	TransactionTypeDeposit          TransactionType = "deposit"
	TransactionTypeManualAdjustment TransactionType = "manual_adjustment"
	TransactionTypeBookingCharge    TransactionType = "booking_charge"
	TransactionTypeBookingRefund    TransactionType = "booking_refund"
	TransactionTypeCancellationFee  TransactionType = "cancellation_fee"
)

const (
	DefaultDepositDescription    = "Manual credit deposit"
	DefaultAdjustmentDescription = "Manual balance adjustment"
)

// Transaction is an immutable record of a balance change
type Transaction struct {
	ID           uuid.UUID       `json:"id"`
	ClientID     uuid.UUID       `json:"client_id"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Description  string          `json:"description"`
	Type         TransactionType `json:"type"`
	CreatedBy    uuid.UUID       `json:"created_by"`
	BookingID    *uuid.UUID      `json:"booking_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ClassifyAdjustment derives the type of a manual balance change from its sign
func ClassifyAdjustment(amount decimal.Decimal) TransactionType {
	if amount.Sign() >= 0 {
		return TransactionTypeDeposit
	}
	return TransactionTypeManualAdjustment
}

// DefaultDescription returns the description used when an admin gives none
func DefaultDescription(amount decimal.Decimal) string {
	if amount.Sign() >= 0 {
		return DefaultDepositDescription
	}
	return DefaultAdjustmentDescription
}

// ValidateAmount rejects amounts that cannot be stored to the cent
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(2)) {
		return ErrInvalidAmount
	}
	return nil
}

// NewAdjustment builds the transaction recorded for a manual balance change
func NewAdjustment(clientID uuid.UUID, amount, balanceAfter decimal.Decimal, description string, createdBy uuid.UUID) *Transaction {
	description = strings.TrimSpace(description)
	if description == "" {
		description = DefaultDescription(amount)
	}

	return &Transaction{
		ID:           uuid.New(),
		ClientID:     clientID,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		Description:  description,
		Type:         ClassifyAdjustment(amount),
		CreatedBy:    createdBy,
		CreatedAt:    time.Now().UTC(),
	}
}

// FinancialStats aggregates credit figures for the admin dashboard
type FinancialStats struct {
	TotalClientBalance  decimal.Decimal `json:"total_client_balance"`
	ClientsInDebt       int64           `json:"clients_in_debt"`
	TotalDeposits       decimal.Decimal `json:"total_deposits"`
	TotalAdjustments    decimal.Decimal `json:"total_adjustments"`
	TotalBookingCharges decimal.Decimal `json:"total_booking_charges"`
	TransactionCount    int64           `json:"transaction_count"`
}

// BalanceMismatch is a client whose stored balance disagrees with the newest
// balance_after in its transaction history
type BalanceMismatch struct {
	ClientID            uuid.UUID
	StoredBalance       decimal.Decimal
	LatestTransactionID uuid.UUID
	LatestBalanceAfter  decimal.Decimal
}
