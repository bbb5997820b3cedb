package reconciliation

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Source tells how an inconsistency was detected
type Source string

const (
	SourcePartialFailure Source = "partial_failure"
	SourceAudit          Source = "audit"
)

type Status string

const (
	StatusOpen     Status = "open"
	StatusResolved Status = "resolved"
)

var ErrAlreadyResolved = errors.New("reconciliation report already resolved")

// Report flags a client whose balance and transaction history disagree
// until an admin reconciles them by hand
type Report struct {
	ID             uuid.UUID       `json:"id"`
	ClientID       uuid.UUID       `json:"client_id"`
	Source         Source          `json:"source"`
	Amount         decimal.Decimal `json:"amount"`
	BalanceBefore  decimal.Decimal `json:"balance_before"`
	BalanceAfter   decimal.Decimal `json:"balance_after"`
	Description    string          `json:"description,omitempty"`
	CreatedBy      uuid.UUID       `json:"created_by"`
	TransactionID  *uuid.UUID      `json:"transaction_id,omitempty"`
	Reason         string          `json:"reason"`
	Status         Status          `json:"status"`
	ResolvedBy     *uuid.UUID      `json:"resolved_by,omitempty"`
	ResolutionNote string          `json:"resolution_note,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	ResolvedAt     *time.Time      `json:"resolved_at,omitempty"`
}

// NewPartialFailureReport records a balance write whose transaction row is missing
func NewPartialFailureReport(clientID uuid.UUID, amount, before, after decimal.Decimal, description string, createdBy, transactionID uuid.UUID, cause error) *Report {
	reason := "transaction record write failed"
	if cause != nil {
		reason = cause.Error()
	}

	return &Report{
		ID:            uuid.New(),
		ClientID:      clientID,
		Source:        SourcePartialFailure,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Description:   description,
		CreatedBy:     createdBy,
		TransactionID: &transactionID,
		Reason:        reason,
		Status:        StatusOpen,
		CreatedAt:     time.Now().UTC(),
	}
}

// NewAuditReport records a stored balance that differs from the newest balance_after
func NewAuditReport(clientID uuid.UUID, stored, latest decimal.Decimal, transactionID uuid.UUID) *Report {
	return &Report{
		ID:            uuid.New(),
		ClientID:      clientID,
		Source:        SourceAudit,
		Amount:        stored.Sub(latest),
		BalanceBefore: latest,
		BalanceAfter:  stored,
		TransactionID: &transactionID,
		Reason:        "stored balance " + stored.StringFixed(2) + " differs from latest balance_after " + latest.StringFixed(2),
		Status:        StatusOpen,
		CreatedAt:     time.Now().UTC(),
	}
}

// Resolve closes the report
func (r *Report) Resolve(by uuid.UUID, note string) error {
	if r.Status == StatusResolved {
		return ErrAlreadyResolved
	}
	now := time.Now().UTC()
	r.Status = StatusResolved
	r.ResolvedBy = &by
	r.ResolutionNote = note
	r.ResolvedAt = &now
	return nil
}
