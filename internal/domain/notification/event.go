package notification

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Kind names the situation a notification reports
type Kind string

const (
	KindBalanceAdjusted              Kind = "balance_adjusted"
	KindLedgerReconciliationRequired Kind = "ledger_reconciliation_required"
	KindLedgerAuditMismatch          Kind = "ledger_audit_mismatch"
)

// Keys of Event.Data shared by the producers and the email templates
const (
	DataAmount        = "amount"
	DataNewBalance    = "new_balance"
	DataDescription   = "description"
	DataTransactionID = "transaction_id"
	DataReportID      = "report_id"
	DataClientName    = "client_name"
	DataClientEmail   = "client_email"
	DataStoredBalance = "stored_balance"
	DataLedgerBalance = "ledger_balance"
)

var (
	ErrUnknownKind    = errors.New("unknown notification kind")
	ErrMissingEventID = errors.New("notification event id is required")
)

// Event is the message relayed through Kafka to the notification worker
type Event struct {
	EventID       uuid.UUID         `json:"event_id"`
	Kind          Kind              `json:"kind"`
	ClientID      uuid.UUID         `json:"client_id"`
	Recipient     string            `json:"recipient,omitempty"`
	RecipientName string            `json:"recipient_name,omitempty"`
	Data          map[string]string `json:"data,omitempty"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

func NewEvent(kind Kind, clientID uuid.UUID, recipient, recipientName string, data map[string]string) *Event {
	return &Event{
		EventID:       uuid.New(),
		Kind:          kind,
		ClientID:      clientID,
		Recipient:     recipient,
		RecipientName: recipientName,
		Data:          data,
		OccurredAt:    time.Now().UTC(),
	}
}

// IsAdminKind reports whether the event is addressed to the admin mailbox
func (k Kind) IsAdminKind() bool {
	return k == KindLedgerReconciliationRequired || k == KindLedgerAuditMismatch
}

func (k Kind) Valid() bool {
	switch k {
	case KindBalanceAdjusted, KindLedgerReconciliationRequired, KindLedgerAuditMismatch:
		return true
	}
	return false
}

// Validate checks the fields every dispatch relies on
func (e *Event) Validate() error {
	if e.EventID == uuid.Nil {
		return ErrMissingEventID
	}
	if !e.Kind.Valid() {
		return ErrUnknownKind
	}
	return nil
}
