package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/client"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/ledger"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/notification"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/outbox"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/reconciliation"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/shared"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/identity"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/platform/cache"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/platform/correlation"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

// LedgerServiceImpl implements LedgerService as a two step saga: the balance
// write, then the transaction record. There is no rollback of the first step;
// a failed second step is surfaced and handed over to manual reconciliation.
type LedgerServiceImpl struct {
	clientRepo   client.Repository
	ledgerRepo   ledger.Repository
	reportRepo   reconciliation.Repository
	outboxRepo   outbox.Repository
	cache        cache.Invalidator
	logger       *slog.Logger
	writeTimeout time.Duration
}

func NewLedgerService(
	logger *slog.Logger,
	clientRepo client.Repository,
	ledgerRepo ledger.Repository,
	reportRepo reconciliation.Repository,
	outboxRepo outbox.Repository,
	invalidator cache.Invalidator,
	writeTimeout time.Duration,
) LedgerService {
	return &LedgerServiceImpl{
		clientRepo:   clientRepo,
		ledgerRepo:   ledgerRepo,
		reportRepo:   reportRepo,
		outboxRepo:   outboxRepo,
		cache:        invalidator,
		logger:       logger,
		writeTimeout: writeTimeout,
	}
}

func (s *LedgerServiceImpl) AdjustBalance(ctx context.Context, clientID uuid.UUID, amount decimal.Decimal, description string) (*AdjustmentResult, error) {
	actor, err := identity.RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if err := ledger.ValidateAmount(amount); err != nil {
		return nil, err
	}

	correlationID := correlation.FromContext(ctx)
	logger := s.logger.With("client_id", clientID.String(), "actor_id", actor.UserID.String())
	if correlationID != "" {
		logger = logger.With("correlation_id", correlationID)
	}

	snapshot, err := s.clientRepo.GetBalance(ctx, clientID)
	if err != nil {
		return nil, err
	}
	newBalance := snapshot.Apply(amount)

	// Both writes run detached from the caller so a dropped request cannot
	// stop the saga between them.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
	defer cancel()

	// Step 1: balance, guarded by the version read above
	if err := s.clientRepo.UpdateBalance(writeCtx, clientID, newBalance, snapshot.Version); err != nil {
		var conflict client.ErrConcurrentModification
		if errors.As(err, &conflict) {
			logger.Warn("Balance changed concurrently, adjustment rejected", "expected_version", snapshot.Version)
		}
		return nil, err
	}
	s.invalidate(clientID)

	// Step 2: transaction record plus the client notification
	tx := ledger.NewAdjustment(clientID, amount, newBalance, description, actor.UserID)
	message, err := s.balanceAdjustedMessage(snapshot, tx, correlationID)
	if err == nil {
		err = s.ledgerRepo.Append(writeCtx, tx, message)
	}
	if err != nil {
		return nil, s.partialFailure(ctx, logger, snapshot, tx, correlationID, err)
	}
	// Reads served between the two steps may have cached the old history
	s.invalidate(clientID)

	metrics.BalanceAdjustmentsTotal.WithLabelValues(string(tx.Type)).Inc()
	logger.Info("Balance adjusted",
		"transaction_id", tx.ID.String(),
		"type", string(tx.Type),
		"amount", amount.StringFixed(2),
		"new_balance", newBalance.StringFixed(2),
	)

	return &AdjustmentResult{NewBalance: newBalance, Transaction: tx}, nil
}

func (s *LedgerServiceImpl) balanceAdjustedMessage(snapshot *client.BalanceSnapshot, tx *ledger.Transaction, correlationID string) (*outbox.Message, error) {
	event := notification.NewEvent(notification.KindBalanceAdjusted, snapshot.ClientID, snapshot.Email, snapshot.FullName, map[string]string{
		notification.DataAmount:        tx.Amount.StringFixed(2),
		notification.DataNewBalance:    tx.BalanceAfter.StringFixed(2),
		notification.DataDescription:   tx.Description,
		notification.DataTransactionID: tx.ID.String(),
	})
	event.CorrelationID = correlationID
	return outbox.NewMessage(event)
}

// partialFailure reports a balance that was written without its transaction.
// The report and the alert are best effort: the error returned to the caller
// is a PartialFailureError whatever happens here. Both writes get their own
// deadline since step 2 may have failed by exhausting the saga's.
func (s *LedgerServiceImpl) partialFailure(ctx context.Context, logger *slog.Logger, snapshot *client.BalanceSnapshot, tx *ledger.Transaction, correlationID string, cause error) error {
	metrics.LedgerPartialFailuresTotal.Inc()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
	defer cancel()

	partial := shared.PartialFailureError{
		ClientID:        snapshot.ClientID,
		Amount:          tx.Amount,
		PreviousBalance: snapshot.Balance,
		NewBalance:      tx.BalanceAfter,
		Err:             cause,
	}

	report := reconciliation.NewPartialFailureReport(snapshot.ClientID, tx.Amount, snapshot.Balance, tx.BalanceAfter, tx.Description, tx.CreatedBy, tx.ID, cause)
	if err := s.reportRepo.Create(ctx, report); err != nil {
		logger.Error("Failed to store reconciliation report", "error", err)
	} else {
		partial.ReportID = report.ID
	}

	logger.Error("Balance updated but transaction record failed",
		"alert", "manual_reconciliation_required",
		"report_id", partial.ReportID.String(),
		"transaction_id", tx.ID.String(),
		"amount", tx.Amount.StringFixed(2),
		"previous_balance", snapshot.Balance.StringFixed(2),
		"new_balance", tx.BalanceAfter.StringFixed(2),
		"error", cause,
	)

	event := notification.NewEvent(notification.KindLedgerReconciliationRequired, snapshot.ClientID, "", "", map[string]string{
		notification.DataClientName:  snapshot.FullName,
		notification.DataClientEmail: snapshot.Email,
		notification.DataAmount:      tx.Amount.StringFixed(2),
		notification.DataNewBalance:  tx.BalanceAfter.StringFixed(2),
		notification.DataReportID:    partial.ReportID.String(),
	})
	event.CorrelationID = correlationID
	if message, err := outbox.NewMessage(event); err == nil {
		if err := s.outboxRepo.Create(ctx, message); err != nil {
			logger.Warn("Failed to enqueue reconciliation alert", "error", err)
		}
	}

	return partial
}

func (s *LedgerServiceImpl) invalidate(clientID uuid.UUID) {
	s.cache.Invalidate(
		cacheKeyClients,
		profileKey(clientID),
		transactionsKey(clientID),
		cacheKeyFinancialStats,
	)
}
