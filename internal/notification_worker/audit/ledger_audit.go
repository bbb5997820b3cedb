// Package audit runs the scheduled comparison of stored balances against the
// transaction history.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/client"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/ledger"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/notification"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/outbox"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/reconciliation"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/platform/metrics"
	"github.com/robfig/cron/v3"
)

// LedgerAudit opens a reconciliation report for every client whose stored
// balance differs from the balance_after of their newest transaction
type LedgerAudit struct {
	cron       *cron.Cron
	ledgerRepo ledger.Repository
	clientRepo client.Repository
	reportRepo reconciliation.Repository
	outboxRepo outbox.Repository
	logger     *slog.Logger
	runTimeout time.Duration

	// profiles written within settleWindow may be mid adjustment
	settleWindow time.Duration
	now          func() time.Time
}

func NewLedgerAudit(
	ledgerRepo ledger.Repository,
	clientRepo client.Repository,
	reportRepo reconciliation.Repository,
	outboxRepo outbox.Repository,
	logger *slog.Logger,
	location *time.Location,
	settleWindow time.Duration,
) *LedgerAudit {
	return &LedgerAudit{
		cron:       cron.New(cron.WithSeconds(), cron.WithLocation(location)),
		ledgerRepo: ledgerRepo,
		clientRepo: clientRepo,
		reportRepo: reportRepo,
		outboxRepo: outboxRepo,
		logger:     logger,
		runTimeout: 5 * time.Minute,

		settleWindow: settleWindow,
		now:          time.Now,
	}
}

// Register schedules the audit; schedule uses the six-field cron syntax
func (a *LedgerAudit) Register(ctx context.Context, schedule string) error {
	if _, err := a.cron.AddFunc(schedule, func() {
		runCtx, cancel := context.WithTimeout(ctx, a.runTimeout)
		defer cancel()
		if _, err := a.Run(runCtx); err != nil {
			a.logger.Error("Ledger audit run failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("register ledger audit: %w", err)
	}
	return nil
}

func (a *LedgerAudit) Start() {
	a.cron.Start()
	a.logger.Info("Ledger audit scheduler started")
}

// Stop waits for a running audit to finish
func (a *LedgerAudit) Stop() {
	<-a.cron.Stop().Done()
	a.logger.Info("Ledger audit scheduler stopped")
}

// Run performs one audit pass and returns the number of reports it opened
func (a *LedgerAudit) Run(ctx context.Context) (int, error) {
	a.logger.Info("Running ledger audit")

	mismatches, err := a.ledgerRepo.FindBalanceMismatches(ctx, a.now().Add(-a.settleWindow))
	if err != nil {
		return 0, fmt.Errorf("failed to find balance mismatches: %w", err)
	}
	metrics.LedgerAuditMismatchesTotal.Add(float64(len(mismatches)))

	opened := 0
	for _, m := range mismatches {
		logger := a.logger.With("client_id", m.ClientID.String())

		existing, err := a.reportRepo.FindOpen(ctx, m.ClientID, reconciliation.SourceAudit)
		if err != nil {
			logger.Error("Failed to look up open audit report", "error", err)
			continue
		}
		if existing != nil {
			logger.Debug("Audit mismatch already reported", "report_id", existing.ID.String())
			continue
		}

		report := reconciliation.NewAuditReport(m.ClientID, m.StoredBalance, m.LatestBalanceAfter, m.LatestTransactionID)
		if err := a.reportRepo.Create(ctx, report); err != nil {
			logger.Error("Failed to create audit reconciliation report", "error", err)
			continue
		}
		opened++

		logger.Warn("Ledger audit found balance mismatch",
			"report_id", report.ID.String(),
			"stored_balance", m.StoredBalance.StringFixed(2),
			"ledger_balance", m.LatestBalanceAfter.StringFixed(2),
		)

		a.notifyAdmin(ctx, logger, m, report)
	}

	a.logger.Info("Ledger audit finished", "mismatches", len(mismatches), "reports_opened", opened)
	return opened, nil
}

// notifyAdmin enqueues the admin email; the report is already stored, so a
// failure here is only logged
func (a *LedgerAudit) notifyAdmin(ctx context.Context, logger *slog.Logger, m ledger.BalanceMismatch, report *reconciliation.Report) {
	data := map[string]string{
		notification.DataStoredBalance: m.StoredBalance.StringFixed(2),
		notification.DataLedgerBalance: m.LatestBalanceAfter.StringFixed(2),
		notification.DataReportID:      report.ID.String(),
		notification.DataClientName:    m.ClientID.String(),
	}
	if profile, err := a.clientRepo.GetByID(ctx, m.ClientID); err == nil {
		data[notification.DataClientName] = profile.FullName
		data[notification.DataClientEmail] = profile.Email
	} else {
		logger.Warn("Failed to load client profile for audit notification", "error", err)
	}

	event := notification.NewEvent(notification.KindLedgerAuditMismatch, m.ClientID, "", "", data)
	message, err := outbox.NewMessage(event)
	if err != nil {
		logger.Error("Failed to build audit notification", "error", err)
		return
	}
	if err := a.outboxRepo.Create(ctx, message); err != nil {
		logger.Error("Failed to enqueue audit notification", "error", err)
	}
}
