package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/ledger"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/outbox"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/shared"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/platform/persistence"
)

const transactionColumns = `id, client_id, amount, balance_after, description, type, created_by, booking_id, created_at`

// TransactionRepository implements ledger.Repository for PostgreSQL
type TransactionRepository struct {
	pool   persistence.Pool
	outbox *OutboxRepository
	logger *slog.Logger
}

func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &TransactionRepository{
		pool:   db.Pool(),
		outbox: &OutboxRepository{querier: db.Pool(), logger: logger},
		logger: logger,
	}
}

// Append inserts the transaction and its outbox message atomically
func (r *TransactionRepository) Append(ctx context.Context, t *ledger.Transaction, message *outbox.Message) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	err := persistence.ExecuteTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			t.ID,
			t.ClientID,
			t.Amount,
			t.BalanceAfter,
			t.Description,
			t.Type,
			t.CreatedBy,
			t.BookingID,
			t.CreatedAt,
		)
		if err != nil {
			return shared.PersistenceError{Op: "failed to insert transaction", Err: err}
		}

		if message == nil {
			return nil
		}
		return r.outbox.WithTx(tx).Create(ctx, message)
	})
	if err != nil {
		r.logger.Error("Failed to append transaction",
			"transaction_id", t.ID.String(),
			"client_id", t.ClientID.String(),
			"error", err,
		)
		var persistenceErr shared.PersistenceError
		if errors.As(err, &persistenceErr) {
			return err
		}
		return shared.PersistenceError{Op: "failed to append transaction", Err: err}
	}

	return nil
}

func scanTransaction(row pgx.Row) (*ledger.Transaction, error) {
	var t ledger.Transaction
	err := row.Scan(
		&t.ID,
		&t.ClientID,
		&t.Amount,
		&t.BalanceAfter,
		&t.Description,
		&t.Type,
		&t.CreatedBy,
		&t.BookingID,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByClient returns a page of the client's history, newest first
func (r *TransactionRepository) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*ledger.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE client_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, clientID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list transactions", "client_id", clientID.String(), "error", err)
		return nil, shared.PersistenceError{Op: "failed to list transactions", Err: err}
	}
	defer rows.Close()

	transactions := make([]*ledger.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			r.logger.Error("Failed to scan transaction", "client_id", clientID.String(), "error", err)
			return nil, shared.PersistenceError{Op: "failed to scan transaction", Err: err}
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over transactions", "client_id", clientID.String(), "error", err)
		return nil, shared.PersistenceError{Op: "error iterating over transactions", Err: err}
	}

	return transactions, nil
}

func (r *TransactionRepository) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE client_id = $1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, clientID).Scan(&count); err != nil {
		r.logger.Error("Failed to count transactions", "client_id", clientID.String(), "error", err)
		return 0, shared.PersistenceError{Op: "failed to count transactions", Err: err}
	}

	return count, nil
}

func (r *TransactionRepository) LatestByClient(ctx context.Context, clientID uuid.UUID) (*ledger.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE client_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	t, err := scanTransaction(r.pool.QueryRow(ctx, query, clientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrTransactionNotFound{ClientID: clientID}
		}
		r.logger.Error("Failed to get latest transaction", "client_id", clientID.String(), "error", err)
		return nil, shared.PersistenceError{Op: "failed to get latest transaction", Err: err}
	}

	return t, nil
}

// FinancialStats aggregates balances over client profiles and amounts over the whole history
func (r *TransactionRepository) FinancialStats(ctx context.Context) (*ledger.FinancialStats, error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(balance), 0) FROM profiles WHERE role = $1),
			(SELECT COUNT(*) FROM profiles WHERE role = $1 AND balance < 0),
			COALESCE(SUM(amount) FILTER (WHERE type = $2), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = $3), 0),
			COALESCE(ABS(SUM(amount) FILTER (WHERE type = $4)), 0),
			COUNT(*)
		FROM transactions
	`

	var stats ledger.FinancialStats
	err := r.pool.QueryRow(ctx, query,
		shared.RoleClient,
		ledger.TransactionTypeDeposit,
		ledger.TransactionTypeManualAdjustment,
		ledger.TransactionTypeBookingCharge,
	).Scan(
		&stats.TotalClientBalance,
		&stats.ClientsInDebt,
		&stats.TotalDeposits,
		&stats.TotalAdjustments,
		&stats.TotalBookingCharges,
		&stats.TransactionCount,
	)
	if err != nil {
		r.logger.Error("Failed to compute financial stats", "error", err)
		return nil, shared.PersistenceError{Op: "failed to compute financial stats", Err: err}
	}

	return &stats, nil
}

// FindBalanceMismatches lists clients whose stored balance differs from the
// balance_after of their newest transaction. Clients without history, and
// profiles updated after settledBefore, are skipped.
func (r *TransactionRepository) FindBalanceMismatches(ctx context.Context, settledBefore time.Time) ([]ledger.BalanceMismatch, error) {
	query := `
		SELECT p.id, COALESCE(p.balance, 0), t.id, t.balance_after
		FROM profiles p
		JOIN LATERAL (
			SELECT id, balance_after
			FROM transactions
			WHERE client_id = p.id
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) t ON TRUE
		WHERE COALESCE(p.balance, 0) <> t.balance_after
		  AND p.updated_at <= $1
		ORDER BY p.id
	`

	rows, err := r.pool.Query(ctx, query, settledBefore)
	if err != nil {
		r.logger.Error("Failed to find balance mismatches", "error", err)
		return nil, shared.PersistenceError{Op: "failed to find balance mismatches", Err: err}
	}
	defer rows.Close()

	var mismatches []ledger.BalanceMismatch
	for rows.Next() {
		var m ledger.BalanceMismatch
		if err := rows.Scan(&m.ClientID, &m.StoredBalance, &m.LatestTransactionID, &m.LatestBalanceAfter); err != nil {
			r.logger.Error("Failed to scan balance mismatch", "error", err)
			return nil, shared.PersistenceError{Op: "failed to scan balance mismatch", Err: err}
		}
		mismatches = append(mismatches, m)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over balance mismatches", "error", err)
		return nil, shared.PersistenceError{Op: "error iterating over balance mismatches", Err: err}
	}

	return mismatches, nil
}
