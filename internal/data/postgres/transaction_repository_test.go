package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/ledger"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/notification"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/outbox"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/shared"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var transactionRowColumns = []string{"id", "client_id", "amount", "balance_after", "description", "type", "created_by", "booking_id", "created_at"}

func newTransactionRepo(t *testing.T) (*TransactionRepository, pgxmock.PgxPoolIface) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	logger := newTestLogger()
	return &TransactionRepository{
		pool:   mock,
		outbox: &OutboxRepository{querier: mock, logger: logger},
		logger: logger,
	}, mock
}

func TestTransactionRepository_Append(t *testing.T) {
	ctx := context.Background()
	clientID, adminID := uuid.New(), uuid.New()

	insertTx := `INSERT INTO transactions \(id, client_id, amount, balance_after, description, type, created_by, booking_id, created_at\)`
	insertOutbox := `INSERT INTO notification_outbox`

	newFixture := func(t *testing.T) (*ledger.Transaction, *outbox.Message) {
		tx := ledger.NewAdjustment(clientID, dec("-15.00"), dec("-5.00"), "", adminID)
		msg, err := outbox.NewMessage(notification.NewEvent(notification.KindBalanceAdjusted, clientID, "jana@example.com", "Jana", nil))
		require.NoError(t, err)
		return tx, msg
	}

	t.Run("commits transaction and outbox message together", func(t *testing.T) {
		repo, mock := newTransactionRepo(t)
		tx, msg := newFixture(t)

		mock.ExpectBegin()
		mock.ExpectExec(insertTx).
			WithArgs(tx.ID, clientID, decimalArg{dec("-15")}, decimalArg{dec("-5")}, ledger.DefaultAdjustmentDescription,
				ledger.TransactionTypeManualAdjustment, adminID, tx.BookingID, tx.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectQuery(insertOutbox).
			WithArgs(msg.EventID, clientID, notification.KindBalanceAdjusted, msg.Payload, shared.OutboxStatusPending, 0, msg.CreatedAt).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))
		mock.ExpectCommit()

		require.NoError(t, repo.Append(ctx, tx, msg))
		assert.Equal(t, int64(3), msg.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("without message", func(t *testing.T) {
		repo, mock := newTransactionRepo(t)
		tx, _ := newFixture(t)

		mock.ExpectBegin()
		mock.ExpectExec(insertTx).WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Append(ctx, tx, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure rolls back", func(t *testing.T) {
		repo, mock := newTransactionRepo(t)
		tx, msg := newFixture(t)
		driverErr := errors.New("foreign key violation")

		mock.ExpectBegin()
		mock.ExpectExec(insertTx).WillReturnError(driverErr)
		mock.ExpectRollback()

		err := repo.Append(ctx, tx, msg)
		var persistenceErr shared.PersistenceError
		require.ErrorAs(t, err, &persistenceErr)
		assert.Equal(t, "failed to insert transaction", persistenceErr.Op)
		assert.ErrorIs(t, err, driverErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("outbox failure rolls back transaction row", func(t *testing.T) {
		repo, mock := newTransactionRepo(t)
		tx, msg := newFixture(t)

		mock.ExpectBegin()
		mock.ExpectExec(insertTx).WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectQuery(insertOutbox).WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := repo.Append(ctx, tx, msg)
		assert.ErrorContains(t, err, "failed to create outbox message")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		repo, mock := newTransactionRepo(t)
		tx, msg := newFixture(t)

		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		err := repo.Append(ctx, tx, msg)
		var persistenceErr shared.PersistenceError
		require.ErrorAs(t, err, &persistenceErr)
		assert.Equal(t, "failed to append transaction", persistenceErr.Op)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_ListByClient(t *testing.T) {
	ctx := context.Background()
	repo, mock := newTransactionRepo(t)
	clientID := uuid.New()
	now := time.Now()

	query := `FROM transactions\s+WHERE client_id = \$1\s+ORDER BY created_at DESC, id DESC\s+LIMIT \$2 OFFSET \$3`

	rows := pgxmock.NewRows(transactionRowColumns).
		AddRow(uuid.New(), clientID, dec("-15.00"), dec("-5.00"), "Manual balance adjustment", ledger.TransactionTypeManualAdjustment, uuid.New(), (*uuid.UUID)(nil), now).
		AddRow(uuid.New(), clientID, dec("10.00"), dec("10.00"), "Manual credit deposit", ledger.TransactionTypeDeposit, uuid.New(), (*uuid.UUID)(nil), now.Add(-time.Hour))
	mock.ExpectQuery(query).WithArgs(clientID, 10, 0).WillReturnRows(rows)

	transactions, err := repo.ListByClient(ctx, clientID, 10, 0)
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, ledger.TransactionTypeManualAdjustment, transactions[0].Type)
	assert.True(t, transactions[0].BalanceAfter.Equal(dec("-5")))
	assert.Nil(t, transactions[0].BookingID)

	mock.ExpectQuery(query).WithArgs(clientID, 10, 0).WillReturnError(errors.New("canceling statement"))
	_, err = repo.ListByClient(ctx, clientID, 10, 0)
	assert.ErrorContains(t, err, "failed to list transactions")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_CountByClient(t *testing.T) {
	repo, mock := newTransactionRepo(t)
	clientID := uuid.New()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM transactions WHERE client_id = \$1`).
		WithArgs(clientID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(5)))

	count, err := repo.CountByClient(context.Background(), clientID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_LatestByClient(t *testing.T) {
	ctx := context.Background()
	repo, mock := newTransactionRepo(t)
	clientID := uuid.New()
	query := `ORDER BY created_at DESC, id DESC\s+LIMIT 1`

	t.Run("found", func(t *testing.T) {
		txID := uuid.New()
		mock.ExpectQuery(query).WithArgs(clientID).WillReturnRows(pgxmock.NewRows(transactionRowColumns).
			AddRow(txID, clientID, dec("5"), dec("25"), "Manual credit deposit", ledger.TransactionTypeDeposit, uuid.New(), (*uuid.UUID)(nil), time.Now()))

		tx, err := repo.LatestByClient(ctx, clientID)
		require.NoError(t, err)
		assert.Equal(t, txID, tx.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no history", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(clientID).WillReturnError(pgx.ErrNoRows)

		_, err := repo.LatestByClient(ctx, clientID)
		assert.ErrorIs(t, err, ledger.ErrTransactionNotFound{ClientID: clientID})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_FinancialStats(t *testing.T) {
	ctx := context.Background()
	repo, mock := newTransactionRepo(t)

	query := `SELECT COALESCE\(SUM\(balance\), 0\) FROM profiles WHERE role = \$1`
	args := []interface{}{shared.RoleClient, ledger.TransactionTypeDeposit, ledger.TransactionTypeManualAdjustment, ledger.TransactionTypeBookingCharge}

	mock.ExpectQuery(query).WithArgs(args...).WillReturnRows(
		pgxmock.NewRows([]string{"total_balance", "in_debt", "deposits", "adjustments", "charges", "count"}).
			AddRow(dec("120.50"), int64(2), dec("300.00"), dec("-40.00"), dec("139.50"), int64(31)))

	stats, err := repo.FinancialStats(ctx)
	require.NoError(t, err)
	assert.True(t, stats.TotalClientBalance.Equal(dec("120.5")))
	assert.Equal(t, int64(2), stats.ClientsInDebt)
	assert.True(t, stats.TotalAdjustments.Equal(dec("-40")))
	assert.Equal(t, int64(31), stats.TransactionCount)

	mock.ExpectQuery(query).WithArgs(args...).WillReturnError(errors.New("statement timeout"))
	_, err = repo.FinancialStats(ctx)
	assert.ErrorContains(t, err, "failed to compute financial stats")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_FindBalanceMismatches(t *testing.T) {
	ctx := context.Background()
	repo, mock := newTransactionRepo(t)
	clientID, txID := uuid.New(), uuid.New()
	settledBefore := time.Date(2025, 6, 1, 2, 59, 50, 0, time.UTC)

	query := `JOIN LATERAL`
	mock.ExpectQuery(query).WithArgs(settledBefore).WillReturnRows(
		pgxmock.NewRows([]string{"id", "balance", "tx_id", "balance_after"}).
			AddRow(clientID, dec("40.00"), txID, dec("25.50")))

	mismatches, err := repo.FindBalanceMismatches(ctx, settledBefore)
	require.NoError(t, err)
	require.Len(t, mismatches, 1)
	assert.Equal(t, clientID, mismatches[0].ClientID)
	assert.Equal(t, txID, mismatches[0].LatestTransactionID)
	assert.True(t, mismatches[0].StoredBalance.Equal(dec("40")))
	assert.True(t, mismatches[0].LatestBalanceAfter.Equal(dec("25.5")))

	mock.ExpectQuery(query).WithArgs(settledBefore).WillReturnError(errors.New("relation does not exist"))
	_, err = repo.FindBalanceMismatches(ctx, settledBefore)
	assert.ErrorContains(t, err, "failed to find balance mismatches")

	assert.NoError(t, mock.ExpectationsWereMet())
}
