// Package postgres provides PostgreSQL implementations of the domain repositories.
// Driver failures come back as shared.PersistenceError and missing rows as the
// domain's typed not-found errors.
package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/client"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/shared"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/platform/persistence"
	"github.com/shopspring/decimal"
)

const profileColumns = `id, full_name, email, COALESCE(phone, ''), role, balance, version, created_at, updated_at`

// ClientRepository implements client.Repository for PostgreSQL
type ClientRepository struct {
	querier persistence.Querier // *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

func NewClientRepository(logger *slog.Logger, db *persistence.PostgresDB) client.Repository {
	return &ClientRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to tx
func (r *ClientRepository) WithTx(tx pgx.Tx) *ClientRepository {
	return &ClientRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func scanProfile(row pgx.Row) (*client.Profile, error) {
	var p client.Profile
	err := row.Scan(
		&p.ID,
		&p.FullName,
		&p.Email,
		&p.Phone,
		&p.Role,
		&p.Balance,
		&p.Version,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*client.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE id = $1
	`

	p, err := scanProfile(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, client.ErrClientNotFound{ClientID: id}
		}
		r.logger.Error("Failed to get client", "client_id", id.String(), "error", err)
		return nil, shared.PersistenceError{Op: "failed to get client", Err: err}
	}

	return p, nil
}

// List returns client profiles ordered by name
func (r *ClientRepository) List(ctx context.Context, limit, offset int) ([]*client.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE role = $1
		ORDER BY full_name ASC, id ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, shared.RoleClient, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list clients", "error", err)
		return nil, shared.PersistenceError{Op: "failed to list clients", Err: err}
	}
	defer rows.Close()

	profiles := make([]*client.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			r.logger.Error("Failed to scan client", "error", err)
			return nil, shared.PersistenceError{Op: "failed to scan client", Err: err}
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over clients", "error", err)
		return nil, shared.PersistenceError{Op: "error iterating over clients", Err: err}
	}

	return profiles, nil
}

func (r *ClientRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM profiles WHERE role = $1`

	var count int64
	if err := r.querier.QueryRow(ctx, query, shared.RoleClient).Scan(&count); err != nil {
		r.logger.Error("Failed to count clients", "error", err)
		return 0, shared.PersistenceError{Op: "failed to count clients", Err: err}
	}

	return count, nil
}

// GetBalance reads the balance with the version that guards its next write.
// A NULL balance comes back as zero.
func (r *ClientRepository) GetBalance(ctx context.Context, id uuid.UUID) (*client.BalanceSnapshot, error) {
	query := `
		SELECT full_name, email, balance, version
		FROM profiles
		WHERE id = $1
	`

	var (
		fullName, email string
		balance         decimal.NullDecimal
		version         int
	)
	err := r.querier.QueryRow(ctx, query, id).Scan(&fullName, &email, &balance, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, client.ErrClientNotFound{ClientID: id}
		}
		r.logger.Error("Failed to get client balance", "client_id", id.String(), "error", err)
		return nil, shared.PersistenceError{Op: "failed to get client balance", Err: err}
	}

	return client.NewBalanceSnapshot(id, fullName, email, balance, version), nil
}

// UpdateBalance writes newBalance if nobody changed the profile since
// expectedVersion was read. Returns ErrConcurrentModification otherwise.
func (r *ClientRepository) UpdateBalance(ctx context.Context, id uuid.UUID, newBalance decimal.Decimal, expectedVersion int) error {
	query := `
		UPDATE profiles
		SET balance = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3
	`

	result, err := r.querier.Exec(ctx, query, newBalance, id, expectedVersion)
	if err != nil {
		r.logger.Error("Failed to update client balance", "client_id", id.String(), "error", err)
		return shared.PersistenceError{Op: "failed to update client balance", Err: err}
	}

	if result.RowsAffected() == 0 {
		return client.ErrConcurrentModification{ClientID: id}
	}

	return nil
}
