package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/shared"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/slot"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/platform/persistence"
)

// SlotRepository implements slot.Repository for PostgreSQL
type SlotRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewSlotRepository(logger *slog.Logger, db *persistence.PostgresDB) slot.Repository {
	return &SlotRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// ListWithBookings fetches the window in one query. The bookings column is
// JSON null for a slot without bookings and is normalized to a slice here.
func (r *SlotRepository) ListWithBookings(ctx context.Context, from, to time.Time) ([]slot.Slot, error) {
	query := `
		SELECT s.id, s.start_time, s.end_time,
			json_agg(json_build_object('id', b.id, 'client_id', b.client_id, 'status', b.status)
				ORDER BY b.created_at) FILTER (WHERE b.id IS NOT NULL) AS bookings
		FROM training_slots s
		LEFT JOIN bookings b ON b.slot_id = s.id
		WHERE s.start_time BETWEEN $1 AND $2
		GROUP BY s.id, s.start_time, s.end_time
		ORDER BY s.start_time ASC
	`

	rows, err := r.querier.Query(ctx, query, from, to)
	if err != nil {
		r.logger.Error("Failed to list slots", "from", from, "to", to, "error", err)
		return nil, shared.PersistenceError{Op: "failed to list slots", Err: err}
	}
	defer rows.Close()

	slots := make([]slot.Slot, 0)
	for rows.Next() {
		var (
			id         uuid.UUID
			start, end time.Time
			bookings   []byte
		)
		if err := rows.Scan(&id, &start, &end, &bookings); err != nil {
			r.logger.Error("Failed to scan slot", "error", err)
			return nil, shared.PersistenceError{Op: "failed to scan slot", Err: err}
		}
		slots = append(slots, slot.Slot{
			ID:        id,
			StartTime: start,
			EndTime:   end,
			Bookings:  slot.NormalizeBookings(bookings, r.logger.With("slot_id", id.String())),
		})
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over slots", "error", err)
		return nil, shared.PersistenceError{Op: "error iterating over slots", Err: err}
	}

	return slots, nil
}
