package slot

import (
	"context"
	"time"
)

// Repository reads training slots with their bookings
type Repository interface {
	// ListWithBookings returns every slot starting within [from, to], oldest first
	ListWithBookings(ctx context.Context, from, to time.Time) ([]Slot, error)
}
