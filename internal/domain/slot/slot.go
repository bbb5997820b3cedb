package slot

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a client's claim on a slot
type BookingStatus string

const (
	BookingStatusBooked               BookingStatus = "booked"
	BookingStatusPending              BookingStatus = "pending"
	BookingStatusAwaitingConfirmation BookingStatus = "awaiting_confirmation"
	BookingStatusCompleted            BookingStatus = "completed"
	BookingStatusCancelled            BookingStatus = "cancelled"
	BookingStatusNoShow               BookingStatus = "no_show"
)

// IsActive reports whether the booking still holds the slot
func (s BookingStatus) IsActive() bool {
	switch s {
	case BookingStatusBooked, BookingStatusPending, BookingStatusAwaitingConfirmation:
		return true
	}
	return false
}

type Booking struct {
	ID       uuid.UUID     `json:"id"`
	ClientID uuid.UUID     `json:"client_id"`
	Status   BookingStatus `json:"status"`
}

// Slot is a bookable training interval with the bookings attached to it.
// Bookings is never nil after it leaves the repository.
type Slot struct {
	ID        uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Bookings  []Booking
}

// State is the single bucket a slot falls into for the calendar
type State int

const (
	StateAvailable State = iota
	StateBooked
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateBooked:
		return "booked"
	case StateCompleted:
		return "completed"
	default:
		return "available"
	}
}

// Classify picks the slot's bucket. A completed booking wins over an active
// one, and an active one wins over none.
func (s Slot) Classify() State {
	booked := false
	for _, b := range s.Bookings {
		if b.Status == BookingStatusCompleted {
			return StateCompleted
		}
		if b.Status.IsActive() {
			booked = true
		}
	}
	if booked {
		return StateBooked
	}
	return StateAvailable
}
