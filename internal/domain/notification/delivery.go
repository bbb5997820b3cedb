package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type DeliveryStatus string

const (
	DeliveryStatusSent   DeliveryStatus = "sent"
	DeliveryStatusFailed DeliveryStatus = "failed"
)

// Delivery records one email dispatch attempt
type Delivery struct {
	EventID     uuid.UUID      `json:"event_id"`
	Kind        Kind           `json:"kind"`
	Recipient   string         `json:"recipient"`
	Status      DeliveryStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	AttemptedAt time.Time      `json:"attempted_at"`
}

// DeliveryRepository persists the delivery log
type DeliveryRepository interface {
	Record(ctx context.Context, delivery *Delivery) error
	WasSent(ctx context.Context, eventID uuid.UUID) (bool, error)
}
