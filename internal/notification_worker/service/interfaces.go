package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/notification"
)

// DispatchService delivers one notification event. Delivery is best effort:
// implementations log and record failures instead of returning them.
type DispatchService interface {
	Dispatch(ctx context.Context, event *notification.Event) error
}

// Email is a rendered message ready for the email API
type Email struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// EmailRenderer turns an event into an email for its recipient
type EmailRenderer interface {
	Render(event *notification.Event) (*Email, error)
}

// EmailSender posts a rendered email to the transactional email provider
type EmailSender interface {
	Send(ctx context.Context, email *Email) error
}

// DeliveryRecorder keeps the per-event delivery log used to skip resends
type DeliveryRecorder interface {
	AlreadySent(ctx context.Context, eventID uuid.UUID) (bool, error)
	RecordDelivery(ctx context.Context, event *notification.Event, recipient string, sendErr error) error
}
