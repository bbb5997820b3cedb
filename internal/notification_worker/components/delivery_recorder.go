package components

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/notification"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/notification_worker/service"
)

type DeliveryRecorderImpl struct {
	deliveryRepo notification.DeliveryRepository
	logger       *slog.Logger
}

func NewDeliveryRecorder(deliveryRepo notification.DeliveryRepository, logger *slog.Logger) service.DeliveryRecorder {
	return &DeliveryRecorderImpl{
		deliveryRepo: deliveryRepo,
		logger:       logger,
	}
}

func (r *DeliveryRecorderImpl) AlreadySent(ctx context.Context, eventID uuid.UUID) (bool, error) {
	return r.deliveryRepo.WasSent(ctx, eventID)
}

// RecordDelivery stores a sent delivery, or a failed one carrying sendErr
func (r *DeliveryRecorderImpl) RecordDelivery(ctx context.Context, event *notification.Event, recipient string, sendErr error) error {
	delivery := &notification.Delivery{
		EventID:     event.EventID,
		Kind:        event.Kind,
		Recipient:   recipient,
		Status:      notification.DeliveryStatusSent,
		AttemptedAt: time.Now().UTC(),
	}
	if sendErr != nil {
		delivery.Status = notification.DeliveryStatusFailed
		delivery.Error = sendErr.Error()
	}

	if err := r.deliveryRepo.Record(ctx, delivery); err != nil {
		return err
	}

	r.logger.Debug("Recorded notification delivery",
		"event_id", event.EventID.String(),
		"status", string(delivery.Status),
	)
	return nil
}
