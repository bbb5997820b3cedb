package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/notification"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/notification_worker/service"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/platform/messaging/producers"
)

// NotificationEventHandler handles notification events consumed from Kafka
type NotificationEventHandler struct {
	dispatchService service.DispatchService
	producer        producers.DeadLetterPublisher
	logger          *slog.Logger
}

func NewNotificationEventHandler(
	logger *slog.Logger,
	dispatchService service.DispatchService,
	producer producers.DeadLetterPublisher,
) *NotificationEventHandler {
	return &NotificationEventHandler{
		dispatchService: dispatchService,
		producer:        producer,
		logger:          logger,
	}
}

// HandleMessage decodes and dispatches one event. A nil return commits the offset.
func (h *NotificationEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event notification.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return h.reject(ctx, key, value, "Failed to unmarshal notification event from Kafka message", err)
	}
	if err := event.Validate(); err != nil {
		return h.reject(ctx, key, value, "Invalid notification event", err)
	}

	logger := h.logger
	if event.CorrelationID != "" {
		logger = h.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Received notification event",
		"event_id", event.EventID.String(),
		"kind", string(event.Kind),
		"client_id", event.ClientID.String(),
	)

	if err := h.dispatchService.Dispatch(ctx, &event); err != nil {
		logger.Error("Failed to dispatch notification", "event_id", event.EventID.String(), "error", err)
		return fmt.Errorf("dispatching notification %s failed: %w", event.EventID.String(), err)
	}

	return nil
}

// reject parks an unusable message on the DLQ so it stops blocking the partition
func (h *NotificationEventHandler) reject(ctx context.Context, key, value []byte, msg string, cause error) error {
	h.logger.Error(msg, "error", cause, "message_key", string(key))

	if h.producer != nil {
		dlqReason := fmt.Sprintf("%s: %s", msg, cause.Error())
		if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
			h.logger.Error("Failed to publish message to DLQ",
				"dlq_error", dlqErr,
				"original_error", cause,
				"message_key", string(key),
			)
		} else {
			return nil
		}
	}
	return fmt.Errorf("unprocessable notification message: %w", cause)
}
