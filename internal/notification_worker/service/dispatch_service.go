package service

import (
	"context"
	"log/slog"

	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/notification"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/platform/metrics"
)

type DispatchServiceImpl struct {
	renderer EmailRenderer
	sender   EmailSender
	recorder DeliveryRecorder
	logger   *slog.Logger
}

func NewDispatchService(
	renderer EmailRenderer,
	sender EmailSender,
	recorder DeliveryRecorder,
	logger *slog.Logger,
) DispatchService {
	return &DispatchServiceImpl{
		renderer: renderer,
		sender:   sender,
		recorder: recorder,
		logger:   logger,
	}
}

// Dispatch renders and sends the email for an event. It only returns an error
// when the delivery log cannot be read, so Kafka redelivers the event later.
func (s *DispatchServiceImpl) Dispatch(ctx context.Context, event *notification.Event) error {
	logger := s.logger.With("event_id", event.EventID.String(), "kind", string(event.Kind))
	if event.CorrelationID != "" {
		logger = logger.With("correlation_id", event.CorrelationID)
	}

	// 1. Skip events an earlier delivery already handled
	sent, err := s.recorder.AlreadySent(ctx, event.EventID)
	if err != nil {
		logger.Error("Failed to check delivery log", "error", err)
		return err
	}
	if sent {
		logger.Info("Notification already delivered, skipping")
		return nil
	}

	// 2. Render
	email, err := s.renderer.Render(event)
	if err != nil {
		logger.Error("Failed to render notification email", "error", err)
		s.record(ctx, logger, event, event.Recipient, err)
		return nil
	}

	// 3. Send
	if err := s.sender.Send(ctx, email); err != nil {
		logger.Error("Failed to send notification email", "recipient", email.To, "error", err)
		s.record(ctx, logger, event, email.To, err)
		return nil
	}

	logger.Info("Notification email sent", "recipient", email.To)
	s.record(ctx, logger, event, email.To, nil)
	return nil
}

func (s *DispatchServiceImpl) record(ctx context.Context, logger *slog.Logger, event *notification.Event, recipient string, sendErr error) {
	status := notification.DeliveryStatusSent
	if sendErr != nil {
		status = notification.DeliveryStatusFailed
	}
	metrics.NotificationsTotal.WithLabelValues(string(event.Kind), string(status)).Inc()

	if err := s.recorder.RecordDelivery(ctx, event, recipient, sendErr); err != nil {
		logger.Error("Failed to record notification delivery", "error", err)
	}
}
