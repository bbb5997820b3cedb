package outbox_relay

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/notification"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/outbox"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestKafkaEventPublisher_PublishEvent(t *testing.T) {
	ctx := context.Background()

	event := notification.NewEvent(notification.KindBalanceAdjusted, uuid.New(), "eva@example.com", "Eva", nil)
	event.CorrelationID = "corr-9"
	message, err := outbox.NewMessage(event)
	require.NoError(t, err)
	message.ID = 7

	t.Run("publishes keyed by client and marks processed", func(t *testing.T) {
		repo := &MockOutboxRepo{}
		producer := &MockMessagePublisher{}

		producer.On("Publish", ctx, event.ClientID.String(), []byte(message.Payload), map[string]string{
			"kind":           "balance_adjusted",
			"correlation_id": "corr-9",
		}).Return(nil).Once()
		repo.On("UpdateStatus", ctx, int64(7), shared.OutboxStatusProcessed).Return(nil).Once()

		err := NewKafkaEventPublisher(repo, producer, slog.Default()).PublishEvent(ctx, message)
		require.NoError(t, err)
		repo.AssertExpectations(t)
		producer.AssertExpectations(t)
	})

	t.Run("publish failure leaves the message pending", func(t *testing.T) {
		repo := &MockOutboxRepo{}
		producer := &MockMessagePublisher{}
		producer.On("Publish", ctx, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

		err := NewKafkaEventPublisher(repo, producer, slog.Default()).PublishEvent(ctx, message)
		assert.ErrorContains(t, err, "broker down")
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("status update failure is reported", func(t *testing.T) {
		repo := &MockOutboxRepo{}
		producer := &MockMessagePublisher{}
		producer.On("Publish", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
		repo.On("UpdateStatus", ctx, int64(7), shared.OutboxStatusProcessed).Return(errors.New("db error")).Once()

		err := NewKafkaEventPublisher(repo, producer, slog.Default()).PublishEvent(ctx, message)
		assert.ErrorContains(t, err, "failed to mark outbox 7 as PROCESSED")
	})

	t.Run("undecodable payload is marked failed", func(t *testing.T) {
		repo := &MockOutboxRepo{}
		producer := &MockMessagePublisher{}
		broken := &outbox.Message{ID: 8, Payload: json.RawMessage(`{"event_id":42}`)}
		repo.On("UpdateStatus", ctx, int64(8), shared.OutboxStatusFailedToPublish).Return(nil).Once()

		err := NewKafkaEventPublisher(repo, producer, slog.Default()).PublishEvent(ctx, broken)
		assert.ErrorContains(t, err, "unmarshal payload for outbox 8 failed")
		repo.AssertExpectations(t)
		producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
