package producers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/config"
	"github.com/segmentio/kafka-go"
)

// topicAdmin is the part of *kafka.Conn used to provision topics
type topicAdmin interface {
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	CreateTopics(topics ...kafka.TopicConfig) error
}

var _ topicAdmin = (*kafka.Conn)(nil)

// ensureTopic creates topic unless its partitions become readable within
// KAFKA_TOPIC_CHECK_ATTEMPTS reads spaced KAFKA_TOPIC_CHECK_BACKOFF apart.
func ensureTopic(ctx context.Context, admin topicAdmin, topic string, cfg *config.KafkaConfig, log *slog.Logger) error {
	attempts := max(cfg.TopicCheckAttempts, 1)
	log = log.With("topic", topic)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		partitions, err := admin.ReadPartitions(topic)
		if err == nil && len(partitions) > 0 {
			log.Info("Kafka topic already exists", "partitions", len(partitions))
			return nil
		}
		lastErr = err
		if attempt == attempts {
			break
		}
		log.Warn("Kafka topic not readable yet", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("gave up waiting for kafka topic %s: %w", topic, ctx.Err())
		case <-time.After(cfg.TopicCheckBackoff):
		}
	}

	topicConfig := kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     max(cfg.NumPartitions, 1),
		ReplicationFactor: max(cfg.ReplicationFactor, 1),
	}
	log.Info("Creating Kafka topic",
		"partitions", topicConfig.NumPartitions,
		"replication_factor", topicConfig.ReplicationFactor,
		"last_read_error", lastErr,
	)
	if err := admin.CreateTopics(topicConfig); err != nil {
		// another worker won the race
		if errors.Is(err, kafka.TopicAlreadyExists) {
			return nil
		}
		return fmt.Errorf("failed to create kafka topic %s: %w", topic, err)
	}
	return nil
}
