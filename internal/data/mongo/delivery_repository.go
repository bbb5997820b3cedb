package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/notification"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/shared"
)

const (
	// DeliveryCollectionName is the email delivery log
	DeliveryCollectionName = "notification_deliveries"
)

type deliveryDocument struct {
	EventID     string    `bson:"event_id"`
	Kind        string    `bson:"kind"`
	Recipient   string    `bson:"recipient"`
	Status      string    `bson:"status"`
	Error       string    `bson:"error,omitempty"`
	AttemptedAt time.Time `bson:"attempted_at"`
}

// DeliveryRepository implements notification.DeliveryRepository for MongoDB
type DeliveryRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

func NewDeliveryRepository(logger *slog.Logger, db *mongo.Database) *DeliveryRepository {
	return &DeliveryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *DeliveryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(DeliveryCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "event_id", Value: 1}, {Key: "status", Value: 1}},
		Options: options.Index().SetName("event_status"),
	})
	if err != nil {
		return fmt.Errorf("failed to create delivery indexes: %w", err)
	}
	return nil
}

// Record appends one attempt to the log
func (r *DeliveryRepository) Record(ctx context.Context, delivery *notification.Delivery) error {
	collection := r.db.Collection(DeliveryCollectionName)

	doc := deliveryDocument{
		EventID:     delivery.EventID.String(),
		Kind:        string(delivery.Kind),
		Recipient:   delivery.Recipient,
		Status:      string(delivery.Status),
		Error:       delivery.Error,
		AttemptedAt: delivery.AttemptedAt,
	}

	if _, err := collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to record notification delivery",
			"event_id", doc.EventID,
			"status", doc.Status,
			"error", err)
		return shared.PersistenceError{Op: "failed to record notification delivery", Err: err}
	}

	return nil
}

// WasSent reports whether the event already has a successful delivery
func (r *DeliveryRepository) WasSent(ctx context.Context, eventID uuid.UUID) (bool, error) {
	collection := r.db.Collection(DeliveryCollectionName)

	filter := bson.M{"event_id": eventID.String(), "status": string(notification.DeliveryStatusSent)}
	err := collection.FindOne(ctx, filter).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		r.logger.Error("Failed to look up notification delivery", "event_id", eventID.String(), "error", err)
		return false, shared.PersistenceError{Op: "failed to look up notification delivery", Err: err}
	}

	return true, nil
}

var _ notification.DeliveryRepository = (*DeliveryRepository)(nil)
