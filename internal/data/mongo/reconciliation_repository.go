package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/reconciliation"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/shared"
)

const (
	// ReconciliationCollectionName holds reports awaiting or past manual reconciliation
	ReconciliationCollectionName = "reconciliation_reports"
)

// reportDocument stores identifiers and money as strings so reports stay readable in the shell
type reportDocument struct {
	ID             string     `bson:"_id"`
	ClientID       string     `bson:"client_id"`
	Source         string     `bson:"source"`
	Amount         string     `bson:"amount"`
	BalanceBefore  string     `bson:"balance_before"`
	BalanceAfter   string     `bson:"balance_after"`
	Description    string     `bson:"description,omitempty"`
	CreatedBy      string     `bson:"created_by,omitempty"`
	TransactionID  string     `bson:"transaction_id,omitempty"`
	Reason         string     `bson:"reason"`
	Status         string     `bson:"status"`
	ResolvedBy     string     `bson:"resolved_by,omitempty"`
	ResolutionNote string     `bson:"resolution_note,omitempty"`
	CreatedAt      time.Time  `bson:"created_at"`
	ResolvedAt     *time.Time `bson:"resolved_at,omitempty"`
}

func toReportDocument(r *reconciliation.Report) reportDocument {
	doc := reportDocument{
		ID:             r.ID.String(),
		ClientID:       r.ClientID.String(),
		Source:         string(r.Source),
		Amount:         r.Amount.String(),
		BalanceBefore:  r.BalanceBefore.String(),
		BalanceAfter:   r.BalanceAfter.String(),
		Description:    r.Description,
		Reason:         r.Reason,
		Status:         string(r.Status),
		ResolutionNote: r.ResolutionNote,
		CreatedAt:      r.CreatedAt,
		ResolvedAt:     r.ResolvedAt,
	}
	if r.CreatedBy != uuid.Nil {
		doc.CreatedBy = r.CreatedBy.String()
	}
	if r.TransactionID != nil {
		doc.TransactionID = r.TransactionID.String()
	}
	if r.ResolvedBy != nil {
		doc.ResolvedBy = r.ResolvedBy.String()
	}
	return doc
}

func (d reportDocument) toReport() (*reconciliation.Report, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid report id %q: %w", d.ID, err)
	}
	clientID, err := uuid.Parse(d.ClientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client id %q: %w", d.ClientID, err)
	}

	report := &reconciliation.Report{
		ID:             id,
		ClientID:       clientID,
		Source:         reconciliation.Source(d.Source),
		Description:    d.Description,
		Reason:         d.Reason,
		Status:         reconciliation.Status(d.Status),
		ResolutionNote: d.ResolutionNote,
		CreatedAt:      d.CreatedAt,
		ResolvedAt:     d.ResolvedAt,
	}

	if report.Amount, err = decimal.NewFromString(d.Amount); err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", d.Amount, err)
	}
	if report.BalanceBefore, err = decimal.NewFromString(d.BalanceBefore); err != nil {
		return nil, fmt.Errorf("invalid balance_before %q: %w", d.BalanceBefore, err)
	}
	if report.BalanceAfter, err = decimal.NewFromString(d.BalanceAfter); err != nil {
		return nil, fmt.Errorf("invalid balance_after %q: %w", d.BalanceAfter, err)
	}
	if d.CreatedBy != "" {
		if report.CreatedBy, err = uuid.Parse(d.CreatedBy); err != nil {
			return nil, fmt.Errorf("invalid created_by %q: %w", d.CreatedBy, err)
		}
	}
	if d.TransactionID != "" {
		txID, err := uuid.Parse(d.TransactionID)
		if err != nil {
			return nil, fmt.Errorf("invalid transaction_id %q: %w", d.TransactionID, err)
		}
		report.TransactionID = &txID
	}
	if d.ResolvedBy != "" {
		by, err := uuid.Parse(d.ResolvedBy)
		if err != nil {
			return nil, fmt.Errorf("invalid resolved_by %q: %w", d.ResolvedBy, err)
		}
		report.ResolvedBy = &by
	}

	return report, nil
}

// ReconciliationRepository implements reconciliation.Repository for MongoDB
type ReconciliationRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

func NewReconciliationRepository(logger *slog.Logger, db *mongo.Database) *ReconciliationRepository {
	return &ReconciliationRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureIndexes creates the lookup index used by FindOpen and ListByStatus
func (r *ReconciliationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(ReconciliationCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "client_id", Value: 1}, {Key: "source", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create reconciliation indexes: %w", err)
	}
	return nil
}

func (r *ReconciliationRepository) Create(ctx context.Context, report *reconciliation.Report) error {
	collection := r.db.Collection(ReconciliationCollectionName)

	if _, err := collection.InsertOne(ctx, toReportDocument(report)); err != nil {
		r.logger.Error("Failed to create reconciliation report",
			"report_id", report.ID.String(),
			"client_id", report.ClientID.String(),
			"error", err)
		return shared.PersistenceError{Op: "failed to create reconciliation report", Err: err}
	}

	return nil
}

func (r *ReconciliationRepository) GetByID(ctx context.Context, id uuid.UUID) (*reconciliation.Report, error) {
	collection := r.db.Collection(ReconciliationCollectionName)

	var doc reportDocument
	err := collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reconciliation.ErrReportNotFound{ID: id}
		}
		r.logger.Error("Failed to get reconciliation report", "report_id", id.String(), "error", err)
		return nil, shared.PersistenceError{Op: "failed to get reconciliation report", Err: err}
	}

	return doc.toReport()
}

// ListByStatus returns reports newest first
func (r *ReconciliationRepository) ListByStatus(ctx context.Context, status reconciliation.Status, limit, offset int) ([]*reconciliation.Report, error) {
	collection := r.db.Collection(ReconciliationCollectionName)

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, bson.M{"status": string(status)}, opts)
	if err != nil {
		r.logger.Error("Failed to list reconciliation reports", "status", string(status), "error", err)
		return nil, shared.PersistenceError{Op: "failed to list reconciliation reports", Err: err}
	}
	defer cursor.Close(ctx)

	var docs []reportDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode reconciliation reports", "status", string(status), "error", err)
		return nil, shared.PersistenceError{Op: "failed to decode reconciliation reports", Err: err}
	}

	reports := make([]*reconciliation.Report, 0, len(docs))
	for _, doc := range docs {
		report, err := doc.toReport()
		if err != nil {
			r.logger.Warn("Skipping unreadable reconciliation report", "report_id", doc.ID, "error", err)
			continue
		}
		reports = append(reports, report)
	}

	return reports, nil
}

func (r *ReconciliationRepository) FindOpen(ctx context.Context, clientID uuid.UUID, source reconciliation.Source) (*reconciliation.Report, error) {
	collection := r.db.Collection(ReconciliationCollectionName)

	filter := bson.M{
		"client_id": clientID.String(),
		"source":    string(source),
		"status":    string(reconciliation.StatusOpen),
	}

	var doc reportDocument
	err := collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.Error("Failed to find open reconciliation report", "client_id", clientID.String(), "error", err)
		return nil, shared.PersistenceError{Op: "failed to find open reconciliation report", Err: err}
	}

	return doc.toReport()
}

// Resolve stores the resolution fields, only while the report is still open
func (r *ReconciliationRepository) Resolve(ctx context.Context, report *reconciliation.Report) error {
	collection := r.db.Collection(ReconciliationCollectionName)

	doc := toReportDocument(report)
	filter := bson.M{"_id": doc.ID, "status": string(reconciliation.StatusOpen)}
	update := bson.M{
		"$set": bson.M{
			"status":          doc.Status,
			"resolved_by":     doc.ResolvedBy,
			"resolution_note": doc.ResolutionNote,
			"resolved_at":     doc.ResolvedAt,
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to resolve reconciliation report", "report_id", doc.ID, "error", err)
		return shared.PersistenceError{Op: "failed to resolve reconciliation report", Err: err}
	}

	if result.MatchedCount == 0 {
		return reconciliation.ErrAlreadyResolved
	}

	return nil
}

var _ reconciliation.Repository = (*ReconciliationRepository)(nil)
