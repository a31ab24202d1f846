package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sp23/transit-system/internal/core/domain"
	"github.com/sp23/transit-system/internal/core/ports"
)

const auditCollection = "audit_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

// EnsureIndexes creates the lookup indexes used when reviewing the trail.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "action", Value: 1}}, Options: options.Index().SetName("action_1")},
	})
	if err != nil {
		return fmt.Errorf("audit indexes: %w", err)
	}
	return nil
}

// InsertEvent persists an audit event to the audit_events collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AuditEvent) error {
	at := event.At
	if at.IsZero() {
		at = time.Now()
	}
	doc := bson.M{
		"action":    string(event.Action),
		"actor_id":  event.ActorID,
		"target_id": event.TargetID,
		"at":        at.UTC(),
	}
	if event.Detail != "" {
		doc["detail"] = event.Detail
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
