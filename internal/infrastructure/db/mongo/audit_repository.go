package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/visioncare/clinic-system/internal/core/domain"
)

const collectionAuditEvents = "audit_events"

// AuditRepository appends to the write-once audit trail. Events are never
// updated or deleted through this repository.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAuditEvents)}
}

type auditEventDoc struct {
	ID         string    `bson:"_id"`
	Timestamp  time.Time `bson:"timestamp"`
	ActorEmail string    `bson:"actor_email"`
	ActorRole  string    `bson:"actor_role,omitempty"`
	Action     string    `bson:"action"`
	Details    string    `bson:"details,omitempty"`
	Module     string    `bson:"module"`
	Success    bool      `bson:"success"`
	SourceAddr string    `bson:"source_addr,omitempty"`
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	doc := auditEventDoc{
		ID:         event.ID,
		Timestamp:  event.Timestamp,
		ActorEmail: event.ActorEmail,
		ActorRole:  event.ActorRole,
		Action:     string(event.Action),
		Details:    event.Details,
		Module:     event.Module,
		Success:    event.Success,
		SourceAddr: event.SourceAddr,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// EnsureIndexes creates the query indexes for forensic lookups.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "actor_email", Value: 1}, {Key: "timestamp", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
