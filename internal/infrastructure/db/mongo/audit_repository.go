package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

// auditRepository implements ports.AuditRepository using MongoDB.
type auditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &auditRepository{coll: db.Collection(collAuthEvents)}
}

// Insert appends event to the auth_events collection. Optional fields are
// left out of the document rather than stored empty.
func (r *auditRepository) Insert(ctx context.Context, event *domain.AuthEvent) error {
	doc := bson.M{
		"kind":        string(event.Kind),
		"occurred_at": event.OccurredAt.UTC(),
	}
	if event.AccountID > 0 {
		doc["account_id"] = event.AccountID
	}
	if event.Email != "" {
		doc["email"] = event.Email
	}
	if event.RemoteIP != "" {
		doc["remote_ip"] = event.RemoteIP
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
