package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/myflix/movie-api/internal/core/domain"
)

const authEventsCollection = "auth_events"

// AuthEventRepository persists login attempts to the auth_events audit collection.
type AuthEventRepository struct {
	coll *mongo.Collection
}

func NewAuthEventRepository(db *mongo.Database) *AuthEventRepository {
	return &AuthEventRepository{coll: db.Collection(authEventsCollection)}
}

// Record inserts a single audit entry.
func (r *AuthEventRepository) Record(ctx context.Context, event *domain.AuthEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"username":    event.Username,
		"outcome":     string(event.Outcome),
		"timestamp":   event.Timestamp.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if event.Reason != "" {
		doc["reason"] = event.Reason
	}
	if event.RemoteIP != "" {
		doc["remote_ip"] = event.RemoteIP
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return storeErr("insert auth event", err)
	}
	return nil
}
