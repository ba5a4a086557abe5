// Package mongo implements the repositories on top of a MongoDB database.
// Collection and field names are shared with existing deployments, so keep
// them stable.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"projectshelf/internal/domain"
)

const (
	usersCollection      = "users"
	portfoliosCollection = "portfolios"
	metricsCollection    = "metrics"
)

// Connect establishes a connection to MongoDB and verifies it with a ping.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, client.Database(dbName), nil
}

func ensureUniqueIndex(ctx context.Context, col *mongo.Collection, field string) error {
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create unique index %s.%s: %w", col.Name(), field, err)
	}
	return nil
}

// objectID parses a hex id; anything unparsable cannot match a stored document.
func objectID(id, notFoundMessage string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.E(domain.KindNotFound, notFoundMessage)
	}
	return oid, nil
}

func hexOrEmpty(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}
