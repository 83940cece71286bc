package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const housesCollection = "houses"

func Connect(ctx context.Context, mongoURL string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the house indexes. The unique partial index on
// currentTenant.renterId is what rejects a second concurrent seating of one renter.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(housesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "currentTenant.renterId", Value: 1}},
			Options: options.Index().
				SetName("uniq_active_renter").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"currentTenant.renterId": bson.M{"$type": "string"}}),
		},
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("owner_created"),
		},
	})
	if err != nil {
		return fmt.Errorf("ensure house indexes: %w", err)
	}
	return nil
}
