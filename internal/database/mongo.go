package database

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	pollsCollection       = "polls"
	optionsCollection     = "options"
	userActionsCollection = "user_actions"
)

// Collections exposes the named Mongo collections the backend uses. Built
// once at startup; repositories receive it instead of reaching for a global
// database handle.
type Collections struct {
	Polls       *mongo.Collection
	Options     *mongo.Collection
	UserActions *mongo.Collection
}

// ConnectMongo connects to MongoDB and returns the client and database.
// The database name is taken from the URI path when present.
func ConnectMongo(mongoURI string) (*mongo.Client, *mongo.Database, error) {
	// Use longer timeout for Atlas connections
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, err
	}

	// Extract database name from URI or use default
	dbName := "voxpoll"
	if mongoURI != "" {
		parts := strings.Split(mongoURI, "/")
		if len(parts) > 3 {
			dbPart := strings.Split(parts[len(parts)-1], "?")[0]
			if dbPart != "" {
				dbName = dbPart
			}
		}
	}

	log.Println("✅ Connected to MongoDB")
	return client, client.Database(dbName), nil
}

// NewCollections resolves the required collections and validates the handle.
func NewCollections(db *mongo.Database) (*Collections, error) {
	if db == nil {
		return nil, fmt.Errorf("mongo database handle is nil")
	}
	return &Collections{
		Polls:       db.Collection(pollsCollection),
		Options:     db.Collection(optionsCollection),
		UserActions: db.Collection(userActionsCollection),
	}, nil
}

// EnsureIndexes creates the indexes the list queries and action lookups rely
// on. Safe to call on every startup.
func EnsureIndexes(ctx context.Context, c *Collections) error {
	pollIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "creation_date", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "creation_date", Value: -1}}},
		{Keys: bson.D{{Key: "created_by.user_id", Value: 1}}},
		{Keys: bson.D{{Key: "voters", Value: 1}}},
		{Keys: bson.D{{Key: "title", Value: 1}}},
	}
	if _, err := c.Polls.Indexes().CreateMany(ctx, pollIndexes); err != nil {
		return fmt.Errorf("polls indexes: %w", err)
	}

	optionIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "poll_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := c.Options.Indexes().CreateMany(ctx, optionIndexes); err != nil {
		return fmt.Errorf("options indexes: %w", err)
	}

	actionIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "poll_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "has_shared", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "has_bookmarked", Value: 1}}},
	}
	if _, err := c.UserActions.Indexes().CreateMany(ctx, actionIndexes); err != nil {
		return fmt.Errorf("user_actions indexes: %w", err)
	}

	return nil
}

// DisconnectMongo closes the client with a bounded timeout.
func DisconnectMongo(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}
