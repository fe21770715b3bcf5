package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson" // Use bson for index keys
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names shared by repositories and index creation.
const (
	MediaCollection    = "media"
	ProjectCollection  = "projects"
	ProductCollection  = "products"
	ServiceCollection  = "services"
	ContactCollection  = "contacts"
	SettingsCollection = "settings"
	UserCollection     = "users"
)

func ConnectMongoDB(cfg *Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Test connection
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	// Create indexes
	err = createIndexes(ctx, client.Database(cfg.DBName))
	if err != nil {
		return nil, fmt.Errorf("failed to create indexes: %v", err)
	}

	return client, nil
}

func createIndexes(ctx context.Context, db *mongo.Database) error {
	newestFirst := mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: -1}}}

	// Slugs are unique per content collection
	for _, name := range []string{ProjectCollection, ProductCollection, ServiceCollection} {
		indexes := []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			},
			newestFirst,
		}
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("%s indexes: %w", name, err)
		}
	}

	if _, err := db.Collection(MediaCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{newestFirst}); err != nil {
		return fmt.Errorf("%s indexes: %w", MediaCollection, err)
	}

	contactIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		newestFirst,
	}
	if _, err := db.Collection(ContactCollection).Indexes().CreateMany(ctx, contactIndexes); err != nil {
		return fmt.Errorf("%s indexes: %w", ContactCollection, err)
	}

	// Singleton settings document
	settingsIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection(SettingsCollection).Indexes().CreateOne(ctx, settingsIndex); err != nil {
		return fmt.Errorf("%s indexes: %w", SettingsCollection, err)
	}

	userIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection(UserCollection).Indexes().CreateOne(ctx, userIndex); err != nil {
		return fmt.Errorf("%s indexes: %w", UserCollection, err)
	}

	return nil
}
