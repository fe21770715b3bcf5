package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ppsg-cms/models"
)

type SettingsRepo struct {
	col *mongo.Collection
}

func NewSettingsRepo(col *mongo.Collection) *SettingsRepo {
	return &SettingsRepo{col: col}
}

// GetOrCreate returns the settings document, inserting the defaults in the
// same round trip when none exists. Concurrent first calls race on the
// unique key index; the loser retries and reads the winner's document.
func (r *SettingsRepo) GetOrCreate(ctx context.Context) (*models.Settings, error) {
	defaults, err := insertDefaults()
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	filter := bson.M{"key": models.SettingsKey}
	update := bson.M{"$setOnInsert": defaults}

	var s models.Settings
	for attempt := 0; ; attempt++ {
		err = r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&s)
		if err == nil {
			return &s, nil
		}
		if attempt == 0 && mongo.IsDuplicateKeyError(err) {
			continue
		}
		return nil, fmt.Errorf("load settings: %w", err)
	}
}

func insertDefaults() (bson.M, error) {
	d := models.DefaultSettings()
	now := time.Now().UTC()
	d.CreatedAt, d.UpdatedAt = now, now

	raw, err := bson.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode default settings: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("encode default settings: %w", err)
	}
	delete(m, "_id")
	delete(m, "key")
	return m, nil
}

// Save replaces the settings document wholesale.
func (r *SettingsRepo) Save(ctx context.Context, s *models.Settings) error {
	s.Key = models.SettingsKey
	s.UpdatedAt = time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = s.UpdatedAt
	}

	_, err := r.col.ReplaceOne(ctx, bson.M{"key": models.SettingsKey}, s, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
