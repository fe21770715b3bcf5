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

type UserRepo struct {
	col *mongo.Collection
}

func NewUserRepo(col *mongo.Collection) *UserRepo {
	return &UserRepo{col: col}
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// UpsertPassword creates the user or resets its password hash.
func (r *UserRepo) UpsertPassword(ctx context.Context, username, hash string) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set":         bson.M{"password_hash": hash, "updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"username": username}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", username, err)
	}
	return nil
}
