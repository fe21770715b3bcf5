package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the CRUD surface shared by projects, products, services
// and contacts. Listings are newest first.
type Collection[T any] struct {
	coll         *mongo.Collection
	searchFields []string
}

func NewCollection[T any](coll *mongo.Collection, searchFields ...string) *Collection[T] {
	return &Collection[T]{coll: coll, searchFields: searchFields}
}

func (c *Collection[T]) List(ctx context.Context, q Query, skip, limit int64) ([]T, int64, error) {
	filter := q.filter(c.searchFields)

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	items := []T{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}

	total, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", c.coll.Name(), err)
	}
	return items, total, nil
}

func (c *Collection[T]) Get(ctx context.Context, id primitive.ObjectID) (*T, error) {
	var doc T
	if err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

// GetBySlug finds the document with slug; a non-empty status must match too.
func (c *Collection[T]) GetBySlug(ctx context.Context, slug, status string) (*T, error) {
	filter := bson.M{"slug": slug}
	if status != "" {
		filter["status"] = status
	}
	var doc T
	if err := c.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

// Insert stores doc, which must carry its own _id. A unique index
// violation is reported as ErrDuplicateKey.
func (c *Collection[T]) Insert(ctx context.Context, doc *T) error {
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	return nil
}

// Replace overwrites the stored document with doc.
func (c *Collection[T]) Replace(ctx context.Context, id primitive.ObjectID, doc *T) error {
	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetFields applies a $set of fields to one document.
func (c *Collection[T]) SetFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	res, err := c.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *Collection[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of documents matching q.
func (c *Collection[T]) Count(ctx context.Context, q Query) (int64, error) {
	n, err := c.coll.CountDocuments(ctx, q.filter(c.searchFields))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", c.coll.Name(), err)
	}
	return n, nil
}
