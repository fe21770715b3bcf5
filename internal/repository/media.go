package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"

	"ppsg-cms/models"
)

var storedSizes = []models.SizeName{models.SizeThumbnail, models.SizeSmall, models.SizeMedium, models.SizeLarge}

// withoutPayloads projects away the binary data of every rendition.
func withoutPayloads() bson.M {
	p := bson.M{}
	for _, s := range storedSizes {
		p["sizes."+string(s)+".data"] = 0
	}
	return p
}

// RawRendition is a stored rendition payload exactly as the database
// returned it, before any decoding.
type RawRendition struct {
	Present bool
	Type    bsontype.Type
	Data    []byte
}

// Binary reports whether the payload is non-empty BSON binary.
func (r RawRendition) Binary() bool {
	return r.Present && r.Type == bson.TypeBinary && len(r.Data) > 0
}

type MediaRepo struct {
	col *mongo.Collection
}

func NewMediaRepo(col *mongo.Collection) *MediaRepo {
	return &MediaRepo{col: col}
}

func (r *MediaRepo) Insert(ctx context.Context, m *models.Media) error {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = m.CreatedAt
	}
	if _, err := r.col.InsertOne(ctx, m); err != nil {
		return translate(err)
	}
	return nil
}

// GetByID returns the record without rendition payloads.
func (r *MediaRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Media, error) {
	var m models.Media
	opts := options.FindOne().SetProjection(withoutPayloads())
	if err := r.col.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&m); err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// Rendition reads one size's payload without decoding it into a struct,
// so a value stored as something other than binary is visible to the caller.
// ErrNotFound means the record itself is absent.
func (r *MediaRepo) Rendition(ctx context.Context, id primitive.ObjectID, size models.SizeName) (RawRendition, error) {
	field := "sizes." + string(size)
	opts := options.FindOne().SetProjection(bson.M{field: 1})
	raw, err := r.col.FindOne(ctx, bson.M{"_id": id}, opts).Raw()
	if err != nil {
		return RawRendition{}, translate(err)
	}

	val, err := raw.LookupErr("sizes", string(size), "data")
	if err != nil {
		if errors.Is(err, bsoncore.ErrElementNotFound) {
			return RawRendition{}, nil
		}
		return RawRendition{}, fmt.Errorf("lookup %s: %w", field, err)
	}

	out := RawRendition{Present: true, Type: val.Type}
	if _, data, ok := val.BinaryOK(); ok {
		out.Data = data
	}
	return out, nil
}

func (r *MediaRepo) List(ctx context.Context, search string, skip, limit int64) ([]models.Media, int64, error) {
	filter := Query{Search: search}.filter([]string{"original_filename", "title"})

	opts := options.Find().
		SetProjection(withoutPayloads()).
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find media: %w", err)
	}
	defer cursor.Close(ctx)

	items := []models.Media{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode media: %w", err)
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count media: %w", err)
	}
	return items, total, nil
}

func (r *MediaRepo) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

// UpdateText sets the editable text fields and returns the updated record
// without payloads. Renditions are never written here.
func (r *MediaRepo) UpdateText(ctx context.Context, id primitive.ObjectID, u models.MediaUpdate) (*models.Media, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.AltText != nil {
		set["alt_text"] = *u.AltText
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Metadata != nil {
		set["metadata"] = u.Metadata
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutPayloads())

	var m models.Media
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&m); err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *MediaRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
