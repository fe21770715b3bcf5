// Package repository holds the MongoDB access for every collection the
// CMS stores. Each repository wraps one *mongo.Collection.
package repository

import (
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// Query narrows a listing. Empty fields impose no constraint.
type Query struct {
	Search string
	Status string
}

// filter builds the mongo filter for q. Search is a case-insensitive
// substring match over fields; the input is quoted so it never acts as
// a pattern.
func (q Query) filter(fields []string) bson.M {
	f := bson.M{}
	if q.Search != "" && len(fields) > 0 {
		pattern := regexp.QuoteMeta(q.Search)
		or := make(bson.A, 0, len(fields))
		for _, field := range fields {
			or = append(or, bson.M{field: bson.M{"$regex": pattern, "$options": "i"}})
		}
		f["$or"] = or
	}
	if q.Status != "" {
		f["status"] = q.Status
	}
	return f
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	default:
		return err
	}
}
