package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ppsg-cms/internal/repository"
	"ppsg-cms/models"
	"ppsg-cms/utils"
)

const (
	AdminPageSize  = 10
	PublicPageSize = 12
	FeaturedLimit  = 6
)

// ContentStore is the storage surface shared by the content collections.
type ContentStore[T any] interface {
	List(ctx context.Context, q repository.Query, skip, limit int64) ([]T, int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*T, error)
	GetBySlug(ctx context.Context, slug, status string) (*T, error)
	Insert(ctx context.Context, doc *T) error
	Replace(ctx context.Context, id primitive.ObjectID, doc *T) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context, q repository.Query) (int64, error)
}

// ParseID turns a route parameter into an ObjectID. Malformed ids cannot
// name a stored record, so they are reported as not found.
func ParseID(kind, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, utils.NotFoundf("%s %q", kind, id)
	}
	return oid, nil
}

// storeErr maps repository errors onto the application error kinds.
func storeErr(kind, ref string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return utils.NotFoundf("%s %s", kind, ref)
	case errors.Is(err, repository.ErrDuplicateKey):
		return utils.Validationf("a %s with slug %q already exists", kind, ref)
	default:
		return fmt.Errorf("%s %s: %w", kind, ref, err)
	}
}

func parseStatus(s models.Status) (models.Status, error) {
	if s == "" {
		return models.StatusDraft, nil
	}
	if !s.Valid() {
		return "", utils.Validationf("status must be draft or published")
	}
	return s, nil
}

// parseFilterStatus accepts an empty status as "any".
func parseFilterStatus(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	if !models.Status(s).Valid() {
		return "", utils.Validationf("status must be draft or published")
	}
	return s, nil
}

func optionalID(field, s string) (*primitive.ObjectID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return nil, utils.Validationf("%s is not a valid media id", field)
	}
	return &oid, nil
}

// galleryIDs keeps the submitted order, repeats included.
func galleryIDs(list models.StringList) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(list))
	for _, s := range list {
		oid, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, utils.Validationf("gallery entry %q is not a valid media id", s)
		}
		out = append(out, oid)
	}
	return out, nil
}

func buildSEO(in models.SEOInput) (models.SEO, error) {
	og, err := optionalID("og_image", in.OGImage)
	if err != nil {
		return models.SEO{}, err
	}
	return models.SEO{
		MetaTitle:       strings.TrimSpace(in.MetaTitle),
		MetaDescription: strings.TrimSpace(in.MetaDescription),
		Keywords:        models.UniqueList(in.Keywords),
		OGImage:         og,
	}, nil
}

// newSlug picks the slug for a new record: the submitted one when given,
// otherwise one derived from the title. Both are normalized the same way.
func newSlug(submitted, title string) (string, error) {
	source := submitted
	if strings.TrimSpace(source) == "" {
		source = title
	}
	slug := utils.Slugify(source)
	if slug == "" {
		return "", utils.Validationf("a URL slug cannot be derived from %q", source)
	}
	return slug, nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func pageNumber(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func now() time.Time {
	return time.Now().UTC()
}

func newID() primitive.ObjectID {
	return primitive.NewObjectID()
}
