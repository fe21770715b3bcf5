package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ppsg-cms/internal/repository"
	"ppsg-cms/models"
)

// memStore is an in-memory ContentStore. Documents are inspected through
// their bson encoding, so one implementation serves every content type.
type memStore[T any] struct {
	mu   sync.Mutex
	docs []T
	err  error
}

func newMemStore[T any]() *memStore[T] { return &memStore[T]{} }

func fieldsOf[T any](doc *T) bson.M {
	raw, err := bson.Marshal(doc)
	if err != nil {
		panic(err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		panic(err)
	}
	return m
}

func idOf[T any](doc *T) primitive.ObjectID {
	id, _ := fieldsOf(doc)["_id"].(primitive.ObjectID)
	return id
}

func strField[T any](doc *T, key string) string {
	s, _ := fieldsOf(doc)[key].(string)
	return s
}

func (s *memStore[T]) List(_ context.Context, q repository.Query, skip, limit int64) ([]T, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, 0, s.err
	}

	var matched []T
	for i := len(s.docs) - 1; i >= 0; i-- {
		if q.Status != "" && strField(&s.docs[i], "status") != q.Status {
			continue
		}
		matched = append(matched, s.docs[i])
	}
	total := int64(len(matched))
	if skip >= total {
		return []T{}, total, nil
	}
	matched = matched[skip:]
	if limit > 0 && int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (s *memStore[T]) find(id primitive.ObjectID) int {
	for i := range s.docs {
		if idOf(&s.docs[i]) == id {
			return i
		}
	}
	return -1
}

func (s *memStore[T]) Get(_ context.Context, id primitive.ObjectID) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	i := s.find(id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	doc := s.docs[i]
	return &doc, nil
}

func (s *memStore[T]) GetBySlug(_ context.Context, slug, status string) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.docs {
		if strField(&s.docs[i], "slug") != slug {
			continue
		}
		if status != "" && strField(&s.docs[i], "status") != status {
			continue
		}
		doc := s.docs[i]
		return &doc, nil
	}
	return nil, repository.ErrNotFound
}

func (s *memStore[T]) Insert(_ context.Context, doc *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if slug := strField(doc, "slug"); slug != "" {
		for i := range s.docs {
			if strField(&s.docs[i], "slug") == slug {
				return repository.ErrDuplicateKey
			}
		}
	}
	s.docs = append(s.docs, *doc)
	return nil
}

func (s *memStore[T]) Replace(_ context.Context, id primitive.ObjectID, doc *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	s.docs[i] = *doc
	return nil
}

func (s *memStore[T]) SetFields(_ context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	m := fieldsOf(&s.docs[i])
	for k, v := range fields {
		m[k] = v
	}
	raw, err := bson.Marshal(m)
	if err != nil {
		return err
	}
	var doc T
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return err
	}
	s.docs[i] = doc
	return nil
}

func (s *memStore[T]) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	s.docs = append(s.docs[:i], s.docs[i+1:]...)
	return nil
}

func (s *memStore[T]) Count(ctx context.Context, q repository.Query) (int64, error) {
	_, total, err := s.List(ctx, q, 0, 0)
	return total, err
}

// memMedia is an in-memory MediaStore. raw overrides what Rendition returns
// for a record, to simulate payloads stored with the wrong BSON type.
type memMedia struct {
	mu      sync.Mutex
	records map[primitive.ObjectID]*models.Media
	order   []primitive.ObjectID
	raw     map[primitive.ObjectID]repository.RawRendition
	inserts int
}

func newMemMedia() *memMedia {
	return &memMedia{
		records: map[primitive.ObjectID]*models.Media{},
		raw:     map[primitive.ObjectID]repository.RawRendition{},
	}
}

func withoutData(m *models.Media) *models.Media {
	c := *m
	c.Sizes = map[models.SizeName]models.Rendition{}
	for k, r := range m.Sizes {
		r.Data = nil
		c.Sizes[k] = r
	}
	return &c
}

func (s *memMedia) Insert(_ context.Context, m *models.Media) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
		m.UpdatedAt = m.CreatedAt
	}
	c := *m
	s.records[m.ID] = &c
	s.order = append(s.order, m.ID)
	s.inserts++
	return nil
}

func (s *memMedia) GetByID(_ context.Context, id primitive.ObjectID) (*models.Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return withoutData(m), nil
}

func (s *memMedia) Rendition(_ context.Context, id primitive.ObjectID, size models.SizeName) (repository.RawRendition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.records[id]
	if !ok {
		return repository.RawRendition{}, repository.ErrNotFound
	}
	if raw, ok := s.raw[id]; ok {
		return raw, nil
	}
	r, ok := m.Sizes[size]
	if !ok {
		return repository.RawRendition{}, nil
	}
	return repository.RawRendition{Present: true, Type: bson.TypeBinary, Data: r.Data}, nil
}

func (s *memMedia) List(_ context.Context, _ string, skip, limit int64) ([]models.Media, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Media
	for i := len(s.order) - 1; i >= 0; i-- {
		if m, ok := s.records[s.order[i]]; ok {
			out = append(out, *withoutData(m))
		}
	}
	total := int64(len(out))
	if skip >= total {
		return []models.Media{}, total, nil
	}
	out = out[skip:]
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (s *memMedia) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.records)), nil
}

func (s *memMedia) UpdateText(_ context.Context, id primitive.ObjectID, u models.MediaUpdate) (*models.Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if u.Title != nil {
		m.Title = *u.Title
	}
	if u.AltText != nil {
		m.AltText = *u.AltText
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.Metadata != nil {
		m.Metadata = u.Metadata
	}
	return withoutData(m), nil
}

func (s *memMedia) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// fakeDeriver returns fixed renditions of the given payload sizes.
type fakeDeriver struct {
	sizes map[models.SizeName]int
	err   error
}

func (d fakeDeriver) Derive([]byte) (map[models.SizeName]models.Rendition, error) {
	if d.err != nil {
		return nil, d.err
	}
	out := map[models.SizeName]models.Rendition{}
	for name, n := range d.sizes {
		out[name] = models.Rendition{Data: make([]byte, n), Width: 10, Height: 10}
	}
	return out, nil
}

type mapCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	invalidated []string
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, id string, size models.SizeName) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[id+"/"+string(size)]
	return b, ok, nil
}

func (c *mapCache) Set(_ context.Context, id string, size models.SizeName, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[id+"/"+string(size)] = data
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, id)
	for _, s := range []models.SizeName{models.SizeThumbnail, models.SizeSmall, models.SizeMedium, models.SizeLarge} {
		delete(c.data, id+"/"+string(s))
	}
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []ContactEmail
	err  error
}

func (m *fakeMailer) SendContact(_ context.Context, e ContactEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, e)
	return nil
}
