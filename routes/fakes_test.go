package routes

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ppsg-cms/internal/repository"
	"ppsg-cms/models"
)

// memStore keeps documents in insertion order and reads their fields back
// through bson, so it serves every content type.
type memStore[T any] struct {
	mu   sync.Mutex
	docs []T
}

func fields[T any](doc *T) bson.M {
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

func str(m bson.M, key string) string {
	s, _ := m[key].(string)
	return s
}

func (s *memStore[T]) index(id primitive.ObjectID) int {
	for i := range s.docs {
		if fields(&s.docs[i])["_id"] == id {
			return i
		}
	}
	return -1
}

func (s *memStore[T]) List(_ context.Context, q repository.Query, skip, limit int64) ([]T, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []T{}
	for i := len(s.docs) - 1; i >= 0; i-- {
		if q.Status == "" || str(fields(&s.docs[i]), "status") == q.Status {
			out = append(out, s.docs[i])
		}
	}
	total := int64(len(out))
	if skip >= total {
		return []T{}, total, nil
	}
	out = out[skip:]
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (s *memStore[T]) Get(_ context.Context, id primitive.ObjectID) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		doc := s.docs[i]
		return &doc, nil
	}
	return nil, repository.ErrNotFound
}

func (s *memStore[T]) GetBySlug(_ context.Context, slug, status string) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.docs {
		f := fields(&s.docs[i])
		if str(f, "slug") == slug && (status == "" || str(f, "status") == status) {
			doc := s.docs[i]
			return &doc, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memStore[T]) Insert(_ context.Context, doc *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slug := str(fields(doc), "slug"); slug != "" {
		for i := range s.docs {
			if str(fields(&s.docs[i]), "slug") == slug {
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
	i := s.index(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	s.docs[i] = *doc
	return nil
}

func (s *memStore[T]) SetFields(_ context.Context, id primitive.ObjectID, set map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	m := fields(&s.docs[i])
	for k, v := range set {
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
	i := s.index(id)
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

type memMedia struct {
	mu      sync.Mutex
	records map[primitive.ObjectID]models.Media
	order   []primitive.ObjectID
}

func newMemMedia() *memMedia {
	return &memMedia{records: map[primitive.ObjectID]models.Media{}}
}

func stripped(m models.Media) *models.Media {
	sizes := map[models.SizeName]models.Rendition{}
	for k, r := range m.Sizes {
		r.Data = nil
		sizes[k] = r
	}
	m.Sizes = sizes
	return &m
}

func (s *memMedia) Insert(_ context.Context, m *models.Media) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	s.records[m.ID] = *m
	s.order = append(s.order, m.ID)
	return nil
}

func (s *memMedia) GetByID(_ context.Context, id primitive.ObjectID) (*models.Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return stripped(m), nil
}

func (s *memMedia) Rendition(_ context.Context, id primitive.ObjectID, size models.SizeName) (repository.RawRendition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.records[id]
	if !ok {
		return repository.RawRendition{}, repository.ErrNotFound
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
	out := []models.Media{}
	for i := len(s.order) - 1; i >= 0; i-- {
		if m, ok := s.records[s.order[i]]; ok {
			out = append(out, *stripped(m))
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
	s.records[id] = m
	return stripped(m), nil
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

type memSettings struct {
	mu  sync.Mutex
	doc *models.Settings
}

func (m *memSettings) GetOrCreate(context.Context) (*models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		d := models.DefaultSettings()
		m.doc = &d
	}
	c := *m.doc
	return &c, nil
}

func (m *memSettings) Save(_ context.Context, s *models.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *s
	m.doc = &c
	return nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[username]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) UpsertPassword(_ context.Context, username, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.users == nil {
		m.users = map[string]*models.User{}
	}
	u, ok := m.users[username]
	if !ok {
		u = &models.User{ID: primitive.NewObjectID(), Username: username}
		m.users[username] = u
	}
	u.PasswordHash = hash
	return nil
}
