package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"ppsg-cms/internal/repository"
	"ppsg-cms/models"
	"ppsg-cms/utils"
)

type ProjectService struct {
	store ContentStore[models.Project]
}

func NewProjectService(store ContentStore[models.Project]) *ProjectService {
	return &ProjectService{store: store}
}

// List returns one admin page. Search matches title or slug.
func (s *ProjectService) List(ctx context.Context, search, status string, page int) (models.Page[models.Project], error) {
	status, err := parseFilterStatus(status)
	if err != nil {
		return models.Page[models.Project]{}, err
	}
	return s.list(ctx, repository.Query{Search: strings.TrimSpace(search), Status: status}, page, AdminPageSize)
}

// ListPublished returns one public page of published projects.
func (s *ProjectService) ListPublished(ctx context.Context, page int) (models.Page[models.Project], error) {
	return s.list(ctx, repository.Query{Status: string(models.StatusPublished)}, page, PublicPageSize)
}

func (s *ProjectService) list(ctx context.Context, q repository.Query, page, size int) (models.Page[models.Project], error) {
	page = pageNumber(page)
	items, total, err := s.store.List(ctx, q, models.Skip(page, size), int64(size))
	if err != nil {
		return models.Page[models.Project]{}, fmt.Errorf("list projects: %w", err)
	}
	return models.NewPage(items, page, size, total), nil
}

// Recent returns the newest projects regardless of status.
func (s *ProjectService) Recent(ctx context.Context, limit int) ([]models.Project, error) {
	items, _, err := s.store.List(ctx, repository.Query{}, 0, int64(limit))
	return orEmpty(items), err
}

// Featured returns the newest published projects.
func (s *ProjectService) Featured(ctx context.Context, limit int) ([]models.Project, error) {
	items, _, err := s.store.List(ctx, repository.Query{Status: string(models.StatusPublished)}, 0, int64(limit))
	return orEmpty(items), err
}

func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	oid, err := ParseID("project", id)
	if err != nil {
		return nil, err
	}
	p, err := s.store.Get(ctx, oid)
	return p, storeErr("project", id, err)
}

// GetPublished finds a published project by slug.
func (s *ProjectService) GetPublished(ctx context.Context, slug string) (*models.Project, error) {
	p, err := s.store.GetBySlug(ctx, slug, string(models.StatusPublished))
	return p, storeErr("project", slug, err)
}

func (s *ProjectService) Create(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	p, err := buildProject(in)
	if err != nil {
		return nil, err
	}
	if p.Slug, err = newSlug(in.Slug, p.Title); err != nil {
		return nil, err
	}

	p.ID = newID()
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	if err := s.store.Insert(ctx, p); err != nil {
		return nil, storeErr("project", p.Slug, err)
	}
	return p, nil
}

// Update replaces the editable fields. The slug assigned at creation is kept
// even when the title changes.
func (s *ProjectService) Update(ctx context.Context, id string, in models.ProjectInput) (*models.Project, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := buildProject(in)
	if err != nil {
		return nil, err
	}
	p.ID = existing.ID
	p.Slug = existing.Slug
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = now()

	if err := s.store.Replace(ctx, p.ID, p); err != nil {
		return nil, storeErr("project", id, err)
	}
	return p, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	oid, err := ParseID("project", id)
	if err != nil {
		return err
	}
	return storeErr("project", id, s.store.Delete(ctx, oid))
}

func (s *ProjectService) Count(ctx context.Context, status models.Status) (int64, error) {
	return s.store.Count(ctx, repository.Query{Status: string(status)})
}

func buildProject(in models.ProjectInput) (*models.Project, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" {
		return nil, utils.Validationf("title is required")
	}
	if description == "" {
		return nil, utils.Validationf("description is required")
	}

	status, err := parseStatus(in.Status)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	mainImage, err := optionalID("main_image", in.MainImage)
	if err != nil {
		return nil, err
	}
	gallery, err := galleryIDs(in.Gallery)
	if err != nil {
		return nil, err
	}
	seo, err := buildSEO(in.SEOInput)
	if err != nil {
		return nil, err
	}

	return &models.Project{
		Title:       title,
		Description: description,
		MainImage:   mainImage,
		Gallery:     gallery,
		Status:      status,
		Location:    strings.TrimSpace(in.Location),
		Date:        date,
		Tags:        orEmpty(models.UniqueList(in.Tags)),
		SEO:         seo,
	}, nil
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, utils.Validationf("date %q must be YYYY-MM-DD", s)
}

// ProjectSEO resolves the page metadata of a public project page. The
// share image is the large rendition of the og image, else the main image.
func ProjectSEO(p *models.Project, baseURL, path string) models.PageSEO {
	seo := models.PageSEO{
		Title:       p.Title,
		Description: p.Description,
		Keywords:    strings.Join(p.Keywords, ", "),
		URL:         joinURL(baseURL, path),
	}
	if p.MetaTitle != "" {
		seo.Title = p.MetaTitle
	}
	if p.MetaDescription != "" {
		seo.Description = p.MetaDescription
	}

	share := p.OGImage
	if share == nil {
		share = p.MainImage
	}
	if share != nil {
		seo.OGImage = joinURL(baseURL, models.ImagePath(*share, models.SizeLarge))
	}
	return seo
}

func joinURL(base, path string) string {
	u, err := url.JoinPath(base, path)
	if err != nil {
		return strings.TrimRight(base, "/") + path
	}
	return u
}
