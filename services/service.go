package services

import (
	"context"
	"fmt"
	"strings"

	"ppsg-cms/internal/repository"
	"ppsg-cms/models"
	"ppsg-cms/utils"
)

type ServiceService struct {
	store ContentStore[models.Service]
}

func NewServiceService(store ContentStore[models.Service]) *ServiceService {
	return &ServiceService{store: store}
}

func (s *ServiceService) List(ctx context.Context, search, status string, page int) (models.Page[models.Service], error) {
	status, err := parseFilterStatus(status)
	if err != nil {
		return models.Page[models.Service]{}, err
	}
	page = pageNumber(page)
	q := repository.Query{Search: strings.TrimSpace(search), Status: status}
	items, total, err := s.store.List(ctx, q, models.Skip(page, AdminPageSize), AdminPageSize)
	if err != nil {
		return models.Page[models.Service]{}, fmt.Errorf("list services: %w", err)
	}
	return models.NewPage(items, page, AdminPageSize, total), nil
}

// Published returns every published service, newest first.
func (s *ServiceService) Published(ctx context.Context) ([]models.Service, error) {
	items, _, err := s.store.List(ctx, repository.Query{Status: string(models.StatusPublished)}, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return orEmpty(items), nil
}

func (s *ServiceService) Featured(ctx context.Context, limit int) ([]models.Service, error) {
	items, _, err := s.store.List(ctx, repository.Query{Status: string(models.StatusPublished)}, 0, int64(limit))
	return orEmpty(items), err
}

func (s *ServiceService) Get(ctx context.Context, id string) (*models.Service, error) {
	oid, err := ParseID("service", id)
	if err != nil {
		return nil, err
	}
	svc, err := s.store.Get(ctx, oid)
	return svc, storeErr("service", id, err)
}

func (s *ServiceService) GetPublished(ctx context.Context, slug string) (*models.Service, error) {
	svc, err := s.store.GetBySlug(ctx, slug, string(models.StatusPublished))
	return svc, storeErr("service", slug, err)
}

func (s *ServiceService) Create(ctx context.Context, in models.ServiceInput) (*models.Service, error) {
	svc, err := buildService(in)
	if err != nil {
		return nil, err
	}
	if svc.Slug, err = newSlug(in.Slug, svc.Name); err != nil {
		return nil, err
	}

	svc.ID = newID()
	svc.CreatedAt = now()
	svc.UpdatedAt = svc.CreatedAt
	if err := s.store.Insert(ctx, svc); err != nil {
		return nil, storeErr("service", svc.Slug, err)
	}
	return svc, nil
}

// Update replaces the editable fields, keeping the slug assigned at creation.
// A blank base price clears the stored one.
func (s *ServiceService) Update(ctx context.Context, id string, in models.ServiceInput) (*models.Service, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	svc, err := buildService(in)
	if err != nil {
		return nil, err
	}
	svc.ID = existing.ID
	svc.Slug = existing.Slug
	svc.CreatedAt = existing.CreatedAt
	svc.UpdatedAt = now()

	if err := s.store.Replace(ctx, svc.ID, svc); err != nil {
		return nil, storeErr("service", id, err)
	}
	return svc, nil
}

func (s *ServiceService) Delete(ctx context.Context, id string) error {
	oid, err := ParseID("service", id)
	if err != nil {
		return err
	}
	return storeErr("service", id, s.store.Delete(ctx, oid))
}

func (s *ServiceService) Count(ctx context.Context, status models.Status) (int64, error) {
	return s.store.Count(ctx, repository.Query{Status: string(status)})
}

func buildService(in models.ServiceInput) (*models.Service, error) {
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	icon := strings.TrimSpace(in.Icon)
	switch {
	case name == "":
		return nil, utils.Validationf("name is required")
	case description == "":
		return nil, utils.Validationf("description is required")
	case icon == "":
		return nil, utils.Validationf("icon is required")
	}
	if in.BasePrice.Value != nil && *in.BasePrice.Value < 0 {
		return nil, utils.Validationf("base price cannot be negative")
	}

	status, err := parseStatus(in.Status)
	if err != nil {
		return nil, err
	}
	mainImage, err := optionalID("main_image", in.MainImage)
	if err != nil {
		return nil, err
	}

	return &models.Service{
		Name:        name,
		Description: description,
		BasePrice:   in.BasePrice.Value,
		Icon:        icon,
		MainImage:   mainImage,
		Status:      status,
	}, nil
}
