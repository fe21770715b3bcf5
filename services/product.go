package services

import (
	"context"
	"fmt"
	"strings"

	"ppsg-cms/internal/repository"
	"ppsg-cms/models"
	"ppsg-cms/utils"
)

type ProductService struct {
	store ContentStore[models.Product]
}

func NewProductService(store ContentStore[models.Product]) *ProductService {
	return &ProductService{store: store}
}

// List returns one admin page. Search matches name or slug.
func (s *ProductService) List(ctx context.Context, search, status string, page int) (models.Page[models.Product], error) {
	status, err := parseFilterStatus(status)
	if err != nil {
		return models.Page[models.Product]{}, err
	}
	return s.list(ctx, repository.Query{Search: strings.TrimSpace(search), Status: status}, page, AdminPageSize)
}

func (s *ProductService) ListPublished(ctx context.Context, page int) (models.Page[models.Product], error) {
	return s.list(ctx, repository.Query{Status: string(models.StatusPublished)}, page, PublicPageSize)
}

func (s *ProductService) list(ctx context.Context, q repository.Query, page, size int) (models.Page[models.Product], error) {
	page = pageNumber(page)
	items, total, err := s.store.List(ctx, q, models.Skip(page, size), int64(size))
	if err != nil {
		return models.Page[models.Product]{}, fmt.Errorf("list products: %w", err)
	}
	return models.NewPage(items, page, size, total), nil
}

func (s *ProductService) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	items, _, err := s.store.List(ctx, repository.Query{Status: string(models.StatusPublished)}, 0, int64(limit))
	return orEmpty(items), err
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	oid, err := ParseID("product", id)
	if err != nil {
		return nil, err
	}
	p, err := s.store.Get(ctx, oid)
	return p, storeErr("product", id, err)
}

func (s *ProductService) GetPublished(ctx context.Context, slug string) (*models.Product, error) {
	p, err := s.store.GetBySlug(ctx, slug, string(models.StatusPublished))
	return p, storeErr("product", slug, err)
}

func (s *ProductService) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	p, err := buildProduct(in)
	if err != nil {
		return nil, err
	}
	if p.Slug, err = newSlug(in.Slug, p.Name); err != nil {
		return nil, err
	}

	p.ID = newID()
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	if err := s.store.Insert(ctx, p); err != nil {
		return nil, storeErr("product", p.Slug, err)
	}
	return p, nil
}

// Update replaces the editable fields, keeping the slug assigned at creation.
func (s *ProductService) Update(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := buildProduct(in)
	if err != nil {
		return nil, err
	}
	p.ID = existing.ID
	p.Slug = existing.Slug
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = now()

	if err := s.store.Replace(ctx, p.ID, p); err != nil {
		return nil, storeErr("product", id, err)
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	oid, err := ParseID("product", id)
	if err != nil {
		return err
	}
	return storeErr("product", id, s.store.Delete(ctx, oid))
}

func (s *ProductService) Count(ctx context.Context, status models.Status) (int64, error) {
	return s.store.Count(ctx, repository.Query{Status: string(status)})
}

func buildProduct(in models.ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, utils.Validationf("name is required")
	}
	for _, v := range []*float64{in.Price.Value, in.StartingAtPrice.Value} {
		if v != nil && *v < 0 {
			return nil, utils.Validationf("prices cannot be negative")
		}
	}
	for _, size := range in.Sizes {
		if size.Price != nil && *size.Price < 0 {
			return nil, utils.Validationf("size %q has a negative price", size.Name)
		}
	}

	status, err := parseStatus(in.Status)
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

	sizes := make([]models.ProductSize, len(in.Sizes))
	copy(sizes, in.Sizes)

	return &models.Product{
		Name:                name,
		Description:         strings.TrimSpace(in.Description),
		Price:               in.Price.Value,
		StartingAtPrice:     in.StartingAtPrice.Value,
		Manufacturer:        strings.TrimSpace(in.Manufacturer),
		Materials:           strings.TrimSpace(in.Materials),
		SaltwaterCompatible: bool(in.SaltwaterCompatible),
		IsTaxable:           bool(in.IsTaxable),
		Sizes:               sizes,
		Status:              status,
		Featured:            bool(in.Featured),
		MainImage:           mainImage,
		Gallery:             gallery,
		SEO:                 seo,
	}, nil
}
