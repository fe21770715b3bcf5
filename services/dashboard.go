package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"ppsg-cms/models"
)

const DashboardRecentLimit = 5

type DashboardService struct {
	projects *ProjectService
	products *ProductService
	services *ServiceService
	contacts *ContactService
	media    *MediaService
}

func NewDashboardService(projects *ProjectService, products *ProductService, services *ServiceService, contacts *ContactService, media *MediaService) *DashboardService {
	return &DashboardService{projects: projects, products: products, services: services, contacts: contacts, media: media}
}

// Stats gathers the collection counts and the most recent entries. The
// queries are independent and run concurrently; any failure fails the call.
func (d *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	count := func(dst *int64, fn func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(ctx)
			*dst = n
			return err
		})
	}
	count(&stats.Projects, func(ctx context.Context) (int64, error) { return d.projects.Count(ctx, "") })
	count(&stats.PublishedProjects, func(ctx context.Context) (int64, error) { return d.projects.Count(ctx, models.StatusPublished) })
	count(&stats.Products, func(ctx context.Context) (int64, error) { return d.products.Count(ctx, "") })
	count(&stats.PublishedProducts, func(ctx context.Context) (int64, error) { return d.products.Count(ctx, models.StatusPublished) })
	count(&stats.Services, func(ctx context.Context) (int64, error) { return d.services.Count(ctx, "") })
	count(&stats.PublishedServices, func(ctx context.Context) (int64, error) { return d.services.Count(ctx, models.StatusPublished) })
	count(&stats.Contacts, func(ctx context.Context) (int64, error) { return d.contacts.Count(ctx, "") })
	count(&stats.NewContacts, func(ctx context.Context) (int64, error) { return d.contacts.Count(ctx, models.ContactNew) })
	count(&stats.Media, d.media.Count)

	g.Go(func() error {
		var err error
		stats.RecentProjects, err = d.projects.Recent(ctx, DashboardRecentLimit)
		return err
	})
	g.Go(func() error {
		var err error
		stats.RecentContacts, err = d.contacts.Recent(ctx, DashboardRecentLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &stats, nil
}
