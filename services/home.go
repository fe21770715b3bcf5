package services

import (
	"context"
	"log/slog"

	"ppsg-cms/internal/logger"
	"ppsg-cms/models"
)

type HomeService struct {
	projects *ProjectService
	services *ServiceService
	products *ProductService
}

func NewHomeService(projects *ProjectService, services *ServiceService, products *ProductService) *HomeService {
	return &HomeService{projects: projects, services: services, products: products}
}

// Home returns the newest published entries of each type. A failing list
// is logged and rendered empty so the home page still loads.
func (h *HomeService) Home(ctx context.Context) models.HomeView {
	view := models.HomeView{Projects: []models.Project{}, Services: []models.Service{}, Products: []models.Product{}}

	if items, err := h.projects.Featured(ctx, FeaturedLimit); err != nil {
		logger.Warn("Home projects unavailable", slog.String("error", err.Error()))
	} else {
		view.Projects = items
	}
	if items, err := h.services.Featured(ctx, FeaturedLimit); err != nil {
		logger.Warn("Home services unavailable", slog.String("error", err.Error()))
	} else {
		view.Services = items
	}
	if items, err := h.products.Featured(ctx, FeaturedLimit); err != nil {
		logger.Warn("Home products unavailable", slog.String("error", err.Error()))
	} else {
		view.Products = items
	}
	return view
}
