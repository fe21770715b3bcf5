package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"ppsg-cms/internal/auth"
	"ppsg-cms/internal/cache"
	"ppsg-cms/internal/config"
	"ppsg-cms/internal/logger"
	"ppsg-cms/internal/rendition"
	"ppsg-cms/internal/repository"
	"ppsg-cms/internal/telemetry"
	"ppsg-cms/middleware"
	"ppsg-cms/models"
	"ppsg-cms/routes"
	"ppsg-cms/services"
	"ppsg-cms/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	shutdownTracer, err := telemetry.InitTracer(cfg)
	if err != nil {
		logger.Warn("Tracing disabled", slog.String("error", err.Error()))
		shutdownTracer = func(context.Context) {}
	}
	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Warn("Metrics disabled", slog.String("error", err.Error()))
	}

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := utils.WithTimeout(context.Background())
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()
	db := mongoClient.Database(cfg.DBName)

	// Redis is optional: without it renditions are not cached, sessions
	// cannot be revoked and the contact form is rate limited per process.
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, continuing without it", slog.String("error", err.Error()))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	projectRepo := repository.NewCollection[models.Project](db.Collection(config.ProjectCollection), "title", "slug")
	productRepo := repository.NewCollection[models.Product](db.Collection(config.ProductCollection), "name", "slug")
	serviceRepo := repository.NewCollection[models.Service](db.Collection(config.ServiceCollection), "name", "slug")
	contactRepo := repository.NewCollection[models.Contact](db.Collection(config.ContactCollection), "name", "email")
	mediaRepo := repository.NewMediaRepo(db.Collection(config.MediaCollection))
	settingsRepo := repository.NewSettingsRepo(db.Collection(config.SettingsCollection))
	userRepo := repository.NewUserRepo(db.Collection(config.UserCollection))

	tokens, err := auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiresIn, rdb)
	if err != nil {
		log.Fatal("Failed to initialize tokens:", err)
	}

	var mailer services.Mailer
	if cfg.EmailEnabled() {
		mailer = services.NewBreakerMailer(services.NewSMTPMailer(*cfg))
	} else {
		logger.Info("SMTP not configured, contact notifications disabled")
	}

	media := services.NewMediaService(cfg, mediaRepo, rendition.NewPipeline().WithMaxPixels(cfg.MaxImagePixels),
		cache.NewRenditionCache(rdb, cfg.RenditionCacheTTL), metrics)
	projects := services.NewProjectService(projectRepo)
	products := services.NewProductService(productRepo)
	svcs := services.NewServiceService(serviceRepo)
	contacts := services.NewContactService(contactRepo, mailer, metrics)

	bundle := &routes.Services{
		Auth:      services.NewAuthService(userRepo, tokens, cfg.BcryptCost),
		Media:     media,
		Projects:  projects,
		Products:  products,
		Services:  svcs,
		Contacts:  contacts,
		Export:    services.NewExportService(contacts),
		Settings:  services.NewSettingsService(settingsRepo),
		Dashboard: services.NewDashboardService(projects, products, svcs, contacts, media),
		Home:      services.NewHomeService(projects, svcs, products),
	}

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddlewareWithOrigins(cfg.CORSOrigins))
	if cfg.OTELEnabled {
		router.Use(middleware.TracingMiddleware(cfg.ServiceName))
		router.Use(middleware.EnrichTrace())
	}
	router.Use(middleware.MetricsMiddleware(metrics))

	routes.SetupRoutes(router, cfg, bundle, rdb)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}
	shutdownTracer(ctx)

	logger.Info("Server exited")
}
