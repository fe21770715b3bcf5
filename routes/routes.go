package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"ppsg-cms/internal/config"
	"ppsg-cms/services"
)

// Services bundles everything the handlers call into.
type Services struct {
	Auth      *services.AuthService
	Media     *services.MediaService
	Projects  *services.ProjectService
	Products  *services.ProductService
	Services  *services.ServiceService
	Contacts  *services.ContactService
	Export    *services.ExportService
	Settings  *services.SettingsService
	Dashboard *services.DashboardService
	Home      *services.HomeService
}

// SetupRoutes registers the public site API and the admin API. rdb may be
// nil, in which case the contact form is rate limited in process.
func SetupRoutes(router *gin.Engine, cfg *config.Config, svc *Services, rdb *redis.Client) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	SetupPublicRoutes(router, cfg, svc, rdb)
	SetupAdminRoutes(router, cfg, svc)
}

// pageParam reads ?page, defaulting to the first page.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
