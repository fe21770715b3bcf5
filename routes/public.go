package routes

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"ppsg-cms/internal/config"
	"ppsg-cms/middleware"
	"ppsg-cms/models"
	"ppsg-cms/services"
	"ppsg-cms/utils"
)

// maxContactBody bounds the public contact form body.
const maxContactBody = 64 * 1024

func SetupPublicRoutes(router *gin.Engine, cfg *config.Config, svc *Services, rdb *redis.Client) {
	router.GET(services.ThemeStylesheetPath, HandleThemeCSS(svc.Settings))
	router.GET("/media/image/:id/:size", HandleServeImage(svc.Media))

	api := router.Group("/api")
	api.Use(middleware.LoadSettings(svc.Settings))

	api.GET("/site", func(c *gin.Context) {
		c.JSON(http.StatusOK, services.SiteView(middleware.GetSettings(c)))
	})
	api.GET("/home", HandleHome(svc.Home))

	api.GET("/projects", HandlePublicProjects(svc.Projects))
	api.GET("/projects/:slug", HandlePublicProject(svc.Projects, cfg.SiteURL))
	api.GET("/products", HandlePublicProducts(svc.Products))
	api.GET("/products/:slug", HandlePublicProduct(svc.Products))
	api.GET("/services", HandlePublicServices(svc.Services))
	api.GET("/services/:slug", HandlePublicService(svc.Services))

	api.POST("/contact",
		middleware.RateLimitMiddleware(rdb, cfg),
		middleware.RequestSizeLimit(maxContactBody),
		HandleSubmitContact(svc.Contacts))
}

// HandleThemeCSS renders the stylesheet for the active theme.
func HandleThemeCSS(settings *services.SettingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		css, err := settings.ThemeCSS(c.Request.Context())
		if err != nil {
			c.Data(http.StatusInternalServerError, "text/css; charset=utf-8", []byte("/* Error loading theme */"))
			return
		}
		c.Header("Cache-Control", "no-cache")
		c.Data(http.StatusOK, "text/css; charset=utf-8", []byte(css))
	}
}

func HandleHome(home *services.HomeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"site":     services.SiteView(middleware.GetSettings(c)),
			"featured": home.Home(c.Request.Context()),
		})
	}
}

func HandlePublicProjects(projects *services.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := projects.ListPublished(c.Request.Context(), pageParam(c))
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// HandlePublicProject returns a published project with its page SEO.
// siteURL prefixes absolute URLs; the request host is used when it is empty.
func HandlePublicProject(projects *services.ProjectService, siteURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := projects.GetPublished(c.Request.Context(), c.Param("slug"))
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		base := siteURL
		if base == "" {
			base = requestOrigin(c)
		}
		c.JSON(http.StatusOK, gin.H{
			"project": p,
			"seo":     services.ProjectSEO(p, base, "/projects/"+p.Slug),
		})
	}
}

func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

func HandlePublicProducts(products *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := products.ListPublished(c.Request.Context(), pageParam(c))
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func HandlePublicProduct(products *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.GetPublished(c.Request.Context(), c.Param("slug"))
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func HandlePublicServices(svcs *services.ServiceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svcs.Published(c.Request.Context())
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"services": items})
	}
}

func HandlePublicService(svcs *services.ServiceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := svcs.GetPublished(c.Request.Context(), c.Param("slug"))
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

// HandleSubmitContact accepts the contact form as JSON or url-encoded.
func HandleSubmitContact(contacts *services.ContactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sub models.ContactSubmission
		if strings.HasPrefix(c.ContentType(), "application/json") {
			if err := c.ShouldBindJSON(&sub); err != nil {
				utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
				return
			}
		} else {
			if err := c.Request.ParseForm(); err != nil {
				utils.RespondWithBadRequest(c, "Invalid form data", gin.H{"error": err.Error()})
				return
			}
			sub = contactFromForm(c)
		}

		receipt, err := contacts.Submit(c.Request.Context(), sub)
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusCreated, receipt)
	}
}

func contactFromForm(c *gin.Context) models.ContactSubmission {
	sub := models.ContactSubmission{
		Name:        c.PostForm("name"),
		Email:       c.PostForm("email"),
		Phone:       c.PostForm("phone"),
		Reason:      c.PostForm("reason"),
		Message:     c.PostForm("message"),
		ProductID:   c.PostForm("product_id"),
		ProductName: c.PostForm("product_name"),
	}
	if sizes := c.PostForm("selected_sizes"); sizes != "" {
		// The form posts the selection as a JSON string; bad input selects nothing.
		_ = sub.SelectedSizes.UnmarshalJSON([]byte(strconv.Quote(sizes)))
	}
	return sub
}
