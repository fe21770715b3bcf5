package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ppsg-cms/internal/config"
	"ppsg-cms/internal/logger"
	"ppsg-cms/middleware"
	"ppsg-cms/models"
	"ppsg-cms/services"
	"ppsg-cms/utils"
)

func SetupAdminRoutes(router *gin.Engine, cfg *config.Config, svc *Services) {
	admin := router.Group("/admin")
	admin.POST("/login", HandleLogin(svc.Auth, cfg.GinMode == gin.ReleaseMode))

	protected := admin.Group("")
	protected.Use(middleware.RequireAdmin(svc.Auth), middleware.AuditMiddleware())

	protected.POST("/logout", HandleLogout(svc.Auth))
	protected.GET("/me", func(c *gin.Context) {
		claims := middleware.GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID, "username": claims.Username})
	})
	protected.GET("/dashboard", HandleDashboard(svc.Dashboard))

	// The whole batch is buffered in memory before derivation.
	uploadLimit := int64(cfg.MaxUploadFiles)*cfg.MaxFileSize + 1<<20
	media := protected.Group("/media")
	media.GET("", HandleListMedia(svc.Media))
	media.POST("/upload", middleware.RequestSizeLimit(uploadLimit), HandleUploadMedia(svc.Media, cfg))
	media.GET("/image/:id/:size", HandleServeImage(svc.Media))
	media.GET("/:id", HandleGetMedia(svc.Media))
	media.PUT("/:id", HandleUpdateMedia(svc.Media))
	media.DELETE("/:id", HandleDeleteMedia(svc.Media))

	registerContent[models.Project, models.ProjectInput](protected.Group("/projects"), svc.Projects)
	registerContent[models.Product, models.ProductInput](protected.Group("/products"), svc.Products)
	registerContent[models.Service, models.ServiceInput](protected.Group("/services"), svc.Services)

	contacts := protected.Group("/contacts")
	contacts.GET("", HandleListContacts(svc.Contacts))
	contacts.GET("/export", HandleExportContacts(svc.Export))
	contacts.GET("/:id", HandleGetContact(svc.Contacts))
	contacts.PUT("/:id/status", HandleUpdateContactStatus(svc.Contacts))
	contacts.DELETE("/:id", HandleDeleteContact(svc.Contacts))

	protected.GET("/settings", HandleGetSettings(svc.Settings))
	protected.PUT("/settings", HandleUpdateSettings(svc.Settings))
	protected.POST("/settings", HandleUpdateSettings(svc.Settings))

	api := protected.Group("/api")
	api.GET("/media", HandleMediaPicker(svc.Media))
	api.GET("/theme.css", HandleThemeCSS(svc.Settings))
}

// HandleLogin issues a session token and sets it as an HttpOnly cookie for
// the admin UI. secure marks the cookie HTTPS-only.
func HandleLogin(authSvc *services.AuthService, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		resp, err := authSvc.Login(c.Request.Context(), req)
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.AccessTokenCookie, resp.Token, int(time.Until(resp.ExpiresAt).Seconds()), "/", "", secure, true)
		logger.Info("Admin logged in", slog.String("username", resp.Username))
		c.JSON(http.StatusOK, resp)
	}
}

func HandleLogout(authSvc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authSvc.Logout(c.Request.Context(), middleware.GetClaims(c)); err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}

func HandleDashboard(dashboard *services.DashboardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := dashboard.Stats(c.Request.Context())
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func HandleListContacts(contacts *services.ContactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := contacts.List(c.Request.Context(), c.Query("status"), pageParam(c))
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func HandleGetContact(contacts *services.ContactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		contact, err := contacts.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, contact)
	}
}

func HandleUpdateContactStatus(contacts *services.ContactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status models.ContactStatus `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}
		if err := contacts.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Status updated", "status": req.Status})
	}
}

func HandleDeleteContact(contacts *services.ContactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := contacts.Delete(c.Request.Context(), c.Param("id")); err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Contact deleted successfully"})
	}
}

// HandleExportContacts streams the contacts matching ?status as a workbook.
func HandleExportContacts(export *services.ExportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		buf, err := export.ContactsXLSX(c.Request.Context(), c.Query("status"))
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+services.ExportFilename(time.Now())+`"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	}
}

func HandleGetSettings(settings *services.SettingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := settings.Get(c.Request.Context())
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

func HandleUpdateSettings(settings *services.SettingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var u models.SettingsUpdate
		if err := c.ShouldBindJSON(&u); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}
		s, err := settings.Update(c.Request.Context(), u)
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Settings updated successfully", "settings": s})
	}
}
