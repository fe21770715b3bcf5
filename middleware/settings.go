package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"ppsg-cms/internal/logger"
	"ppsg-cms/models"
)

const settingsKey = "settings"

type SettingsLoader interface {
	Get(ctx context.Context) (*models.Settings, error)
}

// LoadSettings puts the site settings on the context for handlers that
// render site chrome. A failed load uses the defaults.
func LoadSettings(loader SettingsLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := loader.Get(c.Request.Context())
		if err != nil {
			logger.Warn("Settings unavailable, using defaults",
				slog.String("request_id", GetRequestID(c)),
				slog.String("error", err.Error()))
			d := models.DefaultSettings()
			settings = &d
		}
		c.Set(settingsKey, settings)
		c.Next()
	}
}

// GetSettings returns the settings loaded by LoadSettings, or the defaults.
func GetSettings(c *gin.Context) *models.Settings {
	if v, ok := c.Get(settingsKey); ok {
		if s, ok := v.(*models.Settings); ok {
			return s
		}
	}
	d := models.DefaultSettings()
	return &d
}
