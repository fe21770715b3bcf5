package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ppsg-cms/internal/logger"
)

// AuditMiddleware writes one structured log line per admin write. Reads
// are not audited.
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		start := time.Now()

		c.Next()

		attrs := []any{
			slog.String("action", mapHTTPMethodToAction(c.Request.Method)),
			slog.String("resource", resourceFromPath(c.FullPath())),
			slog.String("resource_id", c.Param("id")),
			slog.String("user_id", GetUserID(c)),
			slog.String("request_id", GetRequestID(c)),
			slog.String("ip", c.ClientIP()),
			slog.Int("status", c.Writer.Status()),
			slog.Bool("success", c.Writer.Status() < 400),
			slog.Duration("duration", time.Since(start)),
		}
		if claims := GetClaims(c); claims != nil {
			attrs = append(attrs, slog.String("username", claims.Username))
		}
		logger.Info("Admin audit", attrs...)
	}
}

// mapHTTPMethodToAction maps HTTP methods to audit actions
func mapHTTPMethodToAction(method string) string {
	switch method {
	case http.MethodPost:
		return "CREATE"
	case http.MethodPut, http.MethodPatch:
		return "UPDATE"
	case http.MethodDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// resourceFromPath names the resource of a route template such as
// /admin/contacts/:id/status.
func resourceFromPath(fullPath string) string {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(fullPath, "/admin"), "/"), "/")
	if parts[0] == "" {
		return "unknown"
	}
	if parts[0] == "api" && len(parts) > 1 {
		return parts[1]
	}
	return parts[0]
}
