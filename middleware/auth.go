package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ppsg-cms/internal/auth"
	"ppsg-cms/utils"
)

// AccessTokenCookie carries the admin session token for browser clients.
const AccessTokenCookie = "access_token"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// RequireAdmin rejects requests without a valid admin session. The token
// is read from the Authorization header, then from the session cookie.
func RequireAdmin(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := TokenFromRequest(c)
		if tokenString == "" {
			utils.RespondWithUnauthorized(c, "Authentication token is required")
			c.Abort()
			return
		}

		claims, err := authn.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			utils.RespondWithError(c, http.StatusUnauthorized, "session_expired", "Your session has expired. Please log in again.", nil)
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("claims", claims)
		c.Next()
	}
}

// TokenFromRequest returns the bearer token or the session cookie value.
func TokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

// GetClaims returns the session claims set by RequireAdmin.
func GetClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get("claims"); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// Helper function to get user ID from context
func GetUserID(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}
