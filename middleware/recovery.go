package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"ppsg-cms/internal/logger"
	"ppsg-cms/utils"
)

// Recovery turns a panic in any handler into a logged 500 with a generic
// body. The process keeps serving.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.Error("Panic while handling request",
				slog.String("request_id", GetRequestID(c)),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("panic", fmt.Sprint(rec)),
				slog.String("stack", string(debug.Stack())))

			if !c.Writer.Written() {
				utils.RespondWithInternalError(c, "An unexpected error occurred", nil)
			}
			c.Abort()
		}()
		c.Next()
	}
}
