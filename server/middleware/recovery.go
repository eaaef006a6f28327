package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	logerrors "github.com/kbukum/logkit/errors"
	"github.com/kbukum/logkit/logger"
)

// Recovery returns a Gin middleware that recovers from panics, logs the stack
// and answers with an InternalServerError document.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("Panic recovered", logger.Fields(
					"error", fmt.Sprintf("%v", err),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					logger.FieldRequestID, GetRequestID(c),
				))
				c.AbortWithStatusJSON(http.StatusInternalServerError, logerrors.NewServiceError(
					http.StatusInternalServerError,
					logerrors.ServiceCodeInternal,
					"internal server error",
					GetRequestID(c),
				))
			}
		}()
		c.Next()
	}
}
