package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID carries the service-assigned request id.
const HeaderRequestID = "x-log-requestid"

// ContextKeyRequestID stores the request id in the gin context.
const ContextKeyRequestID = "request_id"

// RequestID assigns every request a fresh service request id and returns it
// in the x-log-requestid response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := NewRequestID()
		c.Set(ContextKeyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// NewRequestID returns a 24-digit upper-case hex id.
func NewRequestID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:24]
}

// GetRequestID returns the id assigned by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}
