package middleware

import (
	"context"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"contact-relay-backend/internal/domain"
)

// RequestIDHeader is the HTTP header for request ID.
const RequestIDHeader = "X-Request-ID"

// Inbound IDs are echoed into logs, so only short token-like values are trusted
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestID injects a request ID and the resolved client IP into the request context.
// A well-formed inbound X-Request-ID is reused, otherwise a UUID is generated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if !requestIDPattern.MatchString(requestID) {
			requestID = uuid.New().String()
		}

		c.Set(string(domain.KeyRequestID), requestID)

		ctx := context.WithValue(c.Request.Context(), domain.KeyRequestID, requestID)
		ctx = context.WithValue(ctx, domain.KeyClientIP, c.ClientIP())
		c.Request = c.Request.WithContext(ctx)

		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}
