package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowMethods = "GET, POST, OPTIONS"
	corsAllowHeaders = "Content-Type"
)

// CORSMiddleware allows exactly one frontend origin.
// Requests without an Origin header (curl, health probes) pass untouched.
// Disallowed origins get no CORS headers and the browser blocks the response.
func CORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		isAllowed := origin != "" && origin == allowedOrigin

		if isAllowed {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", corsAllowMethods)
			c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
		}

		// Vary header to ensure caches differentiate by Origin
		c.Header("Vary", "Origin")

		// Preflight never reaches the routes, so it does not consume rate limit quota
		if c.Request.Method == http.MethodOptions {
			if isAllowed || origin == "" {
				c.AbortWithStatus(http.StatusNoContent)
			} else {
				c.AbortWithStatus(http.StatusForbidden)
			}
			return
		}

		c.Next()
	}
}
