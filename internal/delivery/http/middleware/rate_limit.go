package middleware

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"contact-relay-backend/internal/delivery/http/response"
	"contact-relay-backend/internal/domain"
	"contact-relay-backend/pkg/ratelimit"
	"contact-relay-backend/pkg/security"
)

// RateLimitMessage is the body of every 429 from the contact route
const RateLimitMessage = "Too many requests. Please wait a minute before trying again."

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Limiter ratelimit.Limiter
	// Custom key extractor (default: client IP)
	KeyFunc func(*gin.Context) string
	// Send RateLimit-* (draft-6) and Retry-After headers.
	// Legacy X-RateLimit-* headers are never sent.
	StandardHeaders bool
	Message         string
	Logger          *slog.Logger
	SecurityLogger  *security.SecurityLogger
	// Clock for header math; must match the limiter's clock
	Now func() time.Time
}

// RateLimitMiddleware charges one hit per request before the handler runs,
// so requests that later fail validation still consume quota.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string {
			return c.ClientIP()
		}
	}
	if config.Message == "" {
		config.Message = RateLimitMessage
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.SecurityLogger == nil {
		config.SecurityLogger = security.Nop()
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	policy := fmt.Sprintf("%d;w=%d", config.Limiter.Limit(), int(math.Ceil(config.Limiter.Window().Seconds())))

	return func(c *gin.Context) {
		key := config.KeyFunc(c)

		decision, err := config.Limiter.Hit(c.Request.Context(), key)
		if err != nil {
			// Fail open for availability
			config.Logger.Error("Rate limiter unavailable", "error", err, "request_id", domain.RequestIDFrom(c.Request.Context()))
			c.Next()
			return
		}

		resetSeconds := secondsUntil(decision.ResetAt, config.Now())

		if config.StandardHeaders {
			c.Header("RateLimit-Policy", policy)
			c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
			c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			c.Header("RateLimit-Reset", strconv.Itoa(resetSeconds))
		}

		if !decision.Allowed {
			if config.StandardHeaders {
				c.Header("Retry-After", strconv.Itoa(max(resetSeconds, 1)))
			}

			config.SecurityLogger.LogRateLimitTriggered(
				c.Request.Context(),
				key,
				c.GetHeader("User-Agent"),
				domain.RequestIDFrom(c.Request.Context()),
				c.FullPath(),
				decision.Count,
			)

			response.Error(c, http.StatusTooManyRequests, config.Message)
			c.Abort()
			return
		}

		c.Next()
	}
}

// secondsUntil rounds up so clients never retry a moment too early
func secondsUntil(t, now time.Time) int {
	d := t.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
