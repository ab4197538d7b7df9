package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"contact-relay-backend/pkg/apperror"
	"contact-relay-backend/pkg/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type brokenLimiter struct{}

func (brokenLimiter) Hit(context.Context, string) (ratelimit.Decision, error) {
	return ratelimit.Decision{}, errors.New("store down")
}
func (brokenLimiter) Limit() int            { return 5 }
func (brokenLimiter) Window() time.Duration { return time.Minute }

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRateLimitFailsOpen(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimitMiddleware(RateLimitConfig{Limiter: brokenLimiter{}, StandardHeaders: true, Logger: discard}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(r, http.MethodGet, "/x")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("RateLimit-Limit"))
}

func TestRateLimitHeadersDisabled(t *testing.T) {
	r := gin.New()
	limiter := ratelimit.NewMemoryLimiter(1, time.Minute)
	r.GET("/x", RateLimitMiddleware(RateLimitConfig{Limiter: limiter, Logger: discard}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/x").Code)

	w := serve(r, http.MethodGet, "/x")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"`+RateLimitMessage+`"}`, w.Body.String())
	assert.Empty(t, w.Header().Get("RateLimit-Remaining"))
	assert.Empty(t, w.Header().Get("Retry-After"))
	assert.Empty(t, w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitCustomKey(t *testing.T) {
	r := gin.New()
	limiter := ratelimit.NewMemoryLimiter(1, time.Minute)
	r.GET("/x", RateLimitMiddleware(RateLimitConfig{
		Limiter: limiter,
		Logger:  discard,
		KeyFunc: func(c *gin.Context) string { return c.Query("k") },
	}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/x?k=a").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/x?k=b").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/x?k=a").Code)
}

func TestSecondsUntil(t *testing.T) {
	now := time.Unix(1000, 0)
	assert.Equal(t, 0, secondsUntil(now.Add(-time.Second), now))
	assert.Equal(t, 1, secondsUntil(now.Add(10*time.Millisecond), now))
	assert.Equal(t, 60, secondsUntil(now.Add(time.Minute), now))
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler(discard))
	r.GET("/app", func(c *gin.Context) {
		c.Error(apperror.BadRequest("nope"))
	})
	r.GET("/internal", func(c *gin.Context) {
		c.Error(errors.New("db password is hunter2"))
	})

	w := serve(r, http.MethodGet, "/app")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"nope"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/internal")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "hunter2")
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(discard))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"`+internalErrorMessage+`"}`, w.Body.String())
}

func TestRequestIDRejectsUnsafeInbound(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "bad id\nwith newline")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware(true))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodPost, "/x")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestCORSWithoutOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware("https://allwebsvs.netlify.app"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/x")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))
}
