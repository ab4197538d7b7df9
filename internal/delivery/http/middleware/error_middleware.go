package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"contact-relay-backend/internal/delivery/http/response"
	"contact-relay-backend/internal/domain"
	"contact-relay-backend/pkg/apperror"
)

const internalErrorMessage = "An unexpected error occurred. Please try again later."

// ErrorHandler renders the last error attached with c.Error as {"error": ...}.
func ErrorHandler(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		requestID := domain.RequestIDFrom(c.Request.Context())

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Err != nil && appErr.Code >= http.StatusInternalServerError {
				log.Error("Request failed", "error", appErr.Err, "status", appErr.Code, "request_id", requestID)
			}
			response.Error(c, appErr.Code, appErr.Message)
			return
		}

		// Never expose internal error details to clients
		log.Error("Internal Server Error", "error", err, "request_id", requestID)
		response.Error(c, http.StatusInternalServerError, internalErrorMessage)
	}
}

// Recovery turns panics into a JSON 500 instead of gin's empty body.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("Panic recovered", "panic", recovered, "path", c.Request.URL.Path, "request_id", domain.RequestIDFrom(c.Request.Context()))
		response.Error(c, http.StatusInternalServerError, internalErrorMessage)
		c.Abort()
	})
}

// NotFound answers unknown routes with JSON
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Not found.")
	}
}
