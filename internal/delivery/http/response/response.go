package response

import (
	"github.com/gin-gonic/gin"
)

// MessageResponse is the body of every successful call
type MessageResponse struct {
	OK      bool   `json:"ok" example:"true"`
	Message string `json:"message" example:"Message sent successfully."`
}

// ErrorResponse is the body of every failed call
type ErrorResponse struct {
	Error string `json:"error" example:"All fields are required."`
}

// Success sends a success response
func Success(c *gin.Context, code int, message string) {
	c.JSON(code, MessageResponse{
		OK:      true,
		Message: message,
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{
		Error: message,
	})
}
