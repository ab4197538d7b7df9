package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"contact-relay-backend/internal/delivery/http/response"
	"contact-relay-backend/internal/domain"
	"contact-relay-backend/pkg/apperror"
)

const (
	msgMissingFields  = "All fields are required."
	msgInvalidEmail   = "Invalid email address."
	msgInvalidBody    = "Invalid request body."
	msgSendFailed     = "Failed to send message."
	msgSentSuccessful = "Message sent successfully."
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the contact route (public, no auth required).
// guards run before the handler, in order.
func NewContactHandler(group *gin.RouterGroup, contactUC domain.ContactUsecase, guards ...gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	handlers := append(append([]gin.HandlerFunc{}, guards...), handler.SubmitContact)
	group.POST("/contact", handlers...)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Validates the submission and relays it to the site owner by email. Limited to 5 requests per IP per minute.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.MessageResponse
// @Failure      400      {object}  response.ErrorResponse
// @Failure      429      {object}  response.ErrorResponse
// @Failure      500      {object}  response.ErrorResponse
// @Router       /api/contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		// An empty body falls through and fails validation instead
		c.Error(apperror.BadRequest(msgInvalidBody))
		return
	}

	if err := h.contactUC.SendContactMessage(c.Request.Context(), &req); err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingFields):
			c.Error(apperror.BadRequest(msgMissingFields))
		case errors.Is(err, domain.ErrInvalidEmail):
			c.Error(apperror.BadRequest(msgInvalidEmail))
		default:
			c.Error(apperror.Internal(msgSendFailed, err))
		}
		return
	}

	response.Success(c, http.StatusOK, msgSentSuccessful)
}
