package domain

import (
	"context"
	"errors"
)

var (
	ErrMissingFields = errors.New("all fields are required")
	ErrInvalidEmail  = errors.New("invalid email address")
	// ErrSendFailed hides the transport cause from callers; the cause is logged.
	ErrSendFailed = errors.New("failed to send message")
)

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `json:"name" validate:"not_blank"`
	Email   string `json:"email" validate:"not_blank,contact_email"`
	Message string `json:"message" validate:"not_blank"`
}

// MailMessage is the outgoing email derived from a ContactRequest.
type MailMessage struct {
	FromName    string // display name, taken from the submitter
	FromAddress string // always the authenticated SMTP user
	ReplyTo     string
	To          string
	Subject     string
	Text        string
	HTML        string
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SendContactMessage validates and sends a contact form message
	SendContactMessage(ctx context.Context, req *ContactRequest) error
}

// Mailer delivers a prepared message through the SMTP relay.
type Mailer interface {
	Send(ctx context.Context, msg *MailMessage) error
}
