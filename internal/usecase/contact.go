package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"contact-relay-backend/internal/domain"
	"contact-relay-backend/pkg/email"
	"contact-relay-backend/pkg/security"
	"contact-relay-backend/pkg/validation"
)

type contactUsecase struct {
	mailer   domain.Mailer
	validate *validator.Validate
	identity email.Identity
	log      *slog.Logger
	secLog   *security.SecurityLogger
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(mailer domain.Mailer, validate *validator.Validate, identity email.Identity, log *slog.Logger, secLog *security.SecurityLogger) domain.ContactUsecase {
	return &contactUsecase{
		mailer:   mailer,
		validate: validate,
		identity: identity,
		log:      log,
		secLog:   secLog,
	}
}

// SendContactMessage validates the contact request and sends the email.
// Transport errors come back as domain.ErrSendFailed; the cause is logged here.
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) error {
	requestID := domain.RequestIDFrom(ctx)
	ip := domain.ClientIPFrom(ctx)

	if err := uc.validateRequest(ctx, req); err != nil {
		reason := "invalid_input"
		switch {
		case errors.Is(err, domain.ErrMissingFields):
			reason = "missing_fields"
		case errors.Is(err, domain.ErrInvalidEmail):
			reason = "invalid_email"
		}
		submitted := ""
		if req != nil {
			submitted = req.Email
		}
		uc.secLog.LogValidationFailed(ctx, submitted, ip, requestID, reason)
		return err
	}

	msg, err := email.BuildContactMessage(req, uc.identity)
	if err != nil {
		uc.log.Error("Failed to build contact email", "error", err, "request_id", requestID)
		return fmt.Errorf("%w: %w", domain.ErrSendFailed, err)
	}

	// Exactly one attempt; the caller resubmits on failure
	if err := uc.mailer.Send(ctx, msg); err != nil {
		uc.log.Error("Email send error", "error", err, "request_id", requestID)
		uc.secLog.LogMailSendFailed(ctx, msg.ReplyTo, ip, requestID, err)
		return fmt.Errorf("%w: %w", domain.ErrSendFailed, err)
	}

	uc.secLog.LogMailSent(ctx, msg.ReplyTo, ip, requestID)
	return nil
}

func (uc *contactUsecase) validateRequest(ctx context.Context, req *domain.ContactRequest) error {
	if req == nil {
		return domain.ErrMissingFields
	}
	return validation.ContactError(uc.validate.StructCtx(ctx, req))
}
