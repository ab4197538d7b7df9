package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"contact-relay-backend/internal/domain"
)

// ContactError maps a validation failure on a ContactRequest to its domain error.
// Missing fields win over a malformed email, whatever order the validator reports them in.
func ContactError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validation: %w", err)
	}

	var result error
	for _, e := range validationErrors {
		switch e.Tag() {
		case "not_blank", "required":
			return domain.ErrMissingFields
		case "contact_email", "email":
			result = domain.ErrInvalidEmail
		}
	}
	if result == nil {
		// Unknown tag: treat as bad input rather than an internal error
		return domain.ErrMissingFields
	}
	return result
}

// FailedFields lists the struct fields that failed, for logging
func FailedFields(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	fields := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, fmt.Sprintf("%s:%s", e.Field(), e.Tag()))
	}
	return fields
}
