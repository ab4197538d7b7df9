package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// local@domain.tld: no whitespace, a single @, and a dot with something on both sides after it
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("not_blank", NotBlank)
	_ = v.RegisterValidation("contact_email", ContactEmail)
}

// New returns a validator with the custom tags registered
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// NotBlank rejects empty and whitespace-only strings
func NotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ContactEmail matches the raw value, so surrounding whitespace is invalid.
// Blank values pass here; pair with not_blank.
func ContactEmail(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if strings.TrimSpace(val) == "" {
		return true
	}
	return IsEmail(val)
}

func IsEmail(s string) bool {
	return emailRegex.MatchString(s)
}
