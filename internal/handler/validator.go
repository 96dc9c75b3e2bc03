package handler

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

// Global validator instance
var validate *Validator

var hex64Pattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()

	// hex64 validates 64 lowercase hex characters (client commit hashes)
	_ = v.RegisterValidation("hex64", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || hex64Pattern.MatchString(value)
	})

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError formats validation errors into a user-friendly map
// This prevents leaking internal struct names and provides cleaner error messages
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "hex64":
			errs[field] = "Must be 64 lowercase hex characters"
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s characters", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s characters", e.Param())
		case "datetime":
			errs[field] = "Must be a date in YYYY-MM-DD format"
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}
