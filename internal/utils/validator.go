package utils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single field-level validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func NewValidator() *validator.Validate {
	return validator.New()
}

// FormatValidationErrors converts validator.ValidationErrors into a slice of
// ValidationError with readable messages.
func FormatValidationErrors(err error) []ValidationError {
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}

	out := make([]ValidationError, len(ve))
	for i, fe := range ve {
		out[i] = ValidationError{Field: fe.Field(), Tag: fe.Tag()}
		switch fe.Tag() {
		case "required":
			out[i].Message = fmt.Sprintf("%s is required", fe.Field())
		case "email":
			out[i].Message = fmt.Sprintf("%s must be a valid email address", fe.Field())
		case "min":
			out[i].Message = fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
		case "oneof":
			out[i].Message = fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
		default:
			out[i].Message = fmt.Sprintf("validation failed on field %q for tag %q", fe.Field(), fe.Tag())
		}
	}
	return out
}
