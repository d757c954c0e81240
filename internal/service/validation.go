package service

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	apperrors "tourneyhub/internal/errors"
)

// invalidInput converts ozzo field errors into a validation AppError. Other
// errors pass through unchanged.
func invalidInput(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		var internal validation.InternalError
		if errors.As(err, &internal) {
			return internal.InternalError()
		}
		return apperrors.Validation(err.Error(), nil)
	}

	fields := make(map[string]string, len(fieldErrs))
	for field, fieldErr := range fieldErrs {
		if fieldErr != nil {
			fields[field] = fieldErr.Error()
		}
	}
	return apperrors.Validation("invalid input", fields)
}
