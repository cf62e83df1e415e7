package services

import (
	"errors"

	"yatube/app/models"
)

// ErrForbidden is returned when the actor may not change the target.
var ErrForbidden = errors.New("forbidden")

// ValidationError carries the per-field messages of a rejected submission.
type ValidationError struct {
	Fields models.FieldErrors
}

func (e *ValidationError) Error() string {
	return "invalid submission: " + e.Fields.Error()
}

func invalid(fields models.FieldErrors) error {
	return &ValidationError{Fields: fields}
}

// FieldErrorsOf extracts the field messages from err, or returns nil when err
// is not a validation failure.
func FieldErrorsOf(err error) models.FieldErrors {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}
