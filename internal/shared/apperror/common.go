package apperror

import (
	"fmt"
	"net/http"
)

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusBadRequest,
	)
)

// RequiredField builds a VALIDATION_FAILURE error for a missing field.
func RequiredField(field string) *AppError {
	return New(
		CodeValidationFailure,
		fmt.Sprintf("%s is required", field),
		http.StatusBadRequest,
	)
}

// InvalidField builds a VALIDATION_FAILURE error for a malformed field.
func InvalidField(field string) *AppError {
	return New(
		CodeValidationFailure,
		fmt.Sprintf("%s is invalid", field),
		http.StatusBadRequest,
	)
}
