package employeeerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"an employee with this email already exists",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidPayRate = apperror.New(
		apperror.CodeValidationFailure,
		"pay_rate must be a non-negative decimal string",
		http.StatusBadRequest,
	)
	ErrInvalidAddress = apperror.New(
		apperror.CodeValidationFailure,
		"address must be a string or a structured address object",
		http.StatusBadRequest,
	)
)
