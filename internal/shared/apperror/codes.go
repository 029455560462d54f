package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput      = "INVALID_INPUT"
	CodeValidationFailure = "VALIDATION_FAILURE"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInvalidState      = "INVALID_STATE"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeResolutionFailure  = "RESOLUTION_FAILURE"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
