package dto

import "net/http"

// Error codes surfaced by the API. Domain errors carry these codes directly;
// the transport layer only maps them to HTTP status.
const (
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeDuplicateIdentifier   = "DUPLICATE_IDENTIFIER"
	ErrCodeIdentifierCollision   = "IDENTIFIER_COLLISION"
	ErrCodeInvalidInput          = "INVALID_INPUT"
	ErrCodeInvalidState          = "INVALID_STATE"
	ErrCodeDependencyUnavailable = "DEPENDENCY_UNAVAILABLE"
	ErrCodeUnauthorized          = "UNAUTHORIZED"
	ErrCodeForbidden             = "FORBIDDEN"
	ErrCodeValidation            = "VALIDATION_ERROR"
	ErrCodeInternal              = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps API error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:              http.StatusNotFound,
	ErrCodeDuplicateIdentifier:   http.StatusConflict,
	ErrCodeIdentifierCollision:   http.StatusConflict,
	ErrCodeInvalidInput:          http.StatusBadRequest,
	ErrCodeInvalidState:          http.StatusUnprocessableEntity,
	ErrCodeDependencyUnavailable: http.StatusServiceUnavailable,
	ErrCodeUnauthorized:          http.StatusUnauthorized,
	ErrCodeForbidden:             http.StatusForbidden,
	ErrCodeValidation:            http.StatusBadRequest,
	ErrCodeInternal:              http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to 500
// for codes the transport layer does not recognize
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
