// internal/api/error_codes.go
package api

// API error codes returned in the response envelope.
const (
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeNotFound   = "RESOURCE_NOT_FOUND"
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeConflict   = "CONFLICT"

	ErrCodeSessionNotFound = "SESSION_NOT_FOUND"
	ErrCodeEventNotFound   = "EVENT_NOT_FOUND"
	ErrCodeSaveNotFound    = "SAVE_NOT_FOUND"
	ErrCodeInvalidEvent    = "INVALID_EVENT_DEFINITION"
	ErrCodeInvalidState    = "INVALID_GAME_STATE"
)
