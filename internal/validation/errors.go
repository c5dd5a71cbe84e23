package validation

import (
	"errors"
	"net/http"
)

// Domain errors for validation operations.
var (
	ErrNoEnvelope       = errors.New("response contains no json fence")
	ErrInvalidEnvelope  = errors.New("response envelope is not a verdict array")
	ErrRulesNotReady    = errors.New("validation rules not loaded")
	ErrNoWorkingRows    = errors.New("working table has no rows")
	ErrRunActive        = errors.New("validation run already in progress")
	ErrNoRun            = errors.New("no validation run")
	ErrPlatformNotFound = errors.New("platform not found")
	ErrTrackNotFound    = errors.New("track not found")
	ErrRowNotFound      = errors.New("row index out of range")
)

// MapHTTPStatus maps validation domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNoRun),
		errors.Is(err, ErrPlatformNotFound),
		errors.Is(err, ErrTrackNotFound),
		errors.Is(err, ErrRowNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRulesNotReady),
		errors.Is(err, ErrNoWorkingRows):
		return http.StatusPreconditionFailed
	case errors.Is(err, ErrRunActive):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
