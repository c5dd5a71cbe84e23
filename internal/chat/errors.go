package chat

import (
	"errors"
	"net/http"

	"tracklint/internal/datasets"
	"tracklint/pkg/reasoner"
)

// Domain errors for chat operations.
var (
	ErrEmptyQuestion = errors.New("question is empty")
	ErrNoQuery       = errors.New("reply contains no query")
	ErrQueryFailed   = errors.New("generated query failed")
)

// MapHTTPStatus maps chat domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyQuestion):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoQuery), errors.Is(err, ErrQueryFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, datasets.ErrNoTables):
		return http.StatusNotFound
	case errors.Is(err, reasoner.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
