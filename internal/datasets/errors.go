package datasets

import (
	"errors"
	"net/http"
)

// Domain errors for dataset operations.
var (
	ErrTableNotFound   = errors.New("table not found")
	ErrNoTables        = errors.New("no tables ingested")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrInvalidFile     = errors.New("invalid dataset file")
	ErrEmptyFile       = errors.New("dataset file contains no rows")
)

// MapHTTPStatus maps dataset domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrTableNotFound) || errors.Is(err, ErrNoTables) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnsupportedFile) ||
		errors.Is(err, ErrInvalidFile) ||
		errors.Is(err, ErrEmptyFile) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
