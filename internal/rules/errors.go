package rules

import (
	"errors"
	"net/http"
)

// Domain errors for rule operations.
var (
	ErrNoRules     = errors.New("no validation rules loaded")
	ErrEmptyRules  = errors.New("rule file contains no rules")
	ErrInvalidFile = errors.New("invalid rule file")
)

// MapHTTPStatus maps rule domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNoRules) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrEmptyRules) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrInvalidFile) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
