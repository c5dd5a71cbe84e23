package reasoner

import "errors"

var (
	// ErrUnavailable indicates the endpoint could not be reached.
	ErrUnavailable = errors.New("reasoner unavailable")

	// ErrRefused indicates the endpoint rejected the request.
	ErrRefused = errors.New("reasoner refused request")

	// ErrMalformedResponse indicates the endpoint returned an unparseable payload.
	ErrMalformedResponse = errors.New("reasoner returned malformed response")
)
