package validation

import (
	"encoding/json"
	"fmt"

	"tracklint/pkg/formatting"
)

// ParseEnvelope extracts the fenced json block from a reasoning service reply
// and decodes it as an array of per-track verdict sets. The reply must contain
// exactly one json fence whose contents are a JSON array; anything else is a
// terminal failure for the batch that produced it.
func ParseEnvelope(content string) ([]TrackVerdictSet, error) {
	payload, err := formatting.ExtractFence(content, "json")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoEnvelope, err)
	}

	var sets []TrackVerdictSet
	if err := json.Unmarshal([]byte(payload), &sets); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEnvelope, err)
	}

	if sets == nil {
		return nil, fmt.Errorf("%w: payload is not an array", ErrInvalidEnvelope)
	}

	return sets, nil
}
