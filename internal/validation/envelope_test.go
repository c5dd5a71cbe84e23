package validation_test

import (
	"errors"
	"testing"

	"tracklint/internal/validation"
)

const verdictPayload = `[{"Track Title":"T1","rules":[{"rule_no":"1","status":"Passed"}]}]`

func TestParseEnvelope(t *testing.T) {
	content := "Here are the results:\n```json\n" + verdictPayload + "\n```\n"

	sets, err := validation.ParseEnvelope(content)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if len(sets) != 1 {
		t.Fatalf("sets: got %d, want 1", len(sets))
	}
	if sets[0].TrackTitle != "T1" {
		t.Errorf("track title: got %q", sets[0].TrackTitle)
	}
	if len(sets[0].Rules) != 1 || !sets[0].Rules[0].RuleNo.Matches(1) {
		t.Errorf("rules: got %+v", sets[0].Rules)
	}
}

func TestParseEnvelopeFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"no fence", verdictPayload, validation.ErrNoEnvelope},
		{"unlabeled fence", "```\n" + verdictPayload + "\n```", validation.ErrNoEnvelope},
		{"two fences", "```json\n[]\n```\n```json\n[]\n```", validation.ErrNoEnvelope},
		{"invalid json", "```json\nnot json\n```", validation.ErrInvalidEnvelope},
		{"object payload", "```json\n{\"Track Title\":\"T1\"}\n```", validation.ErrInvalidEnvelope},
		{"null payload", "```json\nnull\n```", validation.ErrInvalidEnvelope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validation.ParseEnvelope(tt.content)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}
