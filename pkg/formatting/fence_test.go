package formatting_test

import (
	"errors"
	"testing"

	"tracklint/pkg/formatting"
)

func TestExtractFence(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr error
	}{
		{
			name:    "single labeled fence",
			content: "Here you go:\n```json\n[{\"a\": 1}]\n```\nDone.",
			want:    "[{\"a\": 1}]",
		},
		{
			name:    "fence without surrounding prose",
			content: "```json\n{}\n```",
			want:    "{}",
		},
		{
			name:    "no fence",
			content: "[{\"a\": 1}]",
			wantErr: formatting.ErrFenceNotFound,
		},
		{
			name:    "fence with different label",
			content: "```sql\nSELECT 1;\n```",
			wantErr: formatting.ErrFenceNotFound,
		},
		{
			name:    "two labeled fences",
			content: "```json\n[]\n```\nand\n```json\n{}\n```",
			wantErr: formatting.ErrAmbiguousFence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ExtractFence(tt.content, "json")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got error %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractAnyFence(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		want      string
		wantFence bool
	}{
		{
			name:      "labeled fence",
			content:   "Steps first.\n```sql\nSELECT * FROM tracks;\n```",
			want:      "SELECT * FROM tracks;",
			wantFence: true,
		},
		{
			name:      "unlabeled fence",
			content:   "```\nSELECT 1;\n```",
			want:      "SELECT 1;",
			wantFence: true,
		},
		{
			name:      "first of several fences",
			content:   "```sql\nSELECT 1;\n```\n```sql\nSELECT 2;\n```",
			want:      "SELECT 1;",
			wantFence: true,
		},
		{
			name:      "no fence falls back to full content",
			content:   "SELECT * FROM tracks;",
			want:      "SELECT * FROM tracks;",
			wantFence: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := formatting.ExtractAnyFence(tt.content)
			if found != tt.wantFence {
				t.Errorf("found: got %t, want %t", found, tt.wantFence)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
