package validation

import (
	"context"

	"tracklint/pkg/tabular"
)

// RowSource supplies the working rows to validate. The datasets system
// implements it; an empty table name selects the current working table.
type RowSource interface {
	WorkingRows(ctx context.Context, table string) (string, *tabular.Table, error)
}

// CorrectionCommand identifies a reconciled row and the edit to apply.
// NewValue is optional; when present it replaces the row's corrected value.
type CorrectionCommand struct {
	Platform   string  `json:"platform"`
	TrackTitle string  `json:"track_title"`
	RowIndex   int     `json:"row_index"`
	NewValue   *string `json:"new_value,omitempty"`
}

// System defines the public contract for validation domain operations.
type System interface {
	Handler() *Handler

	StartRun(ctx context.Context, table string) (RunView, error)
	CurrentRun() (RunView, error)
	Tracks() ([]TrackStatus, error)
	Track(title string) (*TrackView, error)
	Correct(cmd CorrectionCommand) (*CorrectionResult, error)
}
