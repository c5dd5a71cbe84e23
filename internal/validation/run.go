package validation

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Run status values.
const (
	RunRunning  = "running"
	RunComplete = "complete"
)

// Run tracks the progress of one validation pass over a working table.
// Only the most recent run is retained; starting a new run replaces it.
type Run struct {
	mu sync.Mutex

	id          uuid.UUID
	table       string
	status      string
	total       int
	completed   int
	failed      int
	tracks      int
	startedAt   time.Time
	completedAt *time.Time
}

// RunView is the JSON projection of a run's current state.
type RunView struct {
	ID          uuid.UUID  `json:"id"`
	Table       string     `json:"table"`
	Status      string     `json:"status"`
	Total       int        `json:"total_batches"`
	Completed   int        `json:"completed_batches"`
	Failed      int        `json:"failed_batches"`
	Tracks      int        `json:"tracks"`
	Progress    int        `json:"progress"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewRun creates a running Run for the given working table.
func NewRun(table string) *Run {
	return &Run{
		id:        uuid.New(),
		table:     table,
		status:    RunRunning,
		startedAt: time.Now().UTC(),
	}
}

// ID returns the run identifier.
func (r *Run) ID() uuid.UUID {
	return r.id
}

// SetTotal records the total batch count once partitioning is known.
func (r *Run) SetTotal(total int) {
	r.mu.Lock()
	r.total = total
	r.mu.Unlock()
}

// Advance records batch completion progress. Completions from concurrent
// batches can land out of order; a stale count never rewinds the counter.
func (r *Run) Advance(completed, total int) {
	r.mu.Lock()
	if completed > r.completed {
		r.completed = completed
	}
	r.total = total
	r.mu.Unlock()
}

// Complete marks the run finished and records its summary.
func (r *Run) Complete(summary Summary) {
	now := time.Now().UTC()

	r.mu.Lock()
	r.status = RunComplete
	r.total = summary.TotalBatches
	r.completed = summary.TotalBatches
	r.failed = summary.FailedBatches
	r.tracks = summary.Tracks
	r.completedAt = &now
	r.mu.Unlock()
}

// Running reports whether the run is still in progress.
func (r *Run) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status == RunRunning
}

// View returns a consistent snapshot of the run's state.
func (r *Run) View() RunView {
	r.mu.Lock()
	defer r.mu.Unlock()

	progress := 0
	if r.total > 0 {
		progress = r.completed * 100 / r.total
	}
	if r.status == RunComplete {
		progress = 100
	}

	return RunView{
		ID:          r.id,
		Table:       r.table,
		Status:      r.status,
		Total:       r.total,
		Completed:   r.completed,
		Failed:      r.failed,
		Tracks:      r.tracks,
		Progress:    progress,
		StartedAt:   r.startedAt,
		CompletedAt: r.completedAt,
	}
}
