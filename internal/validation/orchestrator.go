package validation

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"tracklint/pkg/reasoner"
	"tracklint/pkg/tabular"
)

// Summary is the informational result of a validation run. The real output
// is the side effect on the grouping store.
type Summary struct {
	TotalBatches  int `json:"total_batches"`
	FailedBatches int `json:"failed_batches"`
	Tracks        int `json:"tracks"`
	FailedTracks  int `json:"failed_tracks"`
}

// Orchestrator partitions working rows into batches and dispatches them
// concurrently to the reasoning client.
type Orchestrator struct {
	client      reasoner.Client
	logger      *slog.Logger
	batchSize   int
	maxInFlight int
}

// NewOrchestrator creates an orchestrator. batchSize rows go into each call;
// maxInFlight caps concurrent calls, 0 meaning unbounded.
func NewOrchestrator(client reasoner.Client, logger *slog.Logger, batchSize, maxInFlight int) *Orchestrator {
	if batchSize < 1 {
		batchSize = 1
	}

	return &Orchestrator{
		client:      client,
		logger:      logger.With("system", "validation"),
		batchSize:   batchSize,
		maxInFlight: maxInFlight,
	}
}

// Run validates all working rows against the rule table and merges reconciled
// verdicts into the store. Every batch is dispatched and joined within this
// call; a failed batch is logged and skipped without disturbing the others,
// so Run itself never fails once dispatch begins. onProgress is invoked with
// the completed and total batch counts as each batch finishes, regardless of
// its outcome.
func (o *Orchestrator) Run(
	ctx context.Context,
	ruleTable *tabular.Table,
	ruleContext string,
	rows []tabular.Row,
	store *Store,
	onProgress func(completed, total int),
) Summary {
	batches := partition(rows, o.batchSize)
	total := len(batches)

	system := SystemPrompt(ruleContext)

	var completed, failed, tracks, failedTracks atomic.Int64

	g := new(errgroup.Group)
	if o.maxInFlight > 0 {
		g.SetLimit(o.maxInFlight)
	}

	for i, batch := range batches {
		g.Go(func() error {
			merged, flagged, err := o.dispatch(ctx, system, ruleTable, batch, store)
			if err != nil {
				o.logger.Error("batch failed", "batch", i, "error", err)
				failed.Add(1)
			} else {
				tracks.Add(int64(merged))
				failedTracks.Add(int64(flagged))
			}

			done := int(completed.Add(1))
			if onProgress != nil {
				onProgress(done, total)
			}

			return nil
		})
	}

	g.Wait()

	return Summary{
		TotalBatches:  total,
		FailedBatches: int(failed.Load()),
		Tracks:        int(tracks.Load()),
		FailedTracks:  int(failedTracks.Load()),
	}
}

// dispatch sends one batch and merges its verdicts, returning the number of
// tracks merged and how many of them carried a failed verdict.
func (o *Orchestrator) dispatch(
	ctx context.Context,
	system string,
	ruleTable *tabular.Table,
	batch []tabular.Row,
	store *Store,
) (int, int, error) {
	user, err := UserPrompt(batch, len(ruleTable.Rows))
	if err != nil {
		return 0, 0, err
	}

	content, err := o.client.Ask(ctx, system, user)
	if err != nil {
		return 0, 0, err
	}

	sets, err := ParseEnvelope(content)
	if err != nil {
		return 0, 0, err
	}

	flagged := 0
	for _, set := range sets {
		if set.Failed() {
			flagged++
		}
		store.Merge(set.TrackTitle, Reconcile(ruleTable, set))
	}

	return len(sets), flagged, nil
}

func partition(rows []tabular.Row, size int) [][]tabular.Row {
	if len(rows) == 0 {
		return nil
	}

	batches := make([][]tabular.Row, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		batches = append(batches, rows[start:end])
	}

	return batches
}
