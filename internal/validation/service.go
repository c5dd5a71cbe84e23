package validation

import (
	"context"
	"log/slog"
	"sync"

	"tracklint/internal/rules"
	"tracklint/pkg/reasoner"
)

// RuleSource supplies the active rule set for a run.
type RuleSource interface {
	Current() (*rules.RuleSet, error)
}

type service struct {
	ruleSource   RuleSource
	rowSource    RowSource
	orchestrator *Orchestrator
	store        *Store
	logger       *slog.Logger

	// background outlives the request that starts a run; it is the
	// lifecycle context, cancelled on shutdown.
	background context.Context

	mu  sync.Mutex
	run *Run
}

// New creates the validation system. background is the context batch workers
// run under after the starting request has returned.
func New(
	background context.Context,
	ruleSource RuleSource,
	rowSource RowSource,
	client reasoner.Client,
	logger *slog.Logger,
	batchSize, maxInFlight int,
	platformField string,
) System {
	logger = logger.With("system", "validation")

	return &service{
		ruleSource:   ruleSource,
		rowSource:    rowSource,
		orchestrator: NewOrchestrator(client, logger, batchSize, maxInFlight),
		store:        NewStore(platformField),
		logger:       logger,
		background:   background,
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

// StartRun validates preconditions synchronously, then dispatches the batch
// work on the background context and returns the new run immediately.
// The grouping store is rebuilt from empty for each run.
func (s *service) StartRun(ctx context.Context, table string) (RunView, error) {
	rs, err := s.ruleSource.Current()
	if err != nil {
		return RunView{}, ErrRulesNotReady
	}

	name, working, err := s.rowSource.WorkingRows(ctx, table)
	if err != nil {
		return RunView{}, err
	}

	if len(working.Rows) == 0 {
		return RunView{}, ErrNoWorkingRows
	}

	s.mu.Lock()
	if s.run != nil && s.run.Running() {
		s.mu.Unlock()
		return RunView{}, ErrRunActive
	}

	run := NewRun(name)
	s.run = run
	s.mu.Unlock()

	s.store.Reset()

	ruleTable := rs.Table
	ruleContext := rs.Context()

	s.logger.Info("validation run started",
		"run", run.ID(),
		"table", name,
		"rows", len(working.Rows),
		"rules", len(ruleTable.Rows),
	)

	go func() {
		summary := s.orchestrator.Run(
			s.background,
			ruleTable,
			ruleContext,
			working.Rows,
			s.store,
			run.Advance,
		)

		run.Complete(summary)

		s.logger.Info("validation run complete",
			"run", run.ID(),
			"batches", summary.TotalBatches,
			"failed", summary.FailedBatches,
			"tracks", summary.Tracks,
			"failed_tracks", summary.FailedTracks,
		)
	}()

	return run.View(), nil
}

func (s *service) CurrentRun() (RunView, error) {
	s.mu.Lock()
	run := s.run
	s.mu.Unlock()

	if run == nil {
		return RunView{}, ErrNoRun
	}
	return run.View(), nil
}

func (s *service) Tracks() ([]TrackStatus, error) {
	if _, err := s.CurrentRun(); err != nil {
		return nil, err
	}
	return s.store.Tracks(), nil
}

func (s *service) Track(title string) (*TrackView, error) {
	if _, err := s.CurrentRun(); err != nil {
		return nil, err
	}
	return s.store.Track(title)
}

func (s *service) Correct(cmd CorrectionCommand) (*CorrectionResult, error) {
	if _, err := s.CurrentRun(); err != nil {
		return nil, err
	}

	result, err := s.store.ApplyCorrection(cmd.Platform, cmd.TrackTitle, cmd.RowIndex, cmd.NewValue)
	if err != nil {
		return nil, err
	}

	s.logger.Info("correction applied",
		"platform", cmd.Platform,
		"track", cmd.TrackTitle,
		"row", cmd.RowIndex,
		"platform_passed", result.PlatformPassed,
		"track_passed", result.TrackPassed,
	)

	return result, nil
}
