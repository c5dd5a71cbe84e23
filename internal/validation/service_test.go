package validation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tracklint/internal/rules"
	"tracklint/internal/validation"
	"tracklint/pkg/tabular"
)

type fakeRuleSource struct {
	rs *rules.RuleSet
}

func (f *fakeRuleSource) Current() (*rules.RuleSet, error) {
	if f.rs == nil {
		return nil, rules.ErrNoRules
	}
	return f.rs, nil
}

type fakeRowSource struct {
	table *tabular.Table
	err   error
}

func (f *fakeRowSource) WorkingRows(ctx context.Context, table string) (string, *tabular.Table, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return "tracks", f.table, nil
}

func loadedRules(t *testing.T) *rules.RuleSet {
	t.Helper()

	rs, err := rules.New(discardLogger()).Load(
		[]byte("DSP,Rule\nSpotify,Audio must be WAV\nSpotify,No emojis in title\n"),
		"rules.csv",
	)
	if err != nil {
		t.Fatalf("loading rules: %v", err)
	}
	return rs
}

func newService(t *testing.T, ruleSrc validation.RuleSource, rowSrc validation.RowSource, client *fakeClient) validation.System {
	t.Helper()
	return validation.New(context.Background(), ruleSrc, rowSrc, client, discardLogger(), 1, 0, "DSP")
}

func waitForComplete(t *testing.T, sys validation.System) validation.RunView {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		run, err := sys.CurrentRun()
		if err != nil {
			t.Fatalf("current run: %v", err)
		}
		if run.Status == validation.RunComplete {
			return run
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatal("run did not complete")
	return validation.RunView{}
}

func TestStartRunRequiresRules(t *testing.T) {
	sys := newService(t,
		&fakeRuleSource{},
		&fakeRowSource{table: &tabular.Table{}},
		&fakeClient{},
	)

	_, err := sys.StartRun(context.Background(), "")
	if !errors.Is(err, validation.ErrRulesNotReady) {
		t.Errorf("got %v, want %v", err, validation.ErrRulesNotReady)
	}
}

func TestStartRunRequiresWorkingRows(t *testing.T) {
	sys := newService(t,
		&fakeRuleSource{rs: loadedRules(t)},
		&fakeRowSource{table: &tabular.Table{Columns: []string{"Track Title"}}},
		&fakeClient{},
	)

	_, err := sys.StartRun(context.Background(), "")
	if !errors.Is(err, validation.ErrNoWorkingRows) {
		t.Errorf("got %v, want %v", err, validation.ErrNoWorkingRows)
	}
}

func TestStartRunCompletesAndServesResults(t *testing.T) {
	titles := []string{"T1", "T2"}
	client := &fakeClient{
		ask: func(ctx context.Context, system, user string) (string, error) {
			return verdictReply(titleFromPrompt(user, titles)), nil
		},
	}

	sys := newService(t,
		&fakeRuleSource{rs: loadedRules(t)},
		&fakeRowSource{table: &tabular.Table{
			Columns: []string{"Track Title", "DSP"},
			Rows:    workingRows(titles...),
		}},
		client,
	)

	started, err := sys.StartRun(context.Background(), "")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if started.Table != "tracks" {
		t.Errorf("run table: got %q", started.Table)
	}

	run := waitForComplete(t, sys)
	if run.Progress != 100 || run.Failed != 0 || run.Tracks != 2 {
		t.Errorf("completed run: %+v", run)
	}

	tracks, err := sys.Tracks()
	if err != nil {
		t.Fatalf("tracks failed: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("tracks: got %d, want 2", len(tracks))
	}

	view, err := sys.Track("T1")
	if err != nil {
		t.Fatalf("track view failed: %v", err)
	}
	if !view.Passed {
		t.Errorf("track view: %+v", view)
	}
}

func TestCorrectRequiresRun(t *testing.T) {
	sys := newService(t, &fakeRuleSource{}, &fakeRowSource{}, &fakeClient{})

	_, err := sys.Correct(validation.CorrectionCommand{
		Platform:   "Spotify",
		TrackTitle: "T1",
	})
	if !errors.Is(err, validation.ErrNoRun) {
		t.Errorf("got %v, want %v", err, validation.ErrNoRun)
	}
}
