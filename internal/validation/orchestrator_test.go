package validation_test

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"tracklint/internal/validation"
	"tracklint/pkg/tabular"
)

type fakeClient struct {
	ask func(ctx context.Context, system, user string) (string, error)
}

func (c *fakeClient) Ask(ctx context.Context, system, user string) (string, error) {
	return c.ask(ctx, system, user)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func workingRows(titles ...string) []tabular.Row {
	rows := make([]tabular.Row, len(titles))
	for i, title := range titles {
		rows[i] = tabular.Row{
			"Track Title": tabular.String(title),
			"DSP":         tabular.String("Spotify"),
		}
	}
	return rows
}

// titleFromPrompt recovers the single track title embedded in a batch prompt.
func titleFromPrompt(user string, titles []string) string {
	for _, title := range titles {
		if strings.Contains(user, `"`+title+`"`) {
			return title
		}
	}
	return ""
}

func verdictReply(title string) string {
	return "```json\n" + fmt.Sprintf(
		`[{"Track Title":%q,"rules":[{"rule_no":"1","status":"Passed"},{"rule_no":"2","status":"Passed"}]}]`,
		title,
	) + "\n```"
}

func TestRunMergesAllBatches(t *testing.T) {
	titles := []string{"T1", "T2", "T3"}

	client := &fakeClient{
		ask: func(ctx context.Context, system, user string) (string, error) {
			return verdictReply(titleFromPrompt(user, titles)), nil
		},
	}

	store := validation.NewStore("DSP")
	orch := validation.NewOrchestrator(client, discardLogger(), 1, 0)

	summary := orch.Run(context.Background(), ruleTable(), "rules", workingRows(titles...), store, nil)

	if summary.TotalBatches != 3 || summary.FailedBatches != 0 || summary.Tracks != 3 || summary.FailedTracks != 0 {
		t.Errorf("summary: %+v", summary)
	}

	for _, title := range titles {
		if !store.TrackPassed(title) {
			t.Errorf("track %s missing or not passed", title)
		}
	}
}

func TestRunIsolatesFailedBatch(t *testing.T) {
	titles := []string{"T1", "T2", "T3", "T4", "T5"}

	client := &fakeClient{
		ask: func(ctx context.Context, system, user string) (string, error) {
			title := titleFromPrompt(user, titles)
			if title == "T3" {
				return "", fmt.Errorf("connection reset")
			}
			return verdictReply(title), nil
		},
	}

	store := validation.NewStore("DSP")
	orch := validation.NewOrchestrator(client, discardLogger(), 1, 2)

	var (
		mu        sync.Mutex
		finalDone int
	)
	summary := orch.Run(context.Background(), ruleTable(), "rules", workingRows(titles...), store,
		func(completed, total int) {
			mu.Lock()
			if completed > finalDone {
				finalDone = completed
			}
			mu.Unlock()
		})

	if summary.TotalBatches != 5 || summary.FailedBatches != 1 {
		t.Errorf("summary: %+v", summary)
	}

	if finalDone != 5 {
		t.Errorf("progress should reach all batches even with a failure: got %d", finalDone)
	}

	for _, title := range []string{"T1", "T2", "T4", "T5"} {
		if _, err := store.Track(title); err != nil {
			t.Errorf("track %s should have reconciled data: %v", title, err)
		}
	}

	if _, err := store.Track("T3"); err == nil {
		t.Error("failed batch should leave its track without data")
	}
}

func TestRunCountsFailedTracks(t *testing.T) {
	titles := []string{"T1", "T2", "T3"}

	client := &fakeClient{
		ask: func(ctx context.Context, system, user string) (string, error) {
			title := titleFromPrompt(user, titles)
			if title == "T2" {
				return "```json\n" + fmt.Sprintf(
					`[{"Track Title":%q,"rules":[{"rule_no":"1","status":"Passed"},{"rule_no":"2","status":"Failed","reason":"emoji in title"}]}]`,
					title,
				) + "\n```", nil
			}
			return verdictReply(title), nil
		},
	}

	store := validation.NewStore("DSP")
	orch := validation.NewOrchestrator(client, discardLogger(), 1, 0)

	summary := orch.Run(context.Background(), ruleTable(), "rules", workingRows(titles...), store, nil)

	if summary.Tracks != 3 || summary.FailedTracks != 1 {
		t.Errorf("summary: %+v", summary)
	}

	if store.TrackPassed("T2") {
		t.Error("T2 should be failed")
	}
}

func TestRunRejectsUnfencedReply(t *testing.T) {
	client := &fakeClient{
		ask: func(ctx context.Context, system, user string) (string, error) {
			return `[{"Track Title":"T1","rules":[]}]`, nil
		},
	}

	store := validation.NewStore("DSP")
	orch := validation.NewOrchestrator(client, discardLogger(), 1, 0)

	summary := orch.Run(context.Background(), ruleTable(), "rules", workingRows("T1"), store, nil)

	if summary.FailedBatches != 1 {
		t.Errorf("unfenced reply should fail the batch: %+v", summary)
	}
	if !store.Empty() {
		t.Error("store should be unchanged by a malformed reply")
	}
}

func TestRunBatchSizePartitioning(t *testing.T) {
	titles := []string{"T1", "T2", "T3", "T4", "T5"}

	var (
		mu      sync.Mutex
		batches int
	)
	client := &fakeClient{
		ask: func(ctx context.Context, system, user string) (string, error) {
			mu.Lock()
			batches++
			mu.Unlock()
			return verdictReply(titleFromPrompt(user, titles)), nil
		},
	}

	store := validation.NewStore("DSP")
	orch := validation.NewOrchestrator(client, discardLogger(), 2, 0)

	summary := orch.Run(context.Background(), ruleTable(), "rules", workingRows(titles...), store, nil)

	if batches != 3 {
		t.Errorf("batches dispatched: got %d, want 3", batches)
	}
	if summary.TotalBatches != 3 {
		t.Errorf("summary batches: got %d, want 3", summary.TotalBatches)
	}
}
