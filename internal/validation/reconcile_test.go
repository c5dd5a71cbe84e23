package validation_test

import (
	"encoding/json"
	"testing"

	"tracklint/internal/validation"
	"tracklint/pkg/tabular"
)

func ruleTable() *tabular.Table {
	return &tabular.Table{
		Columns: []string{"DSP", "Rule"},
		Rows: []tabular.Row{
			{"DSP": tabular.String("Spotify"), "Rule": tabular.String("Audio must be 16-bit or 24-bit WAV/FLAC")},
			{"DSP": tabular.String("Spotify"), "Rule": tabular.String("Title must not contain emojis")},
		},
	}
}

func TestReconcileMatchedAndDefaulted(t *testing.T) {
	set := validation.TrackVerdictSet{
		TrackTitle: "T1",
		Rules: []validation.Verdict{
			{
				RuleNo:     "1",
				Status:     "Failed",
				Reason:     "bad format",
				Suggestion: "fix",
				NewValue:   "x",
			},
			{RuleNo: "2", Status: "Passed"},
		},
	}

	rows := validation.Reconcile(ruleTable(), set)
	if len(rows) != 2 {
		t.Fatalf("rows: got %d, want 2", len(rows))
	}

	first := rows[0]
	if first.Status != "Failed" || first.Reason != "bad format" ||
		first.Suggestion != "fix" || first.NewValue != "x" {
		t.Errorf("first row outcome: got %+v", first)
	}

	second := rows[1]
	if second.Status != "Passed" {
		t.Errorf("second row status: got %q, want Passed", second.Status)
	}
	if second.Reason != "" || second.Suggestion != "" || second.NewValue != "" {
		t.Errorf("second row should have empty outcome details: %+v", second)
	}

	for i, row := range rows {
		if row.Fields.Text("Rule") != ruleTable().Rows[i].Text("Rule") {
			t.Errorf("row %d lost original rule fields", i)
		}
	}
}

func TestReconcileRowCountMatchesRuleTable(t *testing.T) {
	tests := []struct {
		name     string
		verdicts []validation.Verdict
		want     int
	}{
		{"no verdicts", nil, 0},
		{"partial verdicts", []validation.Verdict{{RuleNo: "2", Status: "Passed"}}, 1},
		{"all verdicts", []validation.Verdict{
			{RuleNo: "1", Status: "Passed"},
			{RuleNo: "2", Status: "Failed"},
		}, 2},
		{"unknown rule numbers ignored", []validation.Verdict{
			{RuleNo: "7", Status: "Passed"},
		}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := validation.Reconcile(ruleTable(), validation.TrackVerdictSet{
				TrackTitle: "T1",
				Rules:      tt.verdicts,
			})

			if len(rows) != 2 {
				t.Fatalf("rows: got %d, want 2", len(rows))
			}

			matched := 0
			for _, row := range rows {
				if row.Status != "" {
					matched++
				}
			}

			if matched != tt.want {
				t.Errorf("matched rows: got %d, want %d", matched, tt.want)
			}
		})
	}
}

func TestReconcileNumericRuleNumbers(t *testing.T) {
	var set validation.TrackVerdictSet
	payload := `{"Track Title":"T1","rules":[{"rule_no":1,"status":"Passed"},{"rule_no":"2","status":"Failed"}]}`
	if err := json.Unmarshal([]byte(payload), &set); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	rows := validation.Reconcile(ruleTable(), set)
	if rows[0].Status != "Passed" {
		t.Errorf("numeric rule_no did not match position 1: %+v", rows[0])
	}
	if rows[1].Status != "Failed" {
		t.Errorf("string rule_no did not match position 2: %+v", rows[1])
	}
}

func TestReconciledRowJSONFlattens(t *testing.T) {
	rows := validation.Reconcile(ruleTable(), validation.TrackVerdictSet{
		TrackTitle: "T1",
		Rules:      []validation.Verdict{{RuleNo: "1", Status: "Failed", Reason: "bad"}},
	})

	data, err := json.Marshal(rows[0])
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded["DSP"] != "Spotify" {
		t.Errorf("DSP field: got %v", decoded["DSP"])
	}
	if decoded["status"] != "Failed" || decoded["reason"] != "bad" {
		t.Errorf("outcome fields: got %v", decoded)
	}
	if decoded["suggestion"] != "" || decoded["new_value"] != "" {
		t.Errorf("unset outcome fields should be empty strings: %v", decoded)
	}
}
