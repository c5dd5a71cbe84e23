// Package validation runs track metadata through rule-based review by an
// external reasoning service. Working rows are dispatched in batches, each
// batch's verdicts are reconciled against the rule table, and the results are
// grouped by platform for display and interactive correction.
package validation

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"tracklint/pkg/tabular"
)

// Verdict status values.
const (
	StatusPassed = "Passed"
	StatusFailed = "Failed"
)

// RuleNumber is a rule reference that tolerates both string and numeric JSON
// encodings. Reasoning services emit either form.
type RuleNumber string

// UnmarshalJSON accepts "1" or 1 and stores the canonical string form.
func (n *RuleNumber) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = RuleNumber(strings.TrimSpace(s))
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	*n = RuleNumber(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// Matches reports whether the rule number references the given 1-based position.
func (n RuleNumber) Matches(position int) bool {
	return string(n) == strconv.Itoa(position)
}

// Verdict is one rule's assessment for one track as returned by the
// reasoning service. Platform is informational; grouping uses the platform
// field on the rule row instead.
type Verdict struct {
	RuleNo     RuleNumber `json:"rule_no"`
	Platform   string     `json:"platform"`
	Status     string     `json:"status"`
	Reason     string     `json:"reason"`
	Suggestion string     `json:"suggestion"`
	NewValue   string     `json:"new_value"`
}

// TrackVerdictSet is the per-track unit of a batch response.
type TrackVerdictSet struct {
	TrackTitle string    `json:"Track Title"`
	Rules      []Verdict `json:"rules"`
}

// Failed reports whether any verdict in the set is marked failed.
func (s TrackVerdictSet) Failed() bool {
	for _, v := range s.Rules {
		if strings.EqualFold(v.Status, StatusFailed) {
			return true
		}
	}
	return false
}

// ReconciledRow pairs one rule row's original fields with the outcome fields
// from its matched verdict. Outcome fields are empty strings when the service
// omitted the rule.
type ReconciledRow struct {
	Columns    []string
	Fields     tabular.Row
	Status     string
	Reason     string
	Suggestion string
	NewValue   string
}

// Passed reports whether the row's status is Passed, case-insensitively.
func (r ReconciledRow) Passed() bool {
	return strings.EqualFold(r.Status, StatusPassed)
}

var outcomeColumns = []string{"status", "reason", "suggestion", "new_value"}

// MarshalJSON flattens the row into a single object: the rule-row fields in
// column order followed by the four outcome fields.
func (r ReconciledRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	writeField := func(name string, value any) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, err := json.Marshal(name)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(val)
		return nil
	}

	for _, column := range r.Columns {
		if isOutcomeColumn(column) {
			continue
		}
		if err := writeField(column, r.Fields.Get(column)); err != nil {
			return nil, err
		}
	}

	outcomes := []string{r.Status, r.Reason, r.Suggestion, r.NewValue}
	for i, column := range outcomeColumns {
		if err := writeField(column, outcomes[i]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func isOutcomeColumn(name string) bool {
	for _, column := range outcomeColumns {
		if name == column {
			return true
		}
	}
	return false
}
