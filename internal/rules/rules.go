// Package rules manages the validation rule table and renders it as the
// markdown context consumed by validation prompts.
package rules

import (
	"strconv"
	"strings"
	"time"

	"tracklint/pkg/tabular"
)

// RuleSet holds the uploaded rule table along with upload metadata.
type RuleSet struct {
	Table      *tabular.Table
	Filename   string
	UploadedAt time.Time
}

// Summary is the JSON projection of a rule set returned by HTTP endpoints.
type Summary struct {
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploaded_at"`
	RuleCount  int       `json:"rule_count"`
	Columns    []string  `json:"columns"`
}

// Summarize returns the JSON projection of the rule set.
func (rs *RuleSet) Summarize() Summary {
	return Summary{
		Filename:   rs.Filename,
		UploadedAt: rs.UploadedAt,
		RuleCount:  len(rs.Table.Rows),
		Columns:    rs.Table.Columns,
	}
}

// Context renders the rule table as a markdown table for prompt embedding.
// A sequential Rule_No column is prepended so verdicts can reference rules
// by number, and every cell is whitespace-trimmed.
func (rs *RuleSet) Context() string {
	header := append([]string{"Rule_No"}, rs.Table.Columns...)

	var b strings.Builder
	writeMarkdownRow(&b, header)

	separator := make([]string, len(header))
	for i := range separator {
		separator[i] = "---"
	}
	writeMarkdownRow(&b, separator)

	cells := make([]string, len(header))
	for i, row := range rs.Table.Rows {
		cells[0] = strconv.Itoa(i + 1)
		for j, column := range rs.Table.Columns {
			cells[j+1] = strings.TrimSpace(row.Text(column))
		}
		writeMarkdownRow(&b, cells)
	}

	return b.String()
}

func writeMarkdownRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}
