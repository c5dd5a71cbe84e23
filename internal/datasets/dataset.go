// Package datasets ingests uploaded tabular files into the in-memory SQLite
// store and exposes schema, row, and export access over it.
package datasets

// Column describes one column of an ingested table.
type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	NotNull    bool   `json:"not_null"`
	PrimaryKey bool   `json:"primary_key"`
}

// Table describes one ingested table: its name, creation SQL, columns, and
// row count.
type Table struct {
	Name     string   `json:"name"`
	SQL      string   `json:"sql"`
	Columns  []Column `json:"columns"`
	RowCount int      `json:"row_count"`
}

// IngestResult reports the outcome of ingesting one uploaded file.
type IngestResult struct {
	Filename string   `json:"filename"`
	Tables   []string `json:"tables"`
	Rows     int      `json:"rows"`
}
