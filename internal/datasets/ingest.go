package datasets

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"tracklint/pkg/repository"
	"tracklint/pkg/tabular"
)

var (
	tableNamePattern = regexp.MustCompile(`[^a-zA-Z0-9_]`)

	// Timestamp shapes that get split into separate date and time columns
	// during ingestion. Plain dates and times pass through as text.
	dayFirstTimestamp  = regexp.MustCompile(`^\d{2}-\d{2}-\d{4} \d{2}:\d{2}$`)
	isoTimestamp       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)
	timestampExtractor = regexp.MustCompile(`^(?:(\d{4}-\d{2}-\d{2})|(\d{2}-\d{2}-\d{4})) (\d{2}:\d{2})(?::\d{2})?$`)
)

// TableName derives a SQL table name from an uploaded filename: the
// extension is removed and every character outside [a-zA-Z0-9_] becomes an
// underscore.
func TableName(filename string) string {
	name := filename
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return tableNamePattern.ReplaceAllString(name, "_")
}

// columnSpec is one target column of an ingested table. Split columns carry
// the source column they derive from.
type columnSpec struct {
	name    string
	sqlType string
	source  string
	isDate  bool
	isTime  bool
}

// planColumns infers target columns from the first row's values, the same
// sampling the row store applies everywhere. Timestamp-shaped text columns
// are replaced by a _date and _time pair.
func planColumns(table *tabular.Table) []columnSpec {
	if len(table.Rows) == 0 {
		return nil
	}

	sample := table.Rows[0]
	specs := make([]columnSpec, 0, len(table.Columns))

	for _, column := range table.Columns {
		value := sample.Get(column)

		switch value.Kind() {
		case tabular.KindNumber:
			sqlType := "REAL"
			if value.IsIntegral() {
				sqlType = "INTEGER"
			}
			specs = append(specs, columnSpec{name: column, sqlType: sqlType, source: column})
		case tabular.KindBool:
			specs = append(specs, columnSpec{name: column, sqlType: "INTEGER", source: column})
		case tabular.KindString:
			text := value.Text()
			if dayFirstTimestamp.MatchString(text) || isoTimestamp.MatchString(text) {
				specs = append(specs,
					columnSpec{name: column + "_date", sqlType: "TEXT", source: column, isDate: true},
					columnSpec{name: column + "_time", sqlType: "TEXT", source: column, isTime: true},
				)
			} else {
				specs = append(specs, columnSpec{name: column, sqlType: "TEXT", source: column})
			}
		default:
			specs = append(specs, columnSpec{name: column, sqlType: "TEXT", source: column})
		}
	}

	return specs
}

// bind produces the insert parameter for one target column of one row.
// Split columns parse the source timestamp, normalizing DD-MM-YYYY dates to
// ISO order; unparseable timestamps bind NULL.
func (c columnSpec) bind(row tabular.Row) any {
	if !c.isDate && !c.isTime {
		return row.Get(c.source).Any()
	}

	raw := row.Text(c.source)
	if raw == "" {
		return nil
	}

	matches := timestampExtractor.FindStringSubmatch(raw)
	if matches == nil {
		return nil
	}

	if c.isTime {
		return matches[3]
	}

	date := matches[1]
	if date == "" {
		parts := strings.Split(matches[2], "-")
		date = parts[2] + "-" + parts[1] + "-" + parts[0]
	}
	return date
}

// createTable builds and executes the CREATE TABLE statement for the planned
// columns.
func createTable(ctx context.Context, tx *sql.Tx, name string, specs []columnSpec) error {
	defs := make([]string, len(specs))
	for i, spec := range specs {
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(spec.name), spec.sqlType)
	}

	stmt := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (%s)",
		quoteIdent(name),
		strings.Join(defs, ", "),
	)

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("creating table %s: %w", name, err)
	}
	return nil
}

// insertRows inserts every row of the table through a prepared statement.
func insertRows(ctx context.Context, tx *sql.Tx, name string, specs []columnSpec, rows []tabular.Row) error {
	names := make([]string, len(specs))
	params := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = quoteIdent(spec.name)
		params[i] = "?"
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(name),
		strings.Join(names, ", "),
		strings.Join(params, ", "),
	))
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", name, err)
	}
	defer stmt.Close()

	args := make([]any, len(specs))
	for _, row := range rows {
		for i, spec := range specs {
			args[i] = spec.bind(row)
		}

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting into %s: %w", name, err)
		}
	}

	return nil
}

// ingestTable creates the table and loads all rows in one transaction.
func ingestTable(ctx context.Context, db *sql.DB, name string, table *tabular.Table) (int, error) {
	specs := planColumns(table)
	if len(specs) == 0 {
		return 0, ErrEmptyFile
	}

	return repository.WithTx(ctx, db, func(tx *sql.Tx) (int, error) {
		if err := createTable(ctx, tx, name, specs); err != nil {
			return 0, err
		}

		if err := insertRows(ctx, tx, name, specs, table.Rows); err != nil {
			return 0, err
		}

		return len(table.Rows), nil
	})
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
