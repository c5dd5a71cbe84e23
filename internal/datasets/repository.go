package datasets

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"tracklint/pkg/pagination"
	"tracklint/pkg/repository"
	"tracklint/pkg/tabular"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a dataset repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "datasets"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

// Ingest loads one uploaded file into the store, dispatching on its
// extension: delimited files become a single auto-typed table named after
// the file, SQLite databases contribute all of their tables.
func (r *repo) Ingest(ctx context.Context, filename string, data []byte) (*IngestResult, error) {
	switch {
	case hasExtension(filename, ".csv"):
		return r.ingestDSV(ctx, filename, data, ',')
	case hasExtension(filename, ".tsv"):
		return r.ingestDSV(ctx, filename, data, '\t')
	case hasExtension(filename, ".sqlite3", ".sqlite", ".db", ".s3db", ".sl3"):
		tables, rows, err := ingestSQLite(ctx, r.db, data)
		if err != nil {
			return nil, err
		}

		r.logger.Info("database ingested", "filename", filename, "tables", len(tables), "rows", rows)
		return &IngestResult{Filename: filename, Tables: tables, Rows: rows}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filename)
	}
}

func (r *repo) ingestDSV(ctx context.Context, filename string, data []byte, comma rune) (*IngestResult, error) {
	table, err := tabular.ParseDSV(strings.NewReader(string(data)), comma)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	if len(table.Rows) == 0 {
		return nil, ErrEmptyFile
	}

	name := TableName(filename)
	rows, err := ingestTable(ctx, r.db, name, table)
	if err != nil {
		return nil, err
	}

	r.logger.Info("dataset ingested", "filename", filename, "table", name, "rows", rows)
	return &IngestResult{Filename: filename, Tables: []string{name}, Rows: rows}, nil
}

// Schema lists every ingested table with its columns and row count.
func (r *repo) Schema(ctx context.Context) ([]Table, error) {
	defs, err := r.tableDefs(ctx)
	if err != nil {
		return nil, err
	}

	tables := make([]Table, 0, len(defs))
	for _, def := range defs {
		columns, err := r.columns(ctx, def.name)
		if err != nil {
			return nil, err
		}

		var count int
		countSQL := "SELECT COUNT(*) FROM " + quoteIdent(def.name)
		if err := r.db.QueryRowContext(ctx, countSQL).Scan(&count); err != nil {
			return nil, fmt.Errorf("counting %s: %w", def.name, err)
		}

		tables = append(tables, Table{
			Name:     def.name,
			SQL:      def.sql,
			Columns:  columns,
			RowCount: count,
		})
	}

	return tables, nil
}

// Rows returns one page of a table's rows.
func (r *repo) Rows(ctx context.Context, table string, page pagination.PageRequest) (*pagination.PageResult[tabular.Row], error) {
	page.Normalize(r.pagination)

	if err := r.requireTable(ctx, table); err != nil {
		return nil, err
	}

	var total int
	countSQL := "SELECT COUNT(*) FROM " + quoteIdent(table)
	if err := r.db.QueryRowContext(ctx, countSQL).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting %s: %w", table, err)
	}

	pageSQL := fmt.Sprintf(
		"SELECT * FROM %s LIMIT %d OFFSET %d",
		quoteIdent(table), page.PageSize, page.Offset(),
	)

	slice, err := readTableQuery(ctx, r.db, pageSQL)
	if err != nil {
		return nil, err
	}

	result := pagination.NewPageResult(slice.Rows, total, page.Page, page.PageSize)
	return &result, nil
}

// WorkingRows returns all rows of the named table, or of the first ingested
// table when the name is empty. The returned name identifies the table that
// was read.
func (r *repo) WorkingRows(ctx context.Context, table string) (string, *tabular.Table, error) {
	if table == "" {
		defs, err := r.tableDefs(ctx)
		if err != nil {
			return "", nil, err
		}
		if len(defs) == 0 {
			return "", nil, ErrNoTables
		}
		table = defs[0].name
	} else if err := r.requireTable(ctx, table); err != nil {
		return "", nil, err
	}

	read, err := readTable(ctx, r.db, table)
	if err != nil {
		return "", nil, err
	}

	return table, read, nil
}

// Export writes the table as CSV.
func (r *repo) Export(ctx context.Context, table string, w io.Writer) error {
	if err := r.requireTable(ctx, table); err != nil {
		return err
	}

	read, err := readTable(ctx, r.db, table)
	if err != nil {
		return err
	}

	return tabular.WriteCSV(w, read)
}

func (r *repo) tableDefs(ctx context.Context) ([]tableDef, error) {
	return repository.QueryMany(ctx, r.db,
		"SELECT name, sql FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'", nil,
		func(s repository.Scanner) (tableDef, error) {
			var def tableDef
			err := s.Scan(&def.name, &def.sql)
			return def, err
		})
}

func (r *repo) columns(ctx context.Context, table string) ([]Column, error) {
	return repository.QueryMany(ctx, r.db,
		"SELECT name, type, \"notnull\", pk FROM pragma_table_info(?)",
		[]any{table},
		func(s repository.Scanner) (Column, error) {
			var (
				column  Column
				notNull int
				pk      int
			)
			if err := s.Scan(&column.Name, &column.Type, &notNull, &pk); err != nil {
				return column, err
			}
			column.NotNull = notNull != 0
			column.PrimaryKey = pk != 0
			return column, nil
		})
}

// requireTable guards against interpolating unknown identifiers into SQL.
func (r *repo) requireTable(ctx context.Context, table string) error {
	_, err := repository.QueryOne(ctx, r.db,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?",
		[]any{table},
		func(s repository.Scanner) (string, error) {
			var name string
			err := s.Scan(&name)
			return name, err
		})

	return repository.MapError(err, fmt.Errorf("%w: %s", ErrTableNotFound, table), err)
}

// readTable reads every row of a table into a tagged-value Table.
func readTable(ctx context.Context, db *sql.DB, table string) (*tabular.Table, error) {
	return readTableQuery(ctx, db, "SELECT * FROM "+quoteIdent(table))
}

func readTableQuery(ctx context.Context, db *sql.DB, query string) (*tabular.Table, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	table := &tabular.Table{Columns: columns, Rows: make([]tabular.Row, 0)}

	values := make([]any, len(columns))
	targets := make([]any, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		row := make(tabular.Row, len(columns))
		for i, column := range columns {
			value, err := tabular.FromAny(values[i])
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", column, err)
			}
			row[column] = value
		}

		table.Rows = append(table.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return table, nil
}

func hasExtension(filename string, extensions ...string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
