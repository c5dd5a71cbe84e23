package datasets

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"tracklint/pkg/repository"
	"tracklint/pkg/tabular"
)

type tableDef struct {
	name string
	sql  string
}

// ingestSQLite copies every table of an uploaded SQLite database file into
// the in-memory store, replacing tables with matching names. The upload is
// staged to a temporary file so the driver can open it read-only.
func ingestSQLite(ctx context.Context, db *sql.DB, data []byte) ([]string, int, error) {
	staged, err := os.CreateTemp("", "tracklint-upload-*.sqlite")
	if err != nil {
		return nil, 0, fmt.Errorf("staging upload: %w", err)
	}
	defer os.Remove(staged.Name())

	if _, err := staged.Write(data); err != nil {
		staged.Close()
		return nil, 0, fmt.Errorf("staging upload: %w", err)
	}
	if err := staged.Close(); err != nil {
		return nil, 0, fmt.Errorf("staging upload: %w", err)
	}

	source, err := sql.Open("sqlite", "file:"+staged.Name()+"?mode=ro")
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	defer source.Close()

	defs, err := repository.QueryMany(ctx, source,
		"SELECT name, sql FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'", nil,
		func(s repository.Scanner) (tableDef, error) {
			var def tableDef
			err := s.Scan(&def.name, &def.sql)
			return def, err
		})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	var (
		names []string
		total int
	)

	for _, def := range defs {
		table, err := readTable(ctx, source, def.name)
		if err != nil {
			return nil, 0, err
		}

		rows, err := copyTable(ctx, db, def, table)
		if err != nil {
			return nil, 0, err
		}

		names = append(names, def.name)
		total += rows
	}

	return names, total, nil
}

// copyTable recreates one table from its original definition and loads its
// rows inside a transaction.
func copyTable(ctx context.Context, db *sql.DB, def tableDef, table *tabular.Table) (int, error) {
	return repository.WithTx(ctx, db, func(tx *sql.Tx) (int, error) {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(def.name)); err != nil {
			return 0, fmt.Errorf("replacing table %s: %w", def.name, err)
		}

		if _, err := tx.ExecContext(ctx, def.sql); err != nil {
			return 0, fmt.Errorf("creating table %s: %w", def.name, err)
		}

		if len(table.Rows) == 0 {
			return 0, nil
		}

		names := make([]string, len(table.Columns))
		params := make([]string, len(table.Columns))
		for i, column := range table.Columns {
			names[i] = quoteIdent(column)
			params[i] = "?"
		}

		stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s)",
			quoteIdent(def.name),
			strings.Join(names, ", "),
			strings.Join(params, ", "),
		))
		if err != nil {
			return 0, fmt.Errorf("preparing insert for %s: %w", def.name, err)
		}
		defer stmt.Close()

		args := make([]any, len(table.Columns))
		for _, row := range table.Rows {
			for i, column := range table.Columns {
				args[i] = row.Get(column).Any()
			}

			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return 0, fmt.Errorf("inserting into %s: %w", def.name, err)
			}
		}

		return len(table.Rows), nil
	})
}
