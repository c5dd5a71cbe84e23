// Package chat answers natural-language questions about ingested datasets by
// asking the reasoning service for a SQLite query and executing it against
// the in-memory store.
package chat

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"tracklint/internal/datasets"
	"tracklint/pkg/formatting"
	"tracklint/pkg/reasoner"
	"tracklint/pkg/tabular"
)

// maxResultRows caps the rows returned to the client for one question.
const maxResultRows = 100

const systemPromptTemplate = `You are an expert SQLite query writer. The user has a SQLite dataset.

%s

The schema is:

%s

Answer the user's question by describing steps, then output final SQL code (SQLite).`

// QueryCommand is one natural-language question, with optional freeform
// dataset context supplied by the user.
type QueryCommand struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

// QueryResult carries the generated SQL and its execution result. Truncated
// indicates the row cap was hit.
type QueryResult struct {
	SQL       string        `json:"sql"`
	Columns   []string      `json:"columns"`
	Rows      []tabular.Row `json:"rows"`
	Truncated bool          `json:"truncated"`
}

// SchemaSource supplies the ingested table definitions for prompt grounding.
type SchemaSource interface {
	Schema(ctx context.Context) ([]datasets.Table, error)
}

type service struct {
	db     *sql.DB
	schema SchemaSource
	client reasoner.Client
	logger *slog.Logger
}

// New creates the chat system.
func New(db *sql.DB, schema SchemaSource, client reasoner.Client, logger *slog.Logger) System {
	return &service{
		db:     db,
		schema: schema,
		client: client,
		logger: logger.With("system", "chat"),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

// Query translates the question to SQL through the reasoning service and
// executes it. The reply's first fenced code block is taken as the query;
// replies without a fence are executed as-is, matching how models sometimes
// answer with bare SQL.
func (s *service) Query(ctx context.Context, cmd QueryCommand) (*QueryResult, error) {
	if strings.TrimSpace(cmd.Question) == "" {
		return nil, ErrEmptyQuestion
	}

	tables, err := s.schema.Schema(ctx)
	if err != nil {
		return nil, err
	}

	if len(tables) == 0 {
		return nil, datasets.ErrNoTables
	}

	statements := make([]string, len(tables))
	for i, table := range tables {
		statements[i] = table.SQL
	}

	system := fmt.Sprintf(systemPromptTemplate, cmd.Context, strings.Join(statements, "\n\n"))

	reply, err := s.client.Ask(ctx, system, cmd.Question)
	if err != nil {
		return nil, err
	}

	query, _ := formatting.ExtractAnyFence(reply)
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNoQuery
	}

	s.logger.Info("executing generated query", "sql", query)

	result, err := s.execute(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	return result, nil
}

// execute runs the generated statement on a connection pinned to query_only,
// so a write slipping through the model cannot mutate the store. The pragma
// is cleared before the connection returns to the pool.
func (s *service) execute(ctx context.Context, query string) (*QueryResult, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return nil, err
	}
	defer conn.ExecContext(context.WithoutCancel(ctx), "PRAGMA query_only = OFF")

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &QueryResult{
		SQL:     query,
		Columns: columns,
		Rows:    make([]tabular.Row, 0),
	}

	values := make([]any, len(columns))
	targets := make([]any, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}

	for rows.Next() {
		if len(result.Rows) == maxResultRows {
			result.Truncated = true
			break
		}

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

		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
