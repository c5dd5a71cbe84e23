// Package datastore provides in-memory SQLite connection management with
// lifecycle coordination. Uploaded datasets live in this database for the
// duration of the process.
package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"tracklint/pkg/lifecycle"
)

// System manages database connections and lifecycle coordination.
type System interface {
	// Connection returns the underlying database connection pool.
	Connection() *sql.DB
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type datastore struct {
	conn        *sql.DB
	logger      *slog.Logger
	connTimeout time.Duration
}

// New creates a datastore system with the given configuration.
// It calls sql.Open to validate the DSN and configure pool parameters,
// but does not establish a connection until Start is called.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("sqlite", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open datastore: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	// A shared-cache in-memory database is dropped once its last connection
	// closes. Keeping at least one idle connection pinned via MaxIdleConns
	// is not enough under load, so the pool never expires connections.
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	return &datastore{
		conn:        db,
		logger:      logger.With("system", "datastore"),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *datastore) Connection() *sql.DB {
	return d.conn
}

func (d *datastore) Start(lc *lifecycle.Coordinator) error {
	d.logger.Info("starting datastore connection")

	lc.OnStartup(func() {
		pingCtx, cancel := context.WithTimeout(lc.Context(), d.connTimeout)
		defer cancel()

		if err := d.conn.PingContext(pingCtx); err != nil {
			d.logger.Error("datastore ping failed", "error", err)
			return
		}

		d.logger.Info("datastore connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.logger.Info("closing datastore connection")

		if err := d.conn.Close(); err != nil {
			d.logger.Error("datastore close failed", "error", err)
			return
		}

		d.logger.Info("datastore connection closed")
	})

	return nil
}
