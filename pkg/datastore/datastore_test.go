package datastore_test

import (
	"log/slog"
	"testing"
	"time"

	"tracklint/pkg/datastore"
	"tracklint/pkg/lifecycle"
)

func newConfig(t *testing.T) *datastore.Config {
	t.Helper()

	cfg := &datastore.Config{Name: t.Name()}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	return cfg
}

func TestStartAndShutdown(t *testing.T) {
	sys, err := datastore.New(newConfig(t), slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	lc.WaitForStartup()

	if err := sys.Connection().Ping(); err != nil {
		t.Errorf("ping after startup failed: %v", err)
	}

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	if err := sys.Connection().Ping(); err == nil {
		t.Error("connection should be closed after shutdown")
	}
}

func TestDataSurvivesConnectionChurn(t *testing.T) {
	sys, err := datastore.New(newConfig(t), slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	t.Cleanup(func() { sys.Connection().Close() })

	db := sys.Connection()

	if _, err := db.Exec("CREATE TABLE marker (n INTEGER)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO marker (n) VALUES (42)"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var n int
	if err := db.QueryRow("SELECT n FROM marker").Scan(&n); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if n != 42 {
		t.Errorf("got %d, want 42", n)
	}
}
