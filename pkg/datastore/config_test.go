package datastore_test

import (
	"testing"

	"tracklint/pkg/datastore"
)

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := datastore.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Name != "tracklint" {
		t.Errorf("name: got %s, want tracklint", cfg.Name)
	}
	if cfg.MaxOpenConns != 4 {
		t.Errorf("max_open_conns: got %d, want 4", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns != 2 {
		t.Errorf("max_idle_conns: got %d, want 2", cfg.MaxIdleConns)
	}
	if cfg.ConnTimeout != "5s" {
		t.Errorf("conn_timeout: got %s, want 5s", cfg.ConnTimeout)
	}
}

func TestConfigFinalizeEnv(t *testing.T) {
	t.Setenv("TEST_DB_NAME", "workbench")
	t.Setenv("TEST_DB_MAX_OPEN", "8")

	env := &datastore.Env{
		Name:         "TEST_DB_NAME",
		MaxOpenConns: "TEST_DB_MAX_OPEN",
	}

	cfg := datastore.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Name != "workbench" {
		t.Errorf("name: got %s, want workbench", cfg.Name)
	}
	if cfg.MaxOpenConns != 8 {
		t.Errorf("max_open_conns: got %d, want 8", cfg.MaxOpenConns)
	}
}

func TestConfigValidateTimeout(t *testing.T) {
	cfg := datastore.Config{ConnTimeout: "whenever"}
	if err := cfg.Finalize(nil); err == nil {
		t.Error("expected error for invalid conn_timeout")
	}
}

func TestConfigDsn(t *testing.T) {
	cfg := datastore.Config{Name: "workbench"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	want := "file:workbench?mode=memory&cache=shared"
	if got := cfg.Dsn(); got != want {
		t.Errorf("dsn: got %s, want %s", got, want)
	}
}

func TestConfigMerge(t *testing.T) {
	base := datastore.Config{Name: "tracklint", MaxOpenConns: 4, MaxIdleConns: 2, ConnTimeout: "5s"}
	overlay := datastore.Config{Name: "workbench", ConnTimeout: "10s"}

	base.Merge(&overlay)

	if base.Name != "workbench" {
		t.Errorf("name: got %s, want workbench", base.Name)
	}
	if base.ConnTimeout != "10s" {
		t.Errorf("conn_timeout: got %s, want 10s", base.ConnTimeout)
	}
	if base.MaxOpenConns != 4 {
		t.Errorf("max_open_conns: got %d, want 4", base.MaxOpenConns)
	}
}
