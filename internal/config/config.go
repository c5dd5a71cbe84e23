// Package config loads and finalizes the service configuration from TOML
// files and environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"tracklint/pkg/datastore"
	"tracklint/pkg/reasoner"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvTracklintEnv             = "TRACKLINT_ENV"
	EnvTracklintShutdownTimeout = "TRACKLINT_SHUTDOWN_TIMEOUT"
	EnvTracklintVersion         = "TRACKLINT_VERSION"
)

var datastoreEnv = &datastore.Env{
	Name:         "TRACKLINT_DB_NAME",
	MaxOpenConns: "TRACKLINT_DB_MAX_OPEN_CONNS",
	MaxIdleConns: "TRACKLINT_DB_MAX_IDLE_CONNS",
	ConnTimeout:  "TRACKLINT_DB_CONN_TIMEOUT",
}

var reasonerEnv = &reasoner.Env{
	BaseURL: "TRACKLINT_REASONER_BASE_URL",
	Token:   "TRACKLINT_REASONER_TOKEN",
	Model:   "TRACKLINT_REASONER_MODEL",
	Timeout: "TRACKLINT_REASONER_TIMEOUT",
}

// Config is the root configuration for the tracklint service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Datastore       datastore.Config `toml:"datastore"`
	Reasoner        reasoner.Config  `toml:"reasoner"`
	Validation      ValidationConfig `toml:"validation"`
	API             APIConfig        `toml:"api"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the TRACKLINT_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvTracklintEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Datastore.Merge(&overlay.Datastore)
	c.Reasoner.Merge(&overlay.Reasoner)
	c.Validation.Merge(&overlay.Validation)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Datastore.Finalize(datastoreEnv); err != nil {
		return fmt.Errorf("datastore: %w", err)
	}
	if err := c.Reasoner.Finalize(reasonerEnv); err != nil {
		return fmt.Errorf("reasoner: %w", err)
	}
	if err := c.Validation.Finalize(); err != nil {
		return fmt.Errorf("validation: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvTracklintShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvTracklintVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvTracklintEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
