package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvValidationBatchSize     = "TRACKLINT_VALIDATION_BATCH_SIZE"
	EnvValidationMaxInFlight   = "TRACKLINT_VALIDATION_MAX_IN_FLIGHT"
	EnvValidationPlatformField = "TRACKLINT_VALIDATION_PLATFORM_FIELD"
)

// ValidationConfig holds validation run parameters. BatchSize is the number
// of working rows sent per reasoning call; the default of 1 validates each
// track independently. MaxInFlight caps concurrent calls, 0 meaning
// unbounded. PlatformField names the rule table column used for grouping.
type ValidationConfig struct {
	BatchSize     int    `toml:"batch_size"`
	MaxInFlight   int    `toml:"max_in_flight"`
	PlatformField string `toml:"platform_field"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ValidationConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ValidationConfig) Merge(overlay *ValidationConfig) {
	if overlay.BatchSize != 0 {
		c.BatchSize = overlay.BatchSize
	}
	if overlay.MaxInFlight != 0 {
		c.MaxInFlight = overlay.MaxInFlight
	}
	if overlay.PlatformField != "" {
		c.PlatformField = overlay.PlatformField
	}
}

func (c *ValidationConfig) loadDefaults() {
	if c.BatchSize == 0 {
		c.BatchSize = 1
	}
	if c.PlatformField == "" {
		c.PlatformField = "DSP"
	}
}

func (c *ValidationConfig) loadEnv() {
	if v := os.Getenv(EnvValidationBatchSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BatchSize = n
		}
	}
	if v := os.Getenv(EnvValidationMaxInFlight); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxInFlight = n
		}
	}
	if v := os.Getenv(EnvValidationPlatformField); v != "" {
		c.PlatformField = v
	}
}

func (c *ValidationConfig) validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("invalid batch_size: %d", c.BatchSize)
	}
	if c.MaxInFlight < 0 {
		return fmt.Errorf("invalid max_in_flight: %d", c.MaxInFlight)
	}
	return nil
}
