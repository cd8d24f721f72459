package leadsync

import (
	"fmt"
	"strings"

	"github.com/ofranc1208/leadsync/types"
)

// Config is the configuration for the assignment engine and its facade.
type Config struct {
	// RepCapacity is the fixed cap on live assignments per rep. An
	// assignment that would push a rep's queue past this cap is rejected
	// with ErrRepCapacityExceeded, never queued or retried.
	RepCapacity int `yaml:"repCapacity"`

	// ChannelName is the logical broadcast channel shared by every tab of
	// one dashboard session. All tabs must use the same name to see each
	// other's updates. Must not contain spaces or NATS subject tokens
	// (".", "*", ">").
	ChannelName string `yaml:"channelName"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		RepCapacity: 10,
		ChannelName: "lead-dashboard-sync",
	}
}

// SetDefaults fills in missing configuration values with defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.RepCapacity == 0 {
		cfg.RepCapacity = defaults.RepCapacity
	}
	if cfg.ChannelName == "" {
		cfg.ChannelName = defaults.ChannelName
	}
}

// Validate checks configuration constraints and returns an error for invalid
// values.
//
// Rules:
//   - RepCapacity must be positive
//   - ChannelName must be non-empty and free of spaces and subject tokens
//
// Returns:
//   - error: Validation error wrapping types.ErrInvalidConfig, nil if valid
func (cfg *Config) Validate() error {
	if cfg.RepCapacity <= 0 {
		return fmt.Errorf("%w: RepCapacity must be > 0, got %d", types.ErrInvalidConfig, cfg.RepCapacity)
	}
	if cfg.ChannelName == "" {
		return fmt.Errorf("%w: ChannelName is required", types.ErrInvalidConfig)
	}
	if strings.ContainsAny(cfg.ChannelName, " .*>") {
		return fmt.Errorf("%w: ChannelName %q must not contain spaces or subject tokens", types.ErrInvalidConfig, cfg.ChannelName)
	}

	return nil
}
