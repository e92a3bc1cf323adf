package node

import (
	"fmt"
	"time"

	"github.com/concave-dev/rollupd/internal/config"
	"github.com/concave-dev/rollupd/internal/validate"
)

// Config holds the event loop settings.
type Config struct {
	// RollupInterval is the timer trigger period. A batch is cut on every tick,
	// including ticks that find the pool empty.
	RollupInterval time.Duration `json:"rollup_interval"`

	// Peer is the node name transactions received over RPC are forwarded to.
	// Empty disables forwarding.
	Peer string `json:"peer"`
}

// DefaultConfig returns a config with the default interval and no peer.
func DefaultConfig() *Config {
	return &Config{
		RollupInterval: config.DefaultRollupInterval,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validate.ValidatePositiveTimeout(c.RollupInterval, "rollup interval"); err != nil {
		return err
	}
	if c.Peer != "" {
		if err := validate.NodeNameFormat(c.Peer); err != nil {
			return fmt.Errorf("invalid peer: %w", err)
		}
	}
	return nil
}
