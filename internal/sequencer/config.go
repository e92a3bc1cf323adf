package sequencer

import "fmt"

// DefaultRollupSize is the pool size at which a batch is cut on accept.
const DefaultRollupSize = 2

// Config holds the sequencer's batching threshold.
type Config struct {
	// RollupSize is the number of distinct (sender, nonce) keys that triggers
	// an immediate batch cut.
	RollupSize int `json:"rollup_size"`
}

// DefaultConfig returns the default sequencer configuration.
func DefaultConfig() *Config {
	return &Config{
		RollupSize: DefaultRollupSize,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.RollupSize < 1 {
		return fmt.Errorf("rollup size must be at least 1, got %d", c.RollupSize)
	}
	return nil
}
