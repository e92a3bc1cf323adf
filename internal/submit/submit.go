// Package submit hands cut batches to the settlement layer.
//
// The sequencer treats submission as fire-and-forget: a Submitter either delivers
// a batch or returns an error, and the node logs and counts the failure without
// retrying. Two implementations exist. LogSubmitter only reports the batch, which
// is all a node without a settlement endpoint can do. HTTPSubmitter POSTs the batch
// as JSON to a configured endpoint.
package submit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/concave-dev/rollupd/internal/logging"
	"github.com/concave-dev/rollupd/internal/rollup"
	"github.com/concave-dev/rollupd/internal/validate"
)

// DefaultTimeout bounds a single HTTP submission attempt.
const DefaultTimeout = 10 * time.Second

// Submitter delivers a batch to the settlement layer.
type Submitter interface {
	Submit(ctx context.Context, batch *rollup.Batch) error
}

// Config selects and configures the submitter.
type Config struct {
	// URL of the settlement endpoint. Empty selects the LogSubmitter.
	URL string

	// Timeout per HTTP request.
	Timeout time.Duration

	// RetryCount applies to failed dials only. Timeouts and non-2xx responses
	// are never retried. Zero disables retries.
	RetryCount int
}

// DefaultConfig returns a configuration that logs batches only.
func DefaultConfig() *Config {
	return &Config{
		Timeout: DefaultTimeout,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.URL != "" {
		if err := validate.ValidateURL(c.URL, "submit url"); err != nil {
			return err
		}
	}
	if c.Timeout <= 0 {
		return errors.New("submit timeout must be positive")
	}
	if c.RetryCount < 0 {
		return fmt.Errorf("submit retry count must be non-negative, got %d", c.RetryCount)
	}
	return nil
}

// New returns the submitter selected by cfg.
func New(cfg *Config) (Submitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.URL == "" {
		return NewLogSubmitter(""), nil
	}
	return NewHTTPSubmitter(cfg), nil
}

// LogSubmitter reports each batch in the log and always succeeds.
type LogSubmitter struct {
	target string
}

// NewLogSubmitter creates a LogSubmitter. target only labels the log line.
func NewLogSubmitter(target string) *LogSubmitter {
	if target == "" {
		target = "log"
	}
	return &LogSubmitter{target: target}
}

// Submit logs the batch.
func (s *LogSubmitter) Submit(_ context.Context, batch *rollup.Batch) error {
	logging.Success("Submitted batch %d with %d transactions via %s (%s trigger)",
		batch.Height, batch.Len(), s.target, batch.Trigger)
	return nil
}
