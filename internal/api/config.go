package api

import (
	"fmt"
	"time"

	"github.com/concave-dev/rollupd/internal/api/handlers"
	"github.com/concave-dev/rollupd/internal/config"
	"github.com/concave-dev/rollupd/internal/rollup"
	"github.com/concave-dev/rollupd/internal/validate"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultEnqueueTimeout bounds how long a request waits for space in the
// sequencer's transaction queue.
const DefaultEnqueueTimeout = 5 * time.Second

// Config wires the HTTP server to the node. Transactions, Ledger and Status are
// required; Peers and Gatherer are optional.
type Config struct {
	BindAddr string // HTTP server bind address (e.g., "127.0.0.1")
	BindPort int    // HTTP server bind port; 0 picks a free port
	NodeName string

	EnqueueTimeout time.Duration

	Transactions chan<- rollup.Transaction // Sequencer event loop input
	Ledger       handlers.TransactionReader
	Status       handlers.StatusFunc
	Peers        handlers.PeersFunc
	Gatherer     prometheus.Gatherer // Defaults to prometheus.DefaultGatherer
}

// DefaultConfig returns a loopback config on the default RPC port. The
// node-facing fields must be set by the caller.
func DefaultConfig() *Config {
	return &Config{
		BindAddr:       "127.0.0.1",
		BindPort:       config.DefaultRPCPort,
		EnqueueTimeout: DefaultEnqueueTimeout,
	}
}

// Validate checks network settings and that the node-facing fields are set.
func (c *Config) Validate() error {
	if err := validate.ValidateField(c.BindAddr, "required,ip"); err != nil {
		return fmt.Errorf("invalid bind address '%s'", c.BindAddr)
	}
	if err := validate.ValidateField(c.BindPort, "min=0,max=65535"); err != nil {
		return fmt.Errorf("invalid bind port %d", c.BindPort)
	}
	if err := validate.ValidatePositiveTimeout(c.EnqueueTimeout, "enqueue timeout"); err != nil {
		return err
	}
	if c.Transactions == nil {
		return fmt.Errorf("transaction queue cannot be nil")
	}
	if c.Ledger == nil {
		return fmt.Errorf("ledger cannot be nil")
	}
	if c.Status == nil {
		return fmt.Errorf("status source cannot be nil")
	}
	return nil
}
