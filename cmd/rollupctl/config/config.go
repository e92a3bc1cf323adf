// Package config provides configuration management for the rollupctl CLI.
package config

import "github.com/concave-dev/rollupd/internal/version"

const (
	DefaultAPIAddr = "127.0.0.1:3030" // Default rollupd RPC address (routable)
	DefaultTimeout = 8                // Default request timeout in seconds
)

// Version returns the current rollupctl CLI version from the centralized version package
var Version = version.RollupctlVersion

// Global holds the global CLI configuration
var Global struct {
	APIAddr  string // Address of the rollupd HTTP server
	LogLevel string // Log level for CLI operations
	Timeout  int    // Request timeout in seconds
	Output   string // Output format: table, json
}

// Tx holds the tx send flags
var Tx struct {
	Sender    string
	Recipient string
	Amount    string
	Nonce     uint64
	Memo      string
}
