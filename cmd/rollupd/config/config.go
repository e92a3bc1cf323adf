// Package config holds the rollupd daemon configuration filled from command line
// flags, and validates it before the daemon starts.
//
// EXPLICIT OVERRIDE TRACKING:
// Some behavior depends on whether the operator set a flag. The log file is only
// opened when --log-file was given. When --p2p is left at its default and that
// port is busy, the daemon moves to the next free port; an explicit --p2p port
// must bind as given.
package config

import (
	"time"

	configDefaults "github.com/concave-dev/rollupd/internal/config"
)

// ConfigField identifies a flag whose explicit use is tracked.
type ConfigField int

const (
	P2PField ConfigField = iota
	LogFileField
)

const (
	DefaultP2P            = configDefaults.DefaultBindAddr + ":4300"
	DefaultLogLevel       = configDefaults.DefaultLogLevel
	DefaultRollupSize     = configDefaults.DefaultRollupSize
	DefaultRollupInterval = configDefaults.DefaultRollupInterval
	DefaultSubmitTimeout  = 10 * time.Second
)

// Config holds all daemon configuration values
type Config struct {
	PeerID   string // Node name of the peer RPC transactions are forwarded to
	PeerAddr string // host:port of the peer's gossip endpoint, joined at startup

	RPCAddr string // JSON-RPC and REST API bind address (from --rpc)
	RPCPort int

	P2PAddr string // Gossip bind address (from --p2p)
	P2PPort int

	DBPath   string // Bolt database file
	NodeName string // Gossip node name; generated when empty

	RollupSize     int
	RollupInterval time.Duration

	SubmitURL     string // Settlement endpoint; batches are only logged when empty
	SubmitTimeout time.Duration

	LogLevel string
	LogFile  string

	p2pExplicitlySet     bool
	logFileExplicitlySet bool
}

// Global configuration instance
var Global Config

// SetExplicitlySet marks a configuration field as explicitly set by the user.
func (c *Config) SetExplicitlySet(field ConfigField, value bool) {
	switch field {
	case P2PField:
		c.p2pExplicitlySet = value
	case LogFileField:
		c.logFileExplicitlySet = value
	}
}

// IsExplicitlySet returns whether a configuration field was explicitly set by the user.
func (c *Config) IsExplicitlySet(field ConfigField) bool {
	switch field {
	case P2PField:
		return c.p2pExplicitlySet
	case LogFileField:
		return c.logFileExplicitlySet
	}
	return false
}

// HasPeer reports whether a forwarding peer is configured.
func (c *Config) HasPeer() bool {
	return c.PeerID != ""
}
