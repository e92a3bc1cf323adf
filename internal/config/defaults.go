// Package config provides default configuration values shared by the rollupd
// components (sequencer, RPC ingress, gossip transport, submission).
package config

import "time"

const (
	// DefaultBindAddr is the default bind address for network services.
	DefaultBindAddr = "0.0.0.0"

	// DefaultLogLevel is the default log level for all components.
	DefaultLogLevel = "INFO"

	// DefaultDataDir is the directory the default database file lives in.
	DefaultDataDir = "./data"

	// DefaultDBFile is the bolt database file name inside DefaultDataDir.
	DefaultDBFile = "rollup.db"

	// DefaultRPCPort serves JSON-RPC and the REST API.
	DefaultRPCPort = 3030

	// DefaultP2PPort is the gossip transport port.
	DefaultP2PPort = 4300

	// DefaultRollupSize is the pool size that triggers an immediate batch.
	DefaultRollupSize = 2

	// DefaultRollupInterval is the timer trigger period. The timer fires even
	// when the pool is empty.
	DefaultRollupInterval = 30 * time.Second

	// DefaultTxQueueSize is the capacity of the channel from RPC ingress to the
	// sequencer event loop.
	DefaultTxQueueSize = 32

	// DefaultNetworkQueueSize is the capacity of the channel from the gossip
	// transport to the sequencer event loop.
	DefaultNetworkQueueSize = 1024
)
