// Package commands contains Cobra CLI command definitions for rollupd.
package commands

import (
	"github.com/concave-dev/rollupd/cmd/rollupd/config"
	"github.com/spf13/cobra"
)

// SetupFlags configures all command line flags for the start command
func SetupFlags(cmd *cobra.Command) {
	// Peer flags
	cmd.Flags().StringVar(&config.Global.PeerID, "peer-id", "",
		"Node name of the peer that RPC transactions are forwarded to\n"+
			"Must be given together with --peer-addr")
	cmd.Flags().StringVar(&config.Global.PeerAddr, "peer-addr", "",
		"Gossip address of the peer to join at startup (e.g., seq-b.internal:4300)\n"+
			"Must be given together with --peer-id")

	// Network flags
	cmd.Flags().StringVar(&config.Global.RPCAddr, "rpc", "",
		"Address and port for the JSON-RPC and HTTP API server (e.g., 127.0.0.1:3030)")
	cmd.Flags().StringVar(&config.Global.P2PAddr, "p2p", config.DefaultP2P,
		"Address and port for gossip networking (e.g., "+config.DefaultP2P+")\n"+
			"If the default port is busy the next free port is used")

	// Storage flags
	cmd.Flags().StringVar(&config.Global.DBPath, "db-path", "",
		"Path to the database file holding the block height and transactions")

	// Sequencer flags
	cmd.Flags().IntVar(&config.Global.RollupSize, "rollup-size", config.DefaultRollupSize,
		"Number of pooled transactions that triggers a batch")
	cmd.Flags().DurationVar(&config.Global.RollupInterval, "rollup-interval", config.DefaultRollupInterval,
		"Interval between timer batches, cut even when the pool is empty")

	// Settlement flags
	cmd.Flags().StringVar(&config.Global.SubmitURL, "submit-url", "",
		"HTTP endpoint that receives batches as JSON (batches are only logged when empty)")
	cmd.Flags().DurationVar(&config.Global.SubmitTimeout, "submit-timeout", config.DefaultSubmitTimeout,
		"Timeout for a single batch submission")

	// Operational flags
	cmd.Flags().StringVar(&config.Global.NodeName, "name", "",
		"Node name (defaults to generated name like 'steady-ledger')")
	cmd.Flags().StringVar(&config.Global.LogLevel, "log-level", config.DefaultLogLevel,
		"Log level: DEBUG, INFO, WARN, ERROR")
	cmd.Flags().StringVar(&config.Global.LogFile, "log-file", "",
		"Write logs to this file instead of stdout")

	_ = cmd.MarkFlagRequired("rpc")
	_ = cmd.MarkFlagRequired("db-path")
}

// CheckExplicitFlags checks if flags were explicitly set by the user
func CheckExplicitFlags(cmd *cobra.Command) {
	config.Global.SetExplicitlySet(config.P2PField, cmd.Flags().Changed("p2p"))
	config.Global.SetExplicitlySet(config.LogFileField, cmd.Flags().Changed("log-file"))
}
