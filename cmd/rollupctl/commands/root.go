// Package commands defines the rollupctl command tree.
//
// COMMAND STRUCTURE:
//   - tx: submit and look up transactions (send, get)
//   - status: batching state of one node
//   - peers: gossip members as seen by one node
//
// Handlers are assigned by the main package so this package stays free of
// API client code.
package commands

import (
	"github.com/spf13/cobra"
)

// Root command
var RootCmd = &cobra.Command{
	Use:   "rollupctl",
	Short: "CLI tool for rollupd sequencer nodes",
	Long: `rollupctl talks to a rollupd node over its HTTP API to submit transactions
and inspect batching and peer state.`,
	SilenceUsage: true,
	Example: `  # Submit a transaction
  rollupctl tx send --sender=alice --recipient=bob --amount=100 --nonce=1

  # Look up a recorded transaction
  rollupctl tx get 5f0c...e1

  # Show node status as JSON
  rollupctl --api=10.0.0.5:3030 -o json status

  # List gossip peers
  rollupctl peers`,
}

// SetupCommands initializes all commands and their relationships
func SetupCommands() {
	RootCmd.AddCommand(txCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(peersCmd)
}

// SetupGlobalFlags configures all global persistent flags
func SetupGlobalFlags(rootCmd *cobra.Command, apiAddrPtr *string, logLevelPtr *string,
	timeoutPtr *int, outputPtr *string, defaultAPIAddr string, defaultTimeout int) {
	rootCmd.PersistentFlags().StringVar(apiAddrPtr, "api", defaultAPIAddr,
		"rollupd API address (host:port)")
	rootCmd.PersistentFlags().StringVar(logLevelPtr, "log-level", "ERROR",
		"Log level: DEBUG, INFO, WARN, ERROR")
	rootCmd.PersistentFlags().IntVar(timeoutPtr, "timeout", defaultTimeout,
		"Request timeout in seconds")
	rootCmd.PersistentFlags().StringVarP(outputPtr, "output", "o", "table",
		"Output format: table, json")
}
