package commands

import (
	"github.com/spf13/cobra"
)

// Status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the node's batching status",
	Long:  "Show block height, pending pool size, batch counters and the forwarding peer.",
	Args:  cobra.NoArgs,
}

// Peers command
var peersCmd = &cobra.Command{
	Use:   "peers",
	Short: "List gossip members",
	Args:  cobra.NoArgs,
}

// GetInfoCommands returns the status and peers commands for handler assignment
func GetInfoCommands() (*cobra.Command, *cobra.Command) {
	return statusCmd, peersCmd
}
