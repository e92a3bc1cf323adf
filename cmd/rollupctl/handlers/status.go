package handlers

import (
	"github.com/concave-dev/rollupd/cmd/rollupctl/client"
	"github.com/concave-dev/rollupd/cmd/rollupctl/config"
	"github.com/concave-dev/rollupd/cmd/rollupctl/display"
	"github.com/concave-dev/rollupd/cmd/rollupctl/utils"
	"github.com/concave-dev/rollupd/internal/logging"
	"github.com/spf13/cobra"
)

// HandleStatus shows the node's batching status.
func HandleStatus(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()
	logging.Info("Fetching status from %s", config.Global.APIAddr)

	status, err := client.CreateAPIClient().GetStatus()
	if err != nil {
		return err
	}

	display.DisplayStatus(status)
	return nil
}

// HandlePeers lists the node's gossip members.
func HandlePeers(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()
	logging.Info("Fetching peers from %s", config.Global.APIAddr)

	peers, err := client.CreateAPIClient().GetPeers()
	if err != nil {
		return err
	}

	display.DisplayPeers(peers)
	logging.Success("Retrieved %d peers", len(peers))
	return nil
}
