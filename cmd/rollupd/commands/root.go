// Package commands provides the CLI command structure for the rollupd daemon.
//
// The root command only carries the logo and version. `rollupd start` runs the
// sequencer node: its PreRunE opens the optional log file, applies the log
// level and validates flags before daemon.Run takes over.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/concave-dev/rollupd/cmd/rollupd/config"
	"github.com/concave-dev/rollupd/cmd/rollupd/daemon"
	"github.com/concave-dev/rollupd/cmd/rollupd/utils"
	"github.com/concave-dev/rollupd/internal/logging"
	"github.com/concave-dev/rollupd/internal/version"
	"github.com/spf13/cobra"
)

// Global variable to track log file handle for cleanup
var logFileHandle *os.File

// CleanupLogFile closes the log file handle if it exists
func CleanupLogFile() {
	if logFileHandle != nil {
		if err := logFileHandle.Close(); err != nil {
			// Logging may point at the file being closed
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
		logFileHandle = nil
	}
}

// Root command for the rollupd daemon
var RootCmd = &cobra.Command{
	Use:   "rollupd",
	Short: "Rollup sequencer node",
	Long: `rollupd accepts transactions over JSON-RPC, pools them and cuts batches
when the pool reaches --rollup-size or every --rollup-interval.

Each batch advances the persisted block height. Transactions received over RPC
are forwarded to the configured peer sequencer over gossip.`,
	Version:      version.RollupdVersion,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.DisplayLogo(version.RollupdVersion)
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the sequencer node",
	Example: `  # Single node
  rollupd start --rpc=127.0.0.1:3030 --db-path=./data/a.db

  # Two nodes forwarding to each other
  rollupd start --name=seq-a --rpc=127.0.0.1:3030 --p2p=0.0.0.0:4300 --db-path=./data/a.db \
    --peer-id=seq-b --peer-addr=127.0.0.1:4301
  rollupd start --name=seq-b --rpc=127.0.0.1:3031 --p2p=0.0.0.0:4301 --db-path=./data/b.db \
    --peer-id=seq-a --peer-addr=127.0.0.1:4300

  # Submit batches to a settlement endpoint
  rollupd start --rpc=127.0.0.1:3030 --db-path=./data/a.db --submit-url=http://127.0.0.1:9000/batches`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		CheckExplicitFlags(cmd)

		if config.Global.IsExplicitlySet(config.LogFileField) && config.Global.LogFile != "" {
			logDir := filepath.Dir(config.Global.LogFile)
			if err := os.MkdirAll(logDir, 0755); err != nil {
				return fmt.Errorf("failed to create log directory %s: %w", logDir, err)
			}

			var err error
			logFileHandle, err = os.OpenFile(config.Global.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file %s: %w", config.Global.LogFile, err)
			}
			logging.SetOutput(logFileHandle)
		}

		// Applied before and after InitializeConfig so DEBUG=true takes effect
		logging.SetLevel(config.Global.LogLevel)
		config.InitializeConfig()
		logging.SetLevel(config.Global.LogLevel)

		if err := config.ValidateConfig(); err != nil {
			CleanupLogFile()
			return err
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer CleanupLogFile()
		return daemon.Run()
	},
}

// SetupCommands initializes all commands and their relationships
func SetupCommands() {
	SetupFlags(startCmd)
	RootCmd.AddCommand(startCmd)
}
