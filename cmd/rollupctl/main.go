// Package main provides the entry point for the rollupd operator CLI (rollupctl).
package main

import (
	"os"

	"github.com/concave-dev/rollupd/cmd/rollupctl/commands"
	"github.com/concave-dev/rollupd/cmd/rollupctl/config"
	"github.com/concave-dev/rollupd/cmd/rollupctl/handlers"
)

func init() {
	rootCmd := commands.RootCmd

	rootCmd.Version = config.Version
	rootCmd.PersistentPreRunE = config.ValidateGlobalFlags

	commands.SetupCommands()
	commands.SetupTxCommands()

	commands.SetupGlobalFlags(rootCmd, &config.Global.APIAddr, &config.Global.LogLevel,
		&config.Global.Timeout, &config.Global.Output, config.DefaultAPIAddr, config.DefaultTimeout)

	txSendCmd, _ := commands.GetTxCommands()
	commands.SetupTxFlags(txSendCmd, &config.Tx.Sender, &config.Tx.Recipient,
		&config.Tx.Amount, &config.Tx.Nonce, &config.Tx.Memo)

	setupCommandHandlers()
}

// setupCommandHandlers assigns RunE functions to commands
func setupCommandHandlers() {
	txSendCmd, txGetCmd := commands.GetTxCommands()
	statusCmd, peersCmd := commands.GetInfoCommands()

	txSendCmd.RunE = handlers.HandleTxSend
	txGetCmd.RunE = handlers.HandleTxGet
	statusCmd.RunE = handlers.HandleStatus
	peersCmd.RunE = handlers.HandlePeers
}

func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
