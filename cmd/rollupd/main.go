// Package main implements the rollupd sequencer daemon.
package main

import (
	"os"

	"github.com/concave-dev/rollupd/cmd/rollupd/commands"
)

func main() {
	commands.SetupCommands()

	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
