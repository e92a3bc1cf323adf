// Package utils provides utility functions for the rollupctl CLI.
package utils

import (
	"os"

	"github.com/concave-dev/rollupd/cmd/rollupctl/config"
	"github.com/concave-dev/rollupd/internal/logging"
)

// SetupLogging configures CLI logging. Only errors are shown unless DEBUG=true
// or a more verbose --log-level was given.
func SetupLogging() {
	level := config.Global.LogLevel
	if os.Getenv("DEBUG") == "true" {
		level = "DEBUG"
	}

	if level == "ERROR" {
		logging.SuppressOutput()
		return
	}
	logging.RestoreOutput()
	logging.SetLevel(level)
}
