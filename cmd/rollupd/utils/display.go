// Package utils contains utility functions for the rollupd daemon.
package utils

import (
	"fmt"
)

// DisplayLogo prints the rollupd ASCII logo with version information
func DisplayLogo(version string) {
	fmt.Println()
	fmt.Println(` ░░░░░░░░░░░░░░░░░░░░░░░░░░░░░
 ░█▀▄░█▀█░█░░░█░░░█░█░█▀█░█▀▄░
 ░█▀▄░█░█░█░░░█░░░█░█░█▀▀░█░█░
 ░▀░▀░▀▀▀░▀▀▀░▀▀▀░▀▀▀░▀░░░▀▀░░
 ░░░░░░░░░░░░░░░░░░░░░░░░░░░░░`)
	fmt.Printf("\n rollupd v%s - Rollup Sequencer Node\n", version)
	fmt.Println(" Pools transactions, cuts batches, keeps the height")
	fmt.Println()
}
