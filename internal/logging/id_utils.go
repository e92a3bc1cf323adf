package logging

import "github.com/charmbracelet/log"

// shortHashLen is the number of hex characters kept when a hash is shown
// outside debug logging.
const shortHashLen = 12

// FormatHash formats a hex transaction hash for logging. At DEBUG level the full
// hash is returned so records can be looked up in the ledger; otherwise it is
// truncated to keep INFO lines readable.
//
// Usage: logging.Info("Accepted transaction %s", logging.FormatHash(tx.Hash().Hex()))
func FormatHash(hash string) string {
	if stderrLogger.GetLevel() <= log.DebugLevel {
		return hash
	}
	if len(hash) <= shortHashLen {
		return hash
	}
	return hash[:shortHashLen]
}
