package commands

import (
	"github.com/spf13/cobra"
)

// Tx command group
var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Submit and look up transactions",
}

// Tx send command
var txSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction to the node",
	Long: `Submit a transaction to the node's pool. A later transaction with the same
sender and nonce replaces a pending one.`,
	Args: cobra.NoArgs,
}

// Tx get command
var txGetCmd = &cobra.Command{
	Use:   "get <hash>",
	Short: "Show a recorded transaction",
	Long:  "Look up a transaction by its 32-byte hex hash. Only transactions already cut into a batch are recorded.",
	Args:  cobra.ExactArgs(1),
}

// SetupTxCommands initializes tx commands
func SetupTxCommands() {
	txCmd.AddCommand(txSendCmd)
	txCmd.AddCommand(txGetCmd)
}

// SetupTxFlags configures the tx send flags
func SetupTxFlags(sendCmd *cobra.Command, sender, recipient, amount *string, nonce *uint64, memo *string) {
	sendCmd.Flags().StringVar(sender, "sender", "", "Sender account")
	sendCmd.Flags().StringVar(recipient, "recipient", "", "Recipient account")
	sendCmd.Flags().StringVar(amount, "amount", "", "Amount as a base-10 integer (up to 128 bits)")
	sendCmd.Flags().Uint64Var(nonce, "nonce", 0, "Sender nonce")
	sendCmd.Flags().StringVar(memo, "memo", "", "Optional memo")

	sendCmd.MarkFlagRequired("sender")
	sendCmd.MarkFlagRequired("recipient")
	sendCmd.MarkFlagRequired("amount")
	sendCmd.MarkFlagRequired("nonce")
}

// GetTxCommands returns the tx command structures for handler assignment
func GetTxCommands() (*cobra.Command, *cobra.Command) {
	return txSendCmd, txGetCmd
}
