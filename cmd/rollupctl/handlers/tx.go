package handlers

import (
	"strconv"

	"github.com/concave-dev/rollupd/cmd/rollupctl/client"
	"github.com/concave-dev/rollupd/cmd/rollupctl/config"
	"github.com/concave-dev/rollupd/cmd/rollupctl/display"
	"github.com/concave-dev/rollupd/cmd/rollupctl/utils"
	"github.com/concave-dev/rollupd/internal/logging"
	"github.com/concave-dev/rollupd/internal/rollup"
	"github.com/spf13/cobra"
)

// HandleTxSend submits the transaction described by the tx send flags.
func HandleTxSend(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	// Validate locally with the node's own parser before the round trip
	if _, err := rollup.ParseAmount(config.Tx.Amount); err != nil {
		return err
	}

	req := client.SubmitRequest{
		Sender:    config.Tx.Sender,
		Recipient: config.Tx.Recipient,
		Amount:    config.Tx.Amount,
		Nonce:     strconv.FormatUint(config.Tx.Nonce, 10),
		Memo:      config.Tx.Memo,
	}

	logging.Info("Submitting transaction from %s (nonce %s) to %s", req.Sender, req.Nonce, config.Global.APIAddr)

	res, err := client.CreateAPIClient().SubmitTransaction(req)
	if err != nil {
		return err
	}

	display.DisplaySubmitted(res)
	logging.Success("Transaction %s queued", logging.FormatHash(res.Hash))
	return nil
}

// HandleTxGet shows a recorded transaction by hash.
func HandleTxGet(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	// args[0] is safe - argument count enforced by cobra.ExactArgs
	hash, err := rollup.ParseHash(args[0])
	if err != nil {
		return err
	}

	logging.Info("Fetching transaction %s from %s", logging.FormatHash(hash.Hex()), config.Global.APIAddr)

	res, err := client.CreateAPIClient().GetTransaction(hash.Hex())
	if err != nil {
		return err
	}

	display.DisplayTransaction(res)
	return nil
}
