// Package display formats rollupctl output as tables or indented JSON,
// following the global --output flag.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/concave-dev/rollupd/cmd/rollupctl/client"
	"github.com/concave-dev/rollupd/cmd/rollupctl/config"
	"github.com/concave-dev/rollupd/cmd/rollupctl/utils"
	"github.com/concave-dev/rollupd/internal/logging"
	"github.com/dustin/go-humanize"
)

// Output is where display functions write. Tests swap it for a buffer.
var Output io.Writer = os.Stdout

func writeJSON(v any) {
	encoder := json.NewEncoder(Output)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		logging.Error("Failed to encode JSON: %v", err)
		fmt.Fprintln(Output, "Error encoding JSON output")
	}
}

// DisplaySubmitted prints the acknowledgement for a queued transaction.
func DisplaySubmitted(res *client.SubmitResult) {
	if config.Global.Output == "json" {
		writeJSON(res)
		return
	}

	fmt.Fprintf(Output, "Transaction queued\n")
	fmt.Fprintf(Output, "  Hash:   %s\n", res.Hash)
	fmt.Fprintf(Output, "  Sender: %s\n", res.Sender)
	fmt.Fprintf(Output, "  Nonce:  %d\n", res.Nonce)
}

// DisplayTransaction prints a recorded transaction.
func DisplayTransaction(res *client.TransactionResult) {
	if config.Global.Output == "json" {
		writeJSON(res)
		return
	}

	tx := res.Transaction
	w := tabwriter.NewWriter(Output, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Hash:\t%s\n", res.Hash)
	fmt.Fprintf(w, "Sender:\t%s\n", tx.Sender)
	fmt.Fprintf(w, "Recipient:\t%s\n", tx.Recipient)
	fmt.Fprintf(w, "Amount:\t%s\n", tx.Amount.PrettyDec(','))
	fmt.Fprintf(w, "Nonce:\t%s\n", humanize.Comma(int64(tx.Nonce)))
	if tx.Memo != "" {
		fmt.Fprintf(w, "Memo:\t%s\n", tx.Memo)
	}
}

// DisplayStatus prints a node's batching status.
func DisplayStatus(status *client.Status) {
	if config.Global.Output == "json" {
		writeJSON(status)
		return
	}

	state := "running"
	if !status.Node.Running {
		state = "stopped"
	}
	lastCut := "never"
	if !status.Node.LastCut.IsZero() {
		lastCut = humanize.Time(status.Node.LastCut)
	}
	peer := status.Node.Peer
	if peer == "" {
		peer = "-"
	}

	w := tabwriter.NewWriter(Output, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Node:\t%s (v%s)\n", status.NodeName, status.Version)
	fmt.Fprintf(w, "State:\t%s\n", state)
	fmt.Fprintf(w, "Uptime:\t%s\n", status.Uptime)
	fmt.Fprintf(w, "Height:\t%s\n", humanize.Comma(int64(status.Node.Height)))
	fmt.Fprintf(w, "Pending:\t%d\n", status.Node.PoolSize)
	fmt.Fprintf(w, "Batches:\t%s (last: %d txs, %s)\n",
		humanize.Comma(int64(status.Node.BatchesCut)), status.Node.LastBatchSize, lastCut)
	fmt.Fprintf(w, "Peer:\t%s\n", peer)
	fmt.Fprintf(w, "Members:\t%d\n", status.Members)
}

// DisplayPeers prints the gossip members of a node.
func DisplayPeers(peers []client.Peer) {
	if config.Global.Output == "json" {
		if peers == nil {
			peers = []client.Peer{}
		}
		writeJSON(peers)
		return
	}

	if len(peers) == 0 {
		fmt.Fprintln(Output, "No peers found")
		return
	}

	w := tabwriter.NewWriter(Output, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "NAME\tADDRESS\tSTATUS\tROLE\tLAST SEEN")
	for _, p := range peers {
		role := p.Tags["role"]
		if role == "" {
			role = "-"
		}
		lastSeen := "-"
		if !p.LastSeen.IsZero() {
			lastSeen = utils.FormatDuration(time.Since(p.LastSeen))
		}
		fmt.Fprintf(w, "%s\t%s:%d\t%s\t%s\t%s\n", p.Name, p.Addr, p.Port, p.Status, role, lastSeen)
	}
}
