package display

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/concave-dev/rollupd/cmd/rollupctl/client"
	"github.com/concave-dev/rollupd/cmd/rollupctl/config"
	"github.com/holiman/uint256"
)

func capture(t *testing.T, output string) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prevOut, prevFormat := Output, config.Global.Output
	Output = buf
	config.Global.Output = output
	t.Cleanup(func() {
		Output = prevOut
		config.Global.Output = prevFormat
	})
	return buf
}

func TestDisplayTransactionTable(t *testing.T) {
	buf := capture(t, "table")

	res := &client.TransactionResult{Hash: "ab12"}
	res.Transaction.Sender = "alice"
	res.Transaction.Recipient = "bob"
	res.Transaction.Amount = *uint256.NewInt(1234567)
	res.Transaction.Nonce = 9

	DisplayTransaction(res)

	out := buf.String()
	for _, want := range []string{"ab12", "alice", "bob", "1,234,567", "9"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Memo") {
		t.Errorf("empty memo should be omitted:\n%s", out)
	}
}

func TestDisplayStatus(t *testing.T) {
	buf := capture(t, "table")

	DisplayStatus(&client.Status{
		NodeName: "seq-a",
		Version:  "0.1.0-dev",
		Node:     client.NodeStatus{Running: false, Height: 12000},
	})

	out := buf.String()
	for _, want := range []string{"seq-a", "stopped", "12,000", "never"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDisplayPeers(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		buf := capture(t, "table")
		DisplayPeers([]client.Peer{{
			Name: "seq-b", Addr: "10.0.0.2", Port: 4300, Status: "alive",
			Tags: map[string]string{"role": "sequencer"}, LastSeen: time.Now(),
		}})
		out := buf.String()
		if !strings.Contains(out, "NAME") || !strings.Contains(out, "10.0.0.2:4300") || !strings.Contains(out, "sequencer") {
			t.Errorf("unexpected table:\n%s", out)
		}
	})

	t.Run("empty_table", func(t *testing.T) {
		buf := capture(t, "table")
		DisplayPeers(nil)
		if !strings.Contains(buf.String(), "No peers found") {
			t.Errorf("unexpected output: %q", buf.String())
		}
	})

	t.Run("empty_json", func(t *testing.T) {
		buf := capture(t, "json")
		DisplayPeers(nil)
		var peers []client.Peer
		if err := json.Unmarshal(buf.Bytes(), &peers); err != nil {
			t.Fatalf("invalid JSON %q: %v", buf.String(), err)
		}
		if peers == nil || len(peers) != 0 {
			t.Errorf("expected empty array, got %q", buf.String())
		}
	})
}
