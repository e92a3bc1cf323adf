package rollup

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/holiman/uint256"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func maxAmount() uint256.Int {
	v := new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	v.SubUint64(v, 1)
	return *v
}

func TestEncodeKnownVector(t *testing.T) {
	tx := NewTransaction("alice", "bob", 10, 0, "")
	want := mustHex(t, "14616c6963650c626f620a000000000000000000000000000000000000000000000000")

	if got := tx.Encode(); !bytes.Equal(got, want) {
		t.Errorf("Encode() = %x, want %x", got, want)
	}

	wantHash := "0d7cf0dae6bf8212b6fcd2df42303ec606484fc758ae85eff54d32be438624f3"
	if got := tx.Hash().Hex(); got != wantHash {
		t.Errorf("Hash() = %s, want %s", got, wantHash)
	}
}

func TestCompactEncoding(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{0, "00"},
		{1, "04"},
		{63, "fc"},
		{64, "0101"},
		{16383, "fdff"},
		{16384, "02000100"},
		{1<<30 - 1, "feffffff"},
		{1 << 30, "0300000040"},
		{^uint64(0), "13ffffffffffffffff"},
	}

	for _, tt := range tests {
		var e encoder
		e.compact(tt.n)
		if got := hex.EncodeToString(e.buf); got != tt.want {
			t.Errorf("compact(%d) = %s, want %s", tt.n, got, tt.want)
		}

		d := decoder{data: e.buf}
		n, err := d.compact("value")
		if err != nil {
			t.Errorf("decode compact(%d): %v", tt.n, err)
			continue
		}
		if n != tt.n {
			t.Errorf("decode compact = %d, want %d", n, tt.n)
		}
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	long := strings.Repeat("m", 70000)
	txs := []Transaction{
		NewTransaction("alice", "bob", 10, 0, ""),
		NewTransaction("", "", 0, 0, ""),
		NewTransaction("carol", "dave", 1, ^uint64(0), "rent for march ✓"),
		{Sender: "eve", Recipient: "frank", Amount: maxAmount(), Nonce: 42, Memo: long},
	}

	for _, tx := range txs {
		got, err := Decode(tx.Encode())
		if err != nil {
			t.Fatalf("Decode(Encode(%s)) error: %v", tx.Key(), err)
		}
		if !got.Equal(tx) {
			t.Errorf("round trip mismatch for %s", tx.Key())
		}
		if got.Hash() != tx.Hash() {
			t.Errorf("hash changed across round trip for %s", tx.Key())
		}
	}
}

func TestHashDistinguishesFields(t *testing.T) {
	base := NewTransaction("alice", "bob", 10, 0, "")
	variants := []Transaction{
		NewTransaction("alice", "bob", 11, 0, ""),
		NewTransaction("alice", "bob", 10, 1, ""),
		NewTransaction("alice", "bob", 10, 0, "x"),
		NewTransaction("alicf", "bob", 10, 0, ""),
	}
	for _, v := range variants {
		if v.Hash() == base.Hash() {
			t.Errorf("hash collision between %+v and base", v)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	valid := NewTransaction("alice", "bob", 10, 0, "hi").Encode()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated amount", valid[:15]},
		{"truncated memo", valid[:len(valid)-1]},
		{"trailing bytes", append(append([]byte{}, valid...), 0x00)},
		{"length beyond input", []byte{0xfc, 'a'}},
		{"non-canonical length", []byte{0x01, 0x00}},
		{"invalid utf8", append([]byte{0x04, 0xff}, valid[6:]...)},
		{"oversized big-integer length", []byte{0xff, 1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrDecode) {
				t.Errorf("expected ErrDecode, got %v", err)
			}
		})
	}
}

func TestFromFields(t *testing.T) {
	full := func() map[string]string {
		return map[string]string{
			FieldSender:    "alice",
			FieldRecipient: "bob",
			FieldAmount:    "10",
			FieldNonce:     "0",
			FieldMemo:      "",
		}
	}

	tx, err := FromFields(full())
	if err != nil {
		t.Fatalf("FromFields: %v", err)
	}
	if !tx.Equal(NewTransaction("alice", "bob", 10, 0, "")) {
		t.Errorf("unexpected transaction %+v", tx)
	}

	big := full()
	big[FieldAmount] = "340282366920938463463374607431768211455"
	tx, err = FromFields(big)
	if err != nil {
		t.Fatalf("FromFields with max amount: %v", err)
	}
	if want := maxAmount(); tx.Amount != want {
		t.Errorf("amount = %s, want 2^128-1", tx.Amount.Dec())
	}

	tests := []struct {
		name   string
		mutate func(map[string]string)
		field  string
	}{
		{"missing sender", func(m map[string]string) { delete(m, FieldSender) }, FieldSender},
		{"missing memo", func(m map[string]string) { delete(m, FieldMemo) }, FieldMemo},
		{"negative amount", func(m map[string]string) { m[FieldAmount] = "-1" }, FieldAmount},
		{"amount too wide", func(m map[string]string) { m[FieldAmount] = "340282366920938463463374607431768211456" }, FieldAmount},
		{"non numeric amount", func(m map[string]string) { m[FieldAmount] = "ten" }, FieldAmount},
		{"nonce overflow", func(m map[string]string) { m[FieldNonce] = "18446744073709551616" }, FieldNonce},
		{"empty nonce", func(m map[string]string) { m[FieldNonce] = "" }, FieldNonce},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := full()
			tt.mutate(fields)
			_, err := FromFields(fields)
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("expected ErrDecode, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name field %q", err, tt.field)
			}
		})
	}
}

func TestTransactionJSON(t *testing.T) {
	tx := Transaction{Sender: "alice", Recipient: "bob", Amount: maxAmount(), Nonce: 3, Memo: "m"}

	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"amount":"340282366920938463463374607431768211455"`) {
		t.Errorf("amount not encoded as decimal string: %s", data)
	}

	var back Transaction
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(tx) {
		t.Errorf("JSON round trip mismatch: %+v", back)
	}

	if err := json.Unmarshal([]byte(`{"amount":"340282366920938463463374607431768211456"}`), &back); err == nil {
		t.Error("expected error for amount wider than 128 bits")
	}
}

func TestParseHash(t *testing.T) {
	h := NewTransaction("alice", "bob", 10, 0, "").Hash()

	parsed, err := ParseHash(h.Hex())
	if err != nil {
		t.Fatalf("ParseHash: %v", err)
	}
	if parsed != h {
		t.Error("ParseHash did not return the original hash")
	}

	for _, bad := range []string{"", "zz", "abcd"} {
		if _, err := ParseHash(bad); !errors.Is(err, ErrDecode) {
			t.Errorf("ParseHash(%q) = %v, want ErrDecode", bad, err)
		}
	}
}

func TestPoolKeyString(t *testing.T) {
	if got := NewTransaction("alice", "bob", 1, 7, "").Key().String(); got != "alice-7" {
		t.Errorf("Key().String() = %q, want alice-7", got)
	}
}
