// Package rollup defines the sequencer's data model: transactions, their
// canonical wire encoding and content hash, and the batches the sequencer cuts.
//
// A Transaction is an immutable value. Its canonical encoding is what peers
// gossip to each other and what the ledger stores; its content hash (SHA3-256 of
// the canonical encoding) is the ledger key. Two transactions from the same
// sender with the same nonce share a pool key, and the later one replaces the
// earlier one before a batch is cut.
package rollup

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

// HashLength is the size of a transaction content hash in bytes.
const HashLength = 32

// Field names used by FromFields and the RPC ingress.
const (
	FieldSender    = "sender"
	FieldRecipient = "recipient"
	FieldAmount    = "amount"
	FieldNonce     = "nonce"
	FieldMemo      = "memo"
)

// Hash is a transaction content hash.
type Hash [HashLength]byte

// Hex returns the lowercase hex form of the hash.
func (h Hash) Hex() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) String() string {
	return h.Hex()
}

// ParseHash decodes a 64-character hex string into a Hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("%w: invalid hash %q: %v", ErrDecode, s, err)
	}
	if len(b) != HashLength {
		return h, fmt.Errorf("%w: hash must be %d bytes, got %d", ErrDecode, HashLength, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// PoolKey identifies a pending transaction slot: one per (sender, nonce).
type PoolKey struct {
	Sender string
	Nonce  uint64
}

func (k PoolKey) String() string {
	return fmt.Sprintf("%s-%d", k.Sender, k.Nonce)
}

// Transaction is a value transfer submitted to the sequencer. Amount is an
// unsigned 128-bit quantity; values wider than 128 bits are rejected at every
// construction path.
type Transaction struct {
	Sender    string
	Recipient string
	Amount    uint256.Int
	Nonce     uint64
	Memo      string
}

// NewTransaction builds a transaction with an amount that fits in 64 bits.
// Use FromFields or set Amount directly for wider values.
func NewTransaction(sender, recipient string, amount, nonce uint64, memo string) Transaction {
	return Transaction{
		Sender:    sender,
		Recipient: recipient,
		Amount:    *uint256.NewInt(amount),
		Nonce:     nonce,
		Memo:      memo,
	}
}

// Key returns the pool key (sender, nonce).
func (t Transaction) Key() PoolKey {
	return PoolKey{Sender: t.Sender, Nonce: t.Nonce}
}

// Encode returns the canonical encoding of the transaction.
func (t Transaction) Encode() []byte {
	e := encoder{buf: make([]byte, 0, 32+len(t.Sender)+len(t.Recipient)+len(t.Memo)+2)}
	e.str(t.Sender)
	e.str(t.Recipient)
	e.u128(&t.Amount)
	e.u64(t.Nonce)
	e.str(t.Memo)
	return e.buf
}

// Decode parses the canonical encoding produced by Encode. All failures wrap
// ErrDecode.
func Decode(data []byte) (Transaction, error) {
	d := decoder{data: data}
	var (
		t   Transaction
		err error
	)

	if t.Sender, err = d.str(FieldSender); err != nil {
		return Transaction{}, err
	}
	if t.Recipient, err = d.str(FieldRecipient); err != nil {
		return Transaction{}, err
	}
	if t.Amount, err = d.u128(FieldAmount); err != nil {
		return Transaction{}, err
	}
	if t.Nonce, err = d.u64(FieldNonce); err != nil {
		return Transaction{}, err
	}
	if t.Memo, err = d.str(FieldMemo); err != nil {
		return Transaction{}, err
	}
	if err := d.finish(); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

// Hash returns the SHA3-256 digest of the canonical encoding.
func (t Transaction) Hash() Hash {
	return Hash(sha3.Sum256(t.Encode()))
}

// Equal reports field-for-field equality.
func (t Transaction) Equal(o Transaction) bool {
	return t == o
}

// FromFields builds a transaction from string-valued fields as received over
// RPC. Every field must be present; memo may be empty. amount is a base-10
// unsigned 128-bit integer and nonce a base-10 unsigned 64-bit integer.
func FromFields(fields map[string]string) (Transaction, error) {
	get := func(name string) (string, error) {
		v, ok := fields[name]
		if !ok {
			return "", fmt.Errorf("%w: missing field %q", ErrDecode, name)
		}
		return v, nil
	}

	var (
		t   Transaction
		err error
	)
	if t.Sender, err = get(FieldSender); err != nil {
		return Transaction{}, err
	}
	if t.Recipient, err = get(FieldRecipient); err != nil {
		return Transaction{}, err
	}
	amount, err := get(FieldAmount)
	if err != nil {
		return Transaction{}, err
	}
	if t.Amount, err = ParseAmount(amount); err != nil {
		return Transaction{}, err
	}
	nonce, err := get(FieldNonce)
	if err != nil {
		return Transaction{}, err
	}
	if t.Nonce, err = strconv.ParseUint(nonce, 10, 64); err != nil {
		return Transaction{}, fmt.Errorf("%w: field %q: %v", ErrDecode, FieldNonce, err)
	}
	if t.Memo, err = get(FieldMemo); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

// ParseAmount parses a base-10 amount and enforces the 128-bit bound.
func ParseAmount(s string) (uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return uint256.Int{}, fmt.Errorf("%w: field %q: %v", ErrDecode, FieldAmount, err)
	}
	if v.BitLen() > 128 {
		return uint256.Int{}, fmt.Errorf("%w: field %q exceeds 128 bits", ErrDecode, FieldAmount)
	}
	return *v, nil
}

// transactionJSON carries the amount as a decimal string so 128-bit values
// survive JSON number handling.
type transactionJSON struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	Nonce     uint64 `json:"nonce"`
	Memo      string `json:"memo"`
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		Sender:    t.Sender,
		Recipient: t.Recipient,
		Amount:    t.Amount.Dec(),
		Nonce:     t.Nonce,
		Memo:      t.Memo,
	})
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var aux transactionJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	amount := uint256.Int{}
	if aux.Amount != "" {
		var err error
		if amount, err = ParseAmount(aux.Amount); err != nil {
			return err
		}
	}

	*t = Transaction{
		Sender:    aux.Sender,
		Recipient: aux.Recipient,
		Amount:    amount,
		Nonce:     aux.Nonce,
		Memo:      aux.Memo,
	}
	return nil
}
