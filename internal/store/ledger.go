package store

import (
	"encoding/binary"
	"fmt"

	"github.com/concave-dev/rollupd/internal/logging"
	"github.com/concave-dev/rollupd/internal/rollup"
)

// HeightKey is the reserved key holding the current batch height. It cannot
// collide with a transaction record, whose keys are 32-byte hashes.
var HeightKey = []byte("current block height")

// heightWidth is the stored height encoding: a fixed-width little-endian u64.
const heightWidth = 8

// Ledger writes accepted transactions and the batch height counter to a KV.
// Every error it returns wraps rollup.ErrStorage.
type Ledger struct {
	kv KV
}

// NewLedger wraps kv.
func NewLedger(kv KV) *Ledger {
	return &Ledger{kv: kv}
}

// Height returns the persisted batch height. An absent key reads as 0. A stored
// value shorter than 8 bytes also reads as 0 and is reported at WARN; a longer one
// is decoded from its first 8 bytes. Only a failing store read is returned as an
// error.
func (l *Ledger) Height() (uint64, error) {
	value, err := l.kv.Get(HeightKey)
	if err != nil {
		return 0, fmt.Errorf("%w: read height: %w", rollup.ErrStorage, err)
	}
	if value == nil {
		return 0, nil
	}
	if len(value) < heightWidth {
		logging.Warn("Stored batch height is %d bytes, expected %d; treating height as 0", len(value), heightWidth)
		return 0, nil
	}
	if len(value) > heightWidth {
		logging.Warn("Stored batch height is %d bytes, ignoring the trailing %d", len(value), len(value)-heightWidth)
	}
	return binary.LittleEndian.Uint64(value[:heightWidth]), nil
}

// SetHeight overwrites the persisted batch height.
func (l *Ledger) SetHeight(h uint64) error {
	if err := l.kv.Put(HeightKey, binary.LittleEndian.AppendUint64(nil, h)); err != nil {
		return fmt.Errorf("%w: write height %d: %w", rollup.ErrStorage, h, err)
	}
	return nil
}

// RecordTransaction stores the canonical encoding of tx under its content hash.
// Recording the same transaction twice writes the same record.
func (l *Ledger) RecordTransaction(tx rollup.Transaction) error {
	hash := tx.Hash()
	if err := l.kv.Put(hash[:], tx.Encode()); err != nil {
		return fmt.Errorf("%w: record transaction %s: %w", rollup.ErrStorage, hash.Hex(), err)
	}
	return nil
}

// Transaction reads back the record stored under hash. The boolean is false when
// no such record exists.
func (l *Ledger) Transaction(hash rollup.Hash) (rollup.Transaction, bool, error) {
	value, err := l.kv.Get(hash[:])
	if err != nil {
		return rollup.Transaction{}, false, fmt.Errorf("%w: read transaction %s: %w", rollup.ErrStorage, hash.Hex(), err)
	}
	if value == nil {
		return rollup.Transaction{}, false, nil
	}

	tx, err := rollup.Decode(value)
	if err != nil {
		return rollup.Transaction{}, false, fmt.Errorf("%w: transaction %s: %w", rollup.ErrStorage, hash.Hex(), err)
	}
	return tx, true, nil
}
