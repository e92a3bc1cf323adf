// Package pool holds transactions accepted by the sequencer that have not yet been
// included in a batch.
//
// The pool is keyed by (sender, nonce): inserting a transaction whose key is already
// present replaces the earlier one. Drain hands every pending transaction to the
// caller and empties the pool in the same step.
//
// A Pool is not safe for concurrent use. It is owned by the sequencer, which is
// itself driven by a single event loop goroutine.
package pool

import "github.com/concave-dev/rollupd/internal/rollup"

// Pool is the set of pending transactions awaiting the next batch.
type Pool struct {
	pending map[rollup.PoolKey]rollup.Transaction
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{pending: make(map[rollup.PoolKey]rollup.Transaction)}
}

// Insert stores tx under its (sender, nonce) key, replacing any transaction already
// held under that key. It reports whether an existing entry was replaced.
func (p *Pool) Insert(tx rollup.Transaction) bool {
	key := tx.Key()
	_, replaced := p.pending[key]
	p.pending[key] = tx
	return replaced
}

// Get returns the transaction pending under key, if any.
func (p *Pool) Get(key rollup.PoolKey) (rollup.Transaction, bool) {
	tx, ok := p.pending[key]
	return tx, ok
}

// Size returns the number of distinct keys in the pool.
func (p *Pool) Size() int {
	return len(p.pending)
}

// Drain returns every pending transaction and leaves the pool empty. The order of
// the returned slice is unspecified.
func (p *Pool) Drain() []rollup.Transaction {
	txs := make([]rollup.Transaction, 0, len(p.pending))
	for _, tx := range p.pending {
		txs = append(txs, tx)
	}
	p.pending = make(map[rollup.PoolKey]rollup.Transaction)
	return txs
}
