// Package sequencer implements the rollup sequencer state machine: a pending pool
// of transactions, a durable batch height counter, and the policy that cuts the
// pool into numbered batches.
//
// BATCHING POLICY:
// A batch is cut when either trigger fires:
//   - Size: an accepted transaction brings the pool to RollupSize distinct keys
//   - Timer: the owning event loop calls CutBatch on its interval, even when the
//     pool is empty
//
// HEIGHT SEMANTICS:
// The counter reads N while batch N accumulates. Cutting persists N+1 first and
// only then drains the pool and returns batch N. A failed persist leaves both the
// counter and the pool untouched, so the cut can be retried and the durable
// height never runs behind a batch that was handed out.
//
// The Sequencer is not safe for concurrent use. A single goroutine (the node event
// loop) owns it and serializes Accept and CutBatch.
package sequencer

import (
	"fmt"
	"math"
	"time"

	"github.com/concave-dev/rollupd/internal/logging"
	"github.com/concave-dev/rollupd/internal/metrics"
	"github.com/concave-dev/rollupd/internal/pool"
	"github.com/concave-dev/rollupd/internal/rollup"
)

// Ledger is the durable state the sequencer needs. store.Ledger implements it.
type Ledger interface {
	Height() (uint64, error)
	SetHeight(h uint64) error
	RecordTransaction(tx rollup.Transaction) error
}

// Option customizes a Sequencer.
type Option func(*Sequencer)

// WithMetrics records pool and batch metrics to m.
func WithMetrics(m metrics.SequencerMetrics) Option {
	return func(s *Sequencer) {
		s.metrics = m
	}
}

// WithClock overrides the clock used to stamp batches.
func WithClock(now func() time.Time) Option {
	return func(s *Sequencer) {
		s.now = now
	}
}

// Sequencer owns the pending pool and the batch height.
type Sequencer struct {
	ledger    Ledger
	pool      *pool.Pool
	height    uint64
	threshold int

	metrics metrics.SequencerMetrics
	now     func() time.Time
}

// New creates a sequencer starting from the persisted height with an empty pool.
// Transactions pooled before a restart are not recovered.
func New(ledger Ledger, cfg *Config, opts ...Option) (*Sequencer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", rollup.ErrConfig, err)
	}

	height, err := ledger.Height()
	if err != nil {
		return nil, fmt.Errorf("failed to load batch height: %w", err)
	}

	s := &Sequencer{
		ledger:    ledger,
		pool:      pool.New(),
		height:    height,
		threshold: cfg.RollupSize,
		metrics:   metrics.Discard,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.metrics.SetHeight(height)
	s.metrics.SetPoolSize(0)
	logging.Info("Sequencer: Starting at height %d with rollup size %d", height, cfg.RollupSize)
	return s, nil
}

// Accept records tx in the ledger and adds it to the pool. When the pool reaches
// the rollup size a batch is cut and returned; otherwise the batch is nil.
//
// A ledger failure is returned before the pool is touched. If the record succeeds
// but the size-triggered cut fails to persist the new height, the transaction
// stays pooled and the storage error is returned.
func (s *Sequencer) Accept(tx rollup.Transaction) (*rollup.Batch, error) {
	if err := s.ledger.RecordTransaction(tx); err != nil {
		return nil, err
	}

	if s.pool.Insert(tx) {
		s.metrics.IncReplacedTransactions()
		logging.Debug("Sequencer: Replaced pending transaction %s", tx.Key())
	}
	s.metrics.SetPoolSize(s.pool.Size())

	if s.pool.Size() < s.threshold {
		return nil, nil
	}
	return s.cut(rollup.TriggerSize)
}

// CutBatch cuts the current pool into a batch regardless of its size. Used by the
// timer trigger; an empty pool yields an empty batch.
func (s *Sequencer) CutBatch() (*rollup.Batch, error) {
	return s.cut(rollup.TriggerTimer)
}

func (s *Sequencer) cut(trigger rollup.Trigger) (*rollup.Batch, error) {
	// Heights never wrap; the pool is kept so nothing is lost
	if s.height == math.MaxUint64 {
		return nil, fmt.Errorf("%w: batch height %d cannot advance", rollup.ErrStorage, s.height)
	}
	next := s.height + 1
	if err := s.ledger.SetHeight(next); err != nil {
		return nil, err
	}

	batch := &rollup.Batch{
		Height:       s.height,
		Transactions: s.pool.Drain(),
		Trigger:      trigger,
		CutAt:        s.now(),
	}
	s.height = next

	s.metrics.ObserveBatch(string(trigger), batch.Len())
	s.metrics.SetHeight(s.height)
	s.metrics.SetPoolSize(0)
	return batch, nil
}

// Height returns the current batch height counter.
func (s *Sequencer) Height() uint64 {
	return s.height
}

// PoolSize returns the number of distinct keys pending in the pool.
func (s *Sequencer) PoolSize() int {
	return s.pool.Size()
}
