// Package node runs the sequencer event loop.
//
// A Node owns the Sequencer and drives it from a single goroutine that selects
// over four sources: the rollup timer, transactions submitted over RPC, payloads
// received from the peer network, and context cancellation. Each event runs to
// completion, including the synchronous submission of any batch it produced,
// before the next one is taken. Nothing else touches the sequencer, so the pool
// and height need no locking.
//
// FAULT POLICY:
//   - Storage errors end Run; the daemon exits non-zero
//   - Undecodable peer payloads are logged, counted and dropped
//   - Submission and forwarding failures are logged and counted, never retried
//   - A closed input channel ends Run with rollup.ErrChannelClosed
//
// Transactions from RPC are forwarded to the configured peer after they are
// accepted. Transactions from the network are not forwarded again.
package node

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/concave-dev/rollupd/internal/logging"
	"github.com/concave-dev/rollupd/internal/metrics"
	"github.com/concave-dev/rollupd/internal/p2p"
	"github.com/concave-dev/rollupd/internal/rollup"
	"github.com/concave-dev/rollupd/internal/sequencer"
	"github.com/concave-dev/rollupd/internal/submit"
)

// Broadcaster sends a payload to a named peer. p2p.Manager implements it.
type Broadcaster interface {
	Send(peer string, payload []byte) error
}

// Status is a point-in-time view of the event loop for the API.
type Status struct {
	Running       bool       `json:"running"`
	Height        uint64     `json:"height"`
	PoolSize      int        `json:"pool_size"`
	BatchesCut    uint64     `json:"batches_cut"`
	LastBatchSize int        `json:"last_batch_size"`
	LastCut       *time.Time `json:"last_cut,omitempty"` // nil until the first cut
	Peer          string     `json:"peer,omitempty"`
}

// Option customizes a Node.
type Option func(*Node)

// WithBroadcaster sets the peer transport used to forward RPC transactions.
func WithBroadcaster(b Broadcaster) Option {
	return func(n *Node) {
		n.broadcaster = b
	}
}

// WithMetrics records event loop metrics to m.
func WithMetrics(m metrics.SequencerMetrics) Option {
	return func(n *Node) {
		n.metrics = m
	}
}

// Node is the single-goroutine orchestrator around a Sequencer.
type Node struct {
	seq         *sequencer.Sequencer
	submitter   submit.Submitter
	broadcaster Broadcaster
	metrics     metrics.SequencerMetrics

	txs     <-chan rollup.Transaction
	network <-chan p2p.Message

	config *Config

	// Owned by the Run goroutine
	batchesCut    uint64
	lastCut       time.Time
	lastBatchSize int

	status atomic.Pointer[Status]
}

// New wires a node. network may be nil when the node has no peer transport.
// A configured peer requires a broadcaster.
func New(seq *sequencer.Sequencer, submitter submit.Submitter, txs <-chan rollup.Transaction,
	network <-chan p2p.Message, cfg *Config, opts ...Option) (*Node, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", rollup.ErrConfig, err)
	}

	n := &Node{
		seq:       seq,
		submitter: submitter,
		metrics:   metrics.Discard,
		txs:       txs,
		network:   network,
		config:    cfg,
	}
	for _, opt := range opts {
		opt(n)
	}

	if cfg.Peer != "" && n.broadcaster == nil {
		return nil, fmt.Errorf("%w: peer %s configured without a broadcaster", rollup.ErrConfig, cfg.Peer)
	}

	n.publish(false)
	return n, nil
}

// Status returns the latest published snapshot. Safe for concurrent use.
func (n *Node) Status() Status {
	return *n.status.Load()
}

// Run processes events until ctx is cancelled (returns nil), an input channel is
// closed, or the sequencer reports a storage failure.
func (n *Node) Run(ctx context.Context) error {
	ticker := time.NewTicker(n.config.RollupInterval)
	defer ticker.Stop()

	logging.Info("Node: Event loop started (interval %v, peer %q)", n.config.RollupInterval, n.config.Peer)
	n.publish(true)
	defer n.publish(false)

	for {
		var err error

		select {
		case <-ctx.Done():
			logging.Info("Node: Event loop stopping")
			return nil

		case <-ticker.C:
			err = n.handleTick(ctx)

		case tx, ok := <-n.txs:
			if !ok {
				return fmt.Errorf("%w: transaction channel", rollup.ErrChannelClosed)
			}
			err = n.handleTransaction(ctx, tx)

		case msg, ok := <-n.network:
			if !ok {
				return fmt.Errorf("%w: network channel", rollup.ErrChannelClosed)
			}
			err = n.handleNetworkMessage(ctx, msg)
		}

		if err != nil {
			logging.Error("Node: Event loop failed: %v", err)
			return err
		}
		n.publish(true)
	}
}

func (n *Node) handleTick(ctx context.Context) error {
	batch, err := n.seq.CutBatch()
	if err != nil {
		return fmt.Errorf("timer cut at height %d: %w", n.seq.Height(), err)
	}
	n.submit(ctx, batch)
	return nil
}

func (n *Node) handleTransaction(ctx context.Context, tx rollup.Transaction) error {
	if err := n.accept(ctx, tx, metrics.SourceRPC); err != nil {
		return err
	}
	if n.config.Peer != "" {
		n.forward(tx)
	}
	return nil
}

func (n *Node) handleNetworkMessage(ctx context.Context, msg p2p.Message) error {
	tx, err := rollup.Decode(msg.Payload)
	if err != nil {
		n.metrics.IncDecodeFailures()
		logging.Warn("Node: Dropping undecodable payload from %s: %v", msg.From, err)
		return nil
	}
	return n.accept(ctx, tx, metrics.SourceP2P)
}

func (n *Node) accept(ctx context.Context, tx rollup.Transaction, source string) error {
	batch, err := n.seq.Accept(tx)
	if err != nil {
		return fmt.Errorf("accept transaction %s: %w", tx.Hash().Hex(), err)
	}

	n.metrics.IncAcceptedTransactions(source)
	logging.Debug("Node: Accepted %s transaction %s (%s)", source, logging.FormatHash(tx.Hash().Hex()), tx.Key())

	if batch != nil {
		n.submit(ctx, batch)
	}
	return nil
}

func (n *Node) submit(ctx context.Context, batch *rollup.Batch) {
	n.batchesCut++
	n.lastCut = batch.CutAt
	n.lastBatchSize = batch.Len()

	logging.Info("Node: Cut batch %d with %d transactions (%s trigger)", batch.Height, batch.Len(), batch.Trigger)

	if err := n.submitter.Submit(ctx, batch); err != nil {
		n.metrics.IncSubmissionFailures()
		logging.Error("Node: Submission of batch %d failed: %v", batch.Height, err)
	}
}

func (n *Node) forward(tx rollup.Transaction) {
	if err := n.broadcaster.Send(n.config.Peer, tx.Encode()); err != nil {
		n.metrics.IncBroadcastFailures()
		logging.Warn("Node: Failed to forward transaction %s to %s: %v",
			logging.FormatHash(tx.Hash().Hex()), n.config.Peer, err)
	}
}

func (n *Node) publish(running bool) {
	var lastCut *time.Time
	if !n.lastCut.IsZero() {
		at := n.lastCut
		lastCut = &at
	}
	n.status.Store(&Status{
		Running:       running,
		Height:        n.seq.Height(),
		PoolSize:      n.seq.PoolSize(),
		BatchesCut:    n.batchesCut,
		LastBatchSize: n.lastBatchSize,
		LastCut:       lastCut,
		Peer:          n.config.Peer,
	})
}
