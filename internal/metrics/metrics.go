// Package metrics exposes the sequencer's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Subsystem prefixes every metric name.
const Subsystem = "rollup_sequencer"

// Transaction sources.
const (
	SourceRPC = "rpc"
	SourceP2P = "p2p"
)

// SequencerMetrics is the instrumentation surface used by the sequencer and the
// node event loop.
type SequencerMetrics interface {
	IncAcceptedTransactions(source string)
	IncReplacedTransactions()
	IncDecodeFailures()
	ObserveBatch(trigger string, size int)
	IncSubmissionFailures()
	IncBroadcastFailures()
	SetHeight(height uint64)
	SetPoolSize(size int)
}

type sequencerMetrics struct {
	acceptedTransactions *prometheus.CounterVec
	replacedTransactions prometheus.Counter
	decodeFailures       prometheus.Counter
	batchesCut           *prometheus.CounterVec
	batchSize            prometheus.Histogram
	submissionFailures   prometheus.Counter
	broadcastFailures    prometheus.Counter
	height               prometheus.Gauge
	poolSize             prometheus.Gauge
}

// InitMetrics creates the sequencer metrics and registers them with registry.
func InitMetrics(registry prometheus.Registerer) SequencerMetrics {
	m := &sequencerMetrics{}

	m.acceptedTransactions = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "accepted_txns_total",
		Help: "Transactions accepted into the pending pool", Subsystem: Subsystem}, []string{"source"})
	m.replacedTransactions = prometheus.NewCounter(prometheus.CounterOpts{Name: "replaced_txns_total",
		Help: "Pending transactions replaced by a later one with the same sender and nonce", Subsystem: Subsystem})
	m.decodeFailures = prometheus.NewCounter(prometheus.CounterOpts{Name: "decode_failures_total",
		Help: "Peer payloads dropped because they did not decode", Subsystem: Subsystem})
	m.batchesCut = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "batches_total",
		Help: "Batches cut, by trigger", Subsystem: Subsystem}, []string{"trigger"})
	m.batchSize = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "batch_size",
		Help: "Transactions per batch", Subsystem: Subsystem, Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64, 128, 256}})
	m.submissionFailures = prometheus.NewCounter(prometheus.CounterOpts{Name: "submission_failures_total",
		Help: "Batches the submission client failed to deliver", Subsystem: Subsystem})
	m.broadcastFailures = prometheus.NewCounter(prometheus.CounterOpts{Name: "broadcast_failures_total",
		Help: "Transactions that could not be forwarded to the configured peer", Subsystem: Subsystem})
	m.height = prometheus.NewGauge(prometheus.GaugeOpts{Name: "height",
		Help: "Current batch height counter", Subsystem: Subsystem})
	m.poolSize = prometheus.NewGauge(prometheus.GaugeOpts{Name: "pool_size",
		Help: "Distinct (sender, nonce) keys pending in the pool", Subsystem: Subsystem})

	registry.MustRegister(m.acceptedTransactions)
	registry.MustRegister(m.replacedTransactions)
	registry.MustRegister(m.decodeFailures)
	registry.MustRegister(m.batchesCut)
	registry.MustRegister(m.batchSize)
	registry.MustRegister(m.submissionFailures)
	registry.MustRegister(m.broadcastFailures)
	registry.MustRegister(m.height)
	registry.MustRegister(m.poolSize)

	return m
}

func (m *sequencerMetrics) IncAcceptedTransactions(source string) {
	m.acceptedTransactions.WithLabelValues(source).Inc()
}

func (m *sequencerMetrics) IncReplacedTransactions() {
	m.replacedTransactions.Inc()
}

func (m *sequencerMetrics) IncDecodeFailures() {
	m.decodeFailures.Inc()
}

func (m *sequencerMetrics) ObserveBatch(trigger string, size int) {
	m.batchesCut.WithLabelValues(trigger).Inc()
	m.batchSize.Observe(float64(size))
}

func (m *sequencerMetrics) IncSubmissionFailures() {
	m.submissionFailures.Inc()
}

func (m *sequencerMetrics) IncBroadcastFailures() {
	m.broadcastFailures.Inc()
}

func (m *sequencerMetrics) SetHeight(height uint64) {
	m.height.Set(float64(height))
}

func (m *sequencerMetrics) SetPoolSize(size int) {
	m.poolSize.Set(float64(size))
}

// Discard is a SequencerMetrics that records nothing.
var Discard SequencerMetrics = discard{}

type discard struct{}

func (discard) IncAcceptedTransactions(string) {}
func (discard) IncReplacedTransactions()       {}
func (discard) IncDecodeFailures()             {}
func (discard) ObserveBatch(string, int)       {}
func (discard) IncSubmissionFailures()         {}
func (discard) IncBroadcastFailures()          {}
func (discard) SetHeight(uint64)               {}
func (discard) SetPoolSize(int)                {}
