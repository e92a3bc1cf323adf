// Package daemon wires the rollupd services together and runs them until a
// signal arrives or the sequencer stops on a fatal error.
//
// STARTUP ORDER:
//  1. Gossip port check (explicit --p2p must be free, default falls forward)
//  2. Bolt database and ledger; the persisted height is loaded here
//  3. Metrics registry, sequencer and batch submitter
//  4. Gossip manager, then a join to --peer-addr when a peer is configured
//  5. Sequencer event loop
//  6. HTTP server for JSON-RPC, the REST API and /metrics
//
// Shutdown runs in reverse: HTTP first so no new transactions arrive, then the
// event loop, gossip, and finally the database. A fatal event loop error is
// returned so the process exits non-zero.
package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/concave-dev/rollupd/cmd/rollupd/config"
	"github.com/concave-dev/rollupd/cmd/rollupd/utils"
	"github.com/concave-dev/rollupd/internal/api"
	configDefaults "github.com/concave-dev/rollupd/internal/config"
	"github.com/concave-dev/rollupd/internal/logging"
	"github.com/concave-dev/rollupd/internal/metrics"
	"github.com/concave-dev/rollupd/internal/names"
	"github.com/concave-dev/rollupd/internal/netutil"
	"github.com/concave-dev/rollupd/internal/node"
	"github.com/concave-dev/rollupd/internal/p2p"
	"github.com/concave-dev/rollupd/internal/rollup"
	"github.com/concave-dev/rollupd/internal/sequencer"
	"github.com/concave-dev/rollupd/internal/store"
	"github.com/concave-dev/rollupd/internal/submit"
	"github.com/concave-dev/rollupd/internal/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// shutdownTimeout bounds the HTTP server drain.
const shutdownTimeout = 5 * time.Second

// buildP2PConfig converts daemon config to gossip manager config
func buildP2PConfig() *p2p.Config {
	p2pConfig := p2p.DefaultConfig()

	p2pConfig.BindAddr = config.Global.P2PAddr
	p2pConfig.BindPort = config.Global.P2PPort
	p2pConfig.NodeName = config.Global.NodeName
	p2pConfig.LogLevel = config.Global.LogLevel

	return p2pConfig
}

// buildSubmitConfig converts daemon config to submitter config
func buildSubmitConfig() *submit.Config {
	submitConfig := submit.DefaultConfig()

	submitConfig.URL = config.Global.SubmitURL
	submitConfig.Timeout = config.Global.SubmitTimeout

	return submitConfig
}

// buildNodeConfig converts daemon config to event loop config
func buildNodeConfig() *node.Config {
	nodeConfig := node.DefaultConfig()

	nodeConfig.RollupInterval = config.Global.RollupInterval
	nodeConfig.Peer = config.Global.PeerID

	return nodeConfig
}

// buildAPIConfig converts daemon config to HTTP server config
func buildAPIConfig(txs chan<- rollup.Transaction, ledger *store.Ledger, n *node.Node,
	manager *p2p.Manager, gatherer prometheus.Gatherer) *api.Config {
	apiConfig := api.DefaultConfig()

	apiConfig.BindAddr = config.Global.RPCAddr
	apiConfig.BindPort = config.Global.RPCPort
	apiConfig.NodeName = config.Global.NodeName
	apiConfig.Transactions = txs
	apiConfig.Ledger = ledger
	apiConfig.Status = n.Status
	apiConfig.Peers = manager.Peers
	apiConfig.Gatherer = gatherer

	return apiConfig
}

// newRegistry returns a registry carrying the Go runtime and process
// collectors next to the sequencer metrics.
func newRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return registry
}

// Run starts every service, blocks until shutdown, and tears them down in
// reverse order.
func Run() error {
	logging.SetLevel(config.Global.LogLevel)
	logging.Info("Starting rollupd v%s", version.RollupdVersion)

	// net/http server errors go through the standard logger
	logging.RedirectStandardLog(logging.NewLevelWriter("WARN", "stdlog"))

	// Generate node name only after validation has passed
	if config.Global.NodeName == "" {
		config.Global.NodeName = names.Generate()
		logging.Info("Generated node name: %s", config.Global.NodeName)
	}
	if config.Global.NodeName == config.Global.PeerID {
		return fmt.Errorf("%w: node name '%s' equals --peer-id", rollup.ErrConfig, config.Global.NodeName)
	}
	logging.Info("Node: %s", config.Global.NodeName)

	// Serf binds UDP for gossip and TCP for memberlist streams on the same port
	p2pPort, err := utils.ResolveGossipPort(config.Global.P2PAddr, config.Global.P2PPort,
		config.Global.IsExplicitlySet(config.P2PField))
	if err != nil {
		logging.Error("Gossip port check failed: %v", err)
		return err
	}
	config.Global.P2PPort = p2pPort

	// Storage
	db, err := store.OpenBolt(store.DefaultBoltConfig(config.Global.DBPath))
	if err != nil {
		logging.Error("Failed to open database: %v", err)
		return fmt.Errorf("%w: %w", rollup.ErrStorage, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error("Error closing database: %v", err)
		}
	}()
	ledger := store.NewLedger(db)

	// Sequencer
	registry := newRegistry()
	sequencerMetrics := metrics.InitMetrics(registry)

	seqConfig := sequencer.DefaultConfig()
	seqConfig.RollupSize = config.Global.RollupSize
	seq, err := sequencer.New(ledger, seqConfig, sequencer.WithMetrics(sequencerMetrics))
	if err != nil {
		logging.Error("Failed to create sequencer: %v", err)
		return err
	}
	logging.Info("Loaded block height %d from %s", seq.Height(), db.Path())

	submitter, err := submit.New(buildSubmitConfig())
	if err != nil {
		logging.Error("Failed to create batch submitter: %v", err)
		return fmt.Errorf("%w: %w", rollup.ErrConfig, err)
	}

	// Gossip
	logging.Info("Starting gossip on %s:%d", config.Global.P2PAddr, config.Global.P2PPort)
	manager, err := p2p.NewManager(buildP2PConfig())
	if err != nil {
		logging.Error("Failed to create gossip manager: %v", err)
		return fmt.Errorf("%w: %w", rollup.ErrConfig, err)
	}
	if err := manager.Start(); err != nil {
		logging.Error("Failed to start gossip manager: %v", err)
		return fmt.Errorf("failed to start gossip manager: %w", err)
	}
	defer func() {
		if err := manager.Shutdown(); err != nil {
			logging.Error("Error shutting down gossip manager: %v", err)
		}
	}()

	if config.Global.HasPeer() {
		logging.Info("Joining peer %s via %s", config.Global.PeerID, config.Global.PeerAddr)
		if err := manager.Join([]string{config.Global.PeerAddr}); err != nil {
			logging.Error("Failed to join peer: %v", err)
			if netutil.IsConnectionRefusedError(err) {
				logging.Error("TIP: Check that %s is running and reachable at %s",
					config.Global.PeerID, config.Global.PeerAddr)
			}
			// The peer may join us later; forwards fail and are logged until then
			logging.Warn("Continuing without peer %s", config.Global.PeerID)
		}
	}

	// Event loop
	txs := make(chan rollup.Transaction, configDefaults.DefaultTxQueueSize)
	opts := []node.Option{node.WithMetrics(sequencerMetrics)}
	if config.Global.HasPeer() {
		opts = append(opts, node.WithBroadcaster(manager))
	}
	n, err := node.New(seq, submitter, txs, manager.Messages(), buildNodeConfig(), opts...)
	if err != nil {
		logging.Error("Failed to create sequencer node: %v", err)
		return err
	}

	apiServer, err := api.NewServer(buildAPIConfig(txs, ledger, n, manager, registry))
	if err != nil {
		logging.Error("Failed to create API server: %v", err)
		return fmt.Errorf("%w: %w", rollup.ErrConfig, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	nodeErr := make(chan error, 1)
	nodeDone := make(chan struct{})
	go func() {
		defer close(nodeDone)
		nodeErr <- n.Run(ctx)
	}()
	// The loop must be gone before gossip and the database close
	defer func() {
		cancel()
		<-nodeDone
	}()

	// HTTP
	if err := apiServer.Start(); err != nil {
		logging.Error("Failed to start API server: %v", err)
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	logging.Success("rollupd started successfully")
	logging.Info("Node services started:")
	logging.Info("  - JSON-RPC and HTTP API: %s", apiServer.Addr())
	logging.Info("  - Gossip: %s:%d", config.Global.P2PAddr, config.Global.P2PPort)
	logging.Info("  - Rollup size %d, interval %v", config.Global.RollupSize, config.Global.RollupInterval)
	if config.Global.HasPeer() {
		logging.Info("  - Forwarding RPC transactions to %s", config.Global.PeerID)
	}

	var runErr error
	select {
	case sig := <-sigCh:
		logging.Info("Received signal: %v", sig)
	case runErr = <-nodeErr:
		logging.Error("Sequencer stopped: %v", runErr)
	}

	logging.Info("Initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logging.Error("Error shutting down API server: %v", err)
	}

	cancel()
	if runErr == nil {
		runErr = <-nodeErr
	}

	// Gossip and database close in the deferred calls above
	if runErr != nil {
		return runErr
	}
	logging.Success("rollupd shutdown completed")
	return nil
}
