// Package p2p provides the sequencer's peer-to-peer transport on top of Serf's
// gossip membership and query system.
//
// Each rollupd node is a Serf member whose node name is its peer identifier.
// Forwarding a transaction to a peer sends a Serf query named "rollup-tx" filtered
// to that single member, with the canonical transaction bytes as payload. Queries
// of that name arriving at this node are surfaced as Messages on the channel
// returned by Messages, which the sequencer event loop consumes.
//
// MEMBERSHIP:
// The manager keeps a local view of cluster members, updated from Serf member
// events. Send refuses to target a node that is not currently a member, so a
// misconfigured peer identifier shows up in the logs instead of silently
// dropping every forwarded transaction.
//
// The transport never re-broadcasts what it receives; relaying policy belongs to
// the caller.
package p2p

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/concave-dev/rollupd/internal/logging"
	"github.com/concave-dev/rollupd/internal/version"
	"github.com/hashicorp/serf/serf"
)

const (
	// TxQueryName is the Serf query carrying one canonical transaction.
	TxQueryName = "rollup-tx"

	// TagRole and TagVersion are set on every member.
	TagRole    = "role"
	TagVersion = "version"

	roleSequencer = "sequencer"
)

// ErrNotStarted is returned by operations that need a running Serf instance.
var ErrNotStarted = errors.New("p2p manager not started")

// Message is an inbound payload from a peer.
type Message struct {
	From    string
	Payload []byte
}

// Peer is a cluster member as seen by this node.
type Peer struct {
	Name     string            `json:"name"`
	Addr     net.IP            `json:"addr"`
	Port     uint16            `json:"port"`
	Status   string            `json:"status"`
	Tags     map[string]string `json:"tags"`
	LastSeen time.Time         `json:"lastSeen"`
}

// Manager owns the Serf instance and the inbound message channel.
type Manager struct {
	serf     *serf.Serf
	NodeName string

	messages         chan Message    // Inbound transactions for the sequencer
	ingestEventQueue chan serf.Event // Direct from Serf, always drained

	memberLock sync.RWMutex
	members    map[string]*Peer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	config *Config
}

// NewManager validates cfg and prepares a manager. Start must be called before
// Join or Send.
func NewManager(cfg *Config) (*Manager, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		NodeName:         cfg.NodeName,
		messages:         make(chan Message, cfg.MessageBufferSize),
		ingestEventQueue: make(chan serf.Event, cfg.MessageBufferSize),
		members:          make(map[string]*Peer),
		ctx:              ctx,
		cancel:           cancel,
		config:           cfg,
	}, nil
}

// Messages returns the inbound transaction channel.
func (m *Manager) Messages() <-chan Message {
	return m.messages
}

// Start creates the Serf instance and begins processing events.
func (m *Manager) Start() error {
	logging.Info("Starting p2p transport for node %s", m.NodeName)

	serfConfig := serf.DefaultConfig()

	if m.config.LogLevel == "ERROR" {
		serfConfig.LogOutput = io.Discard
		serfConfig.MemberlistConfig.LogOutput = io.Discard
	} else {
		colorfulWriter := logging.NewColorfulSerfWriter()
		serfConfig.LogOutput = colorfulWriter
		serfConfig.MemberlistConfig.LogOutput = colorfulWriter
	}

	serfConfig.Init()
	serfConfig.NodeName = m.NodeName
	serfConfig.MemberlistConfig.BindAddr = m.config.BindAddr
	serfConfig.MemberlistConfig.BindPort = m.config.BindPort
	serfConfig.EventCh = m.ingestEventQueue
	serfConfig.Tags = m.buildNodeTags()

	var err error
	m.serf, err = serf.Create(serfConfig)
	if err != nil {
		return fmt.Errorf("failed to create serf instance: %w", err)
	}

	m.wg.Add(1)
	go m.processEvents()

	m.addMember(m.serf.LocalMember())

	logging.Success("P2P transport listening on %s:%d", m.config.BindAddr, m.config.BindPort)
	return nil
}

// Join contacts the given peer addresses, retrying with a linear backoff.
func (m *Manager) Join(addresses []string) error {
	if m.serf == nil {
		return ErrNotStarted
	}
	if len(addresses) == 0 {
		return fmt.Errorf("no join addresses provided")
	}

	logging.Info("Joining peers via %v", addresses)

	var lastErr error
	for attempt := 1; attempt <= m.config.JoinRetries; attempt++ {
		n, err := m.joinOnce(addresses)
		if err == nil {
			logging.Success("Joined peer network, contacted %d nodes", n)
			return nil
		}

		lastErr = err
		logging.Warn("Join attempt %d/%d failed: %v", attempt, m.config.JoinRetries, err)
		if attempt < m.config.JoinRetries {
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-m.ctx.Done():
				return m.ctx.Err()
			}
		}
	}

	return fmt.Errorf("failed to join peers after %d attempts: %w", m.config.JoinRetries, lastErr)
}

func (m *Manager) joinOnce(addresses []string) (int, error) {
	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)

	go func() {
		n, err := m.serf.Join(addresses, false)
		done <- result{n, err}
	}()

	timer := time.NewTimer(m.config.JoinTimeout)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.n, r.err
	case <-timer.C:
		return 0, fmt.Errorf("join attempt timed out after %v", m.config.JoinTimeout)
	}
}

// Send forwards payload to the named peer. It returns once the query is queued
// for gossip; the peer's acknowledgement is awaited in the background and a
// missing ack is logged.
func (m *Manager) Send(peer string, payload []byte) error {
	if m.serf == nil {
		return ErrNotStarted
	}
	if p, ok := m.Peer(peer); !ok || p.Status != serf.StatusAlive.String() {
		return fmt.Errorf("peer %s is not an alive cluster member", peer)
	}

	params := &serf.QueryParam{
		FilterNodes: []string{peer},
		RequestAck:  true,
		Timeout:     m.config.SendTimeout,
	}
	resp, err := m.serf.Query(TxQueryName, payload, params)
	if err != nil {
		return fmt.Errorf("failed to send transaction to %s: %w", peer, err)
	}

	m.wg.Add(1)
	go m.awaitAck(peer, resp)
	return nil
}

func (m *Manager) awaitAck(peer string, resp *serf.QueryResponse) {
	defer m.wg.Done()
	defer resp.Close()

	for {
		select {
		case from, ok := <-resp.AckCh():
			if !ok {
				logging.Warn("Peer %s did not acknowledge forwarded transaction within %v", peer, m.config.SendTimeout)
				return
			}
			if from == peer {
				logging.Debug("Peer %s acknowledged forwarded transaction", peer)
				return
			}
		case <-m.ctx.Done():
			return
		}
	}
}

// Leave gracefully leaves the cluster.
func (m *Manager) Leave() error {
	if m.serf == nil {
		return nil
	}
	logging.Info("Leaving peer network")
	if err := m.serf.Leave(); err != nil {
		return fmt.Errorf("failed to leave cluster: %w", err)
	}
	return nil
}

// Shutdown leaves the cluster, stops Serf and waits for background work.
func (m *Manager) Shutdown() error {
	logging.Info("Shutting down p2p transport")

	if err := m.Leave(); err != nil {
		logging.Warn("Error during graceful leave: %v", err)
	}

	m.cancel()

	if m.serf != nil {
		if err := m.serf.Shutdown(); err != nil {
			logging.Error("Error shutting down Serf: %v", err)
		}
	}

	m.wg.Wait()

	logging.Success("P2P transport shutdown completed")
	return nil
}

// Peers returns a snapshot of known members, including this node.
func (m *Manager) Peers() []Peer {
	m.memberLock.RLock()
	defer m.memberLock.RUnlock()

	peers := make([]Peer, 0, len(m.members))
	for _, p := range m.members {
		peers = append(peers, copyPeer(p))
	}
	return peers
}

// Peer returns the member with the given node name.
func (m *Manager) Peer(name string) (Peer, bool) {
	m.memberLock.RLock()
	defer m.memberLock.RUnlock()

	p, ok := m.members[name]
	if !ok {
		return Peer{}, false
	}
	return copyPeer(p), true
}

func copyPeer(p *Peer) Peer {
	c := *p
	c.Tags = make(map[string]string, len(p.Tags))
	for k, v := range p.Tags {
		c.Tags[k] = v
	}
	return c
}

func (m *Manager) buildNodeTags() map[string]string {
	tags := make(map[string]string, len(m.config.Tags)+2)
	for k, v := range m.config.Tags {
		tags[k] = v
	}
	tags[TagRole] = roleSequencer
	tags[TagVersion] = version.RollupdVersion
	return tags
}
