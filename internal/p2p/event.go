package p2p

import (
	"time"

	"github.com/concave-dev/rollupd/internal/logging"
	"github.com/hashicorp/serf/serf"
)

// processEvents drains Serf's event channel until shutdown. Serf blocks when its
// event channel is full, so this loop never waits on consumers.
func (m *Manager) processEvents() {
	defer m.wg.Done()

	for {
		select {
		case event := <-m.ingestEventQueue:
			m.handleEvent(event)
		case <-m.ctx.Done():
			logging.Debug("P2P event processor shutting down")
			return
		}
	}
}

func (m *Manager) handleEvent(event serf.Event) {
	switch e := event.(type) {
	case serf.MemberEvent:
		m.handleMemberEvent(e)
	case *serf.Query:
		m.handleQuery(e)
	default:
		logging.Debug("Received unhandled event type: %T", event)
	}
}

func (m *Manager) handleMemberEvent(event serf.MemberEvent) {
	for _, member := range event.Members {
		switch event.EventType() {
		case serf.EventMemberJoin:
			logging.Info("Peer joined: %s (%s:%d)", member.Name, member.Addr, member.Port)
			m.addMember(member)

		case serf.EventMemberLeave, serf.EventMemberReap:
			logging.Info("Peer left: %s (%s:%d)", member.Name, member.Addr, member.Port)
			m.removeMember(member.Name)

		case serf.EventMemberFailed:
			logging.Warn("Peer failed: %s (%s:%d)", member.Name, member.Addr, member.Port)
			m.addMember(member)

		case serf.EventMemberUpdate:
			logging.Debug("Peer updated: %s (%s:%d)", member.Name, member.Addr, member.Port)
			m.addMember(member)
		}
	}
}

// handleQuery turns an inbound transaction query into a Message. When the
// consumer is behind, the message is dropped rather than stalling Serf.
func (m *Manager) handleQuery(query *serf.Query) {
	if query.Name != TxQueryName {
		logging.Debug("Ignoring query: %s", query.Name)
		return
	}

	msg := Message{
		From:    query.SourceNode(),
		Payload: append([]byte(nil), query.Payload...),
	}

	select {
	case m.messages <- msg:
	default:
		logging.Warn("Inbound transaction buffer full (%d), dropping message from %s", cap(m.messages), msg.From)
	}
}

func (m *Manager) addMember(member serf.Member) {
	peer := &Peer{
		Name:     member.Name,
		Addr:     member.Addr,
		Port:     member.Port,
		Status:   member.Status.String(),
		Tags:     make(map[string]string, len(member.Tags)),
		LastSeen: time.Now(),
	}
	for k, v := range member.Tags {
		peer.Tags[k] = v
	}

	m.memberLock.Lock()
	if existing, ok := m.members[member.Name]; ok && member.Status != serf.StatusAlive {
		peer.LastSeen = existing.LastSeen
	}
	m.members[member.Name] = peer
	m.memberLock.Unlock()
}

func (m *Manager) removeMember(name string) {
	m.memberLock.Lock()
	delete(m.members, name)
	m.memberLock.Unlock()
}
