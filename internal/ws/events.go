package ws

import (
	"sync"
	"time"
)

// Link lifecycle event types carried on the share event stream. The store
// layer emits these names through pg_notify and the bridge forwards them
// verbatim.
const (
	EventLinkCreated  = "link.created"
	EventLinkUpdated  = "link.updated"
	EventLinkDeleted  = "link.deleted"
	EventLinkResolved = "link.resolved"
	EventLinkChanged  = "link.changed"
)

// LinkEvent is the payload of one share-link lifecycle notification. The
// token identifies the link; consumers re-fetch state through the REST API,
// so no link fields beyond the token travel on the stream.
type LinkEvent struct {
	Event    string `json:"event"`
	Token    string `json:"token"`
	TenantID string `json:"tenant_id"`
}

// Envelope frames a link event for delivery. The per-tenant sequence ID
// lets clients detect gaps and request replay after a reconnect.
type Envelope struct {
	Type     string    `json:"type"`
	ID       uint64    `json:"id"`
	TenantID string    `json:"-"`
	Data     LinkEvent `json:"data"`
	Time     time.Time `json:"time"`
}

// SubscribeMsg is sent by the client on connect to request event replay.
type SubscribeMsg struct {
	Type        string `json:"type"`
	LastEventID uint64 `json:"last_event_id"`
}

// ResetMsg tells the client its replay window is gone and a full refresh
// is needed.
type ResetMsg struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// sequence issues monotonic per-tenant event IDs, starting at 1.
type sequence struct {
	mu   sync.Mutex
	next map[string]uint64
}

func newSequence() *sequence {
	return &sequence{next: make(map[string]uint64)}
}

func (s *sequence) Next(tenantID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next[tenantID]++

	return s.next[tenantID]
}
