package ws

import (
	"sync"
	"time"
)

const (
	replayMaxLen = 1000
	replayMaxAge = 1 * time.Hour
)

// ReplayBuffer keeps the recent link events of each tenant so a client that
// reconnects can catch up from its last seen sequence ID instead of doing a
// full refresh.
type ReplayBuffer struct {
	mu     sync.RWMutex
	events map[string][]Envelope
	maxAge time.Duration
	maxLen int
	stop   chan struct{}
}

// NewReplayBuffer creates a ReplayBuffer with the given limits and starts a
// background sweep that drops tenants whose events have all aged out.
func NewReplayBuffer(maxLen int, maxAge time.Duration) *ReplayBuffer {
	rb := &ReplayBuffer{
		events: make(map[string][]Envelope),
		maxAge: maxAge,
		maxLen: maxLen,
		stop:   make(chan struct{}),
	}
	go rb.sweepLoop()

	return rb
}

// Stop halts the background sweep goroutine.
func (rb *ReplayBuffer) Stop() {
	close(rb.stop)
}

func (rb *ReplayBuffer) sweepLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rb.stop:
			return
		case <-ticker.C:
			rb.dropIdleTenants()
		}
	}
}

func (rb *ReplayBuffer) dropIdleTenants() {
	cutoff := time.Now().Add(-rb.maxAge)

	rb.mu.Lock()
	defer rb.mu.Unlock()

	for tenant, buf := range rb.events {
		if len(buf) == 0 || buf[len(buf)-1].Time.Before(cutoff) {
			delete(rb.events, tenant)
		}
	}
}

// Append stores an envelope for potential replay, trimming entries that are
// past the age limit or beyond the length cap.
func (rb *ReplayBuffer) Append(tenantID string, env Envelope) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	buf := rb.events[tenantID]

	cutoff := time.Now().Add(-rb.maxAge)
	start := 0
	for start < len(buf) && buf[start].Time.Before(cutoff) {
		start++
	}
	if start > 0 {
		buf = buf[start:]
	}

	buf = append(buf, env)
	if len(buf) > rb.maxLen {
		buf = buf[len(buf)-rb.maxLen:]
	}

	rb.events[tenantID] = buf
}

// Since returns the tenant's envelopes with ID > lastEventID, oldest first.
// Sequence IDs are monotonic, so the cut point is found by binary search.
func (rb *ReplayBuffer) Since(tenantID string, lastEventID uint64) []Envelope {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	buf := rb.events[tenantID]
	if len(buf) == 0 {
		return nil
	}

	lo, hi := 0, len(buf)
	for lo < hi {
		mid := (lo + hi) / 2
		if buf[mid].ID <= lastEventID {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	if lo >= len(buf) {
		return nil
	}

	// Copy so callers never hold a reference into the guarded slice.
	out := make([]Envelope, len(buf)-lo)
	copy(out, buf[lo:])

	return out
}

// OldestID returns the oldest buffered sequence ID for a tenant, or 0 when
// nothing is buffered. Callers use it to decide whether a replay request
// predates the buffer window.
func (rb *ReplayBuffer) OldestID(tenantID string) uint64 {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	buf := rb.events[tenantID]
	if len(buf) == 0 {
		return 0
	}

	return buf[0].ID
}
