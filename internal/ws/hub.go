// Package ws delivers share-link lifecycle events to connected tenants over
// WebSocket, with per-tenant sequencing and bounded replay on reconnect.
package ws

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/L1malucas/smarted-sub000/internal/metrics"
)

// Hub limits.
const (
	broadcastBuffer     = 256
	registerBuffer      = 64
	maxClients          = 1000
	maxClientsPerTenant = 50
)

// tenantBroadcast is sent through the broadcast channel to the Run goroutine.
type tenantBroadcast struct {
	tenantID string
	msg      []byte
}

// Hub manages the connected event-stream clients of all tenants. All client
// map mutations happen exclusively in the Run goroutine.
type Hub struct {
	clients     map[*Client]bool
	tenantCount map[string]int
	register    chan *Client
	unregister  chan *Client
	broadcast   chan tenantBroadcast
	shutdown    chan struct{} // signals Run to begin graceful drain
	done        chan struct{} // closed when Run has finished draining
	count       atomic.Int64
	log         *logrus.Logger
	seq         *sequence
	buffer      *ReplayBuffer
}

// NewHub creates a new Hub instance.
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		tenantCount: make(map[string]int),
		register:    make(chan *Client, registerBuffer),
		unregister:  make(chan *Client, registerBuffer),
		broadcast:   make(chan tenantBroadcast, broadcastBuffer),
		shutdown:    make(chan struct{}),
		done:        make(chan struct{}),
		log:         log,
		seq:         newSequence(),
		buffer:      NewReplayBuffer(replayMaxLen, replayMaxAge),
	}
}

// drainTimeout is how long the hub waits for clients to flush after shutdown.
const drainTimeout = 3 * time.Second

// Run starts the hub event loop. It should be run as a goroutine.
// It exits when Shutdown is called or the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.drainClients()

			return
		case <-h.shutdown:
			h.drainClients()

			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case b := <-h.broadcast:
			h.fanOut(b)
		}
	}
}

// addClient admits a client unless a connection cap is hit.
func (h *Hub) addClient(client *Client) {
	if len(h.clients) >= maxClients {
		h.log.Warn("global connection limit reached, dropping client")
		client.closeSend()

		return
	}
	if h.tenantCount[client.TenantID] >= maxClientsPerTenant {
		h.log.WithField("tenant_id", client.TenantID).
			Warn("per-tenant connection limit reached, dropping client")
		client.closeSend()

		return
	}

	h.clients[client] = true
	h.tenantCount[client.TenantID]++
	h.syncCount()
	h.log.WithField("total", len(h.clients)).Info("event stream client registered")
}

func (h *Hub) removeClient(client *Client) {
	if _, ok := h.clients[client]; ok {
		h.dropClient(client)
	}
	h.syncCount()
	h.log.WithField("total", len(h.clients)).Info("event stream client unregistered")
}

// fanOut delivers one message to every client of the target tenant. A client
// whose send buffer is full is disconnected rather than allowed to stall the
// loop.
func (h *Hub) fanOut(b tenantBroadcast) {
	for client := range h.clients {
		if client.TenantID != b.tenantID {
			continue
		}
		select {
		case client.send <- b.msg:
		default:
			h.dropClient(client)
		}
	}
	h.syncCount()
}

// dropClient removes a client and its tenant counter entry. Run-goroutine only.
func (h *Hub) dropClient(client *Client) {
	delete(h.clients, client)
	client.closeSend()
	h.tenantCount[client.TenantID]--
	if h.tenantCount[client.TenantID] <= 0 {
		delete(h.tenantCount, client.TenantID)
	}
}

func (h *Hub) syncCount() {
	h.count.Store(int64(len(h.clients)))
	metrics.WSConnections.Set(float64(len(h.clients)))
}

// maxBroadcastPayload is the maximum allowed notification payload size (4 KB).
const maxBroadcastPayload = 4096

// BroadcastToTenant sends a raw message only to clients belonging to the
// specified tenant. Oversized payloads are dropped with a warning log. The
// actual send is performed by the Run goroutine via a channel.
func (h *Hub) BroadcastToTenant(tenantID string, msg []byte) {
	if len(msg) > maxBroadcastPayload {
		h.log.WithFields(logrus.Fields{
			"tenant_id":    tenantID,
			"payload_size": len(msg),
			"max_size":     maxBroadcastPayload,
		}).Warn("dropping oversized broadcast payload")

		return
	}
	select {
	case h.broadcast <- tenantBroadcast{tenantID: tenantID, msg: msg}:
	default:
		h.log.Warn("broadcast channel full, dropping message")
	}
}

// BroadcastLink frames a link lifecycle event, assigns it the tenant's next
// sequence ID, buffers it for replay, and fans it out to the tenant's
// connected clients.
func (h *Hub) BroadcastLink(event, tenantID, token string) {
	env := Envelope{
		Type:     event,
		ID:       h.seq.Next(tenantID),
		TenantID: tenantID,
		Data:     LinkEvent{Event: event, Token: token, TenantID: tenantID},
		Time:     time.Now(),
	}

	msg, err := json.Marshal(env)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal link event")

		return
	}

	h.buffer.Append(tenantID, env)
	h.BroadcastToTenant(tenantID, msg)
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	default:
		h.log.Warn("register channel full, dropping client")
		c.closeSend()
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	default:
		// Run loop already exited; client cleanup happened in Run shutdown.
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Shutdown initiates a graceful drain: every connected client gets a
// shutdown frame, write pumps flush, then all connections close. It blocks
// until the drain is complete or the timeout expires.
func (h *Hub) Shutdown() {
	close(h.shutdown)
	<-h.done
}

// drainClients sends a close frame to every client and waits for buffers to flush.
func (h *Hub) drainClients() {
	if len(h.clients) == 0 {
		return
	}

	h.log.WithField("clients", len(h.clients)).Info("draining event stream clients")

	// Tell clients to reconnect once the server is back.
	shutdownMsg := []byte(`{"type":"shutdown","message":"server shutting down"}`)
	for client := range h.clients {
		select {
		case client.send <- shutdownMsg:
		default:
		}
	}

	deadline := time.After(drainTimeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for !h.sendBuffersEmpty() {
		select {
		case <-deadline:
			h.log.Warn("event stream drain timeout, closing remaining clients")
			h.closeAllClients()

			return
		case <-ticker.C:
		}
	}

	h.closeAllClients()
}

func (h *Hub) sendBuffersEmpty() bool {
	for client := range h.clients {
		if len(client.send) > 0 {
			return false
		}
	}

	return true
}

func (h *Hub) closeAllClients() {
	for client := range h.clients {
		client.closeSend()
		delete(h.clients, client)
	}

	h.tenantCount = make(map[string]int)
	h.count.Store(0)
	metrics.WSConnections.Set(0)
}

// ReplayEvents sends buffered events since lastEventID to the client.
// Returns false if the requested ID has already left the replay window.
func (h *Hub) ReplayEvents(client *Client, lastEventID uint64) bool {
	oldest := h.buffer.OldestID(client.TenantID)
	if oldest > 0 && lastEventID > 0 && lastEventID < oldest {
		return false
	}

	for _, env := range h.buffer.Since(client.TenantID, lastEventID) {
		msg, err := json.Marshal(env)
		if err != nil {
			continue
		}
		select {
		case client.send <- msg:
		default:
			return true // channel full, stop replay
		}
	}

	return true
}
