package ws

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testClient(h *Hub, tenantID string) *Client {
	return &Client{
		hub:      h,
		send:     make(chan []byte, clientSendBuffer),
		log:      h.log,
		TenantID: tenantID,
	}
}

// waitForCount polls until the hub reports the expected client count.
func waitForCount(t *testing.T, h *Hub, want int) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for h.ClientCount() != want {
		select {
		case <-deadline:
			t.Fatalf("client count never reached %d (got %d)", want, h.ClientCount())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSequencePerTenant(t *testing.T) {
	seq := newSequence()

	if got := seq.Next("t1"); got != 1 {
		t.Errorf("first t1 ID = %d, want 1", got)
	}
	if got := seq.Next("t1"); got != 2 {
		t.Errorf("second t1 ID = %d, want 2", got)
	}
	if got := seq.Next("t2"); got != 1 {
		t.Errorf("first t2 ID = %d, want 1; tenants must not share a counter", got)
	}
}

func TestBroadcastLinkReachesOnlyOwningTenant(t *testing.T) {
	hub := NewHub(testLogger())
	defer hub.buffer.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	subscriber := testClient(hub, "tenant-a")
	bystander := testClient(hub, "tenant-b")
	hub.Register(subscriber)
	hub.Register(bystander)
	waitForCount(t, hub, 2)

	hub.BroadcastLink(EventLinkCreated, "tenant-a", "tok-123")

	select {
	case msg := <-subscriber.send:
		var env Envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			t.Fatalf("unmarshal envelope: %v", err)
		}
		if env.Type != EventLinkCreated {
			t.Errorf("type = %q, want %q", env.Type, EventLinkCreated)
		}
		if env.ID != 1 {
			t.Errorf("sequence ID = %d, want 1", env.ID)
		}
		if env.Data.Token != "tok-123" || env.Data.TenantID != "tenant-a" {
			t.Errorf("payload = %+v, want token tok-123 for tenant-a", env.Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber never received the event")
	}

	// Fan-out for one broadcast is a single pass over the client map, so
	// once the subscriber has its message the bystander's verdict is in.
	select {
	case msg := <-bystander.send:
		t.Fatalf("bystander tenant received %s", msg)
	default:
	}
}

func TestReplayAfterReconnect(t *testing.T) {
	hub := NewHub(testLogger())
	defer hub.buffer.Stop()

	hub.BroadcastLink(EventLinkCreated, "tenant-a", "tok-1")
	hub.BroadcastLink(EventLinkUpdated, "tenant-a", "tok-1")
	hub.BroadcastLink(EventLinkDeleted, "tenant-a", "tok-1")

	client := testClient(hub, "tenant-a")

	if !hub.ReplayEvents(client, 1) {
		t.Fatal("replay from a buffered ID should succeed")
	}

	var types []string
	for len(client.send) > 0 {
		var env Envelope
		if err := json.Unmarshal(<-client.send, &env); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		types = append(types, env.Type)
	}

	want := []string{EventLinkUpdated, EventLinkDeleted}
	if len(types) != len(want) {
		t.Fatalf("replayed %d events %v, want %v", len(types), types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("replay[%d] = %q, want %q", i, types[i], want[i])
		}
	}
}

func TestReplayPastWindowRequestsReset(t *testing.T) {
	hub := NewHub(testLogger())
	defer hub.buffer.Stop()

	// Seed the buffer so its oldest retained ID is beyond the client's
	// last seen event.
	hub.buffer.Append("tenant-a", Envelope{ID: 5, Time: time.Now()})
	hub.buffer.Append("tenant-a", Envelope{ID: 6, Time: time.Now()})

	client := testClient(hub, "tenant-a")

	if hub.ReplayEvents(client, 2) {
		t.Fatal("replay from before the buffer window should report failure")
	}
}

func TestReplayBufferLengthCap(t *testing.T) {
	rb := NewReplayBuffer(3, time.Hour)
	defer rb.Stop()

	for i := uint64(1); i <= 5; i++ {
		rb.Append("t", Envelope{ID: i, Time: time.Now()})
	}

	if got := rb.OldestID("t"); got != 3 {
		t.Errorf("oldest retained ID = %d, want 3", got)
	}
	if got := len(rb.Since("t", 0)); got != 3 {
		t.Errorf("buffered events = %d, want 3", got)
	}
}

func TestPerTenantConnectionCap(t *testing.T) {
	hub := NewHub(testLogger())
	defer hub.buffer.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	for i := 0; i < maxClientsPerTenant; i++ {
		hub.Register(testClient(hub, "tenant-a"))
	}
	waitForCount(t, hub, maxClientsPerTenant)

	over := testClient(hub, "tenant-a")
	hub.Register(over)

	select {
	case _, ok := <-over.send:
		if ok {
			t.Fatal("over-cap client should have its send channel closed, not receive data")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("over-cap client was never rejected")
	}
	if got := hub.ClientCount(); got != maxClientsPerTenant {
		t.Errorf("client count = %d, want %d", got, maxClientsPerTenant)
	}
}

func TestShutdownDrainsClients(t *testing.T) {
	hub := NewHub(testLogger())
	defer hub.buffer.Stop()

	go hub.Run(context.Background())

	client := testClient(hub, "tenant-a")
	hub.Register(client)
	waitForCount(t, hub, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.Shutdown()
	}()

	// Consume the shutdown frame so the drain sees an empty buffer, then
	// wait for the channel close that ends the connection.
	for range client.send { //nolint:revive // draining until close
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown never completed")
	}
	if got := hub.ClientCount(); got != 0 {
		t.Errorf("client count after shutdown = %d, want 0", got)
	}
}
