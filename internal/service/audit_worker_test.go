package service

import (
	"context"
	"testing"
	"time"

	"github.com/L1malucas/smarted-sub000/internal/models"
)

func TestAuditWorkerDeliversEntries(t *testing.T) {
	sink := &captureRecorder{}
	worker := NewAuditWorker(sink, testLogger(), 16)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	for i := 0; i < 5; i++ {
		if err := worker.RecordAudit(context.Background(), models.AuditEntry{
			TenantID: testTenant, Action: "share_link.resolve", Success: true,
		}); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}

	deadline := time.After(2 * time.Second)
	for {
		if len(sink.all()) == 5 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("delivered %d entries, want 5", len(sink.all()))
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestAuditWorkerDrainsOnShutdown(t *testing.T) {
	sink := &captureRecorder{}
	worker := NewAuditWorker(sink, testLogger(), 16)

	// Enqueue before the run loop starts so the shutdown drain does the work.
	for i := 0; i < 8; i++ {
		_ = worker.RecordAudit(context.Background(), models.AuditEntry{Action: "share_link.resolve"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	worker.Run(ctx)

	if got := len(sink.all()); got != 8 {
		t.Errorf("drained %d entries, want 8", got)
	}
}

func TestAuditWorkerDropsWhenFull(t *testing.T) {
	sink := &captureRecorder{}
	worker := NewAuditWorker(sink, testLogger(), 2)

	// No run loop: the third entry finds a full queue and is dropped.
	for i := 0; i < 3; i++ {
		if err := worker.RecordAudit(context.Background(), models.AuditEntry{Action: "x"}); err != nil {
			t.Fatalf("enqueue must never error: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	worker.Run(ctx)

	if got := len(sink.all()); got != 2 {
		t.Errorf("delivered %d entries, want 2", got)
	}
}
