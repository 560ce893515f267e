package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/L1malucas/smarted-sub000/internal/audited"
	"github.com/L1malucas/smarted-sub000/internal/metrics"
	"github.com/L1malucas/smarted-sub000/internal/models"
)

// AuditWorker buffers audit entries and writes them from a single goroutine.
// Used as the recorder for the anonymous gate, where a slow audit insert
// must not delay the response.
type AuditWorker struct {
	sink audited.Recorder
	log  *logrus.Logger
	jobs chan models.AuditEntry
}

var _ audited.Recorder = (*AuditWorker)(nil)

// NewAuditWorker creates an AuditWorker with the given queue capacity.
func NewAuditWorker(sink audited.Recorder, log *logrus.Logger, queueSize int) *AuditWorker {
	if queueSize <= 0 {
		queueSize = 1000
	}
	return &AuditWorker{
		sink: sink,
		log:  log,
		jobs: make(chan models.AuditEntry, queueSize),
	}
}

// RecordAudit enqueues an entry without blocking. A full queue drops the
// entry and counts the loss; gate latency never waits on the audit store.
func (w *AuditWorker) RecordAudit(_ context.Context, entry models.AuditEntry) error {
	select {
	case w.jobs <- entry:
		metrics.AuditQueueDepth.Set(float64(len(w.jobs)))
	default:
		metrics.AuditWriteFailures.Inc()
		w.log.WithField("action", entry.Action).Warn("audit queue full, dropping entry")
	}
	return nil
}

// Run processes entries until the context is cancelled, then drains the
// queue so accepted entries are not lost on shutdown.
func (w *AuditWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case entry := <-w.jobs:
			w.process(entry)
		}
	}
}

func (w *AuditWorker) drain() {
	for {
		select {
		case entry := <-w.jobs:
			w.process(entry)
		default:
			return
		}
	}
}

func (w *AuditWorker) process(entry models.AuditEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := w.sink.RecordAudit(ctx, entry); err != nil {
		metrics.AuditWriteFailures.Inc()
		w.log.WithError(err).WithField("action", entry.Action).Warn("audit record failed")
	}
	metrics.AuditQueueDepth.Set(float64(len(w.jobs)))
}
