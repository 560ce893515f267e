// Package audited provides the execution envelope every domain action runs
// in: one unit of work, one audit record per attempt, no escaping panics.
//
// Actions receive their session explicitly (nil for the anonymous public
// path) rather than looking one up, so tests can inject arbitrary callers.
// An audit-sink failure is reported on the warn channel and never alters
// the outcome the caller sees.
package audited

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/L1malucas/smarted-sub000/internal/metrics"
	"github.com/L1malucas/smarted-sub000/internal/models"
)

// Recorder is the audit sink contract. Writes are at-most-once best-effort;
// the wrapper does not retry or queue on failure.
type Recorder interface {
	RecordAudit(ctx context.Context, entry models.AuditEntry) error
}

// Meta is the static description of an action.
type Meta struct {
	// Action names the attempt in audit records, e.g. "share_link.create".
	Action string
	// ResourceType is the audited resource kind, e.g. "share_link".
	ResourceType string
	// RequireAuth rejects nil sessions before the unit of work runs. The
	// rejected attempt is still audited.
	RequireAuth bool
}

// Info is the outcome-derived audit context a unit of work reports back.
type Info struct {
	// ResourceID of the affected resource. When the work fails before an
	// ID is known, the argument-derived fallback passed to Run is used.
	ResourceID string
	// TenantID overrides the session tenant on the audit record. The
	// anonymous gate sets this from the resolved link.
	TenantID string
	// Detail is merged into the audit record detail.
	Detail map[string]any
}

// Fn is a unit of work executed under the envelope.
type Fn[T any] func(ctx context.Context) (T, Info, error)

// Result is the uniform envelope returned to callers. A wrapped action can
// never surface a panic; failures carry a machine code, a sanitized
// user-facing message, and the underlying error for in-process classification.
type Result[T any] struct {
	Success bool
	Data    T
	Code    string
	// Message is safe to return to API callers; infrastructure detail is
	// collapsed.
	Message string
	// Error is the underlying failure, for errors.Is classification. Never
	// sent over the wire.
	Error error
}

// Err returns the underlying error of a failed result, nil otherwise.
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	return r.Error
}

// Run executes fn under the audit envelope. fallbackResourceID is the
// argument-derived resource ID recorded when fn fails before reporting one.
func Run[T any](
	ctx context.Context,
	rec Recorder,
	log *logrus.Logger,
	meta Meta,
	sess *models.SessionClaim,
	fallbackResourceID string,
	fn Fn[T],
) Result[T] {
	var (
		value T
		info  Info
		err   error
	)

	if meta.RequireAuth && sess == nil {
		err = models.ErrUnauthorized
	} else {
		value, info, err = invoke(ctx, log, meta, fn)
	}

	recordOnce(ctx, rec, log, meta, sess, fallbackResourceID, info, err)

	code := models.ErrorCode(err)
	metrics.ActionsTotal.WithLabelValues(meta.Action, outcomeLabel(code)).Inc()

	if err != nil {
		return Result[T]{Success: false, Code: code, Message: userMessage(code, err), Error: err}
	}

	return Result[T]{Success: true, Data: value}
}

// invoke runs fn, converting a panic into an error instead of unwinding
// through the envelope.
func invoke[T any](ctx context.Context, log *logrus.Logger, meta Meta, fn Fn[T]) (value T, info Info, err error) {
	defer func() {
		if p := recover(); p != nil {
			log.WithFields(logrus.Fields{
				"action": meta.Action,
				"panic":  fmt.Sprint(p),
				"stack":  string(debug.Stack()),
			}).Error("recovered panic in audited action")

			err = fmt.Errorf("panic in %s: %v", meta.Action, p)
		}
	}()

	return fn(ctx)
}

// recordOnce writes exactly one audit record for the attempt. A sink failure
// is logged at Warn and otherwise swallowed.
func recordOnce(
	ctx context.Context,
	rec Recorder,
	log *logrus.Logger,
	meta Meta,
	sess *models.SessionClaim,
	fallbackResourceID string,
	info Info,
	actionErr error,
) {
	resourceID := info.ResourceID
	if resourceID == "" {
		resourceID = fallbackResourceID
	}

	tenantID := info.TenantID
	if tenantID == "" && sess != nil {
		tenantID = sess.TenantID
	}

	detail := info.Detail
	if actionErr != nil {
		if detail == nil {
			detail = make(map[string]any, 1)
		}
		detail["error"] = actionErr.Error()
	}

	entry := models.AuditEntry{
		TenantID:     tenantID,
		Action:       meta.Action,
		ResourceType: meta.ResourceType,
		ResourceID:   resourceID,
		Actor:        sess.Actor(),
		ActorName:    sess.ActorName(),
		Success:      actionErr == nil,
		Detail:       detail,
	}

	if err := rec.RecordAudit(ctx, entry); err != nil {
		metrics.AuditWriteFailures.Inc()
		log.WithError(err).WithFields(logrus.Fields{
			"action":      meta.Action,
			"resource_id": resourceID,
		}).Warn("audit record write failed")
	}
}

// userMessage returns the caller-facing error text. Expected outcomes keep
// their sentinel message; infrastructure detail is collapsed.
func userMessage(code string, err error) string {
	switch code {
	case models.CodeInternalError:
		return "internal error"
	case models.CodeStoreUnavailable:
		return "service temporarily unavailable"
	default:
		return err.Error()
	}
}

func outcomeLabel(code string) string {
	if code == "" {
		return "success"
	}
	return code
}
