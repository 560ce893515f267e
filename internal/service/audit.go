package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/L1malucas/smarted-sub000/internal/audited"
	"github.com/L1malucas/smarted-sub000/internal/domain"
	"github.com/L1malucas/smarted-sub000/internal/models"
)

var _ domain.AuditService = (*AuditService)(nil)

// AuditReadStore is the data-access interface AuditService depends on.
type AuditReadStore interface {
	QueryAudit(ctx context.Context, tenantID string, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error)
	PurgeOldEntries(ctx context.Context, tenantID string, retentionDays int) (int, error)
}

// AuditService exposes the audit trail to tenant administrators.
type AuditService struct {
	audits AuditReadStore
	rec    audited.Recorder
	log    *logrus.Logger
}

func NewAuditService(audits AuditReadStore, rec audited.Recorder, log *logrus.Logger) *AuditService {
	return &AuditService{audits: audits, rec: rec, log: log}
}

// Query returns the tenant's audit entries, newest first. Admin only.
func (s *AuditService) Query(
	ctx context.Context, sess *models.SessionClaim, opts models.AuditQueryOpts,
) audited.Result[*models.AuditPage] {
	meta := audited.Meta{Action: "audit.query", ResourceType: "audit_log", RequireAuth: true}

	return audited.Run(ctx, s.rec, s.log, meta, sess, "",
		func(ctx context.Context) (*models.AuditPage, audited.Info, error) {
			if !sess.IsAdmin {
				return nil, audited.Info{}, models.ErrForbidden
			}

			entries, hasMore, err := s.audits.QueryAudit(ctx, sess.TenantID, opts)
			if err != nil {
				return nil, audited.Info{}, err
			}

			return &models.AuditPage{Entries: entries, HasMore: hasMore},
				audited.Info{Detail: map[string]any{"count": len(entries)}}, nil
		})
}

// Purge removes the tenant's audit entries older than the retention window
// and returns the number deleted. Admin only.
func (s *AuditService) Purge(
	ctx context.Context, sess *models.SessionClaim, retentionDays int,
) audited.Result[int] {
	meta := audited.Meta{Action: "audit.purge", ResourceType: "audit_log", RequireAuth: true}

	return audited.Run(ctx, s.rec, s.log, meta, sess, "",
		func(ctx context.Context) (int, audited.Info, error) {
			if !sess.IsAdmin {
				return 0, audited.Info{}, models.ErrForbidden
			}
			if retentionDays < 1 {
				return 0, audited.Info{}, models.ErrValidation
			}

			deleted, err := s.audits.PurgeOldEntries(ctx, sess.TenantID, retentionDays)
			if err != nil {
				return 0, audited.Info{}, err
			}

			return deleted, audited.Info{
				Detail: map[string]any{"deleted": deleted, "retention_days": retentionDays},
			}, nil
		})
}
