// Package domain defines the canonical service interfaces shared across
// consumers (REST handlers, CLI, tests). Consumers should depend on these
// interfaces rather than re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/L1malucas/smarted-sub000/internal/audited"
	"github.com/L1malucas/smarted-sub000/internal/models"
)

// LinkService defines share-link issuance, resolution, and lifecycle.
// Every method executes under the audited action envelope.
type LinkService interface {
	Issue(ctx context.Context, sess *models.SessionClaim, req models.CreateLinkRequest) audited.Result[*models.ShareLink]
	Resolve(ctx context.Context, token, password string) audited.Result[*models.SharedResource]
	List(ctx context.Context, sess *models.SessionClaim, opts models.ListLinkOpts) audited.Result[*models.LinkPage]
	Update(ctx context.Context, sess *models.SessionClaim, token string, req models.UpdateLinkRequest) audited.Result[*models.ShareLink]
	Deactivate(ctx context.Context, sess *models.SessionClaim, token string) audited.Result[*models.ShareLink]
	Delete(ctx context.Context, sess *models.SessionClaim, token string) audited.Result[struct{}]
}

// SettingsService defines tenant settings resolution and update.
type SettingsService interface {
	Get(ctx context.Context, sess *models.SessionClaim) audited.Result[*models.TenantSettings]
	Update(ctx context.Context, sess *models.SessionClaim, req models.UpdateSettingsRequest) audited.Result[*models.TenantSettings]
}

// AuthService defines credential exchange.
type AuthService interface {
	Login(ctx context.Context, email, password string) audited.Result[*models.TokenPair]
	Refresh(ctx context.Context, refreshToken string) audited.Result[*models.TokenPair]
}

// AuditService defines audit log access for administrators.
type AuditService interface {
	Query(ctx context.Context, sess *models.SessionClaim, opts models.AuditQueryOpts) audited.Result[*models.AuditPage]
	Purge(ctx context.Context, sess *models.SessionClaim, retentionDays int) audited.Result[int]
}

// Auditor is the minimal interface for recording audit entries; it matches
// audited.Recorder so stores, workers, and mocks are interchangeable.
type Auditor interface {
	RecordAudit(ctx context.Context, entry models.AuditEntry) error
}
