package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/L1malucas/smarted-sub000/internal/audited"
	"github.com/L1malucas/smarted-sub000/internal/domain"
	"github.com/L1malucas/smarted-sub000/internal/models"
)

var _ domain.SettingsService = (*SettingsService)(nil)

// SettingsStore is the data-access interface SettingsService depends on.
type SettingsStore interface {
	Get(ctx context.Context, tenantID string) (*models.TenantSettings, error)
	Update(ctx context.Context, tenantID string, req models.UpdateSettingsRequest) (*models.TenantSettings, error)
}

// SettingsService reads and updates per-tenant sharing policy.
type SettingsService struct {
	settings SettingsStore
	rec      audited.Recorder
	log      *logrus.Logger
}

func NewSettingsService(settings SettingsStore, rec audited.Recorder, log *logrus.Logger) *SettingsService {
	return &SettingsService{settings: settings, rec: rec, log: log}
}

// Get returns the session tenant's settings, materializing defaults on
// first access.
func (s *SettingsService) Get(ctx context.Context, sess *models.SessionClaim) audited.Result[*models.TenantSettings] {
	meta := audited.Meta{Action: "settings.read", ResourceType: "tenant_settings", RequireAuth: true}

	return audited.Run(ctx, s.rec, s.log, meta, sess, "",
		func(ctx context.Context) (*models.TenantSettings, audited.Info, error) {
			settings, err := s.settings.Get(ctx, sess.TenantID)
			if err != nil {
				return nil, audited.Info{}, err
			}
			return settings, audited.Info{ResourceID: sess.TenantID}, nil
		})
}

// Update merges provided fields into the tenant settings. Only admins may
// change sharing policy.
func (s *SettingsService) Update(
	ctx context.Context, sess *models.SessionClaim, req models.UpdateSettingsRequest,
) audited.Result[*models.TenantSettings] {
	meta := audited.Meta{Action: "settings.update", ResourceType: "tenant_settings", RequireAuth: true}

	return audited.Run(ctx, s.rec, s.log, meta, sess, "",
		func(ctx context.Context) (*models.TenantSettings, audited.Info, error) {
			if !sess.IsAdmin {
				return nil, audited.Info{}, models.ErrForbidden
			}
			if err := req.Validate(); err != nil {
				return nil, audited.Info{}, err
			}

			updated, err := s.settings.Update(ctx, sess.TenantID, req)
			if err != nil {
				return nil, audited.Info{}, err
			}

			return updated, audited.Info{
				ResourceID: sess.TenantID,
				Detail:     map[string]any{"allow_public_link_sharing": updated.AllowPublicLinkSharing},
			}, nil
		})
}
