package store

import (
	"context"

	"github.com/L1malucas/smarted-sub000/internal/models"
)

// TenantSettingsStore provides data access for the tenant_settings table.
type TenantSettingsStore struct {
	Base
}

// NewTenantSettingsStore creates a TenantSettingsStore.
func NewTenantSettingsStore(base Base) *TenantSettingsStore {
	return &TenantSettingsStore{Base: base}
}

const settingsColumns = `tenant_id, default_link_expiration_days, require_password_for_public_links,
	allow_public_link_sharing, max_link_views, max_users_per_tenant, created_at, updated_at`

func scanSettings(r row) (*models.TenantSettings, error) {
	var s models.TenantSettings

	err := r.Scan(
		&s.TenantID, &s.DefaultLinkExpirationDays, &s.RequirePasswordForPublicLinks,
		&s.AllowPublicLinkSharing, &s.MaxLinkViews, &s.MaxUsersPerTenant,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// Get returns the tenant's settings, materializing the system defaults on
// first read. Read-with-materialize, not a plain read: two concurrent first
// reads race benignly through ON CONFLICT DO NOTHING.
func (s *TenantSettingsStore) Get(ctx context.Context, tenantID string) (*models.TenantSettings, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	defaults := models.DefaultTenantSettings(tenantID)

	_, err = tx.Exec(ctx, `
		INSERT INTO tenant_settings (tenant_id, default_link_expiration_days,
			require_password_for_public_links, allow_public_link_sharing,
			max_link_views, max_users_per_tenant)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id) DO NOTHING`,
		tenantID, defaults.DefaultLinkExpirationDays, defaults.RequirePasswordForPublicLinks,
		defaults.AllowPublicLinkSharing, defaults.MaxLinkViews, defaults.MaxUsersPerTenant,
	)
	if err != nil {
		return nil, storeErr("materializing tenant settings", err)
	}

	settings, err := scanSettings(tx.QueryRow(ctx,
		"SELECT "+settingsColumns+" FROM tenant_settings WHERE tenant_id = $1", tenantID))
	if err != nil {
		return nil, storeErr("reading tenant settings", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr("committing tenant settings read", err)
	}

	return settings, nil
}

// Update upserts a partial settings change: create-if-absent from defaults,
// then merge only the fields present in the request.
func (s *TenantSettingsStore) Update(
	ctx context.Context, tenantID string, req models.UpdateSettingsRequest,
) (*models.TenantSettings, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	defaults := models.DefaultTenantSettings(tenantID)

	// COALESCE merges NULL (field absent from the request) with the stored
	// value, so the statement is a single round-trip upsert.
	settings, err := scanSettings(tx.QueryRow(ctx, `
		INSERT INTO tenant_settings (tenant_id, default_link_expiration_days,
			require_password_for_public_links, allow_public_link_sharing,
			max_link_views, max_users_per_tenant)
		VALUES ($1,
			COALESCE($2, $7), COALESCE($3, $8), COALESCE($4, $9),
			COALESCE($5, $10), COALESCE($6, $11))
		ON CONFLICT (tenant_id) DO UPDATE SET
			default_link_expiration_days      = COALESCE($2, tenant_settings.default_link_expiration_days),
			require_password_for_public_links = COALESCE($3, tenant_settings.require_password_for_public_links),
			allow_public_link_sharing         = COALESCE($4, tenant_settings.allow_public_link_sharing),
			max_link_views                    = COALESCE($5, tenant_settings.max_link_views),
			max_users_per_tenant              = COALESCE($6, tenant_settings.max_users_per_tenant),
			updated_at                        = now()
		RETURNING `+settingsColumns,
		tenantID,
		req.DefaultLinkExpirationDays, req.RequirePasswordForPublicLinks,
		req.AllowPublicLinkSharing, req.MaxLinkViews, req.MaxUsersPerTenant,
		defaults.DefaultLinkExpirationDays, defaults.RequirePasswordForPublicLinks,
		defaults.AllowPublicLinkSharing, defaults.MaxLinkViews, defaults.MaxUsersPerTenant,
	))
	if err != nil {
		return nil, storeErr("upserting tenant settings", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr("committing tenant settings upsert", err)
	}

	return settings, nil
}
