package models

import "time"

// System defaults materialized on first read of a tenant's settings.
const (
	DefaultLinkExpirationDays = 7
	DefaultMaxLinkViews       = 0 // unlimited
	DefaultMaxUsersPerTenant  = 25
)

// TenantSettings holds per-tenant sharing policy. One row per tenant,
// created lazily with defaults the first time it is read.
type TenantSettings struct {
	TenantID string `json:"-"`

	// DefaultLinkExpirationDays of 0 means new links never expire unless
	// the issuer sets an explicit expiration.
	DefaultLinkExpirationDays     int  `json:"default_link_expiration_days"`
	RequirePasswordForPublicLinks bool `json:"require_password_for_public_links"`
	AllowPublicLinkSharing        bool `json:"allow_public_link_sharing"`
	// MaxLinkViews of 0 means new links default to unlimited views.
	MaxLinkViews      int `json:"max_link_views"`
	MaxUsersPerTenant int `json:"max_users_per_tenant"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultTenantSettings returns the system defaults for a tenant.
func DefaultTenantSettings(tenantID string) TenantSettings {
	return TenantSettings{
		TenantID:                      tenantID,
		DefaultLinkExpirationDays:     DefaultLinkExpirationDays,
		RequirePasswordForPublicLinks: false,
		AllowPublicLinkSharing:        true,
		MaxLinkViews:                  DefaultMaxLinkViews,
		MaxUsersPerTenant:             DefaultMaxUsersPerTenant,
	}
}

// UpdateSettingsRequest carries a partial settings update; nil fields are
// left unchanged.
type UpdateSettingsRequest struct {
	DefaultLinkExpirationDays     *int  `json:"default_link_expiration_days,omitempty"`
	RequirePasswordForPublicLinks *bool `json:"require_password_for_public_links,omitempty"`
	AllowPublicLinkSharing        *bool `json:"allow_public_link_sharing,omitempty"`
	MaxLinkViews                  *int  `json:"max_link_views,omitempty"`
	MaxUsersPerTenant             *int  `json:"max_users_per_tenant,omitempty"`
}

// Validate rejects values the storage layer would otherwise accept verbatim.
func (r *UpdateSettingsRequest) Validate() error {
	if r.MaxLinkViews != nil && *r.MaxLinkViews < 0 {
		return ErrNegativeMaxViews
	}
	return nil
}
