package client

import "time"

// ShareLink is a shareable capability bound to one resource.
type ShareLink struct {
	Token          string     `json:"token"`
	ResourceType   string     `json:"resource_type"`
	ResourceID     string     `json:"resource_id"`
	ResourceName   string     `json:"resource_name"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	MaxViews       *int       `json:"max_views,omitempty"`
	ViewsCount     int        `json:"views_count"`
	HasPassword    bool       `json:"has_password"`
	IsActive       bool       `json:"is_active"`
	CreatedBy      string     `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
}

// CreateLinkRequest is the payload for issuing a share link.
type CreateLinkRequest struct {
	ResourceType string     `json:"resource_type"`
	ResourceID   string     `json:"resource_id"`
	ResourceName string     `json:"resource_name"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	MaxViews     *int       `json:"max_views,omitempty"`
	Password     string     `json:"password,omitempty"`
}

// UpdateLinkRequest is the payload for updating a link; nil fields are left
// unchanged. A non-nil empty Password removes the password gate.
type UpdateLinkRequest struct {
	IsActive  *bool      `json:"is_active,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	MaxViews  *int       `json:"max_views,omitempty"`
	Password  *string    `json:"password,omitempty"`
}

// ListLinkOptions filters a link listing.
type ListLinkOptions struct {
	ResourceType string
	ResourceID   string
	IsActive     *bool
	Limit        int
	Offset       int
}

// SharedResource is the payload returned by resolving a share link.
type SharedResource struct {
	Link *ShareLink `json:"link"`
	// Resource holds the shared job, candidate report, or dashboard,
	// left as raw JSON to be shaped by the caller.
	Resource map[string]any `json:"resource"`
}

// TenantSettings holds per-tenant sharing policy.
type TenantSettings struct {
	DefaultLinkExpirationDays     int       `json:"default_link_expiration_days"`
	RequirePasswordForPublicLinks bool      `json:"require_password_for_public_links"`
	AllowPublicLinkSharing        bool      `json:"allow_public_link_sharing"`
	MaxLinkViews                  int       `json:"max_link_views"`
	MaxUsersPerTenant             int       `json:"max_users_per_tenant"`
	CreatedAt                     time.Time `json:"created_at"`
	UpdatedAt                     time.Time `json:"updated_at"`
}

// UpdateSettingsRequest is a partial settings update; nil fields are left
// unchanged.
type UpdateSettingsRequest struct {
	DefaultLinkExpirationDays     *int  `json:"default_link_expiration_days,omitempty"`
	RequirePasswordForPublicLinks *bool `json:"require_password_for_public_links,omitempty"`
	AllowPublicLinkSharing        *bool `json:"allow_public_link_sharing,omitempty"`
	MaxLinkViews                  *int  `json:"max_link_views,omitempty"`
	MaxUsersPerTenant             *int  `json:"max_users_per_tenant,omitempty"`
}

// User describes the authenticated account returned by login.
type User struct {
	ID          string   `json:"id"`
	TenantID    string   `json:"tenant_id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	IsAdmin     bool     `json:"is_admin"`
}

// TokenPair is the credential exchange response.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// AuditEntry is one recorded action attempt.
type AuditEntry struct {
	ID           int64          `json:"id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	Actor        string         `json:"actor"`
	ActorName    string         `json:"actor_name,omitempty"`
	Success      bool           `json:"success"`
	Detail       map[string]any `json:"detail,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AuditQueryOptions filters an audit query.
type AuditQueryOptions struct {
	ResourceType string
	ResourceID   string
	Action       string
	Actor        string
	Success      *bool
	Since        *time.Time
	Limit        int
	Offset       int
}

// HealthResponse is the liveness check payload.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	SchemaVersion int     `json:"schema_version"`
	Database      string  `json:"database"`
	WSClients     int     `json:"ws_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}
