package models

import "time"

// ResourceType identifies the kind of resource a share link is bound to and
// determines how the gate resolves the bound resource.
type ResourceType string

// Shareable resource kinds.
const (
	ResourceJob             ResourceType = "job"
	ResourceCandidateReport ResourceType = "candidate_report"
	ResourceDashboard       ResourceType = "dashboard"
)

// ValidResourceTypes enumerates the resource kinds a link may be issued for.
var ValidResourceTypes = map[ResourceType]bool{
	ResourceJob:             true,
	ResourceCandidateReport: true,
	ResourceDashboard:       true,
}

// ShareLink is a bearer capability granting anonymous access to one
// tenant-scoped resource. Token, resource binding, tenant and creator fields
// are immutable after creation; the gate mutates only ViewsCount and
// LastAccessedAt, the lifecycle manager everything else.
type ShareLink struct {
	Token        string       `json:"token"`
	TenantID     string       `json:"-"`
	ResourceType ResourceType `json:"resource_type"`
	ResourceID   string       `json:"resource_id"`
	ResourceName string       `json:"resource_name"`

	// ExpiresAt nil means the link never expires.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	// MaxViews nil means unlimited resolutions.
	MaxViews   *int `json:"max_views,omitempty"`
	ViewsCount int  `json:"views_count"`

	// PasswordHash holds a bcrypt hash; empty means no password gate.
	// Never serialized.
	PasswordHash string `json:"-"`
	HasPassword  bool   `json:"has_password"`

	IsActive bool `json:"is_active"`

	CreatedBy         string     `json:"created_by"`
	CreatedByUserName string     `json:"created_by_user_name"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	LastAccessedAt    *time.Time `json:"last_accessed_at,omitempty"`
}

// Resolvable reports whether the link passes every state check at the given
// instant, ignoring the password gate (which needs caller input).
func (l *ShareLink) Resolvable(now time.Time) bool {
	if !l.IsActive {
		return false
	}
	if l.ExpiresAt != nil && !now.Before(*l.ExpiresAt) {
		return false
	}
	if l.MaxViews != nil && l.ViewsCount >= *l.MaxViews {
		return false
	}
	return true
}

// maxResourceNameLen bounds the free-text resource label.
const maxResourceNameLen = 255

// CreateLinkRequest is the issuance payload. TenantID and creator identity
// come from the session, never from the payload.
type CreateLinkRequest struct {
	ResourceType ResourceType `json:"resource_type"`
	ResourceID   string       `json:"resource_id"`
	ResourceName string       `json:"resource_name"`

	// ExpiresAt overrides the tenant default; nil defers to settings.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	// MaxViews overrides the tenant default; nil defers to settings.
	MaxViews *int `json:"max_views,omitempty"`
	// Password, when set, gates resolution. Stored only as a bcrypt hash.
	Password string `json:"password,omitempty"`
}

// Validate checks the issuance payload.
func (r *CreateLinkRequest) Validate(now time.Time) error {
	if r.ResourceType == "" {
		return ErrMissingResourceType
	}
	if !ValidResourceTypes[r.ResourceType] {
		return ErrInvalidResourceType
	}
	if r.ResourceID == "" {
		return ErrMissingResourceID
	}
	if r.ResourceName == "" {
		return ErrMissingResourceName
	}
	if len(r.ResourceName) > maxResourceNameLen {
		return ErrMissingResourceName
	}
	if r.MaxViews != nil && *r.MaxViews < 0 {
		return ErrNegativeMaxViews
	}
	if r.ExpiresAt != nil && r.ExpiresAt.Before(now) {
		return ErrNegativeExpiration
	}
	return nil
}

// UpdateLinkRequest carries the mutable fields of a link. Nil fields are left
// unchanged. Immutable fields present in a payload are ignored by binding
// (they simply do not exist here).
type UpdateLinkRequest struct {
	IsActive  *bool      `json:"is_active,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	MaxViews  *int       `json:"max_views,omitempty"`
	// Password non-nil replaces the password gate; empty string removes it.
	Password *string `json:"password,omitempty"`
}

// Validate checks the update payload.
func (r *UpdateLinkRequest) Validate() error {
	if r.MaxViews != nil && *r.MaxViews < 0 {
		return ErrNegativeMaxViews
	}
	return nil
}

// ListLinkOpts holds filters for listing a tenant's links.
type ListLinkOpts struct {
	ResourceType ResourceType
	ResourceID   string
	IsActive     *bool
	Limit        int
	Offset       int
}
