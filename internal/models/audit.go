package models

import "time"

// AuditEntry is the immutable record of one action attempt. Exactly one is
// written per attempt by the audited action wrapper, success or failure.
type AuditEntry struct {
	ID           int64          `json:"id"`
	TenantID     string         `json:"-"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	Actor        string         `json:"actor"`
	ActorName    string         `json:"actor_name,omitempty"`
	Success      bool           `json:"success"`
	Detail       map[string]any `json:"detail,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AuditQueryOpts holds filters for querying the audit log.
type AuditQueryOpts struct {
	ResourceType string
	ResourceID   string
	Action       string
	Actor        string
	Success      *bool
	Since        *time.Time
	Limit        int
	Offset       int
}
