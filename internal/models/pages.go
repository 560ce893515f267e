package models

// LinkPage is one page of a tenant's share links.
type LinkPage struct {
	Links   []ShareLink `json:"links"`
	HasMore bool        `json:"has_more"`
}

// AuditPage is one page of a tenant's audit log.
type AuditPage struct {
	Entries []AuditEntry `json:"entries"`
	HasMore bool         `json:"has_more"`
}

// TokenPair is the credential exchange response: a short-lived access token
// and a longer-lived refresh token, each signed with independent material.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         *User  `json:"user,omitempty"`
}
