package models

// SessionClaim is the verified identity derived from an access credential.
// It is never stored; it lives only for the duration of a request and is
// passed explicitly to every core operation so tests can inject arbitrary
// sessions.
type SessionClaim struct {
	UserID      string   `json:"user_id"`
	TenantID    string   `json:"tenant_id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	IsAdmin     bool     `json:"is_admin"`
}

// PublicActor is the synthetic actor recorded for anonymous gate
// resolutions, where authorization is token possession rather than identity.
const PublicActor = "public"

// Actor returns the audit actor string for a possibly-nil session.
func (s *SessionClaim) Actor() string {
	if s == nil {
		return PublicActor
	}
	return s.UserID
}

// ActorName returns the human-readable actor name for a possibly-nil session.
func (s *SessionClaim) ActorName() string {
	if s == nil {
		return PublicActor
	}
	return s.Name
}

// CanManage reports whether the session may mutate a link created by owner.
func (s *SessionClaim) CanManage(owner string) bool {
	if s == nil {
		return false
	}
	return s.IsAdmin || s.UserID == owner
}
