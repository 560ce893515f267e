package models

import "time"

// Job is a published job posting, the most common share target.
type Job struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"-"`
	Title       string    `json:"title"`
	Department  string    `json:"department"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CandidateReport is a candidate's scoring summary for one job. Contact
// fields are encrypted at rest and decrypted only when the report is
// released through the gate or an authenticated read.
type CandidateReport struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"-"`
	JobID     string    `json:"job_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Score     float64   `json:"score"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DashboardMetrics is the aggregate view shared with external stakeholders.
type DashboardMetrics struct {
	TenantID        string    `json:"-"`
	OpenJobs        int       `json:"open_jobs"`
	TotalCandidates int       `json:"total_candidates"`
	AverageScore    float64   `json:"average_score"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// SharedResource is the gate's payload: the resolved resource plus the link
// metadata after view accounting.
type SharedResource struct {
	Link     *ShareLink `json:"link"`
	Resource any        `json:"resource"`
}

// User is a persisted account consulted during login. PasswordHash is a
// bcrypt hash and never serialized.
type User struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenant_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	Permissions  []string  `json:"permissions"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}
