package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/L1malucas/smarted-sub000/internal/models"
)

// JobStore reads job postings, the most common share target.
type JobStore struct {
	Base
}

// NewJobStore creates a JobStore.
func NewJobStore(base Base) *JobStore {
	return &JobStore{Base: base}
}

const jobColumns = `id, tenant_id, title, department, location, description, status, created_at, updated_at`

// Get returns one job within the given tenant.
func (s *JobStore) Get(ctx context.Context, tenantID, jobID string) (*models.Job, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	var j models.Job

	err = tx.QueryRow(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE id = $1 AND tenant_id = $2",
		jobID, tenantID,
	).Scan(&j.ID, &j.TenantID, &j.Title, &j.Department, &j.Location,
		&j.Description, &j.Status, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrResourceGone
	}
	if err != nil {
		return nil, storeErr("reading job", err)
	}

	return &j, nil
}

// CandidateStore reads candidate scoring reports. Contact fields are
// AES-GCM encrypted at rest with the tenant's key and decrypted on read.
type CandidateStore struct {
	Base
}

// NewCandidateStore creates a CandidateStore.
func NewCandidateStore(base Base) *CandidateStore {
	return &CandidateStore{Base: base}
}

const candidateColumns = `id, tenant_id, job_id, full_name, email_enc, phone_enc, score, summary, created_at, updated_at`

// Get returns one candidate report with contact fields decrypted.
func (s *CandidateStore) Get(ctx context.Context, tenantID, reportID string) (*models.CandidateReport, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	var (
		r           models.CandidateReport
		emailCipher string
		phoneCipher string
	)

	err = tx.QueryRow(ctx,
		"SELECT "+candidateColumns+" FROM candidate_reports WHERE id = $1 AND tenant_id = $2",
		reportID, tenantID,
	).Scan(&r.ID, &r.TenantID, &r.JobID, &r.FullName, &emailCipher, &phoneCipher,
		&r.Score, &r.Summary, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrResourceGone
	}
	if err != nil {
		return nil, storeErr("reading candidate report", err)
	}

	if r.Email, err = s.decryptContact(ctx, tenantID, emailCipher); err != nil {
		return nil, storeErr("decrypting candidate email", err)
	}
	if r.Phone, err = s.decryptContact(ctx, tenantID, phoneCipher); err != nil {
		return nil, storeErr("decrypting candidate phone", err)
	}

	return &r, nil
}

// decryptContact decodes one encrypted contact column. The schema defaults
// contact columns to the empty string, which means the field was never
// captured, not that an empty ciphertext exists.
func (s *CandidateStore) decryptContact(ctx context.Context, tenantID, ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	plain, err := s.Crypto.Decrypt(ctx, tenantID, ciphertext)
	if err != nil {
		return "", err
	}

	return string(plain), nil
}

// DashboardStore computes the aggregate metrics shared with external
// stakeholders. Scores are stored values, not computed here.
type DashboardStore struct {
	Base
}

// NewDashboardStore creates a DashboardStore.
func NewDashboardStore(base Base) *DashboardStore {
	return &DashboardStore{Base: base}
}

// Get returns the tenant's dashboard metrics. A dashboard always exists for
// a valid tenant, so the only failure mode is infrastructure.
func (s *DashboardStore) Get(ctx context.Context, tenantID string) (*models.DashboardMetrics, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	m := models.DashboardMetrics{TenantID: tenantID, GeneratedAt: time.Now().UTC()}

	err = tx.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM jobs WHERE tenant_id = $1 AND status = 'open'),
			(SELECT count(*) FROM candidate_reports WHERE tenant_id = $1),
			(SELECT COALESCE(avg(score), 0) FROM candidate_reports WHERE tenant_id = $1)`,
		tenantID,
	).Scan(&m.OpenJobs, &m.TotalCandidates, &m.AverageScore)
	if err != nil {
		return nil, storeErr("reading dashboard metrics", err)
	}

	return &m, nil
}
