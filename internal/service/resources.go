package service

import (
	"context"
	"fmt"

	"github.com/L1malucas/smarted-sub000/internal/models"
)

// JobReader loads a job posting for public display.
type JobReader interface {
	Get(ctx context.Context, tenantID, id string) (*models.Job, error)
}

// CandidateReader loads a candidate evaluation report.
type CandidateReader interface {
	Get(ctx context.Context, tenantID, id string) (*models.CandidateReport, error)
}

// DashboardReader computes the tenant dashboard snapshot.
type DashboardReader interface {
	Get(ctx context.Context, tenantID string) (*models.DashboardMetrics, error)
}

// ResourceResolver dispatches a validated link to the store that owns its
// resource type. Missing rows surface as models.ErrResourceGone from the
// stores themselves.
type ResourceResolver struct {
	Jobs       JobReader
	Candidates CandidateReader
	Dashboards DashboardReader
}

var _ ResourceFetcher = (*ResourceResolver)(nil)

func (r *ResourceResolver) Fetch(ctx context.Context, link *models.ShareLink) (any, error) {
	switch link.ResourceType {
	case models.ResourceJob:
		return r.Jobs.Get(ctx, link.TenantID, link.ResourceID)
	case models.ResourceCandidateReport:
		return r.Candidates.Get(ctx, link.TenantID, link.ResourceID)
	case models.ResourceDashboard:
		return r.Dashboards.Get(ctx, link.TenantID)
	default:
		return nil, fmt.Errorf("%w: resource type %q", models.ErrInvalidResourceType, link.ResourceType)
	}
}
