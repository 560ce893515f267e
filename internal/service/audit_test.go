package service

import (
	"context"
	"errors"
	"testing"

	"github.com/L1malucas/smarted-sub000/internal/models"
)

func TestAuditQueryAdminOnly(t *testing.T) {
	store := &mockAuditReadStore{entries: []models.AuditEntry{
		{TenantID: testTenant, Action: "share_link.create", Success: true},
		{TenantID: otherTenant, Action: "share_link.delete", Success: true},
	}}
	svc := NewAuditService(store, &captureRecorder{}, testLogger())

	if res := svc.Query(context.Background(), testSession(), models.AuditQueryOpts{}); res.Success ||
		!errors.Is(res.Error, models.ErrForbidden) {
		t.Fatalf("non-admin query = %v, want forbidden", res.Error)
	}

	res := svc.Query(context.Background(), adminSession(), models.AuditQueryOpts{})
	if !res.Success {
		t.Fatalf("admin query failed: %v", res.Error)
	}
	if len(res.Data.Entries) != 1 || res.Data.Entries[0].TenantID != testTenant {
		t.Errorf("entries = %+v, want only the session tenant's rows", res.Data.Entries)
	}
}

func TestAuditPurge(t *testing.T) {
	store := &mockAuditReadStore{purged: 42}
	svc := NewAuditService(store, &captureRecorder{}, testLogger())

	if res := svc.Purge(context.Background(), testSession(), 90); res.Success ||
		!errors.Is(res.Error, models.ErrForbidden) {
		t.Fatalf("non-admin purge = %v, want forbidden", res.Error)
	}

	if res := svc.Purge(context.Background(), adminSession(), 0); res.Success ||
		!errors.Is(res.Error, models.ErrValidation) {
		t.Fatalf("zero retention = %v, want validation failure", res.Error)
	}

	res := svc.Purge(context.Background(), adminSession(), 90)
	if !res.Success {
		t.Fatalf("purge failed: %v", res.Error)
	}
	if res.Data != 42 {
		t.Errorf("deleted = %d, want 42", res.Data)
	}
}
