package service

import (
	"context"
	"errors"
	"testing"

	"github.com/L1malucas/smarted-sub000/internal/models"
)

func adminSession() *models.SessionClaim {
	sess := testSession()
	sess.IsAdmin = true
	return sess
}

func TestSettingsGetMaterializesDefaults(t *testing.T) {
	svc := NewSettingsService(&mockSettingsStore{}, &captureRecorder{}, testLogger())

	res := svc.Get(context.Background(), testSession())
	if !res.Success {
		t.Fatalf("get failed: %v", res.Error)
	}

	got := res.Data
	if got.DefaultLinkExpirationDays != models.DefaultLinkExpirationDays {
		t.Errorf("expiration days = %d, want %d", got.DefaultLinkExpirationDays, models.DefaultLinkExpirationDays)
	}
	if !got.AllowPublicLinkSharing || got.RequirePasswordForPublicLinks {
		t.Errorf("defaults = %+v, want sharing allowed and no password requirement", got)
	}
	if got.MaxLinkViews != 0 {
		t.Errorf("max link views = %d, want 0 (unlimited)", got.MaxLinkViews)
	}
}

func TestSettingsUpdateRequiresAdmin(t *testing.T) {
	rec := &captureRecorder{}
	svc := NewSettingsService(&mockSettingsStore{}, rec, testLogger())

	disallow := false
	res := svc.Update(context.Background(), testSession(),
		models.UpdateSettingsRequest{AllowPublicLinkSharing: &disallow})
	if res.Success || !errors.Is(res.Error, models.ErrForbidden) {
		t.Fatalf("error = %v, want forbidden for non-admin", res.Error)
	}

	entries := rec.all()
	if len(entries) != 1 || entries[0].Success {
		t.Errorf("want one failed audit entry, got %+v", entries)
	}
}

func TestSettingsUpdateMergesPartialFields(t *testing.T) {
	store := &mockSettingsStore{}
	svc := NewSettingsService(store, &captureRecorder{}, testLogger())

	days := 30
	res := svc.Update(context.Background(), adminSession(),
		models.UpdateSettingsRequest{DefaultLinkExpirationDays: &days})
	if !res.Success {
		t.Fatalf("update failed: %v", res.Error)
	}
	if res.Data.DefaultLinkExpirationDays != 30 {
		t.Errorf("expiration days = %d, want 30", res.Data.DefaultLinkExpirationDays)
	}
	if !res.Data.AllowPublicLinkSharing {
		t.Error("untouched field changed")
	}
}

func TestSettingsUpdateRejectsNegativeMaxViews(t *testing.T) {
	svc := NewSettingsService(&mockSettingsStore{}, &captureRecorder{}, testLogger())

	neg := -1
	res := svc.Update(context.Background(), adminSession(),
		models.UpdateSettingsRequest{MaxLinkViews: &neg})
	if res.Success || !errors.Is(res.Error, models.ErrValidation) {
		t.Fatalf("error = %v, want validation failure", res.Error)
	}
}
