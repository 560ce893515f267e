package auth

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/L1malucas/smarted-sub000/internal/models"
)

func newTestResolver(accessTTL, refreshTTL time.Duration) *Resolver {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return NewResolver([]byte("access-secret"), []byte("refresh-secret"), accessTTL, refreshTTL, log)
}

func testUser() *models.User {
	return &models.User{
		ID:       "u1",
		TenantID: "t1",
		Name:     "Ana Reyes",
		Email:    "ana@example.com",
		Roles:    []string{"recruiter"},
		IsAdmin:  false,
	}
}

func TestResolveRoundTrip(t *testing.T) {
	r := newTestResolver(time.Minute, time.Hour)

	token, err := r.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	sess := r.Resolve(token)
	if sess == nil {
		t.Fatal("Resolve returned nil for a valid access token")
	}
	if sess.UserID != "u1" || sess.TenantID != "t1" {
		t.Errorf("claim = %+v, want user u1 tenant t1", sess)
	}
	if sess.IsAdmin {
		t.Error("IsAdmin = true, want false")
	}
}

func TestResolveCollapsesFailuresToNil(t *testing.T) {
	r := newTestResolver(time.Minute, time.Hour)

	expired := newTestResolver(-time.Minute, time.Hour)
	expiredToken, err := expired.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	otherKey := NewResolver([]byte("other"), []byte("other2"), time.Minute, time.Hour, logrus.New())
	forged, err := otherKey.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "garbage", raw: "not.a.jwt"},
		{name: "expired", raw: expiredToken},
		{name: "wrong key", raw: forged},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if sess := r.Resolve(tc.raw); sess != nil {
				t.Errorf("Resolve(%s) = %+v, want nil", tc.name, sess)
			}
		})
	}
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	r := newTestResolver(time.Minute, time.Hour)

	access, err := r.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	refresh, err := r.IssueRefresh(testUser())
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	if sess := r.Resolve(refresh); sess != nil {
		t.Error("refresh token resolved as an access session")
	}
	if claims := r.VerifyRefresh(access); claims != nil {
		t.Error("access token verified as a refresh credential")
	}
	if claims := r.VerifyRefresh(refresh); claims == nil {
		t.Error("valid refresh token failed verification")
	}
}

func TestSameKindDifferentKeysDoNotCross(t *testing.T) {
	// A resolver whose refresh secret equals the access secret of r would be
	// a deployment mistake; the kind claim still keeps the tokens apart.
	r := NewResolver([]byte("shared"), []byte("shared"), time.Minute, time.Hour, logrus.New())

	access, err := r.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	if claims := r.VerifyRefresh(access); claims != nil {
		t.Error("access token accepted as refresh despite identical keys")
	}
}
