// Package auth issues and verifies the signed session credentials.
//
// Two credential kinds exist: a short-lived access token and a longer-lived
// refresh token. Each is signed with its own secret so a leaked access key
// cannot forge refresh tokens. Verification never returns error detail to
// callers beyond nil/non-nil; the distinction is logged at debug level only.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/L1malucas/smarted-sub000/internal/models"
)

// Token kinds carried in the "kind" claim. A refresh token presented where
// an access token is expected fails verification, and vice versa.
const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

// Claims is the JWT payload for both token kinds.
type Claims struct {
	TenantID    string   `json:"tenant_id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	IsAdmin     bool     `json:"is_admin"`
	Kind        string   `json:"kind"`
	jwt.RegisteredClaims
}

// Resolver verifies session credentials and mints new ones.
type Resolver struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	log           *logrus.Logger
}

// NewResolver creates a Resolver with independent signing material for the
// two token kinds.
func NewResolver(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration, log *logrus.Logger) *Resolver {
	return &Resolver{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		log:           log,
	}
}

// IssueAccess signs a short-lived access token for the user.
func (r *Resolver) IssueAccess(u *models.User) (string, error) {
	return r.sign(u, kindAccess, r.accessSecret, r.accessTTL)
}

// IssueRefresh signs a longer-lived refresh token for the user.
func (r *Resolver) IssueRefresh(u *models.User) (string, error) {
	return r.sign(u, kindRefresh, r.refreshSecret, r.refreshTTL)
}

func (r *Resolver) sign(u *models.User, kind string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		TenantID:    u.TenantID,
		Name:        u.Name,
		Email:       u.Email,
		Roles:       u.Roles,
		Permissions: u.Permissions,
		IsAdmin:     u.IsAdmin,
		Kind:        kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", kind, err)
	}

	return signed, nil
}

// Resolve verifies an access credential and returns the session claim, or
// nil for any malformed, expired, or mis-signed credential. It never errors;
// callers decide whether anonymous access is permitted.
func (r *Resolver) Resolve(raw string) *models.SessionClaim {
	claims := r.verify(raw, kindAccess, r.accessSecret)
	if claims == nil {
		return nil
	}

	return &models.SessionClaim{
		UserID:      claims.Subject,
		TenantID:    claims.TenantID,
		Name:        claims.Name,
		Email:       claims.Email,
		Roles:       claims.Roles,
		Permissions: claims.Permissions,
		IsAdmin:     claims.IsAdmin,
	}
}

// VerifyRefresh verifies a refresh credential and returns its claims, or nil.
func (r *Resolver) VerifyRefresh(raw string) *Claims {
	return r.verify(raw, kindRefresh, r.refreshSecret)
}

func (r *Resolver) verify(raw, wantKind string, secret []byte) *Claims {
	if raw == "" {
		return nil
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		r.log.WithError(err).WithField("kind", wantKind).Debug("credential verification failed")
		return nil
	}

	if claims.Kind != wantKind {
		r.log.WithFields(logrus.Fields{"kind": claims.Kind, "want": wantKind}).Debug("credential kind mismatch")
		return nil
	}

	return claims
}
