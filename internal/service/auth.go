package service

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/L1malucas/smarted-sub000/internal/audited"
	"github.com/L1malucas/smarted-sub000/internal/auth"
	"github.com/L1malucas/smarted-sub000/internal/domain"
	"github.com/L1malucas/smarted-sub000/internal/models"
)

var _ domain.AuthService = (*AuthService)(nil)

// UserStore is the data-access interface AuthService depends on.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AuthService issues and renews token pairs against stored credentials.
type AuthService struct {
	users    UserStore
	resolver *auth.Resolver
	guard    PasswordGuard
	rec      audited.Recorder
	log      *logrus.Logger
}

func NewAuthService(users UserStore, resolver *auth.Resolver, guard PasswordGuard, rec audited.Recorder, log *logrus.Logger) *AuthService {
	return &AuthService{users: users, resolver: resolver, guard: guard, rec: rec, log: log}
}

// Login verifies credentials and issues an access/refresh token pair. All
// credential failures collapse to ErrInvalidCredentials so callers cannot
// distinguish unknown accounts from wrong passwords.
func (s *AuthService) Login(ctx context.Context, email, password string) audited.Result[*models.TokenPair] {
	meta := audited.Meta{Action: "auth.login", ResourceType: "user"}

	return audited.Run(ctx, s.rec, s.log, meta, nil, email,
		func(ctx context.Context) (*models.TokenPair, audited.Info, error) {
			if s.guard != nil && s.guard.IsBlocked(email) {
				return nil, audited.Info{}, models.ErrInvalidCredentials
			}

			user, err := s.users.GetByEmail(ctx, email)
			if err != nil {
				if s.guard != nil {
					s.guard.RecordFailure(email)
				}
				return nil, audited.Info{}, err
			}

			info := audited.Info{ResourceID: user.ID, TenantID: user.TenantID}

			if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
				if s.guard != nil {
					s.guard.RecordFailure(email)
				}
				return nil, info, models.ErrInvalidCredentials
			}

			if s.guard != nil {
				s.guard.ResetKey(email)
			}

			pair, err := s.issuePair(user)
			if err != nil {
				return nil, info, err
			}
			return pair, info, nil
		})
}

// Refresh exchanges a valid refresh token for a fresh pair, re-reading the
// user so revoked accounts and stale role grants fall out of circulation.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) audited.Result[*models.TokenPair] {
	meta := audited.Meta{Action: "auth.refresh", ResourceType: "user"}

	return audited.Run(ctx, s.rec, s.log, meta, nil, "",
		func(ctx context.Context) (*models.TokenPair, audited.Info, error) {
			claims := s.resolver.VerifyRefresh(refreshToken)
			if claims == nil {
				return nil, audited.Info{}, models.ErrUnauthorized
			}

			user, err := s.users.GetByID(ctx, claims.Subject)
			if err != nil {
				return nil, audited.Info{}, models.ErrUnauthorized
			}

			info := audited.Info{ResourceID: user.ID, TenantID: user.TenantID}

			pair, err := s.issuePair(user)
			if err != nil {
				return nil, info, err
			}
			return pair, info, nil
		})
}

func (s *AuthService) issuePair(user *models.User) (*models.TokenPair, error) {
	access, err := s.resolver.IssueAccess(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.resolver.IssueRefresh(user)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh, User: user}, nil
}
