package api_test

import (
	"context"

	"github.com/L1malucas/smarted-sub000/internal/audited"
	"github.com/L1malucas/smarted-sub000/internal/models"
)

// ok wraps data in a successful action result.
func ok[T any](data T) audited.Result[T] {
	return audited.Result[T]{Success: true, Data: data}
}

// fail builds a failed action result from a sentinel error.
func fail[T any](err error, message string) audited.Result[T] {
	return audited.Result[T]{Success: false, Code: models.ErrorCode(err), Message: message, Error: err}
}

// mockLinkService implements domain.LinkService with injectable behavior.
type mockLinkService struct {
	issueFn      func(ctx context.Context, sess *models.SessionClaim, req models.CreateLinkRequest) audited.Result[*models.ShareLink]
	resolveFn    func(ctx context.Context, token, password string) audited.Result[*models.SharedResource]
	listFn       func(ctx context.Context, sess *models.SessionClaim, opts models.ListLinkOpts) audited.Result[*models.LinkPage]
	updateFn     func(ctx context.Context, sess *models.SessionClaim, token string, req models.UpdateLinkRequest) audited.Result[*models.ShareLink]
	deactivateFn func(ctx context.Context, sess *models.SessionClaim, token string) audited.Result[*models.ShareLink]
	deleteFn     func(ctx context.Context, sess *models.SessionClaim, token string) audited.Result[struct{}]
}

func (m *mockLinkService) Issue(ctx context.Context, sess *models.SessionClaim, req models.CreateLinkRequest) audited.Result[*models.ShareLink] {
	return m.issueFn(ctx, sess, req)
}

func (m *mockLinkService) Resolve(ctx context.Context, token, password string) audited.Result[*models.SharedResource] {
	return m.resolveFn(ctx, token, password)
}

func (m *mockLinkService) List(ctx context.Context, sess *models.SessionClaim, opts models.ListLinkOpts) audited.Result[*models.LinkPage] {
	return m.listFn(ctx, sess, opts)
}

func (m *mockLinkService) Update(ctx context.Context, sess *models.SessionClaim, token string, req models.UpdateLinkRequest) audited.Result[*models.ShareLink] {
	return m.updateFn(ctx, sess, token, req)
}

func (m *mockLinkService) Deactivate(ctx context.Context, sess *models.SessionClaim, token string) audited.Result[*models.ShareLink] {
	return m.deactivateFn(ctx, sess, token)
}

func (m *mockLinkService) Delete(ctx context.Context, sess *models.SessionClaim, token string) audited.Result[struct{}] {
	return m.deleteFn(ctx, sess, token)
}

// mockSettingsService implements domain.SettingsService.
type mockSettingsService struct {
	getFn    func(ctx context.Context, sess *models.SessionClaim) audited.Result[*models.TenantSettings]
	updateFn func(ctx context.Context, sess *models.SessionClaim, req models.UpdateSettingsRequest) audited.Result[*models.TenantSettings]
}

func (m *mockSettingsService) Get(ctx context.Context, sess *models.SessionClaim) audited.Result[*models.TenantSettings] {
	return m.getFn(ctx, sess)
}

func (m *mockSettingsService) Update(ctx context.Context, sess *models.SessionClaim, req models.UpdateSettingsRequest) audited.Result[*models.TenantSettings] {
	return m.updateFn(ctx, sess, req)
}

// mockAuthService implements domain.AuthService.
type mockAuthService struct {
	loginFn   func(ctx context.Context, email, password string) audited.Result[*models.TokenPair]
	refreshFn func(ctx context.Context, refreshToken string) audited.Result[*models.TokenPair]
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) audited.Result[*models.TokenPair] {
	return m.loginFn(ctx, email, password)
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) audited.Result[*models.TokenPair] {
	return m.refreshFn(ctx, refreshToken)
}

// mockAuditService implements domain.AuditService.
type mockAuditService struct {
	queryFn func(ctx context.Context, sess *models.SessionClaim, opts models.AuditQueryOpts) audited.Result[*models.AuditPage]
	purgeFn func(ctx context.Context, sess *models.SessionClaim, retentionDays int) audited.Result[int]
}

func (m *mockAuditService) Query(ctx context.Context, sess *models.SessionClaim, opts models.AuditQueryOpts) audited.Result[*models.AuditPage] {
	return m.queryFn(ctx, sess, opts)
}

func (m *mockAuditService) Purge(ctx context.Context, sess *models.SessionClaim, retentionDays int) audited.Result[int] {
	return m.purgeFn(ctx, sess, retentionDays)
}
