package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/L1malucas/smarted-sub000/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// mockLinkStore is an in-memory LinkStore. RegisterView applies the same
// conditional-update semantics as the SQL store, under a lock, so the
// concurrency tests exercise the real contention behavior.
type mockLinkStore struct {
	mu    sync.Mutex
	links map[string]*models.ShareLink

	createErr error
	getErr    error
	updateErr error
	deleteErr error
	viewErr   error
}

func newMockLinkStore() *mockLinkStore {
	return &mockLinkStore{links: make(map[string]*models.ShareLink)}
}

func (m *mockLinkStore) put(link *models.ShareLink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *link
	m.links[link.Token] = &cp
}

func (m *mockLinkStore) get(token string) *models.ShareLink {
	m.mu.Lock()
	defer m.mu.Unlock()
	link, ok := m.links[token]
	if !ok {
		return nil
	}
	cp := *link
	return &cp
}

func (m *mockLinkStore) Create(_ context.Context, link *models.ShareLink) (*models.ShareLink, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *link
	cp.HasPassword = cp.PasswordHash != ""
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	m.links[cp.Token] = &cp

	out := cp
	return &out, nil
}

func (m *mockLinkStore) GetByToken(_ context.Context, token string) (*models.ShareLink, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	link := m.get(token)
	if link == nil {
		return nil, models.ErrLinkNotFound
	}
	return link, nil
}

func (m *mockLinkStore) GetForTenant(_ context.Context, tenantID, token string) (*models.ShareLink, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	link := m.get(token)
	if link == nil || link.TenantID != tenantID {
		return nil, models.ErrLinkNotFound
	}
	return link, nil
}

func (m *mockLinkStore) List(_ context.Context, tenantID string, _ models.ListLinkOpts) ([]models.ShareLink, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.ShareLink
	for _, link := range m.links {
		if link.TenantID == tenantID {
			out = append(out, *link)
		}
	}
	return out, false, nil
}

func (m *mockLinkStore) Update(
	_ context.Context, tenantID, token string, req models.UpdateLinkRequest, passwordHash *string,
) (*models.ShareLink, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[token]
	if !ok || link.TenantID != tenantID {
		return nil, models.ErrLinkNotFound
	}

	if req.IsActive != nil {
		link.IsActive = *req.IsActive
	}
	if req.ExpiresAt != nil {
		link.ExpiresAt = req.ExpiresAt
	}
	if req.MaxViews != nil {
		if *req.MaxViews <= 0 {
			link.MaxViews = nil
		} else {
			v := *req.MaxViews
			link.MaxViews = &v
		}
	}
	if passwordHash != nil {
		link.PasswordHash = *passwordHash
		link.HasPassword = *passwordHash != ""
	}
	link.UpdatedAt = time.Now().UTC()

	cp := *link
	return &cp, nil
}

func (m *mockLinkStore) Delete(_ context.Context, tenantID, token string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[token]
	if !ok || link.TenantID != tenantID {
		return models.ErrLinkNotFound
	}
	delete(m.links, token)
	return nil
}

func (m *mockLinkStore) RegisterView(_ context.Context, token string) (*models.ShareLink, bool, error) {
	if m.viewErr != nil {
		return nil, false, m.viewErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[token]
	if !ok {
		return nil, false, nil
	}

	now := time.Now().UTC()
	if !link.IsActive {
		return nil, false, nil
	}
	if link.ExpiresAt != nil && !now.Before(*link.ExpiresAt) {
		return nil, false, nil
	}
	if link.MaxViews != nil && link.ViewsCount >= *link.MaxViews {
		return nil, false, nil
	}

	link.ViewsCount++
	link.LastAccessedAt = &now
	link.UpdatedAt = now

	cp := *link
	return &cp, true, nil
}

type mockSettingsStore struct {
	settings  *models.TenantSettings
	getErr    error
	updateErr error
}

func (m *mockSettingsStore) Get(_ context.Context, tenantID string) (*models.TenantSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.settings != nil {
		cp := *m.settings
		return &cp, nil
	}
	def := models.DefaultTenantSettings(tenantID)
	return &def, nil
}

func (m *mockSettingsStore) Update(
	_ context.Context, tenantID string, req models.UpdateSettingsRequest,
) (*models.TenantSettings, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	cur := m.settings
	if cur == nil {
		def := models.DefaultTenantSettings(tenantID)
		cur = &def
	}
	if req.DefaultLinkExpirationDays != nil {
		cur.DefaultLinkExpirationDays = *req.DefaultLinkExpirationDays
	}
	if req.RequirePasswordForPublicLinks != nil {
		cur.RequirePasswordForPublicLinks = *req.RequirePasswordForPublicLinks
	}
	if req.AllowPublicLinkSharing != nil {
		cur.AllowPublicLinkSharing = *req.AllowPublicLinkSharing
	}
	if req.MaxLinkViews != nil {
		cur.MaxLinkViews = *req.MaxLinkViews
	}
	if req.MaxUsersPerTenant != nil {
		cur.MaxUsersPerTenant = *req.MaxUsersPerTenant
	}
	m.settings = cur
	cp := *cur
	return &cp, nil
}

// mockResources returns a fixed payload for every link.
type mockResources struct {
	payload any
	err     error
}

func (m *mockResources) Fetch(_ context.Context, _ *models.ShareLink) (any, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.payload, nil
}

// mockGuard counts throttle interactions.
type mockGuard struct {
	mu       sync.Mutex
	blocked  map[string]bool
	failures map[string]int
	resets   map[string]int
}

func newMockGuard() *mockGuard {
	return &mockGuard{
		blocked:  make(map[string]bool),
		failures: make(map[string]int),
		resets:   make(map[string]int),
	}
}

func (m *mockGuard) IsBlocked(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blocked[key]
}

func (m *mockGuard) RecordFailure(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[key]++
}

func (m *mockGuard) ResetKey(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets[key]++
}

// captureRecorder collects every audit entry it receives.
type captureRecorder struct {
	mu      sync.Mutex
	entries []models.AuditEntry
	err     error
}

func (m *captureRecorder) RecordAudit(_ context.Context, entry models.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return m.err
}

func (m *captureRecorder) all() []models.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.AuditEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

type mockUserStore struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
	err     error
}

func newMockUserStore(users ...*models.User) *mockUserStore {
	m := &mockUserStore{
		byEmail: make(map[string]*models.User),
		byID:    make(map[string]*models.User),
	}
	for _, u := range users {
		m.byEmail[u.Email] = u
		m.byID[u.ID] = u
	}
	return m
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byEmail[email]
	if !ok {
		return nil, models.ErrInvalidCredentials
	}
	return u, nil
}

func (m *mockUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, models.ErrInvalidCredentials
	}
	return u, nil
}

type mockAuditReadStore struct {
	entries  []models.AuditEntry
	purged   int
	queryErr error
	purgeErr error
}

func (m *mockAuditReadStore) QueryAudit(
	_ context.Context, tenantID string, _ models.AuditQueryOpts,
) ([]models.AuditEntry, bool, error) {
	if m.queryErr != nil {
		return nil, false, m.queryErr
	}
	var out []models.AuditEntry
	for _, e := range m.entries {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	return out, false, nil
}

func (m *mockAuditReadStore) PurgeOldEntries(_ context.Context, _ string, _ int) (int, error) {
	if m.purgeErr != nil {
		return 0, m.purgeErr
	}
	return m.purged, nil
}
