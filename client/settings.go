package client

import "context"

// SettingsService handles tenant sharing policy.
type SettingsService struct {
	c *Client
}

// Get returns the tenant's sharing settings.
func (s *SettingsService) Get(ctx context.Context) (*TenantSettings, error) {
	var settings TenantSettings
	if err := s.c.get(ctx, "/api/v1/settings", nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Update applies a partial settings change. Requires an admin session.
func (s *SettingsService) Update(ctx context.Context, req *UpdateSettingsRequest) (*TenantSettings, error) {
	var settings TenantSettings
	if err := s.c.put(ctx, "/api/v1/settings", req, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
