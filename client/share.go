package client

import (
	"context"
	"net/http"
	"net/url"
)

// ShareService resolves public share links. No authentication is required.
type ShareService struct {
	c *Client
}

// Resolve fetches the resource behind a share token. Pass an empty password
// for links without a password gate.
func (s *ShareService) Resolve(ctx context.Context, token, password string) (*SharedResource, error) {
	var headers map[string]string
	if password != "" {
		headers = map[string]string{"X-Share-Password": password}
	}

	var shared SharedResource
	path := "/api/v1/share/" + url.PathEscape(token)
	if err := s.c.do(ctx, http.MethodGet, path, headers, nil, &shared); err != nil {
		return nil, err
	}
	return &shared, nil
}
