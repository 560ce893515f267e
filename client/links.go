package client

import (
	"context"
	"net/url"
	"strconv"
)

// LinkService handles authenticated share-link management.
type LinkService struct {
	c *Client
}

// listLinksResponse wraps the paginated link listing.
type listLinksResponse struct {
	Links   []ShareLink `json:"links"`
	HasMore bool        `json:"has_more"`
}

// Create issues a new share link.
func (s *LinkService) Create(ctx context.Context, req *CreateLinkRequest) (*ShareLink, error) {
	var link ShareLink
	if err := s.c.post(ctx, "/api/v1/links", req, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// List returns the tenant's share links matching the given options.
func (s *LinkService) List(ctx context.Context, opts *ListLinkOptions) ([]ShareLink, bool, error) {
	params := url.Values{}
	if opts != nil {
		if opts.ResourceType != "" {
			params.Set("resource_type", opts.ResourceType)
		}
		if opts.ResourceID != "" {
			params.Set("resource_id", opts.ResourceID)
		}
		if opts.IsActive != nil {
			params.Set("is_active", strconv.FormatBool(*opts.IsActive))
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}
	var resp listLinksResponse
	if err := s.c.get(ctx, "/api/v1/links", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Links, resp.HasMore, nil
}

// Update modifies the mutable fields of a link.
func (s *LinkService) Update(ctx context.Context, token string, req *UpdateLinkRequest) (*ShareLink, error) {
	var link ShareLink
	if err := s.c.patch(ctx, "/api/v1/links/"+url.PathEscape(token), req, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// Deactivate kills a link immediately. Safe to call more than once.
func (s *LinkService) Deactivate(ctx context.Context, token string) (*ShareLink, error) {
	var link ShareLink
	if err := s.c.post(ctx, "/api/v1/links/"+url.PathEscape(token)+"/deactivate", nil, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// Delete removes a link permanently.
func (s *LinkService) Delete(ctx context.Context, token string) error {
	return s.c.del(ctx, "/api/v1/links/"+url.PathEscape(token), nil, nil)
}
