package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestServer creates a test server that routes to the given handler map.
// Keys are "METHOD /path", values are handler funcs.
func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := New(srv.URL, WithToken("test-token"))
	return srv, c
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func TestHealth(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/health": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, HealthResponse{Status: "ok", Version: "0.3.0", SchemaVersion: 1})
		},
	})
	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("got status %q, want ok", resp.Status)
	}
	if resp.Version != "0.3.0" {
		t.Errorf("got version %q, want 0.3.0", resp.Version)
	}
}

func TestLinksLifecycle(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/links": func(w http.ResponseWriter, r *http.Request) {
			var req CreateLinkRequest
			json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
			jsonResponse(w, 201, ShareLink{Token: "tok-1", ResourceType: req.ResourceType, ResourceID: req.ResourceID, IsActive: true})
		},
		"GET /api/v1/links": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("resource_type") != "job" {
				t.Errorf("resource_type = %q, want job", r.URL.Query().Get("resource_type"))
			}
			jsonResponse(w, 200, map[string]any{"links": []ShareLink{{Token: "tok-1"}}, "has_more": false})
		},
		"PATCH /api/v1/links/tok-1": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, ShareLink{Token: "tok-1", IsActive: false})
		},
		"POST /api/v1/links/tok-1/deactivate": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, ShareLink{Token: "tok-1", IsActive: false})
		},
		"DELETE /api/v1/links/tok-1": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(204)
		},
	})

	ctx := context.Background()

	link, err := c.Links.Create(ctx, &CreateLinkRequest{ResourceType: "job", ResourceID: "job-1", ResourceName: "Backend Engineer"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if link.Token != "tok-1" || !link.IsActive {
		t.Errorf("Create: got %+v", link)
	}

	links, hasMore, err := c.Links.List(ctx, &ListLinkOptions{ResourceType: "job"})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(links) != 1 || hasMore {
		t.Errorf("List: got %d links, hasMore=%v", len(links), hasMore)
	}

	inactive := false
	link, err = c.Links.Update(ctx, "tok-1", &UpdateLinkRequest{IsActive: &inactive})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if link.IsActive {
		t.Error("Update: link still active")
	}

	if _, err = c.Links.Deactivate(ctx, "tok-1"); err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}

	if err = c.Links.Delete(ctx, "tok-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestShareResolve(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/share/tok-1": func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Share-Password") != "s3cret" {
				jsonResponse(w, 401, map[string]string{"code": "password_required", "message": "this link is password protected"})
				return
			}
			jsonResponse(w, 200, SharedResource{
				Link:     &ShareLink{Token: "tok-1", ViewsCount: 1},
				Resource: map[string]any{"title": "Backend Engineer"},
			})
		},
	})

	ctx := context.Background()

	_, err := c.Share.Resolve(ctx, "tok-1", "")
	if !IsPasswordRequired(err) {
		t.Fatalf("want password_required, got %v", err)
	}

	shared, err := c.Share.Resolve(ctx, "tok-1", "s3cret")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if shared.Link.ViewsCount != 1 {
		t.Errorf("views = %d, want 1", shared.Link.ViewsCount)
	}
	if shared.Resource["title"] != "Backend Engineer" {
		t.Errorf("resource = %v", shared.Resource)
	}
}

func TestShareResolveDeadLink(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/share/tok-dead": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 404, map[string]string{"code": "not_found", "message": "link not found or no longer available"})
		},
	})

	_, err := c.Share.Resolve(context.Background(), "tok-dead", "")
	if !IsNotFound(err) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestAuthLoginStoresToken(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/auth/login": func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
			if req.Email != "recruiter@example.com" {
				t.Errorf("email = %q", req.Email)
			}
			jsonResponse(w, 200, TokenPair{AccessToken: "acc-1", RefreshToken: "ref-1"})
		},
	})

	pair, err := c.Auth.Login(context.Background(), "recruiter@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if pair.RefreshToken != "ref-1" {
		t.Errorf("refresh = %q", pair.RefreshToken)
	}
	if c.Token() != "acc-1" {
		t.Errorf("stored token = %q, want acc-1", c.Token())
	}
}

func TestAuthRefreshRotatesToken(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/auth/refresh": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, TokenPair{AccessToken: "acc-2", RefreshToken: "ref-2"})
		},
	})

	if _, err := c.Auth.Refresh(context.Background(), "ref-1"); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if c.Token() != "acc-2" {
		t.Errorf("stored token = %q, want acc-2", c.Token())
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/settings": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, TenantSettings{DefaultLinkExpirationDays: 7, AllowPublicLinkSharing: true})
		},
		"PUT /api/v1/settings": func(w http.ResponseWriter, r *http.Request) {
			var req UpdateSettingsRequest
			json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
			if req.MaxLinkViews == nil || *req.MaxLinkViews != 10 {
				t.Errorf("max_link_views = %v", req.MaxLinkViews)
			}
			jsonResponse(w, 200, TenantSettings{DefaultLinkExpirationDays: 7, MaxLinkViews: 10})
		},
	})

	ctx := context.Background()

	settings, err := c.Settings.Get(ctx)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !settings.AllowPublicLinkSharing {
		t.Error("sharing not allowed in defaults")
	}

	views := 10
	settings, err = c.Settings.Update(ctx, &UpdateSettingsRequest{MaxLinkViews: &views})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if settings.MaxLinkViews != 10 {
		t.Errorf("max views = %d, want 10", settings.MaxLinkViews)
	}
}

func TestAuditQueryAndPurge(t *testing.T) {
	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/audit": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("since") != "2026-08-01T00:00:00Z" {
				t.Errorf("since = %q", r.URL.Query().Get("since"))
			}
			jsonResponse(w, 200, map[string]any{
				"entries":  []AuditEntry{{ID: 1, Action: "share_link.create", Success: true}},
				"has_more": false,
			})
		},
		"DELETE /api/v1/audit": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("retention_days") != "30" {
				t.Errorf("retention_days = %q", r.URL.Query().Get("retention_days"))
			}
			jsonResponse(w, 200, map[string]int{"deleted": 7, "retention_days": 30})
		},
	})

	ctx := context.Background()

	entries, hasMore, err := c.Audit.Query(ctx, &AuditQueryOptions{Since: &since})
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if len(entries) != 1 || hasMore {
		t.Errorf("Query: got %d entries, hasMore=%v", len(entries), hasMore)
	}

	deleted, err := c.Audit.Purge(ctx, 30)
	if err != nil {
		t.Fatalf("Purge error: %v", err)
	}
	if deleted != 7 {
		t.Errorf("deleted = %d, want 7", deleted)
	}
}

func TestBearerTokenSent(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/settings": func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer test-token" {
				t.Errorf("authorization = %q", r.Header.Get("Authorization"))
			}
			jsonResponse(w, 200, TenantSettings{})
		},
	})

	if _, err := c.Settings.Get(context.Background()); err != nil {
		t.Fatalf("Get error: %v", err)
	}
}

func TestAPIErrorMessage(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/settings": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 403, map[string]string{"code": "forbidden", "message": "administrator access required", "request_id": "req-1"})
		},
	})

	_, err := c.Settings.Get(context.Background())
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("want *APIError, got %T", err)
	}
	if apiErr.StatusCode != 403 || apiErr.Code != "forbidden" || apiErr.RequestID != "req-1" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}
