package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/L1malucas/smarted-sub000/internal/models"
)

type stubResolver struct {
	sessions map[string]*models.SessionClaim
}

func (s *stubResolver) Resolve(raw string) *models.SessionClaim {
	return s.sessions[raw]
}

func sessionTestRouter(resolver SessionResolver, adminOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	r := gin.New()
	chain := []gin.HandlerFunc{RequireSession(resolver, log)}
	if adminOnly {
		chain = append(chain, RequireAdmin())
	}
	chain = append(chain, func(c *gin.Context) {
		sess := GetSession(c)
		c.JSON(http.StatusOK, gin.H{"user": sess.UserID})
	})
	r.GET("/protected", chain...)

	r.GET("/open", OptionalSession(resolver), func(c *gin.Context) {
		if sess := GetSession(c); sess != nil {
			c.JSON(http.StatusOK, gin.H{"user": sess.UserID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": nil})
	})
	return r
}

func TestRequireSession(t *testing.T) {
	resolver := &stubResolver{sessions: map[string]*models.SessionClaim{
		"good-token": {UserID: "u1", TenantID: "t1"},
	}}
	r := sessionTestRouter(resolver, false)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid bearer", header: "Bearer good-token", want: http.StatusOK},
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good-token", want: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer bad-token", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	resolver := &stubResolver{sessions: map[string]*models.SessionClaim{
		"admin-token": {UserID: "u1", TenantID: "t1", IsAdmin: true},
		"user-token":  {UserID: "u2", TenantID: "t1"},
	}}
	r := sessionTestRouter(resolver, true)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "admin passes", header: "Bearer admin-token", want: http.StatusOK},
		{name: "plain user refused", header: "Bearer user-token", want: http.StatusForbidden},
		{name: "anonymous refused", header: "", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestOptionalSessionNeverRejects(t *testing.T) {
	resolver := &stubResolver{sessions: map[string]*models.SessionClaim{
		"good-token": {UserID: "u1", TenantID: "t1"},
	}}
	r := sessionTestRouter(resolver, false)

	for _, header := range []string{"", "Bearer good-token", "Bearer junk"} {
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("header %q: status = %d, want 200", header, w.Code)
		}
	}
}
