package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/L1malucas/smarted-sub000/internal/api"
	"github.com/L1malucas/smarted-sub000/internal/audited"
	"github.com/L1malucas/smarted-sub000/internal/models"
)

func authRoutes(svc *mockAuthService) *gin.Engine {
	r := newTestRouter(nil)
	h := api.NewAuthHandler(svc, testLogger())
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)

	return r
}

func TestLogin(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(_ context.Context, email, password string) audited.Result[*models.TokenPair] {
			if email != "recruiter@example.com" || password != "hunter22" {
				t.Errorf("credentials = %q/%q", email, password)
			}

			return ok(&models.TokenPair{AccessToken: "acc", RefreshToken: "ref"})
		},
	}
	r := authRoutes(svc)

	w := doRequest(r, http.MethodPost, "/auth/login", `{"email":"recruiter@example.com","password":"hunter22"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var pair models.TokenPair
	if err := json.Unmarshal(w.Body.Bytes(), &pair); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if pair.AccessToken != "acc" || pair.RefreshToken != "ref" {
		t.Errorf("pair = %+v", pair)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(_ context.Context, _, _ string) audited.Result[*models.TokenPair] {
			return fail[*models.TokenPair](models.ErrInvalidCredentials, "invalid email or password")
		},
	}
	r := authRoutes(svc)

	w := doRequest(r, http.MethodPost, "/auth/login", `{"email":"recruiter@example.com","password":"wrong"}`)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestLoginRejectsMissingFields(t *testing.T) {
	r := authRoutes(&mockAuthService{})

	for _, body := range []string{`{}`, `{"email":"a@b.c"}`, `{"password":"x"}`, `{bad`} {
		w := doRequest(r, http.MethodPost, "/auth/login", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, w.Code)
		}
	}
}

func TestRefresh(t *testing.T) {
	svc := &mockAuthService{
		refreshFn: func(_ context.Context, refreshToken string) audited.Result[*models.TokenPair] {
			if refreshToken != "ref-old" {
				t.Errorf("refresh token = %q, want ref-old", refreshToken)
			}

			return ok(&models.TokenPair{AccessToken: "acc-new", RefreshToken: "ref-new"})
		},
	}
	r := authRoutes(svc)

	w := doRequest(r, http.MethodPost, "/auth/refresh", `{"refresh_token":"ref-old"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestRefreshRejectsInvalidToken(t *testing.T) {
	svc := &mockAuthService{
		refreshFn: func(_ context.Context, _ string) audited.Result[*models.TokenPair] {
			return fail[*models.TokenPair](models.ErrUnauthorized, "invalid or expired refresh token")
		},
	}
	r := authRoutes(svc)

	w := doRequest(r, http.MethodPost, "/auth/refresh", `{"refresh_token":"garbage"}`)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
