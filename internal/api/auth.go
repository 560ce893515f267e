package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/L1malucas/smarted-sub000/internal/domain"
)

// AuthHandler serves credential exchange endpoints.
type AuthHandler struct {
	svc domain.AuthService
	log *logrus.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc domain.AuthService, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "email and password are required")

		return
	}

	respondResult(c, h.svc.Login(c.Request.Context(), req.Email, req.Password), http.StatusOK)
}

// Refresh handles POST /api/v1/auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "refresh_token is required")

		return
	}

	respondResult(c, h.svc.Refresh(c.Request.Context(), req.RefreshToken), http.StatusOK)
}
