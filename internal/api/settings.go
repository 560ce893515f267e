package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/L1malucas/smarted-sub000/internal/domain"
	"github.com/L1malucas/smarted-sub000/internal/models"
)

// SettingsHandler serves tenant sharing policy endpoints.
type SettingsHandler struct {
	svc domain.SettingsService
	log *logrus.Logger
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(svc domain.SettingsService, log *logrus.Logger) *SettingsHandler {
	return &SettingsHandler{svc: svc, log: log}
}

// Get handles GET /api/v1/settings.
func (h *SettingsHandler) Get(c *gin.Context) {
	sess := getSession(c)
	if sess == nil {
		return
	}

	respondResult(c, h.svc.Get(c.Request.Context(), sess), http.StatusOK)
}

// Update handles PUT /api/v1/settings.
func (h *SettingsHandler) Update(c *gin.Context) {
	sess := getSession(c)
	if sess == nil {
		return
	}

	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	respondResult(c, h.svc.Update(c.Request.Context(), sess, req), http.StatusOK)
}
