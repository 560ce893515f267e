package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/L1malucas/smarted-sub000/internal/domain"
	"github.com/L1malucas/smarted-sub000/internal/models"
)

// AuditHandler serves audit log endpoints.
type AuditHandler struct {
	svc domain.AuditService
	log *logrus.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(svc domain.AuditService, log *logrus.Logger) *AuditHandler {
	return &AuditHandler{svc: svc, log: log}
}

// Query handles GET /api/v1/audit.
func (h *AuditHandler) Query(c *gin.Context) {
	sess := getSession(c)
	if sess == nil {
		return
	}

	opts := models.AuditQueryOpts{
		ResourceType: c.Query("resource_type"),
		ResourceID:   c.Query("resource_id"),
		Action:       c.Query("action"),
		Actor:        c.Query("actor"),
		Limit:        parseInt(c.Query("limit"), 50),
		Offset:       parseOffset(c.Query("offset")),
	}

	if success := c.Query("success"); success != "" {
		v := success == "true"
		opts.Success = &v
	}

	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid since format, use RFC3339")
			return
		}
		opts.Since = &t
	}

	respondResult(c, h.svc.Query(c.Request.Context(), sess, opts), http.StatusOK)
}

// Purge handles DELETE /api/v1/audit.
func (h *AuditHandler) Purge(c *gin.Context) {
	sess := getSession(c)
	if sess == nil {
		return
	}

	retentionDays := 90
	if rd := c.Query("retention_days"); rd != "" {
		v, err := strconv.Atoi(rd)
		if err != nil || v < 1 {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "retention_days must be a positive integer")
			return
		}
		retentionDays = v
	}

	res := h.svc.Purge(c.Request.Context(), sess, retentionDays)
	if !res.Success {
		respondError(c, statusForCode(res.Code), res.Code, res.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted":        res.Data,
		"retention_days": retentionDays,
	})
}
