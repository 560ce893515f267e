package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/L1malucas/smarted-sub000/internal/domain"
	"github.com/L1malucas/smarted-sub000/internal/models"
)

// LinkHandler serves share-link issuance and lifecycle endpoints.
type LinkHandler struct {
	svc domain.LinkService
	log *logrus.Logger
}

// NewLinkHandler creates a LinkHandler with the given service and logger.
func NewLinkHandler(svc domain.LinkService, log *logrus.Logger) *LinkHandler {
	return &LinkHandler{svc: svc, log: log}
}

// Create handles POST /api/v1/links.
func (h *LinkHandler) Create(c *gin.Context) {
	sess := getSession(c)
	if sess == nil {
		return
	}

	var req models.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	respondResult(c, h.svc.Issue(c.Request.Context(), sess, req), http.StatusCreated)
}

// List handles GET /api/v1/links.
func (h *LinkHandler) List(c *gin.Context) {
	sess := getSession(c)
	if sess == nil {
		return
	}

	opts := models.ListLinkOpts{
		ResourceType: models.ResourceType(c.Query("resource_type")),
		ResourceID:   c.Query("resource_id"),
		Limit:        parseInt(c.DefaultQuery("limit", "50"), 50),
		Offset:       parseOffset(c.Query("offset")),
	}

	if active := c.Query("is_active"); active != "" {
		v := active == "true"
		opts.IsActive = &v
	}

	respondResult(c, h.svc.List(c.Request.Context(), sess, opts), http.StatusOK)
}

// Update handles PATCH /api/v1/links/:token.
func (h *LinkHandler) Update(c *gin.Context) {
	token := c.Param("token")
	if err := validatePathID(token); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	sess := getSession(c)
	if sess == nil {
		return
	}

	var req models.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	respondResult(c, h.svc.Update(c.Request.Context(), sess, token, req), http.StatusOK)
}

// Deactivate handles POST /api/v1/links/:token/deactivate, the kill switch.
func (h *LinkHandler) Deactivate(c *gin.Context) {
	token := c.Param("token")
	if err := validatePathID(token); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	sess := getSession(c)
	if sess == nil {
		return
	}

	respondResult(c, h.svc.Deactivate(c.Request.Context(), sess, token), http.StatusOK)
}

// Delete handles DELETE /api/v1/links/:token.
func (h *LinkHandler) Delete(c *gin.Context) {
	token := c.Param("token")
	if err := validatePathID(token); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	sess := getSession(c)
	if sess == nil {
		return
	}

	res := h.svc.Delete(c.Request.Context(), sess, token)
	if !res.Success {
		respondError(c, statusForCode(res.Code), res.Code, res.Message)

		return
	}

	c.Status(http.StatusNoContent)
}
