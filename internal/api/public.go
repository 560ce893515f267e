package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/L1malucas/smarted-sub000/internal/domain"
	"github.com/L1malucas/smarted-sub000/internal/models"
)

// PublicHandler serves the unauthenticated share-link gate.
type PublicHandler struct {
	svc domain.LinkService
	log *logrus.Logger
}

// NewPublicHandler creates a PublicHandler.
func NewPublicHandler(svc domain.LinkService, log *logrus.Logger) *PublicHandler {
	return &PublicHandler{svc: svc, log: log}
}

// passwordHeader carries the link password on gate requests; a query
// parameter is accepted as a fallback for plain browser links.
const passwordHeader = "X-Share-Password"

// Resolve handles GET /api/v1/share/:token. Unknown, inactive, expired, and
// exhausted links all collapse to the same 404 body so an outside caller
// cannot distinguish them.
func (h *PublicHandler) Resolve(c *gin.Context) {
	token := c.Param("token")
	if err := validatePathID(token); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	password := c.GetHeader(passwordHeader)
	if password == "" {
		password = c.Query("password")
	}

	res := h.svc.Resolve(c.Request.Context(), token, password)
	if !res.Success {
		h.respondGateFailure(c, res.Code, res.Message)

		return
	}

	c.JSON(http.StatusOK, res.Data)
}

// respondGateFailure maps gate outcomes to the public wire contract.
func (h *PublicHandler) respondGateFailure(c *gin.Context, code, message string) {
	switch code {
	case models.CodeNotFound, models.CodeInactive, models.CodeExpired, models.CodeViewLimitReached:
		// One indistinguishable response for every dead-link state.
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "link not found or no longer available")
	case models.CodePasswordRequired:
		respondError(c, http.StatusUnauthorized, code, "this link is password protected")
	case models.CodePasswordIncorrect:
		respondError(c, http.StatusForbidden, code, "incorrect password")
	case models.CodeResourceGone:
		respondError(c, http.StatusGone, code, "the shared resource no longer exists")
	case models.CodeStoreUnavailable:
		respondError(c, http.StatusServiceUnavailable, code, message)
	default:
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
	}
}
