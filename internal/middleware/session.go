package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/L1malucas/smarted-sub000/internal/models"
)

// SessionKey is the gin context key holding the resolved *models.SessionClaim.
const SessionKey = "session"

// SessionResolver turns a raw bearer credential into a session claim, or
// nil when the credential is absent, malformed, or expired.
type SessionResolver interface {
	Resolve(raw string) *models.SessionClaim
}

// OptionalSession resolves a bearer credential when one is presented but
// never rejects the request. Handlers on public routes read the session via
// GetSession and treat nil as an anonymous caller.
func OptionalSession(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := ExtractBearerToken(c); raw != "" {
			if sess := resolver.Resolve(raw); sess != nil {
				c.Set(SessionKey, sess)
			}
		}
		c.Next()
	}
}

// RequireSession rejects requests without a valid bearer credential.
func RequireSession(resolver SessionResolver, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := ExtractBearerToken(c)
		if raw == "" {
			respondError(c, http.StatusUnauthorized, models.CodeUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}

		sess := resolver.Resolve(raw)
		if sess == nil {
			logSessionFailure(log, c)
			respondError(c, http.StatusUnauthorized, models.CodeUnauthorized, "invalid or expired credential")
			c.Abort()
			return
		}

		c.Set(SessionKey, sess)
		c.Next()
	}
}

// RequireAdmin rejects authenticated requests whose session lacks the admin
// flag. Must run after RequireSession.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		if sess == nil || !sess.IsAdmin {
			respondError(c, http.StatusForbidden, models.CodeForbidden, "administrator access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetSession returns the session claim set by the session middleware, or
// nil for anonymous requests.
func GetSession(c *gin.Context) *models.SessionClaim {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*models.SessionClaim)
	return sess
}

// ExtractBearerToken extracts the credential from the Authorization header.
func ExtractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func logSessionFailure(log *logrus.Logger, c *gin.Context) {
	log.WithFields(logrus.Fields{
		"client_ip":  c.ClientIP(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"user_agent": c.Request.UserAgent(),
		"request_id": c.GetString("request_id"),
	}).Warn("authentication failed: invalid credential")
}
