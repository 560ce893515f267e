package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/L1malucas/smarted-sub000/internal/dbpool"
	"github.com/L1malucas/smarted-sub000/internal/domain"
	"github.com/L1malucas/smarted-sub000/internal/middleware"
	"github.com/L1malucas/smarted-sub000/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log           *logrus.Logger
	Pool          *dbpool.Pool
	Hub           *ws.Hub
	Links         domain.LinkService
	Settings      domain.SettingsService
	Auth          domain.AuthService
	Audit         domain.AuditService
	Sessions      middleware.SessionResolver
	CORSOrigins   []string
	Version       string
	SchemaVersion int
}

// Router-level limits.
const (
	maxBodySize = 10 << 20 // 10 MB
	rateLimit   = 100      // requests per second per IP
	rateBurst   = 200      // token bucket burst size
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Share-Password"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pool, deps.Hub, log, deps.Version, deps.SchemaVersion)
	links := NewLinkHandler(deps.Links, log)
	public := NewPublicHandler(deps.Links, log)
	settings := NewSettingsHandler(deps.Settings, log)
	authn := NewAuthHandler(deps.Auth, log)
	audit := NewAuditHandler(deps.Audit, log)

	// Health and readiness are unauthenticated.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// Credential exchange.
	api.POST("/auth/login", authn.Login)
	api.POST("/auth/refresh", authn.Refresh)

	// Anonymous link resolution. The gate decides access; a session is not
	// required, but one presented is resolved so request logs carry the tenant.
	api.GET("/share/:token", middleware.OptionalSession(deps.Sessions), public.Resolve)

	// All remaining routes require an authenticated session.
	authed := api.Group("", middleware.RequireSession(deps.Sessions, log))

	// Share links.
	authed.POST("/links", links.Create)
	authed.GET("/links", links.List)
	authed.PATCH("/links/:token", links.Update)
	authed.POST("/links/:token/deactivate", links.Deactivate)
	authed.DELETE("/links/:token", links.Delete)

	// Tenant settings. Updates are admin-only; the service re-checks the
	// session so the rule also holds for non-HTTP callers.
	authed.GET("/settings", settings.Get)
	authed.PUT("/settings", middleware.RequireAdmin(), settings.Update)

	// Audit, admin-only.
	authed.GET("/audit", middleware.RequireAdmin(), audit.Query)
	authed.DELETE("/audit", middleware.RequireAdmin(), audit.Purge)

	// WebSocket endpoint.
	authed.GET("/ws", wsHandler(ctx, log, deps.Hub, deps.CORSOrigins, deps.Sessions))
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
