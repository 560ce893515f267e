// Command smarted-server runs the SmartEd share-link API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/L1malucas/smarted-sub000/internal/api"
	"github.com/L1malucas/smarted-sub000/internal/auth"
	"github.com/L1malucas/smarted-sub000/internal/config"
	"github.com/L1malucas/smarted-sub000/internal/crypto"
	"github.com/L1malucas/smarted-sub000/internal/db"
	"github.com/L1malucas/smarted-sub000/internal/db/migrations"
	"github.com/L1malucas/smarted-sub000/internal/dbpool"
	"github.com/L1malucas/smarted-sub000/internal/security"
	"github.com/L1malucas/smarted-sub000/internal/service"
	"github.com/L1malucas/smarted-sub000/internal/store"
	"github.com/L1malucas/smarted-sub000/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := run(log); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run(log *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	keys, err := newKeyProvider(cfg)
	if err != nil {
		return fmt.Errorf("initializing encryption: %w", err)
	}

	base := store.Base{Pool: pool, Log: log, Crypto: crypto.NewService(keys)}
	links := store.NewShareLinkStore(base)
	settings := store.NewTenantSettingsStore(base)
	audits := store.NewAuditStore(base)
	users := store.NewUserStore(base)

	resources := &service.ResourceResolver{
		Jobs:       store.NewJobStore(base),
		Candidates: store.NewCandidateStore(base),
		Dashboards: store.NewDashboardStore(base),
	}

	resolver := auth.NewResolver(
		[]byte(cfg.JWTAccessSecret.Value()),
		[]byte(cfg.JWTRefreshSecret.Value()),
		time.Duration(cfg.AccessTokenTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTokenTTLHours)*time.Hour,
		log,
	)

	guard := security.NewBruteForceGuard(ctx, log)

	g, ctx := errgroup.WithContext(ctx)

	worker := service.NewAuditWorker(audits, log, cfg.AuditQueueSize)
	g.Go(func() error {
		worker.Run(ctx)
		return nil
	})

	hub := ws.NewHub(log)
	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	bridge := db.NewNotifyBridge(log, pool, hub)
	if err := bridge.Start(ctx); err != nil {
		return fmt.Errorf("starting notify bridge: %w", err)
	}

	deps := &api.RouterDeps{
		Log:           log,
		Pool:          pool,
		Hub:           hub,
		Links:         service.NewLinkService(links, settings, resources, guard, audits, worker, log),
		Settings:      service.NewSettingsService(settings, audits, log),
		Auth:          service.NewAuthService(users, resolver, guard, audits, log),
		Audit:         service.NewAuditService(audits, audits, log),
		Sessions:      resolver,
		CORSOrigins:   cfg.CORSOrigins,
		Version:       config.Version,
		SchemaVersion: db.SchemaVersion(),
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(ctx, deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr":    cfg.Addr(),
			"version": config.Version,
		}).Info("server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("server stopped")

	return nil
}

// newKeyProvider builds the tenant key provider from config.
func newKeyProvider(cfg *config.Config) (crypto.KeyProvider, error) {
	switch cfg.EncryptionProvider {
	case "vault":
		return crypto.NewVaultProvider(cfg.VaultAddr, cfg.VaultToken.Value()), nil
	default:
		return crypto.NewStaticProvider(cfg.EncryptionKey.Value())
	}
}
