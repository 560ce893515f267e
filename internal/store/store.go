// Package store provides focused, single-concern data access stores for the
// share-link service.
//
// Each store owns one domain (links, settings, audit, users, shared
// resources) and embeds shared helpers (Pool, crypto, logger) via the Base
// struct. Stores never import each other; shared logic lives in this file.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/L1malucas/smarted-sub000/internal/crypto"
	"github.com/L1malucas/smarted-sub000/internal/dbpool"
	"github.com/L1malucas/smarted-sub000/internal/models"
)

const defaultQueryTimeout = 30 * time.Second

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool   *dbpool.Pool
	Log    *logrus.Logger
	Crypto *crypto.Service
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// setTenant sets the tenant context for RLS policies within a transaction.
func setTenant(ctx context.Context, tx pgx.Tx, tenantID string) error {
	if _, err := uuid.Parse(tenantID); err != nil {
		return fmt.Errorf("invalid tenant ID format: %w", err)
	}

	_, err := tx.Exec(ctx, "SELECT set_config('app.tenant_id', $1, true)", tenantID)
	if err != nil {
		return fmt.Errorf("setting tenant context: %w", err)
	}

	return nil
}

// beginTx starts a read-write transaction and sets the tenant context.
func (b *Base) beginTx(ctx context.Context, tenantID string) (pgx.Tx, error) {
	tx, err := b.Pool.Begin(ctx)
	if err != nil {
		return nil, storeErr("beginning transaction", err)
	}

	if err := setTenant(ctx, tx, tenantID); err != nil {
		tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on setup failure.

		return nil, err
	}

	return tx, nil
}

// beginReadTx starts a read-only transaction and sets the tenant context.
func (b *Base) beginReadTx(ctx context.Context, tenantID string) (pgx.Tx, error) {
	tx, err := b.Pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, storeErr("beginning read transaction", err)
	}

	if err := setTenant(ctx, tx, tenantID); err != nil {
		tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on setup failure.

		return nil, err
	}

	return tx, nil
}

// notify sends a pg_notify on the share_events channel (best-effort,
// post-commit). The NOTIFY bridge forwards payloads to the WebSocket hub.
func (b *Base) notify(event, tenantID, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload, _ := json.Marshal(map[string]any{ //nolint:errcheck // static keys, cannot fail.
		"event":     event,
		"token":     token,
		"tenant_id": tenantID,
	})
	if _, err := b.Pool.Exec(ctx, "SELECT pg_notify('share_events', $1)", string(payload)); err != nil {
		b.Log.WithError(err).Warn("failed to send " + event + " notification")
	}
}

// storeErr wraps infrastructure failures so they classify as
// models.ErrStoreUnavailable, the one retryable error kind. Row-level
// conditions (no rows, constraint violations) are not infrastructure
// failures and pass through untouched for the caller to classify.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code[:2] == "23" { // integrity constraint violation class
		return fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Errorf("%w: %s: %v", models.ErrStoreUnavailable, op, err)
}

// maxListLimit is a defense-in-depth cap on limit values for list queries.
const maxListLimit = 1000

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
