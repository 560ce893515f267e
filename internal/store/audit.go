package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/L1malucas/smarted-sub000/internal/models"
)

// AuditStore provides data access for the audit_log table.
type AuditStore struct {
	Base
}

// NewAuditStore creates an AuditStore.
func NewAuditStore(base Base) *AuditStore {
	return &AuditStore{Base: base}
}

// marshalDetail serializes an entry's detail map. A nil detail becomes the
// empty JSON object: the detail column is NOT NULL, and an explicit NULL
// parameter would bypass the column default and fail the insert.
func marshalDetail(detail map[string]any) ([]byte, error) {
	if detail == nil {
		return []byte("{}"), nil
	}

	detailJSON, err := json.Marshal(detail)
	if err != nil {
		return nil, fmt.Errorf("marshaling audit detail: %w", err)
	}

	return detailJSON, nil
}

// RecordAudit inserts one audit log entry. The insert deliberately skips the
// tenant transaction helpers: anonymous gate attempts may fail before any
// tenant is known, and those attempts are audited too (with a NULL tenant).
func (s *AuditStore) RecordAudit(ctx context.Context, entry models.AuditEntry) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	detailJSON, err := marshalDetail(entry.Detail)
	if err != nil {
		return err
	}

	var tenantID *string
	if entry.TenantID != "" {
		tenantID = &entry.TenantID
	}

	_, err = s.Pool.Exec(ctx, `
		INSERT INTO audit_log (tenant_id, action, resource_type, resource_id, actor, actor_name, success, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tenantID, entry.Action, entry.ResourceType, entry.ResourceID,
		entry.Actor, entry.ActorName, entry.Success, detailJSON,
	)
	if err != nil {
		return storeErr("inserting audit entry", err)
	}

	return nil
}

// buildAuditFilter builds WHERE clause and args from AuditQueryOpts.
func buildAuditFilter(opts models.AuditQueryOpts) (string, []any, int) {
	var conditions []string
	var args []any
	argIdx := 1

	add := func(cond string, val any) {
		conditions = append(conditions, cond+" = $"+strconv.Itoa(argIdx))
		args = append(args, val)
		argIdx++
	}

	if opts.ResourceType != "" {
		add("resource_type", opts.ResourceType)
	}
	if opts.ResourceID != "" {
		add("resource_id", opts.ResourceID)
	}
	if opts.Action != "" {
		add("action", opts.Action)
	}
	if opts.Actor != "" {
		add("actor", opts.Actor)
	}
	if opts.Success != nil {
		add("success", *opts.Success)
	}
	if opts.Since != nil {
		conditions = append(conditions, "created_at >= $"+strconv.Itoa(argIdx))
		args = append(args, *opts.Since)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "AND " + strings.Join(conditions, " AND ")
	}

	return where, args, argIdx
}

const auditColumns = `id, tenant_id, action, resource_type, resource_id, actor, actor_name, success, detail, created_at`

// QueryAudit returns the tenant's audit entries matching the given filters,
// newest first. Returns entries, hasMore flag, and any error.
func (s *AuditStore) QueryAudit(
	ctx context.Context, tenantID string, opts models.AuditQueryOpts,
) ([]models.AuditEntry, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	where, args, argIdx := buildAuditFilter(opts)
	limit := clampLimit(opts.Limit, 50)

	query := fmt.Sprintf(`
		SELECT %s
		FROM audit_log
		WHERE tenant_id = current_setting('app.tenant_id')::uuid %s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		auditColumns, where, argIdx, argIdx+1,
	)
	args = append(args, limit+1, opts.Offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, false, storeErr("querying audit log", err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var (
			e          models.AuditEntry
			actorName  *string
			detailJSON []byte
		)

		if err := rows.Scan(&e.ID, &e.TenantID, &e.Action, &e.ResourceType, &e.ResourceID,
			&e.Actor, &actorName, &e.Success, &detailJSON, &e.CreatedAt); err != nil {
			return nil, false, storeErr("scanning audit entry", err)
		}
		if actorName != nil {
			e.ActorName = *actorName
		}
		if detailJSON != nil {
			if err := json.Unmarshal(detailJSON, &e.Detail); err != nil {
				s.Log.WithError(err).Warn("failed to unmarshal audit detail")
			}
		}
		entries = append(entries, e)
	}

	hasMore := len(entries) > limit
	if hasMore {
		entries = entries[:limit]
	}

	return entries, hasMore, nil
}

// purgeBatchSize limits the number of rows deleted per transaction to avoid
// holding long locks on audit_log.
const purgeBatchSize = 5000

// PurgeOldEntries deletes the tenant's audit entries older than
// retentionDays in batches. Returns the number of deleted entries.
func (s *AuditStore) PurgeOldEntries(
	ctx context.Context, tenantID string, retentionDays int,
) (int, error) {
	var totalDeleted int

	for {
		batchCtx, cancel := withTimeout(ctx)

		deleted, err := s.purgeBatch(batchCtx, tenantID, retentionDays)
		cancel()

		if err != nil {
			return totalDeleted, err
		}

		totalDeleted += deleted
		if deleted < purgeBatchSize {
			break
		}
	}

	return totalDeleted, nil
}

func (s *AuditStore) purgeBatch(ctx context.Context, tenantID string, retentionDays int) (int, error) {
	tx, err := s.beginTx(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	tag, err := tx.Exec(ctx,
		`DELETE FROM audit_log WHERE ctid IN (
			SELECT ctid FROM audit_log
			WHERE tenant_id = $1 AND created_at < NOW() - make_interval(days => $2)
			LIMIT $3
		)`,
		tenantID, retentionDays, purgeBatchSize,
	)
	if err != nil {
		return 0, storeErr("purging audit entries", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, storeErr("committing audit purge", err)
	}

	return int(tag.RowsAffected()), nil
}
