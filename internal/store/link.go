package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/L1malucas/smarted-sub000/internal/models"
)

// ShareLinkStore provides data access for the share_links table.
type ShareLinkStore struct {
	Base
}

// NewShareLinkStore creates a ShareLinkStore.
func NewShareLinkStore(base Base) *ShareLinkStore {
	return &ShareLinkStore{Base: base}
}

const linkColumns = `token, tenant_id, resource_type, resource_id, resource_name,
	expires_at, max_views, views_count, password_hash, is_active,
	created_by, created_by_user_name, created_at, updated_at, last_accessed_at`

// row abstracts pgx.Row / pgx.Rows for the shared scan helper.
type row interface {
	Scan(dest ...any) error
}

func scanLink(r row) (*models.ShareLink, error) {
	var (
		l            models.ShareLink
		passwordHash *string
	)

	err := r.Scan(
		&l.Token, &l.TenantID, &l.ResourceType, &l.ResourceID, &l.ResourceName,
		&l.ExpiresAt, &l.MaxViews, &l.ViewsCount, &passwordHash, &l.IsActive,
		&l.CreatedBy, &l.CreatedByUserName, &l.CreatedAt, &l.UpdatedAt, &l.LastAccessedAt,
	)
	if err != nil {
		return nil, err
	}

	if passwordHash != nil {
		l.PasswordHash = *passwordHash
		l.HasPassword = true
	}

	return &l, nil
}

// Create inserts a new share link and emits a link.created notification.
func (s *ShareLinkStore) Create(ctx context.Context, link *models.ShareLink) (*models.ShareLink, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, link.TenantID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	var passwordHash *string
	if link.PasswordHash != "" {
		passwordHash = &link.PasswordHash
	}

	created, err := scanLink(tx.QueryRow(ctx, `
		INSERT INTO share_links (token, tenant_id, resource_type, resource_id, resource_name,
			expires_at, max_views, password_hash, is_active, created_by, created_by_user_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, $9, $10)
		RETURNING `+linkColumns,
		link.Token, link.TenantID, link.ResourceType, link.ResourceID, link.ResourceName,
		link.ExpiresAt, link.MaxViews, passwordHash, link.CreatedBy, link.CreatedByUserName,
	))
	if err != nil {
		return nil, storeErr("inserting share link", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr("committing share link insert", err)
	}

	s.notify("link.created", created.TenantID, created.Token)

	return created, nil
}

// GetByToken looks a link up by its opaque token without tenant scoping.
// This is the anonymous gate path; authorization is possession of the token.
func (s *ShareLinkStore) GetByToken(ctx context.Context, token string) (*models.ShareLink, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	link, err := scanLink(s.Pool.QueryRow(ctx,
		"SELECT "+linkColumns+" FROM share_links WHERE token = $1", token))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrLinkNotFound
	}
	if err != nil {
		return nil, storeErr("looking up share link", err)
	}

	return link, nil
}

// GetForTenant loads a link by token within the session's tenant scope.
func (s *ShareLinkStore) GetForTenant(ctx context.Context, tenantID, token string) (*models.ShareLink, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	link, err := scanLink(tx.QueryRow(ctx,
		"SELECT "+linkColumns+" FROM share_links WHERE token = $1 AND tenant_id = $2",
		token, tenantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrLinkNotFound
	}
	if err != nil {
		return nil, storeErr("looking up tenant share link", err)
	}

	return link, nil
}

// buildListFilter builds WHERE conditions and args from ListLinkOpts.
// $1 is always the tenant ID.
func buildListFilter(tenantID string, opts models.ListLinkOpts) (string, []any, int) {
	conditions := []string{"tenant_id = $1"}
	args := []any{tenantID}
	argIdx := 2

	if opts.ResourceType != "" {
		conditions = append(conditions, "resource_type = $"+strconv.Itoa(argIdx))
		args = append(args, opts.ResourceType)
		argIdx++
	}
	if opts.ResourceID != "" {
		conditions = append(conditions, "resource_id = $"+strconv.Itoa(argIdx))
		args = append(args, opts.ResourceID)
		argIdx++
	}
	if opts.IsActive != nil {
		conditions = append(conditions, "is_active = $"+strconv.Itoa(argIdx))
		args = append(args, *opts.IsActive)
		argIdx++
	}

	return "WHERE " + strings.Join(conditions, " AND "), args, argIdx
}

// List returns a tenant's links matching the given filters, newest first.
// Returns links, hasMore flag, and any error.
func (s *ShareLinkStore) List(
	ctx context.Context, tenantID string, opts models.ListLinkOpts,
) ([]models.ShareLink, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	where, args, argIdx := buildListFilter(tenantID, opts)
	limit := clampLimit(opts.Limit, 50)

	query := fmt.Sprintf(
		"SELECT %s FROM share_links %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		linkColumns, where, argIdx, argIdx+1,
	)
	args = append(args, limit+1, opts.Offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, false, storeErr("listing share links", err)
	}
	defer rows.Close()

	var links []models.ShareLink
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, false, storeErr("scanning share link", err)
		}
		links = append(links, *link)
	}

	hasMore := len(links) > limit
	if hasMore {
		links = links[:limit]
	}

	return links, hasMore, nil
}

// Update merges the mutable fields of a link. passwordHash follows the
// request semantics: nil leaves the password gate unchanged, empty string
// removes it, anything else replaces it. Immutable columns are simply never
// part of the statement.
func (s *ShareLinkStore) Update(
	ctx context.Context, tenantID, token string, req models.UpdateLinkRequest, passwordHash *string,
) (*models.ShareLink, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	set := []string{"updated_at = now()"}
	args := []any{token, tenantID}
	argIdx := 3

	if req.IsActive != nil {
		set = append(set, "is_active = $"+strconv.Itoa(argIdx))
		args = append(args, *req.IsActive)
		argIdx++
	}
	if req.ExpiresAt != nil {
		set = append(set, "expires_at = $"+strconv.Itoa(argIdx))
		args = append(args, *req.ExpiresAt)
		argIdx++
	}
	if req.MaxViews != nil {
		set = append(set, "max_views = $"+strconv.Itoa(argIdx))
		args = append(args, maxViewsColumn(*req.MaxViews))
		argIdx++
	}
	if passwordHash != nil {
		if *passwordHash == "" {
			set = append(set, "password_hash = NULL")
		} else {
			set = append(set, "password_hash = $"+strconv.Itoa(argIdx))
			args = append(args, *passwordHash)
			argIdx++
		}
	}

	query := fmt.Sprintf(
		"UPDATE share_links SET %s WHERE token = $1 AND tenant_id = $2 RETURNING %s",
		strings.Join(set, ", "), linkColumns,
	)

	link, err := scanLink(tx.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrLinkNotFound
	}
	if err != nil {
		return nil, storeErr("updating share link", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr("committing share link update", err)
	}

	s.notify("link.updated", link.TenantID, link.Token)

	return link, nil
}

// maxViewsColumn maps the request's 0-means-unlimited convention onto the
// nullable column.
func maxViewsColumn(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

// Delete hard-deletes a link. A later resolve of the same token behaves
// identically to a token that never existed.
func (s *ShareLinkStore) Delete(ctx context.Context, tenantID, token string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, tenantID)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	tag, err := tx.Exec(ctx,
		"DELETE FROM share_links WHERE token = $1 AND tenant_id = $2", token, tenantID)
	if err != nil {
		return storeErr("deleting share link", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrLinkNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return storeErr("committing share link delete", err)
	}

	s.notify("link.deleted", tenantID, token)

	return nil
}

// RegisterView atomically increments the view counter if and only if the
// link is still resolvable. The condition and the increment are one
// statement, so concurrent resolutions against a nearly-exhausted link can
// never overshoot the view ceiling. Returns (link, true) when the view was
// counted, (nil, false) when the row no longer passes the conditions.
func (s *ShareLinkStore) RegisterView(ctx context.Context, token string) (*models.ShareLink, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	link, err := scanLink(s.Pool.QueryRow(ctx, `
		UPDATE share_links
		SET views_count = views_count + 1, last_accessed_at = now(), updated_at = now()
		WHERE token = $1
		  AND is_active
		  AND (expires_at IS NULL OR expires_at > now())
		  AND (max_views IS NULL OR views_count < max_views)
		RETURNING `+linkColumns,
		token,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storeErr("registering share link view", err)
	}

	s.notify("link.resolved", link.TenantID, link.Token)

	return link, true, nil
}
