package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/L1malucas/smarted-sub000/internal/models"
)

// UserStore handles account lookups for login and session refresh.
type UserStore struct {
	Base
}

// NewUserStore creates a UserStore.
func NewUserStore(base Base) *UserStore {
	return &UserStore{Base: base}
}

const userColumns = `id, tenant_id, name, email, password_hash, roles, permissions, is_admin, created_at`

func scanUser(r row) (*models.User, error) {
	var u models.User

	err := r.Scan(&u.ID, &u.TenantID, &u.Name, &u.Email, &u.PasswordHash,
		&u.Roles, &u.Permissions, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// GetByEmail returns the account for a login attempt. Email is unique across
// tenants; the lookup is credential verification, so it is not tenant-scoped.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	u, err := scanUser(s.Pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, storeErr("looking up user by email", err)
	}

	return u, nil
}

// GetByID returns the account behind a refresh credential.
func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	u, err := scanUser(s.Pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, storeErr("looking up user by id", err)
	}

	return u, nil
}
