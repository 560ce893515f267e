package models

import (
	"errors"
	"fmt"
)

// ErrValidation is the base error for malformed issuance or update input.
// Field-level errors wrap it so handlers can classify with errors.Is.
var ErrValidation = errors.New("validation failed")

// Validation errors.
var (
	ErrMissingResourceType = fmt.Errorf("%w: resource_type is required", ErrValidation)
	ErrMissingResourceID   = fmt.Errorf("%w: resource_id is required", ErrValidation)
	ErrMissingResourceName = fmt.Errorf("%w: resource_name is required", ErrValidation)
	ErrInvalidResourceType = fmt.Errorf("%w: unknown resource type", ErrValidation)
	ErrNegativeMaxViews    = fmt.Errorf("%w: max_views must not be negative", ErrValidation)
	ErrNegativeExpiration  = fmt.Errorf("%w: expiration must not be in the past", ErrValidation)
)

// Gate and lifecycle errors, in the order the gate evaluates them.
var (
	ErrLinkNotFound      = errors.New("share link not found")
	ErrLinkInactive      = errors.New("share link is inactive")
	ErrLinkExpired       = errors.New("share link has expired")
	ErrViewLimitReached  = errors.New("share link view limit reached")
	ErrPasswordRequired  = errors.New("password required")
	ErrPasswordIncorrect = errors.New("password incorrect")
	ErrResourceGone      = errors.New("shared resource no longer exists")
)

// Authentication and authorization errors.
var (
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("not permitted for this session")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ErrStoreUnavailable marks transient infrastructure failures. It is the
// only error kind callers may retry.
var ErrStoreUnavailable = errors.New("store unavailable")

// Stable error codes carried in the action result envelope and API responses.
const (
	CodeUnauthorized      = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeNotFound          = "not_found"
	CodeInactive          = "inactive"
	CodeExpired           = "expired"
	CodeViewLimitReached  = "view_limit_reached"
	CodePasswordRequired  = "password_required"
	CodePasswordIncorrect = "password_incorrect"
	CodeResourceGone      = "resource_gone"
	CodeValidationFailed  = "validation_failed"
	CodeStoreUnavailable  = "store_unavailable"
	CodeInternalError     = "internal_error"
)

// ErrorCode maps an error to its stable result code. Unknown errors collapse
// to internal_error so raw failure detail never crosses the action boundary.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrLinkNotFound):
		return CodeNotFound
	case errors.Is(err, ErrLinkInactive):
		return CodeInactive
	case errors.Is(err, ErrLinkExpired):
		return CodeExpired
	case errors.Is(err, ErrViewLimitReached):
		return CodeViewLimitReached
	case errors.Is(err, ErrPasswordRequired):
		return CodePasswordRequired
	case errors.Is(err, ErrPasswordIncorrect):
		return CodePasswordIncorrect
	case errors.Is(err, ErrResourceGone):
		return CodeResourceGone
	case errors.Is(err, ErrValidation):
		return CodeValidationFailed
	case errors.Is(err, ErrStoreUnavailable):
		return CodeStoreUnavailable
	default:
		return CodeInternalError
	}
}
