// Package service provides business logic between API handlers and data
// stores. Every operation runs inside the audited action envelope.
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/L1malucas/smarted-sub000/internal/audited"
	"github.com/L1malucas/smarted-sub000/internal/domain"
	"github.com/L1malucas/smarted-sub000/internal/metrics"
	"github.com/L1malucas/smarted-sub000/internal/models"
)

// Compile-time check: *LinkService must satisfy domain.LinkService.
var _ domain.LinkService = (*LinkService)(nil)

// LinkStore is the data-access interface LinkService depends on.
type LinkStore interface {
	Create(ctx context.Context, link *models.ShareLink) (*models.ShareLink, error)
	GetByToken(ctx context.Context, token string) (*models.ShareLink, error)
	GetForTenant(ctx context.Context, tenantID, token string) (*models.ShareLink, error)
	List(ctx context.Context, tenantID string, opts models.ListLinkOpts) ([]models.ShareLink, bool, error)
	Update(ctx context.Context, tenantID, token string, req models.UpdateLinkRequest, passwordHash *string) (*models.ShareLink, error)
	Delete(ctx context.Context, tenantID, token string) error
	RegisterView(ctx context.Context, token string) (*models.ShareLink, bool, error)
}

// SettingsReader supplies tenant policy at issuance time.
type SettingsReader interface {
	Get(ctx context.Context, tenantID string) (*models.TenantSettings, error)
}

// ResourceFetcher resolves the resource a valid link is bound to.
type ResourceFetcher interface {
	Fetch(ctx context.Context, link *models.ShareLink) (any, error)
}

// PasswordGuard throttles repeated password failures against one token.
type PasswordGuard interface {
	IsBlocked(key string) bool
	RecordFailure(key string)
	ResetKey(key string)
}

// LinkService implements issuance, the public gate, and lifecycle management.
type LinkService struct {
	links     LinkStore
	settings  SettingsReader
	resources ResourceFetcher
	guard     PasswordGuard
	rec       audited.Recorder
	gateRec   audited.Recorder
	log       *logrus.Logger
}

// NewLinkService creates a LinkService. gateRec is the recorder for the
// high-traffic anonymous resolution path (typically the async audit worker);
// rec is used for everything else. Either may be the same recorder.
func NewLinkService(
	links LinkStore,
	settings SettingsReader,
	resources ResourceFetcher,
	guard PasswordGuard,
	rec, gateRec audited.Recorder,
	log *logrus.Logger,
) *LinkService {
	return &LinkService{
		links:     links,
		settings:  settings,
		resources: resources,
		guard:     guard,
		rec:       rec,
		gateRec:   gateRec,
		log:       log,
	}
}

// tokenBytes sizes the random share token (43 base64url chars).
const tokenBytes = 32

// newToken generates a cryptographically random, unguessable share token.
func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// hashPassword bcrypt-hashes a link access password.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing link password: %w", err)
	}
	return string(hash), nil
}

// Issue creates a new share link bound to a tenant resource. Tenant and
// creator identity come from the session, never from the payload.
func (s *LinkService) Issue(
	ctx context.Context, sess *models.SessionClaim, req models.CreateLinkRequest,
) audited.Result[*models.ShareLink] {
	meta := audited.Meta{Action: "share_link.create", ResourceType: "share_link", RequireAuth: true}

	return audited.Run(ctx, s.rec, s.log, meta, sess, req.ResourceID,
		func(ctx context.Context) (*models.ShareLink, audited.Info, error) {
			now := time.Now().UTC()
			if err := req.Validate(now); err != nil {
				return nil, audited.Info{}, err
			}

			settings, err := s.settings.Get(ctx, sess.TenantID)
			if err != nil {
				return nil, audited.Info{}, err
			}

			if !settings.AllowPublicLinkSharing {
				return nil, audited.Info{}, models.ErrForbidden
			}
			if settings.RequirePasswordForPublicLinks && req.Password == "" {
				return nil, audited.Info{}, models.ErrPasswordRequired
			}

			link := &models.ShareLink{
				TenantID:          sess.TenantID,
				ResourceType:      req.ResourceType,
				ResourceID:        req.ResourceID,
				ResourceName:      req.ResourceName,
				ExpiresAt:         issuanceExpiry(req.ExpiresAt, settings, now),
				MaxViews:          issuanceMaxViews(req.MaxViews, settings),
				CreatedBy:         sess.UserID,
				CreatedByUserName: sess.Name,
			}

			if link.Token, err = newToken(); err != nil {
				return nil, audited.Info{}, err
			}

			if req.Password != "" {
				if link.PasswordHash, err = hashPassword(req.Password); err != nil {
					return nil, audited.Info{}, err
				}
			}

			created, err := s.links.Create(ctx, link)
			if err != nil {
				return nil, audited.Info{}, err
			}

			return created, audited.Info{
				ResourceID: created.Token,
				Detail: map[string]any{
					"resource_type": created.ResourceType,
					"resource_id":   created.ResourceID,
					"has_password":  created.HasPassword,
				},
			}, nil
		})
}

// issuanceExpiry applies the tenant default when the issuer did not choose
// an expiration. A zero default means links never expire.
func issuanceExpiry(explicit *time.Time, settings *models.TenantSettings, now time.Time) *time.Time {
	if explicit != nil {
		return explicit
	}
	if settings.DefaultLinkExpirationDays <= 0 {
		return nil
	}
	at := now.AddDate(0, 0, settings.DefaultLinkExpirationDays)
	return &at
}

// issuanceMaxViews applies the tenant default view ceiling; zero means
// unlimited at either level.
func issuanceMaxViews(explicit *int, settings *models.TenantSettings) *int {
	v := settings.MaxLinkViews
	if explicit != nil {
		v = *explicit
	}
	if v <= 0 {
		return nil
	}
	return &v
}

// Resolve is the anonymous gate: it validates the link state in a fixed
// order, short-circuiting on the first failure so probing callers learn
// nothing past the first gate, then atomically counts the view and releases
// the bound resource.
func (s *LinkService) Resolve(ctx context.Context, token, password string) audited.Result[*models.SharedResource] {
	meta := audited.Meta{Action: "share_link.resolve", ResourceType: "share_link"}

	res := audited.Run(ctx, s.gateRec, s.log, meta, nil, token,
		func(ctx context.Context) (*models.SharedResource, audited.Info, error) {
			link, err := s.links.GetByToken(ctx, token)
			if err != nil {
				return nil, audited.Info{}, err
			}

			info := audited.Info{ResourceID: token, TenantID: link.TenantID}

			if err := classifyState(link, time.Now().UTC()); err != nil {
				return nil, info, err
			}

			if err := s.checkPassword(link, password); err != nil {
				return nil, info, err
			}

			counted, ok, err := s.links.RegisterView(ctx, token)
			if err != nil {
				return nil, info, err
			}
			if !ok {
				// Lost a race between the pre-read and the conditional
				// increment; re-read to report the precise state.
				return nil, info, s.classifyRace(ctx, token)
			}

			resource, err := s.resources.Fetch(ctx, counted)
			if err != nil {
				return nil, info, err
			}

			info.Detail = map[string]any{
				"resource_type": counted.ResourceType,
				"views_count":   counted.ViewsCount,
			}

			return &models.SharedResource{Link: counted, Resource: resource}, info, nil
		})

	metrics.LinkResolutions.WithLabelValues(resolutionOutcome(res)).Inc()

	return res
}

// classifyState checks the link state gates in the contract order:
// inactive, then expired, then view limit.
func classifyState(link *models.ShareLink, now time.Time) error {
	if !link.IsActive {
		return models.ErrLinkInactive
	}
	if link.ExpiresAt != nil && !now.Before(*link.ExpiresAt) {
		return models.ErrLinkExpired
	}
	if link.MaxViews != nil && link.ViewsCount >= *link.MaxViews {
		return models.ErrViewLimitReached
	}
	return nil
}

// checkPassword enforces the password gate after all state gates passed, so
// a caller can never learn a password verdict for a dead link.
func (s *LinkService) checkPassword(link *models.ShareLink, password string) error {
	if link.PasswordHash == "" {
		return nil
	}
	if password == "" {
		return models.ErrPasswordRequired
	}
	if s.guard != nil && s.guard.IsBlocked(link.Token) {
		return models.ErrPasswordIncorrect
	}

	if err := bcrypt.CompareHashAndPassword([]byte(link.PasswordHash), []byte(password)); err != nil {
		if s.guard != nil {
			s.guard.RecordFailure(link.Token)
		}
		return models.ErrPasswordIncorrect
	}

	if s.guard != nil {
		s.guard.ResetKey(link.Token)
	}

	return nil
}

// classifyRace re-reads a link whose conditional increment applied zero
// rows and maps the fresh state to the matching gate error.
func (s *LinkService) classifyRace(ctx context.Context, token string) error {
	link, err := s.links.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	if err := classifyState(link, time.Now().UTC()); err != nil {
		return err
	}
	// Re-read passes every gate yet the increment found no row: the limit
	// must have been hit and raised again in between. Treat as exhausted.
	return models.ErrViewLimitReached
}

func resolutionOutcome[T any](res audited.Result[T]) string {
	if res.Success {
		return "success"
	}
	return res.Code
}

// List returns the session tenant's links.
func (s *LinkService) List(
	ctx context.Context, sess *models.SessionClaim, opts models.ListLinkOpts,
) audited.Result[*models.LinkPage] {
	meta := audited.Meta{Action: "share_link.list", ResourceType: "share_link", RequireAuth: true}

	return audited.Run(ctx, s.rec, s.log, meta, sess, "",
		func(ctx context.Context) (*models.LinkPage, audited.Info, error) {
			links, hasMore, err := s.links.List(ctx, sess.TenantID, opts)
			if err != nil {
				return nil, audited.Info{}, err
			}

			return &models.LinkPage{Links: links, HasMore: hasMore},
				audited.Info{Detail: map[string]any{"count": len(links)}}, nil
		})
}

// loadOwned loads a tenant link and enforces the owner-or-admin rule shared
// by every lifecycle mutation.
func (s *LinkService) loadOwned(ctx context.Context, sess *models.SessionClaim, token string) (*models.ShareLink, error) {
	link, err := s.links.GetForTenant(ctx, sess.TenantID, token)
	if err != nil {
		return nil, err
	}
	if !sess.CanManage(link.CreatedBy) {
		return nil, models.ErrForbidden
	}
	return link, nil
}

// Update merges mutable fields into a link the session owns or administers.
func (s *LinkService) Update(
	ctx context.Context, sess *models.SessionClaim, token string, req models.UpdateLinkRequest,
) audited.Result[*models.ShareLink] {
	meta := audited.Meta{Action: "share_link.update", ResourceType: "share_link", RequireAuth: true}

	return audited.Run(ctx, s.rec, s.log, meta, sess, token,
		func(ctx context.Context) (*models.ShareLink, audited.Info, error) {
			if err := req.Validate(); err != nil {
				return nil, audited.Info{}, err
			}

			if _, err := s.loadOwned(ctx, sess, token); err != nil {
				return nil, audited.Info{}, err
			}

			var passwordHash *string
			if req.Password != nil {
				hash := ""
				if *req.Password != "" {
					var err error
					if hash, err = hashPassword(*req.Password); err != nil {
						return nil, audited.Info{}, err
					}
				}
				passwordHash = &hash
			}

			updated, err := s.links.Update(ctx, sess.TenantID, token, req, passwordHash)
			if err != nil {
				return nil, audited.Info{}, err
			}

			return updated, audited.Info{
				ResourceID: token,
				Detail:     map[string]any{"is_active": updated.IsActive},
			}, nil
		})
}

// Deactivate is the kill switch: update(is_active=false). Deactivating an
// already-inactive link succeeds without error.
func (s *LinkService) Deactivate(
	ctx context.Context, sess *models.SessionClaim, token string,
) audited.Result[*models.ShareLink] {
	meta := audited.Meta{Action: "share_link.deactivate", ResourceType: "share_link", RequireAuth: true}

	return audited.Run(ctx, s.rec, s.log, meta, sess, token,
		func(ctx context.Context) (*models.ShareLink, audited.Info, error) {
			if _, err := s.loadOwned(ctx, sess, token); err != nil {
				return nil, audited.Info{}, err
			}

			inactive := false
			updated, err := s.links.Update(ctx, sess.TenantID, token,
				models.UpdateLinkRequest{IsActive: &inactive}, nil)
			if err != nil {
				return nil, audited.Info{}, err
			}

			return updated, audited.Info{ResourceID: token}, nil
		})
}

// Delete hard-deletes a link. A subsequent resolve of the same token is
// indistinguishable from a token that never existed.
func (s *LinkService) Delete(
	ctx context.Context, sess *models.SessionClaim, token string,
) audited.Result[struct{}] {
	meta := audited.Meta{Action: "share_link.delete", ResourceType: "share_link", RequireAuth: true}

	return audited.Run(ctx, s.rec, s.log, meta, sess, token,
		func(ctx context.Context) (struct{}, audited.Info, error) {
			if _, err := s.loadOwned(ctx, sess, token); err != nil {
				return struct{}{}, audited.Info{}, err
			}

			if err := s.links.Delete(ctx, sess.TenantID, token); err != nil {
				return struct{}{}, audited.Info{}, err
			}

			return struct{}{}, audited.Info{ResourceID: token}, nil
		})
}
