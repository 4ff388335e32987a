// Package gateway is the service facade over auth, claims, condos, admin,
// and receipt storage. It holds no local state and caches nothing: every
// call re-fetches what it needs and either returns the stored payload or
// propagates the failure unwrapped.
package gateway

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/motoreast/rebate-portal/internal/auth"
	"github.com/motoreast/rebate-portal/internal/blob"
	"github.com/motoreast/rebate-portal/internal/storage"
)

var (
	// ErrNotAuthenticated indicates the call requires a signed-in user.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidCredentials indicates a failed sign-in attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden indicates the caller lacks rights for the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation indicates rejected input.
	ErrValidation = errors.New("validation failed")
)

// Deps are the collaborators a Gateway is constructed from.
type Deps struct {
	Users         storage.UserStore
	Profiles      storage.ProfileStore
	Claims        storage.ClaimStore
	Condos        storage.CondoStore
	Registrations storage.RegistrationStore
	Receipts      blob.Store
	Tokens        *auth.TokenManager
	Revoked       auth.TokenBlacklist
	Logger        *zap.Logger
}

// Gateway exposes one method per portal operation.
type Gateway struct {
	users         storage.UserStore
	profiles      storage.ProfileStore
	claims        storage.ClaimStore
	condos        storage.CondoStore
	registrations storage.RegistrationStore
	receipts      blob.Store
	tokens        *auth.TokenManager
	revoked       auth.TokenBlacklist
	events        *auth.Notifier
	log           *zap.Logger
	now           func() time.Time
}

// New constructs a Gateway. All collaborators are required except Logger,
// which defaults to a no-op logger.
func New(d Deps) *Gateway {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{
		users:         d.Users,
		profiles:      d.Profiles,
		claims:        d.Claims,
		condos:        d.Condos,
		registrations: d.Registrations,
		receipts:      d.Receipts,
		tokens:        d.Tokens,
		revoked:       d.Revoked,
		events:        auth.NewNotifier(),
		log:           log,
		now:           time.Now,
	}
}

// requirePrincipal returns the caller's principal or ErrNotAuthenticated.
func requirePrincipal(ctx context.Context) (auth.Principal, error) {
	p, ok := auth.FromContext(ctx)
	if !ok {
		return auth.Principal{}, ErrNotAuthenticated
	}
	return p, nil
}

// requireAdmin returns the caller's principal, which must carry the admin role.
func requireAdmin(ctx context.Context) (auth.Principal, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return auth.Principal{}, err
	}
	if !p.IsAdmin() {
		return auth.Principal{}, ErrForbidden
	}
	return p, nil
}
