package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/motoreast/rebate-portal/internal/models"
)

// Principal identifies the caller of a request, as carried by its bearer token.
type Principal struct {
	UserID    uuid.UUID
	Email     string
	Name      string
	Vehicle   string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

type contextKey struct{}

// WithPrincipal returns a context carrying the authenticated principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext extracts the principal from the context, if any.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}
