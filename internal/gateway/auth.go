package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/motoreast/rebate-portal/internal/auth"
	"github.com/motoreast/rebate-portal/internal/models"
)

// Session is an authenticated user plus the bearer token identifying them.
type Session struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// SignUpInput carries the fields required to create an identity.
type SignUpInput struct {
	Email    string
	Password string
	Name     string
	Vehicle  string
}

// SignUp creates a new resident identity. Duplicate emails surface as
// storage.ErrAlreadyExists; weak input as ErrValidation.
func (g *Gateway) SignUp(ctx context.Context, input SignUpInput) (models.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return models.User{}, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(input.Password) < 8 {
		return models.User{}, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	if strings.TrimSpace(input.Name) == "" {
		return models.User{}, fmt.Errorf("%w: name is required", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:            uuid.New(),
		Email:         email,
		Name:          strings.TrimSpace(input.Name),
		VehicleNumber: strings.TrimSpace(input.Vehicle),
		Role:          models.RoleResident,
		PasswordHash:  string(hash),
	}
	created, err := g.users.CreateUser(ctx, user)
	if err != nil {
		return models.User{}, err
	}
	g.log.Info("user signed up", zap.String("user_id", created.ID.String()))
	return created, nil
}

// SignIn verifies credentials and issues a session token.
func (g *Gateway) SignIn(ctx context.Context, email, password string) (Session, error) {
	user, err := g.users.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	token, err := g.tokens.Generate(user)
	if err != nil {
		return Session{}, fmt.Errorf("generate token: %w", err)
	}

	g.events.Notify(auth.EventSignedIn, principalOf(user))
	return Session{Token: token, User: user}, nil
}

// SignOut revokes the presented token for its remaining lifetime.
func (g *Gateway) SignOut(ctx context.Context, token string) error {
	p, err := g.tokens.Parse(token)
	if err != nil {
		return ErrNotAuthenticated
	}
	if ttl := time.Until(p.ExpiresAt); p.TokenID != "" {
		if err := g.revoked.Add(ctx, p.TokenID, ttl); err != nil {
			return err
		}
	}
	g.events.Notify(auth.EventSignedOut, p)
	return nil
}

// Refresh exchanges a valid token for a fresh one.
func (g *Gateway) Refresh(ctx context.Context, token string) (Session, error) {
	p, err := g.tokens.Parse(token)
	if err != nil {
		return Session{}, ErrNotAuthenticated
	}
	if revoked, err := g.revoked.Contains(ctx, p.TokenID); err != nil {
		return Session{}, err
	} else if revoked {
		return Session{}, ErrNotAuthenticated
	}

	user, err := g.users.FindByID(ctx, p.UserID)
	if err != nil {
		return Session{}, ErrNotAuthenticated
	}
	fresh, err := g.tokens.Generate(user)
	if err != nil {
		return Session{}, fmt.Errorf("generate token: %w", err)
	}

	g.events.Notify(auth.EventTokenRefreshed, principalOf(user))
	return Session{Token: fresh, User: user}, nil
}

// CurrentUser returns the session's principal, or nil without error when the
// caller is unauthenticated.
func (g *Gateway) CurrentUser(ctx context.Context) (*auth.Principal, error) {
	p, ok := auth.FromContext(ctx)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// UserProfile fetches a user's profile joined with its condo.
func (g *Gateway) UserProfile(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	return g.profiles.GetProfile(ctx, userID)
}

// OnAuthStateChange registers a listener for sign-in, sign-out, and token
// refresh events. The returned func unsubscribes it.
func (g *Gateway) OnAuthStateChange(fn auth.Listener) func() {
	return g.events.Subscribe(fn)
}

func principalOf(user models.User) auth.Principal {
	return auth.Principal{
		UserID:  user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Vehicle: user.VehicleNumber,
		Role:    user.Role,
	}
}
