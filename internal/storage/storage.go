package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/motoreast/rebate-portal/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures persistence operations for identities.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

// ProfileStore reads user-to-condo associations. Profiles are written by the
// registration approval flow on the database side, never by this layer.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (models.Profile, error)
}

// ClaimFilters narrows admin claim listings. Empty fields (and the literal
// status "all") match everything.
type ClaimFilters struct {
	Status string
	Condo  string
}

// ClaimStatusUpdate carries the review stamp applied to a claim.
type ClaimStatusUpdate struct {
	Status          models.ClaimStatus
	ReviewedBy      uuid.UUID
	ReviewedAt      time.Time
	RejectionReason *string
}

// ClaimStore captures persistence operations for rebate claims.
type ClaimStore interface {
	InsertClaim(ctx context.Context, claim models.Claim) (models.Claim, error)
	ClaimsForUser(ctx context.Context, userID uuid.UUID) ([]models.Claim, error)
	ClaimsWithDetails(ctx context.Context, filters ClaimFilters) ([]models.ClaimDetails, error)
	UpdateClaimStatus(ctx context.Context, claimID uuid.UUID, update ClaimStatusUpdate) (models.Claim, error)
	MonthlySummary(ctx context.Context, userID uuid.UUID) ([]models.MonthlySummary, error)
	ApprovedRebateTotal(ctx context.Context, userID uuid.UUID, since time.Time) (decimal.Decimal, error)
	DashboardStats(ctx context.Context) (models.DashboardStats, error)
}

// CondoStore reads participating properties and their aggregate stats.
type CondoStore interface {
	AllCondos(ctx context.Context) ([]models.Condo, error)
	CondoByID(ctx context.Context, id uuid.UUID) (models.Condo, error)
	CondoStats(ctx context.Context) ([]models.CondoStats, error)
}

// RegistrationStore captures persistence operations for pending registrations.
type RegistrationStore interface {
	CreateRegistration(ctx context.Context, reg models.Registration) (models.Registration, error)
	PendingRegistrations(ctx context.Context) ([]models.Registration, error)
	ApproveRegistration(ctx context.Context, id uuid.UUID, reviewedBy uuid.UUID, reviewedAt time.Time) (models.Registration, error)
}
