package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/motoreast/rebate-portal/internal/models"
	"github.com/motoreast/rebate-portal/internal/storage"
)

// csvHeaders is the fixed export header. Column order and spelling are part
// of the contract with downstream consumers of the export.
var csvHeaders = []string{
	"Date", "Participant", "Condo", "Vehicle", "Operator",
	"Amount", "Rebate Rate", "Rebate Amount", "Status",
}

// RegistrationInput carries the fields of a condo pre-approval request.
type RegistrationInput struct {
	Name    string
	Email   string
	Vehicle string
	CondoID uuid.UUID
}

// SubmitRegistration files a pending registration for admin review. The
// condo must exist.
func (g *Gateway) SubmitRegistration(ctx context.Context, input RegistrationInput) (models.Registration, error) {
	if strings.TrimSpace(input.Name) == "" {
		return models.Registration{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return models.Registration{}, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if _, err := g.condos.CondoByID(ctx, input.CondoID); err != nil {
		return models.Registration{}, err
	}

	reg := models.Registration{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(input.Name),
		Email:         email,
		VehicleNumber: strings.TrimSpace(input.Vehicle),
		CondoID:       input.CondoID,
		Status:        models.RegistrationPending,
	}
	return g.registrations.CreateRegistration(ctx, reg)
}

// PendingRegistrations lists registrations awaiting review, newest first.
func (g *Gateway) PendingRegistrations(ctx context.Context) ([]models.Registration, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return g.registrations.PendingRegistrations(ctx)
}

// ApproveRegistration marks a registration approved, stamped with the
// reviewing admin and time.
func (g *Gateway) ApproveRegistration(ctx context.Context, id uuid.UUID) (models.Registration, error) {
	principal, err := requireAdmin(ctx)
	if err != nil {
		return models.Registration{}, err
	}
	approved, err := g.registrations.ApproveRegistration(ctx, id, principal.UserID, g.now())
	if err != nil {
		return models.Registration{}, err
	}

	g.log.Info("registration approved",
		zap.String("registration_id", id.String()),
		zap.String("reviewed_by", principal.UserID.String()))
	return approved, nil
}

// ExportClaimsCSV serializes the filtered admin listing as CSV text: the
// fixed 9-column header then one row per claim in listing order. Fields are
// joined with literal commas and no quoting, byte-compatible with the
// existing export consumers; the rebate rate renders as an integer percent.
func (g *Gateway) ExportClaimsCSV(ctx context.Context, filters storage.ClaimFilters) (string, error) {
	start := g.now()
	claims, err := g.AllClaims(ctx, filters)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(claims)+1)
	lines = append(lines, strings.Join(csvHeaders, ","))
	hundred := decimal.NewFromInt(100)
	for _, c := range claims {
		lines = append(lines, strings.Join([]string{
			c.ChargeDate.Format("2006-01-02"),
			c.ParticipantName,
			c.CondoName,
			c.VehicleNumber,
			c.Operator,
			c.Amount.String(),
			c.RebateRate.Mul(hundred).Round(0).String() + "%",
			c.RebateAmount.String(),
			string(c.Status),
		}, ","))
	}

	g.log.Info("claims exported",
		zap.Int("rows", len(claims)),
		zap.Duration("elapsed", time.Since(start)))
	return strings.Join(lines, "\n"), nil
}

// DashboardStats returns claim counts by status and the total payout over
// approved claims.
func (g *Gateway) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return models.DashboardStats{}, err
	}
	return g.claims.DashboardStats(ctx)
}
