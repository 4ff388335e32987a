package gateway

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/motoreast/rebate-portal/internal/models"
	"github.com/motoreast/rebate-portal/internal/storage"
)

// flagThreshold is the claim amount above which a submission is flagged for
// review instead of entering the queue as pending.
var flagThreshold = decimal.NewFromInt(300)

// ClaimInput carries the caller-supplied fields of a claim submission.
// Rebate fields are never accepted from the caller.
type ClaimInput struct {
	ChargeDate time.Time
	Operator   string
	Amount     decimal.Decimal
}

// ReceiptUpload is an optional receipt image attached to a submission.
type ReceiptUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// SubmitClaim validates and stores a new rebate claim for the authenticated
// user. When a receipt is supplied it is uploaded before the claim row is
// inserted, so an upload failure never leaves a partial claim. The reverse
// does not hold: an insert failure can orphan the uploaded blob, which is
// logged but not cleaned up.
func (g *Gateway) SubmitClaim(ctx context.Context, input ClaimInput, receipt *ReceiptUpload) (models.Claim, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return models.Claim{}, err
	}

	if input.ChargeDate.IsZero() {
		return models.Claim{}, fmt.Errorf("%w: charge date is required", ErrValidation)
	}
	if input.Operator == "" {
		return models.Claim{}, fmt.Errorf("%w: operator is required", ErrValidation)
	}
	if !input.Amount.IsPositive() {
		return models.Claim{}, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	profile, err := g.profiles.GetProfile(ctx, principal.UserID)
	if err != nil {
		return models.Claim{}, err
	}

	receiptPath := ""
	if receipt != nil {
		receiptPath = g.receiptPath(principal.UserID, receipt.Filename)
		if err := g.receipts.Upload(ctx, receiptPath, receipt.ContentType, receipt.Body); err != nil {
			return models.Claim{}, err
		}
	}

	status := models.StatusPending
	if input.Amount.GreaterThan(flagThreshold) {
		status = models.StatusFlagged
	}

	claim := models.Claim{
		ID:               uuid.New(),
		UserID:           principal.UserID,
		CondoID:          profile.CondoID,
		ChargeDate:       input.ChargeDate,
		Operator:         input.Operator,
		Amount:           input.Amount,
		ReceiptImagePath: receiptPath,
		RebateRate:       profile.Condo.RebateRate,
		RebateAmount:     input.Amount.Mul(profile.Condo.RebateRate),
		Status:           status,
	}
	created, err := g.claims.InsertClaim(ctx, claim)
	if err != nil {
		if receiptPath != "" {
			g.log.Warn("claim insert failed after receipt upload, blob orphaned",
				zap.String("receipt_path", receiptPath), zap.Error(err))
		}
		return models.Claim{}, err
	}

	g.log.Info("claim submitted",
		zap.String("claim_id", created.ID.String()),
		zap.String("user_id", created.UserID.String()),
		zap.String("status", string(created.Status)))
	return created, nil
}

// UserClaims lists a user's claims joined with condo name and tier, most
// recent charge first.
func (g *Gateway) UserClaims(ctx context.Context, userID uuid.UUID) ([]models.Claim, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	return g.claims.ClaimsForUser(ctx, userID)
}

// AllClaims reads the pre-joined admin listing with optional status and
// condo filters, newest first.
func (g *Gateway) AllClaims(ctx context.Context, filters storage.ClaimFilters) ([]models.ClaimDetails, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return g.claims.ClaimsWithDetails(ctx, filters)
}

// UpdateClaimStatus applies a review decision. The reviewer stamp comes from
// the authenticated admin; the rejection reason is stored only when rejecting.
func (g *Gateway) UpdateClaimStatus(ctx context.Context, claimID uuid.UUID, status models.ClaimStatus, reason string) (models.Claim, error) {
	principal, err := requireAdmin(ctx)
	if err != nil {
		return models.Claim{}, err
	}
	if !status.Valid() {
		return models.Claim{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	update := storage.ClaimStatusUpdate{
		Status:     status,
		ReviewedBy: principal.UserID,
		ReviewedAt: g.now(),
	}
	if status == models.StatusRejected && reason != "" {
		update.RejectionReason = &reason
	}
	updated, err := g.claims.UpdateClaimStatus(ctx, claimID, update)
	if err != nil {
		return models.Claim{}, err
	}

	g.log.Info("claim reviewed",
		zap.String("claim_id", claimID.String()),
		zap.String("status", string(status)),
		zap.String("reviewed_by", principal.UserID.String()))
	return updated, nil
}

// MonthlySummary reads the per-month aggregate for a user, most recent first.
func (g *Gateway) MonthlySummary(ctx context.Context, userID uuid.UUID) ([]models.MonthlySummary, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	return g.claims.MonthlySummary(ctx, userID)
}

// YTDRebate returns the sum of approved rebate amounts for claims charged in
// the current calendar year.
func (g *Gateway) YTDRebate(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return decimal.Zero, err
	}
	now := g.now()
	janFirst := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	return g.claims.ApprovedRebateTotal(ctx, userID, janFirst)
}

// receiptPath namespaces a stored receipt by user id with a millisecond
// timestamp prefix on the original filename. Colliding timestamps are
// accepted, not mitigated.
func (g *Gateway) receiptPath(userID uuid.UUID, filename string) string {
	name := filepath.Base(filename)
	if name == "." || name == "/" || name == "" {
		name = "receipt"
	}
	return fmt.Sprintf("%s/%d-%s", userID, g.now().UnixMilli(), name)
}
