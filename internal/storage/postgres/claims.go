package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/motoreast/rebate-portal/internal/models"
	"github.com/motoreast/rebate-portal/internal/storage"
)

const claimColumns = `id, user_id, condo_id, charge_date, operator, amount,
	COALESCE(receipt_image_path, ''), rebate_rate, rebate_amount, status,
	reviewed_by, reviewed_at, rejection_reason, created_at`

// InsertClaim inserts a claim row and returns it with server-assigned timestamps.
func (s *Store) InsertClaim(ctx context.Context, claim models.Claim) (models.Claim, error) {
	query := fmt.Sprintf(`
		INSERT INTO claims (id, user_id, condo_id, charge_date, operator, amount,
			receipt_image_path, rebate_rate, rebate_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10)
		RETURNING %s;
	`, claimColumns)
	row := s.pool.QueryRow(ctx, query,
		claim.ID, claim.UserID, claim.CondoID, claim.ChargeDate, claim.Operator,
		claim.Amount, claim.ReceiptImagePath, claim.RebateRate, claim.RebateAmount,
		claim.Status)
	created, err := scanClaim(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Claim{}, storage.ErrAlreadyExists
		}
		return models.Claim{}, err
	}
	return created, nil
}

// ClaimsForUser lists a user's claims joined with condo name and tier, most
// recent charge first.
func (s *Store) ClaimsForUser(ctx context.Context, userID uuid.UUID) ([]models.Claim, error) {
	const query = `
		SELECT c.id, c.user_id, c.condo_id, c.charge_date, c.operator, c.amount,
			COALESCE(c.receipt_image_path, ''), c.rebate_rate, c.rebate_amount, c.status,
			c.reviewed_by, c.reviewed_at, c.rejection_reason, c.created_at,
			k.name, k.tier
		FROM claims c
		JOIN condos k ON k.id = c.condo_id
		WHERE c.user_id = $1
		ORDER BY c.charge_date DESC;
	`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Claim
	for rows.Next() {
		claim, err := scanClaimJoined(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, claim)
	}
	return out, rows.Err()
}

// ClaimsWithDetails reads the admin listing view with optional equality
// filters, newest first.
func (s *Store) ClaimsWithDetails(ctx context.Context, filters storage.ClaimFilters) ([]models.ClaimDetails, error) {
	query := `
		SELECT id, user_id, condo_id, charge_date, operator, amount,
			COALESCE(receipt_image_path, ''), rebate_rate, rebate_amount, status,
			reviewed_by, reviewed_at, rejection_reason, created_at,
			participant_name, vehicle_number, condo_name, condo_tier
		FROM claims_with_details
	`
	var (
		conds []string
		args  []any
	)
	if filters.Status != "" && filters.Status != "all" {
		args = append(args, filters.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filters.Condo != "" {
		args = append(args, filters.Condo)
		conds = append(conds, fmt.Sprintf("condo_name = $%d", len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC;"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ClaimDetails
	for rows.Next() {
		var d models.ClaimDetails
		err := rows.Scan(&d.ID, &d.UserID, &d.CondoID, &d.ChargeDate, &d.Operator,
			&d.Amount, &d.ReceiptImagePath, &d.RebateRate, &d.RebateAmount, &d.Status,
			&d.ReviewedBy, &d.ReviewedAt, &d.RejectionReason, &d.CreatedAt,
			&d.ParticipantName, &d.VehicleNumber, &d.CondoName, &d.CondoTier)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateClaimStatus applies a review decision to a claim.
func (s *Store) UpdateClaimStatus(ctx context.Context, claimID uuid.UUID, update storage.ClaimStatusUpdate) (models.Claim, error) {
	query := fmt.Sprintf(`
		UPDATE claims
		SET status = $2, reviewed_by = $3, reviewed_at = $4, rejection_reason = $5
		WHERE id = $1
		RETURNING %s;
	`, claimColumns)
	row := s.pool.QueryRow(ctx, query, claimID,
		update.Status, update.ReviewedBy, update.ReviewedAt, update.RejectionReason)
	return scanClaim(row)
}

// MonthlySummary reads the per-month aggregate view for a user, most recent
// month first.
func (s *Store) MonthlySummary(ctx context.Context, userID uuid.UUID) ([]models.MonthlySummary, error) {
	const query = `
		SELECT user_id, month_year, claim_count, total_amount, approved_rebate
		FROM monthly_rebate_summary
		WHERE user_id = $1
		ORDER BY month_year DESC;
	`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.MonthlySummary
	for rows.Next() {
		var m models.MonthlySummary
		if err := rows.Scan(&m.UserID, &m.MonthYear, &m.ClaimCount, &m.TotalAmount, &m.ApprovedRebate); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ApprovedRebateTotal sums approved rebate amounts for a user with charge
// dates on or after since.
func (s *Store) ApprovedRebateTotal(ctx context.Context, userID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(rebate_amount), 0)
		FROM claims
		WHERE user_id = $1 AND status = 'approved' AND charge_date >= $2;
	`
	var total decimal.Decimal
	if err := s.pool.QueryRow(ctx, query, userID, since).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// DashboardStats aggregates claim counts by status and the approved payout.
func (s *Store) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	const query = `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'flagged'),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COALESCE(SUM(rebate_amount) FILTER (WHERE status = 'approved'), 0)
		FROM claims;
	`
	var stats models.DashboardStats
	err := s.pool.QueryRow(ctx, query).Scan(
		&stats.Pending, &stats.Flagged, &stats.Approved, &stats.TotalPayout)
	if err != nil {
		return models.DashboardStats{}, err
	}
	return stats, nil
}

func scanClaim(row pgx.Row) (models.Claim, error) {
	var c models.Claim
	err := row.Scan(&c.ID, &c.UserID, &c.CondoID, &c.ChargeDate, &c.Operator,
		&c.Amount, &c.ReceiptImagePath, &c.RebateRate, &c.RebateAmount, &c.Status,
		&c.ReviewedBy, &c.ReviewedAt, &c.RejectionReason, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Claim{}, storage.ErrNotFound
		}
		return models.Claim{}, err
	}
	return c, nil
}

func scanClaimJoined(row pgx.Row) (models.Claim, error) {
	var c models.Claim
	err := row.Scan(&c.ID, &c.UserID, &c.CondoID, &c.ChargeDate, &c.Operator,
		&c.Amount, &c.ReceiptImagePath, &c.RebateRate, &c.RebateAmount, &c.Status,
		&c.ReviewedBy, &c.ReviewedAt, &c.RejectionReason, &c.CreatedAt,
		&c.CondoName, &c.CondoTier)
	if err != nil {
		return models.Claim{}, err
	}
	return c, nil
}
