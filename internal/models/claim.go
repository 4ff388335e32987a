package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClaimStatus represents the review state of a rebate claim.
type ClaimStatus string

const (
	StatusPending  ClaimStatus = "pending"
	StatusFlagged  ClaimStatus = "flagged"
	StatusApproved ClaimStatus = "approved"
	StatusRejected ClaimStatus = "rejected"
)

// Valid reports whether s is one of the known claim statuses.
func (s ClaimStatus) Valid() bool {
	switch s {
	case StatusPending, StatusFlagged, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Claim is a single rebate request tied to one EV-charging receipt.
// RebateRate is copied from the condo at submission time; RebateAmount is
// always amount times rate as computed at submission, never caller input.
type Claim struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"user_id"`
	CondoID          uuid.UUID       `json:"condo_id"`
	ChargeDate       time.Time       `json:"charge_date"`
	Operator         string          `json:"operator"`
	Amount           decimal.Decimal `json:"amount"`
	ReceiptImagePath string          `json:"receipt_image_path,omitempty"`
	RebateRate       decimal.Decimal `json:"rebate_rate"`
	RebateAmount     decimal.Decimal `json:"rebate_amount"`
	Status           ClaimStatus     `json:"status"`
	ReviewedBy       *uuid.UUID      `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time      `json:"reviewed_at,omitempty"`
	RejectionReason  *string         `json:"rejection_reason,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`

	// Joined condo fields, populated by user-facing claim listings.
	CondoName string `json:"condo_name,omitempty"`
	CondoTier string `json:"condo_tier,omitempty"`
}

// ClaimDetails is one row of the claims_with_details view: a claim joined
// with its participant and condo, as consumed by the admin listing and the
// CSV export.
type ClaimDetails struct {
	Claim
	ParticipantName string `json:"participant_name"`
	VehicleNumber   string `json:"vehicle_number"`
}

// MonthlySummary is one row of the monthly_rebate_summary view.
type MonthlySummary struct {
	UserID         uuid.UUID       `json:"user_id"`
	MonthYear      string          `json:"month_year"`
	ClaimCount     int             `json:"claim_count"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	ApprovedRebate decimal.Decimal `json:"approved_rebate"`
}

// DashboardStats aggregates claim counts by status plus the total payout
// over approved claims.
type DashboardStats struct {
	Pending     int             `json:"pending"`
	Flagged     int             `json:"flagged"`
	Approved    int             `json:"approved"`
	TotalPayout decimal.Decimal `json:"totalPayout"`
}
