package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Condo is a participating property. Its rebate rate is the fraction of a
// charging amount reimbursed to residents, between 0 and 1.
type Condo struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Tier       string          `json:"tier"`
	RebateRate decimal.Decimal `json:"rebate_rate"`
}

// CondoStats is one row of the condo_stats aggregate view.
type CondoStats struct {
	CondoID        uuid.UUID       `json:"condo_id"`
	Name           string          `json:"name"`
	Tier           string          `json:"tier"`
	ResidentCount  int             `json:"resident_count"`
	ClaimCount     int             `json:"claim_count"`
	ApprovedClaims int             `json:"approved_claims"`
	TotalRebates   decimal.Decimal `json:"total_rebates"`
}
