package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/motoreast/rebate-portal/internal/models"
)

// TestClaimAggregatesIntegration exercises the SQL-side aggregates against a
// live database: the approved-only YTD window, the dashboard counters, and
// the monthly_rebate_summary and condo_stats views. Dashboard assertions are
// deltas against a baseline so the test tolerates pre-existing rows.
func TestClaimAggregatesIntegration(t *testing.T) {
	if os.Getenv("RUN_PORTAL_INTEGRATION") != "true" {
		t.Skip("set RUN_PORTAL_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := NewStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	defer store.Close()

	baseline, err := store.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("baseline dashboard stats: %v", err)
	}

	condoID := uuid.New()
	condoName := fmt.Sprintf("inttest-condo-%d", time.Now().UnixNano())
	if _, err := store.pool.Exec(ctx,
		`INSERT INTO condos (id, name, tier, rebate_rate) VALUES ($1, $2, 'premium', 0.1);`,
		condoID, condoName); err != nil {
		t.Fatalf("seed condo: %v", err)
	}

	user, err := store.CreateUser(ctx, models.User{
		ID:            uuid.New(),
		Email:         fmt.Sprintf("inttest_%d@example.com", time.Now().UnixNano()),
		Name:          "Aggregate Test",
		VehicleNumber: "SGX0002T",
		Role:          models.RoleResident,
		PasswordHash:  "unused",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if _, err := store.pool.Exec(ctx,
		`INSERT INTO profiles (id, condo_id) VALUES ($1, $2);`, user.ID, condoID); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	t.Cleanup(func() {
		_, _ = store.pool.Exec(ctx, `DELETE FROM claims WHERE user_id = $1;`, user.ID)
		_, _ = store.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1;`, user.ID)
		_, _ = store.pool.Exec(ctx, `DELETE FROM users WHERE id = $1;`, user.ID)
		_, _ = store.pool.Exec(ctx, `DELETE FROM condos WHERE id = $1;`, condoID)
	})

	year := time.Now().Year()
	rate := decimal.RequireFromString("0.1")
	seed := func(month time.Month, day, yearOffset int, amount string, status models.ClaimStatus) {
		t.Helper()
		amt := decimal.RequireFromString(amount)
		_, err := store.InsertClaim(ctx, models.Claim{
			ID:           uuid.New(),
			UserID:       user.ID,
			CondoID:      condoID,
			ChargeDate:   time.Date(year+yearOffset, month, day, 0, 0, 0, 0, time.UTC),
			Operator:     "ChargEV",
			Amount:       amt,
			RebateRate:   rate,
			RebateAmount: amt.Mul(rate),
			Status:       status,
		})
		if err != nil {
			t.Fatalf("seed %s claim: %v", status, err)
		}
	}

	seed(time.February, 10, 0, "100", models.StatusApproved) // rebate 10
	seed(time.February, 20, 0, "50", models.StatusApproved)  // rebate 5
	seed(time.April, 1, 0, "80", models.StatusPending)
	seed(time.May, 2, 0, "320.50", models.StatusFlagged)
	seed(time.June, 1, 0, "60", models.StatusRejected)

	stats, err := store.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("dashboard stats: %v", err)
	}
	if got := stats.Pending - baseline.Pending; got != 1 {
		t.Fatalf("pending delta = %d, want 1", got)
	}
	if got := stats.Flagged - baseline.Flagged; got != 1 {
		t.Fatalf("flagged delta = %d, want 1", got)
	}
	if got := stats.Approved - baseline.Approved; got != 2 {
		t.Fatalf("approved delta = %d, want 2", got)
	}
	if got := stats.TotalPayout.Sub(baseline.TotalPayout); !got.Equal(decimal.RequireFromString("15")) {
		t.Fatalf("payout delta = %s, want 15", got)
	}

	janFirst := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	total, err := store.ApprovedRebateTotal(ctx, user.ID, janFirst)
	if err != nil {
		t.Fatalf("ytd total: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("15")) {
		t.Fatalf("ytd total = %s, want 15", total)
	}

	// an approved claim from last December stays outside the YTD window but
	// still counts toward the dashboard's approved payout
	seed(time.December, 31, -1, "70", models.StatusApproved) // rebate 7

	total, err = store.ApprovedRebateTotal(ctx, user.ID, janFirst)
	if err != nil {
		t.Fatalf("ytd total after prior-year claim: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("15")) {
		t.Fatalf("ytd total after prior-year claim = %s, want 15", total)
	}

	stats, err = store.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("dashboard stats after prior-year claim: %v", err)
	}
	if got := stats.Approved - baseline.Approved; got != 3 {
		t.Fatalf("approved delta after prior-year claim = %d, want 3", got)
	}
	if got := stats.TotalPayout.Sub(baseline.TotalPayout); !got.Equal(decimal.RequireFromString("22")) {
		t.Fatalf("payout delta after prior-year claim = %s, want 22", got)
	}

	summaries, err := store.MonthlySummary(ctx, user.ID)
	if err != nil {
		t.Fatalf("monthly summary: %v", err)
	}
	february := fmt.Sprintf("%04d-02", year)
	found := false
	for _, m := range summaries {
		if m.MonthYear != february {
			continue
		}
		found = true
		if m.ClaimCount != 2 {
			t.Fatalf("february claim count = %d, want 2", m.ClaimCount)
		}
		if !m.TotalAmount.Equal(decimal.RequireFromString("150")) {
			t.Fatalf("february total amount = %s, want 150", m.TotalAmount)
		}
		if !m.ApprovedRebate.Equal(decimal.RequireFromString("15")) {
			t.Fatalf("february approved rebate = %s, want 15", m.ApprovedRebate)
		}
	}
	if !found {
		t.Fatalf("monthly summary missing %s row: %+v", february, summaries)
	}

	condoStats, err := store.CondoStats(ctx)
	if err != nil {
		t.Fatalf("condo stats: %v", err)
	}
	found = false
	for _, c := range condoStats {
		if c.Name != condoName {
			continue
		}
		found = true
		if c.ResidentCount != 1 {
			t.Fatalf("resident count = %d, want 1", c.ResidentCount)
		}
		if c.ClaimCount != 6 {
			t.Fatalf("claim count = %d, want 6", c.ClaimCount)
		}
		if c.ApprovedClaims != 3 {
			t.Fatalf("approved claims = %d, want 3", c.ApprovedClaims)
		}
		if !c.TotalRebates.Equal(decimal.RequireFromString("22")) {
			t.Fatalf("total rebates = %s, want 22", c.TotalRebates)
		}
	}
	if !found {
		t.Fatalf("condo stats missing %s row", condoName)
	}

	t.Logf("verified SQL aggregates for user %s in condo %s", user.ID, condoName)
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
		"../../../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
