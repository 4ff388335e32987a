package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/motoreast/rebate-portal/internal/storage"
)

// Ensure Store satisfies the storage interfaces at compile time.
var (
	_ storage.UserStore         = (*Store)(nil)
	_ storage.ProfileStore      = (*Store)(nil)
	_ storage.ClaimStore        = (*Store)(nil)
	_ storage.CondoStore        = (*Store)(nil)
	_ storage.RegistrationStore = (*Store)(nil)
)

// Store provides Postgres-backed persistence for the rebate portal.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			vehicle_number TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'resident',
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS condos (
			id UUID PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			tier TEXT NOT NULL DEFAULT 'standard',
			rebate_rate NUMERIC(5,4) NOT NULL CHECK (rebate_rate >= 0 AND rebate_rate <= 1)
		);`,
		`CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY REFERENCES users(id),
			condo_id UUID NOT NULL REFERENCES condos(id)
		);`,
		`CREATE TABLE IF NOT EXISTS claims (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			condo_id UUID NOT NULL REFERENCES condos(id),
			charge_date DATE NOT NULL,
			operator TEXT NOT NULL,
			amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			receipt_image_path TEXT,
			rebate_rate NUMERIC(5,4) NOT NULL,
			rebate_amount NUMERIC(12,2) NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			reviewed_by UUID REFERENCES users(id),
			reviewed_at TIMESTAMPTZ,
			rejection_reason TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS claims_user_idx ON claims (user_id, charge_date DESC);`,
		`CREATE INDEX IF NOT EXISTS claims_status_idx ON claims (status);`,
		`CREATE TABLE IF NOT EXISTS pending_registrations (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			vehicle_number TEXT NOT NULL DEFAULT '',
			condo_id UUID NOT NULL REFERENCES condos(id),
			status TEXT NOT NULL DEFAULT 'pending',
			reviewed_by UUID REFERENCES users(id),
			reviewed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE OR REPLACE VIEW claims_with_details AS
			SELECT c.id, c.user_id, c.condo_id, c.charge_date, c.operator, c.amount,
				c.receipt_image_path, c.rebate_rate, c.rebate_amount, c.status,
				c.reviewed_by, c.reviewed_at, c.rejection_reason, c.created_at,
				u.name AS participant_name, u.vehicle_number,
				k.name AS condo_name, k.tier AS condo_tier
			FROM claims c
			JOIN users u ON u.id = c.user_id
			JOIN condos k ON k.id = c.condo_id;`,
		`CREATE OR REPLACE VIEW monthly_rebate_summary AS
			SELECT user_id,
				to_char(charge_date, 'YYYY-MM') AS month_year,
				COUNT(*) AS claim_count,
				SUM(amount) AS total_amount,
				COALESCE(SUM(rebate_amount) FILTER (WHERE status = 'approved'), 0) AS approved_rebate
			FROM claims
			GROUP BY user_id, to_char(charge_date, 'YYYY-MM');`,
		`CREATE OR REPLACE VIEW condo_stats AS
			SELECT k.id AS condo_id, k.name, k.tier,
				(SELECT COUNT(*) FROM profiles p WHERE p.condo_id = k.id) AS resident_count,
				COUNT(c.id) AS claim_count,
				COUNT(c.id) FILTER (WHERE c.status = 'approved') AS approved_claims,
				COALESCE(SUM(c.rebate_amount) FILTER (WHERE c.status = 'approved'), 0) AS total_rebates
			FROM condos k
			LEFT JOIN claims c ON c.condo_id = k.id
			GROUP BY k.id, k.name, k.tier;`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
