package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/motoreast/rebate-portal/internal/models"
	"github.com/motoreast/rebate-portal/internal/storage"
)

// AllCondos lists every participating condo ordered by name.
func (s *Store) AllCondos(ctx context.Context) ([]models.Condo, error) {
	const query = `SELECT id, name, tier, rebate_rate FROM condos ORDER BY name;`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Condo
	for rows.Next() {
		var c models.Condo
		if err := rows.Scan(&c.ID, &c.Name, &c.Tier, &c.RebateRate); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CondoByID fetches one condo.
func (s *Store) CondoByID(ctx context.Context, id uuid.UUID) (models.Condo, error) {
	const query = `SELECT id, name, tier, rebate_rate FROM condos WHERE id = $1;`
	var c models.Condo
	err := s.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Tier, &c.RebateRate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Condo{}, storage.ErrNotFound
		}
		return models.Condo{}, err
	}
	return c, nil
}

// CondoStats reads the condo_stats aggregate view.
func (s *Store) CondoStats(ctx context.Context) ([]models.CondoStats, error) {
	const query = `
		SELECT condo_id, name, tier, resident_count, claim_count, approved_claims, total_rebates
		FROM condo_stats
		ORDER BY name;
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CondoStats
	for rows.Next() {
		var cs models.CondoStats
		err := rows.Scan(&cs.CondoID, &cs.Name, &cs.Tier, &cs.ResidentCount,
			&cs.ClaimCount, &cs.ApprovedClaims, &cs.TotalRebates)
		if err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}
