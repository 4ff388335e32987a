package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/motoreast/rebate-portal/internal/models"
	"github.com/motoreast/rebate-portal/internal/storage"
)

// CreateRegistration inserts a pending registration.
func (s *Store) CreateRegistration(ctx context.Context, reg models.Registration) (models.Registration, error) {
	const query = `
		INSERT INTO pending_registrations (id, name, email, vehicle_number, condo_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, email, vehicle_number, condo_id, status, reviewed_by, reviewed_at, created_at;
	`
	row := s.pool.QueryRow(ctx, query,
		reg.ID, reg.Name, reg.Email, reg.VehicleNumber, reg.CondoID, reg.Status)
	created, err := scanRegistration(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Registration{}, storage.ErrAlreadyExists
		}
		return models.Registration{}, err
	}
	return created, nil
}

// PendingRegistrations lists registrations awaiting review joined with condo
// name and tier, newest first.
func (s *Store) PendingRegistrations(ctx context.Context) ([]models.Registration, error) {
	const query = `
		SELECT r.id, r.name, r.email, r.vehicle_number, r.condo_id, r.status,
			r.reviewed_by, r.reviewed_at, r.created_at, k.name, k.tier
		FROM pending_registrations r
		JOIN condos k ON k.id = r.condo_id
		WHERE r.status = 'pending'
		ORDER BY r.created_at DESC;
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Registration
	for rows.Next() {
		var r models.Registration
		err := rows.Scan(&r.ID, &r.Name, &r.Email, &r.VehicleNumber, &r.CondoID,
			&r.Status, &r.ReviewedBy, &r.ReviewedAt, &r.CreatedAt, &r.CondoName, &r.CondoTier)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ApproveRegistration marks a registration approved with a review stamp.
func (s *Store) ApproveRegistration(ctx context.Context, id uuid.UUID, reviewedBy uuid.UUID, reviewedAt time.Time) (models.Registration, error) {
	const query = `
		UPDATE pending_registrations
		SET status = 'approved', reviewed_by = $2, reviewed_at = $3
		WHERE id = $1
		RETURNING id, name, email, vehicle_number, condo_id, status, reviewed_by, reviewed_at, created_at;
	`
	return scanRegistration(s.pool.QueryRow(ctx, query, id, reviewedBy, reviewedAt))
}

func scanRegistration(row pgx.Row) (models.Registration, error) {
	var r models.Registration
	err := row.Scan(&r.ID, &r.Name, &r.Email, &r.VehicleNumber, &r.CondoID,
		&r.Status, &r.ReviewedBy, &r.ReviewedAt, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Registration{}, storage.ErrNotFound
		}
		return models.Registration{}, err
	}
	return r, nil
}
