package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/motoreast/rebate-portal/internal/models"
	"github.com/motoreast/rebate-portal/internal/storage"
)

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (id, email, name, vehicle_number, role, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, email, name, vehicle_number, role, password_hash, created_at;
	`
	row := s.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.Name, user.VehicleNumber, user.Role, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
		SELECT id, email, name, vehicle_number, role, password_hash, created_at
		FROM users
		WHERE email = $1;
	`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

// FindByID fetches a user by id.
func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	const query = `
		SELECT id, email, name, vehicle_number, role, password_hash, created_at
		FROM users
		WHERE id = $1;
	`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// GetProfile fetches a user's profile joined with its condo.
func (s *Store) GetProfile(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	const query = `
		SELECT p.id, p.condo_id, k.id, k.name, k.tier, k.rebate_rate
		FROM profiles p
		JOIN condos k ON k.id = p.condo_id
		WHERE p.id = $1;
	`
	var profile models.Profile
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&profile.ID, &profile.CondoID,
		&profile.Condo.ID, &profile.Condo.Name, &profile.Condo.Tier, &profile.Condo.RebateRate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Profile{}, storage.ErrNotFound
		}
		return models.Profile{}, err
	}
	return profile, nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.VehicleNumber,
		&user.Role, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
