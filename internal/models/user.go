package models

import (
	"time"

	"github.com/google/uuid"
)

// User captures application-facing fields for an authenticated identity.
type User struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	VehicleNumber string    `json:"vehicle_number"`
	Role          string    `json:"role"`
	PasswordHash  string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// Profile links a user to the condo whose rebate rate applies to their
// claims. Its id equals the user id.
type Profile struct {
	ID      uuid.UUID `json:"id"`
	CondoID uuid.UUID `json:"condo_id"`
	Condo   Condo     `json:"condo"`
}
