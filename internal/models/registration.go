package models

import (
	"time"

	"github.com/google/uuid"
)

// RegistrationStatus is the review state of a pending registration.
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
)

// Registration is a pre-approval request for a new participant/vehicle to be
// associated with a condo.
type Registration struct {
	ID            uuid.UUID          `json:"id"`
	Name          string             `json:"name"`
	Email         string             `json:"email"`
	VehicleNumber string             `json:"vehicle_number"`
	CondoID       uuid.UUID          `json:"condo_id"`
	Status        RegistrationStatus `json:"status"`
	ReviewedBy    *uuid.UUID         `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time         `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`

	// Joined condo fields for the admin listing.
	CondoName string `json:"condo_name,omitempty"`
	CondoTier string `json:"condo_tier,omitempty"`
}
