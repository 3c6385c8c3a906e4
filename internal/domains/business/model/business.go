package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoBusinessFound means the acting user has no active business
// membership. Every import and discount operation is scoped to a
// business, so nothing can proceed until one is set up.
var ErrNoBusinessFound = errors.New("no active business found, please set up a business first")

// Business is one tenant of the application (table: businesses).
type Business struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	OwnerID   uuid.UUID `json:"owner_id" db:"owner_id"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Membership links a user to a business (table: business_members).
type Membership struct {
	ID         uuid.UUID `json:"id" db:"id"`
	BusinessID uuid.UUID `json:"business_id" db:"business_id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	Role       string    `json:"role" db:"role"` // owner or staff
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
