package model

import (
	"time"

	"github.com/google/uuid"
)

// Employee represents a portal user with a redeemable points balance.
type Employee struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Points    int       `json:"points" db:"points"`
	Locked    bool      `json:"locked" db:"locked"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
