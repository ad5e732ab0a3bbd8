package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account created on first Google sign-in and updated on each
// subsequent one. GoogleID is the stable external identity key.
type User struct {
	ID        uuid.UUID `json:"id"`
	GoogleID  string    `json:"googleId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
