package repository

import (
	"time"

	"github.com/google/uuid"
)

// Consumer is a registered API consumer. KeyHash holds the bcrypt hash of
// the consumer's API-key secret; the plain secret is never stored.
type Consumer struct {
	ID        uuid.UUID `json:"id"`
	Naam      string    `json:"naam"`
	Email     string    `json:"email"`
	KeyHash   string    `json:"-"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
