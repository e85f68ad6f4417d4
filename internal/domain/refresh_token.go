package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the single server-side refresh record kept per user.
type RefreshToken struct {
	ID         uuid.UUID `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	Token      string    `db:"token" json:"-"`
	ExpiryDate time.Time `db:"expiry_date" json:"expiry_date"`
	Revoked    bool      `db:"revoked" json:"revoked"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

func (t *RefreshToken) Live(now time.Time) bool {
	return t != nil && !t.Revoked && t.ExpiryDate.After(now)
}
