package domain

import "github.com/google/uuid"

// Identity is what the authentication middleware attaches to a request.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}
