package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/MagicBilling_BackEnd/internal/domain"
)

// UserRepository finders return (nil, nil) when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	MarkVerifiedByEmail(ctx context.Context, email string) (bool, error)
}
