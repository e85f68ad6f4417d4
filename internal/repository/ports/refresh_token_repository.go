package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/MagicBilling_BackEnd/internal/domain"
)

type RefreshTokenRepository interface {
	// Upsert replaces whatever record the user had; user_id is unique.
	Upsert(ctx context.Context, userID uuid.UUID, token string, expiryDate time.Time) (*domain.RefreshToken, error)
	FindLiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeByUser(ctx context.Context, userID uuid.UUID) error
	DeleteExpiredOrRevoked(ctx context.Context, now time.Time) (int64, error)
}
