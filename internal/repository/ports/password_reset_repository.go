package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/MagicBilling_BackEnd/internal/domain"
)

type PasswordResetRepository interface {
	// Issue flags the user's live links used and inserts a new one. Concurrent
	// calls for the same user are serialized, so one live link remains.
	Issue(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt, now time.Time) (*domain.PasswordReset, error)
	FindActive(ctx context.Context, userID uuid.UUID, tokenHash string, now time.Time) (*domain.PasswordReset, error)
	// Consume sets the user's password hash and flags the matching live link
	// used, atomically. It reports false when no live link matched.
	Consume(ctx context.Context, userID uuid.UUID, tokenHash, passwordHash string, now time.Time) (bool, error)
	DeleteUsedOrExpired(ctx context.Context, now, usedBefore time.Time) (int64, error)
}
