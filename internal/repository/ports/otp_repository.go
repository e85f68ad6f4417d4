package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/MagicBilling_BackEnd/internal/domain"
)

type OTPRepository interface {
	Create(ctx context.Context, email, code string, expiresAt time.Time) (*domain.OTP, error)
	FindLatestUnused(ctx context.Context, email string) (*domain.OTP, error)
	FindActive(ctx context.Context, email, code string, now time.Time) (*domain.OTP, error)
	// MarkUsed reports false when the row was already used.
	MarkUsed(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteUsedOrExpired(ctx context.Context, now, usedBefore time.Time) (int64, error)
}
