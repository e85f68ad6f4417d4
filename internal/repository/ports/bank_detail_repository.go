package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/MagicBilling_BackEnd/internal/domain"
)

// BankDetailRepository scopes every lookup by owner.
type BankDetailRepository interface {
	Create(ctx context.Context, detail *domain.BankDetail) (*domain.BankDetail, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.BankDetail, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*domain.BankDetail, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (bool, error)
}
