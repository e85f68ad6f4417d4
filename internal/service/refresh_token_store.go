package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/MagicBilling_BackEnd/internal/domain"
	"github.com/njprem/MagicBilling_BackEnd/internal/repository/ports"
	"github.com/njprem/MagicBilling_BackEnd/internal/util"
)

// RefreshTokenStore keeps at most one refresh record per user. Every issuance
// rotates the stored value through an upsert keyed on user_id, so concurrent
// logins from several instances converge on the last writer.
type RefreshTokenStore struct {
	tokens ports.RefreshTokenRepository
	now    func() time.Time
}

func NewRefreshTokenStore(tokens ports.RefreshTokenRepository) *RefreshTokenStore {
	return &RefreshTokenStore{tokens: tokens, now: time.Now}
}

func (s *RefreshTokenStore) Store(ctx context.Context, userID uuid.UUID, token, ttlSpec string) (*domain.RefreshToken, error) {
	ttl, err := util.ParseExpiry(ttlSpec)
	if err != nil {
		return nil, ErrInvalidDurationFormat.Wrap(err)
	}
	rec, err := s.tokens.Upsert(ctx, userID, token, s.now().Add(ttl))
	if err != nil {
		return nil, dependency(err)
	}
	return rec, nil
}

// FindValid returns (nil, nil) when the user has no live record.
func (s *RefreshTokenStore) FindValid(ctx context.Context, userID uuid.UUID) (*domain.RefreshToken, error) {
	rec, err := s.tokens.FindLiveByUser(ctx, userID, s.now())
	if err != nil {
		return nil, dependency(err)
	}
	if !rec.Live(s.now()) {
		return nil, nil
	}
	return rec, nil
}

// Revoke is idempotent: unknown or already revoked tokens are not an error.
func (s *RefreshTokenStore) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return dependency(err)
	}
	return nil
}

func (s *RefreshTokenStore) RevokeForUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokens.RevokeByUser(ctx, userID); err != nil {
		return dependency(err)
	}
	return nil
}
