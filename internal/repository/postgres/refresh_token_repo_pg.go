package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/MagicBilling_BackEnd/internal/domain"
)

type RefreshTokenRepository struct {
	db *sqlx.DB
}

func NewRefreshTokenRepo(db *sqlx.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Upsert(ctx context.Context, userID uuid.UUID, token string, expiryDate time.Time) (*domain.RefreshToken, error) {
	const query = `
        INSERT INTO refresh_tokens (user_id, token, expiry_date, revoked)
        VALUES ($1, $2, $3, FALSE)
        ON CONFLICT (user_id) DO UPDATE
        SET token = EXCLUDED.token,
            expiry_date = EXCLUDED.expiry_date,
            revoked = FALSE,
            created_at = NOW()
        RETURNING id, user_id, token, expiry_date, revoked, created_at
    `
	row := r.db.QueryRowxContext(ctx, query, userID, token, expiryDate)
	var rec domain.RefreshToken
	if err := row.StructScan(&rec); err != nil {
		return nil, fmt.Errorf("upsert refresh token: %w", err)
	}
	return &rec, nil
}

func (r *RefreshTokenRepository) FindLiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.RefreshToken, error) {
	const query = `
        SELECT id, user_id, token, expiry_date, revoked, created_at
        FROM refresh_tokens
        WHERE user_id = $1 AND revoked = FALSE AND expiry_date > $2
    `
	var rec domain.RefreshToken
	if err := r.db.GetContext(ctx, &rec, query, userID, now); err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &rec, nil
}

func (r *RefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1 AND revoked = FALSE`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeByUser(ctx context.Context, userID uuid.UUID) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1 AND revoked = FALSE`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("revoke refresh tokens for user: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) DeleteExpiredOrRevoked(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM refresh_tokens WHERE expiry_date < $1 OR revoked = TRUE`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("delete refresh tokens: %w", err)
	}
	return res.RowsAffected()
}
