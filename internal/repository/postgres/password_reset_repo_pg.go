package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/MagicBilling_BackEnd/internal/domain"
)

type PasswordResetRepository struct {
	db *sqlx.DB
}

func NewPasswordResetRepo(db *sqlx.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Issue locks the owning users row so two requests for the same account
// cannot both insert after invalidating.
func (r *PasswordResetRepository) Issue(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt, now time.Time) (*domain.PasswordReset, error) {
	const lockUser = `SELECT 1 FROM users WHERE id = $1 FOR UPDATE`
	const invalidate = `
        UPDATE password_resets
        SET used = TRUE
        WHERE user_id = $1 AND used = FALSE AND expires_at > $2
    `
	const insert = `
        INSERT INTO password_resets (user_id, token_hash, expires_at)
        VALUES ($1, $2, $3)
        RETURNING id, user_id, token_hash, expires_at, used, created_at
    `

	var reset domain.PasswordReset
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var locked int
		if err := tx.GetContext(ctx, &locked, lockUser, userID); err != nil {
			return fmt.Errorf("lock user: %w", err)
		}
		if _, err := tx.ExecContext(ctx, invalidate, userID, now); err != nil {
			return fmt.Errorf("invalidate password resets: %w", err)
		}
		if err := tx.QueryRowxContext(ctx, insert, userID, tokenHash, expiresAt).StructScan(&reset); err != nil {
			return fmt.Errorf("insert password reset: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("issue password reset: %w", err)
	}
	return &reset, nil
}

func (r *PasswordResetRepository) FindActive(ctx context.Context, userID uuid.UUID, tokenHash string, now time.Time) (*domain.PasswordReset, error) {
	const query = `
        SELECT id, user_id, token_hash, expires_at, used, created_at
        FROM password_resets
        WHERE user_id = $1 AND token_hash = $2 AND used = FALSE AND expires_at > $3
        LIMIT 1
    `
	var reset domain.PasswordReset
	if err := r.db.GetContext(ctx, &reset, query, userID, tokenHash, now); err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find password reset: %w", err)
	}
	return &reset, nil
}

// Consume holds the reset row lock while the password changes; a concurrent
// redemption of the same token waits and then finds the row used.
func (r *PasswordResetRepository) Consume(ctx context.Context, userID uuid.UUID, tokenHash, passwordHash string, now time.Time) (bool, error) {
	const lockReset = `
        SELECT id
        FROM password_resets
        WHERE user_id = $1 AND token_hash = $2 AND used = FALSE AND expires_at > $3
        LIMIT 1
        FOR UPDATE
    `
	const setPassword = `
        UPDATE users
        SET password_hash = $2,
            updated_at = NOW()
        WHERE id = $1
    `
	const markUsed = `UPDATE password_resets SET used = TRUE WHERE id = $1`

	consumed := false
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var resetID uuid.UUID
		if err := tx.GetContext(ctx, &resetID, lockReset, userID, tokenHash, now); err != nil {
			if noRows(err) {
				return nil
			}
			return fmt.Errorf("lock password reset: %w", err)
		}
		if _, err := tx.ExecContext(ctx, setPassword, userID, passwordHash); err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		if _, err := tx.ExecContext(ctx, markUsed, resetID); err != nil {
			return fmt.Errorf("mark password reset used: %w", err)
		}
		consumed = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("consume password reset: %w", err)
	}
	return consumed, nil
}

func (r *PasswordResetRepository) DeleteUsedOrExpired(ctx context.Context, now, usedBefore time.Time) (int64, error) {
	const query = `DELETE FROM password_resets WHERE expires_at < $1 OR (used = TRUE AND created_at < $2)`
	res, err := r.db.ExecContext(ctx, query, now, usedBefore)
	if err != nil {
		return 0, fmt.Errorf("delete password resets: %w", err)
	}
	return res.RowsAffected()
}
