package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/MagicBilling_BackEnd/internal/domain"
)

type OTPRepository struct {
	db *sqlx.DB
}

func NewOTPRepo(db *sqlx.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

func (r *OTPRepository) Create(ctx context.Context, email, code string, expiresAt time.Time) (*domain.OTP, error) {
	const query = `
        INSERT INTO otps (email, code, expires_at)
        VALUES ($1, $2, $3)
        RETURNING id, email, code, created_at, expires_at, used
    `
	row := r.db.QueryRowxContext(ctx, query, email, code, expiresAt)
	var otp domain.OTP
	if err := row.StructScan(&otp); err != nil {
		return nil, fmt.Errorf("create otp: %w", err)
	}
	return &otp, nil
}

func (r *OTPRepository) FindLatestUnused(ctx context.Context, email string) (*domain.OTP, error) {
	const query = `
        SELECT id, email, code, created_at, expires_at, used
        FROM otps
        WHERE email = $1 AND used = FALSE
        ORDER BY created_at DESC
        LIMIT 1
    `
	var otp domain.OTP
	if err := r.db.GetContext(ctx, &otp, query, email); err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find latest otp: %w", err)
	}
	return &otp, nil
}

func (r *OTPRepository) FindActive(ctx context.Context, email, code string, now time.Time) (*domain.OTP, error) {
	const query = `
        SELECT id, email, code, created_at, expires_at, used
        FROM otps
        WHERE email = $1 AND code = $2 AND used = FALSE AND expires_at > $3
        ORDER BY created_at DESC
        LIMIT 1
    `
	var otp domain.OTP
	if err := r.db.GetContext(ctx, &otp, query, email, code, now); err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active otp: %w", err)
	}
	return &otp, nil
}

func (r *OTPRepository) MarkUsed(ctx context.Context, id uuid.UUID) (bool, error) {
	const query = `UPDATE otps SET used = TRUE WHERE id = $1 AND used = FALSE`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("mark otp used: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark otp used: %w", err)
	}
	return n == 1, nil
}

func (r *OTPRepository) DeleteUsedOrExpired(ctx context.Context, now, usedBefore time.Time) (int64, error) {
	const query = `DELETE FROM otps WHERE expires_at < $1 OR (used = TRUE AND created_at < $2)`
	res, err := r.db.ExecContext(ctx, query, now, usedBefore)
	if err != nil {
		return 0, fmt.Errorf("delete otps: %w", err)
	}
	return res.RowsAffected()
}
