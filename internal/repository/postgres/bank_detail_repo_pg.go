package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/MagicBilling_BackEnd/internal/domain"
)

const bankDetailColumns = `id, user_id, bank_name, account_holder, account_number, ifsc_code, upi_id, created_at, updated_at`

type BankDetailRepository struct {
	db *sqlx.DB
}

func NewBankDetailRepo(db *sqlx.DB) *BankDetailRepository {
	return &BankDetailRepository{db: db}
}

func (r *BankDetailRepository) Create(ctx context.Context, detail *domain.BankDetail) (*domain.BankDetail, error) {
	query := `
        INSERT INTO bank_details (user_id, bank_name, account_holder, account_number, ifsc_code, upi_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + bankDetailColumns

	row := r.db.QueryRowxContext(ctx, query,
		detail.UserID, detail.BankName, detail.AccountHolder, detail.AccountNumber, detail.IFSCCode, detail.UPIID)
	var created domain.BankDetail
	if err := row.StructScan(&created); err != nil {
		return nil, fmt.Errorf("create bank detail: %w", err)
	}
	return &created, nil
}

func (r *BankDetailRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.BankDetail, error) {
	query := `SELECT ` + bankDetailColumns + ` FROM bank_details WHERE user_id = $1 ORDER BY created_at DESC`
	details := []domain.BankDetail{}
	if err := r.db.SelectContext(ctx, &details, query, userID); err != nil {
		return nil, fmt.Errorf("list bank details: %w", err)
	}
	return details, nil
}

func (r *BankDetailRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*domain.BankDetail, error) {
	query := `SELECT ` + bankDetailColumns + ` FROM bank_details WHERE id = $1 AND user_id = $2`
	var detail domain.BankDetail
	if err := r.db.GetContext(ctx, &detail, query, id, userID); err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find bank detail: %w", err)
	}
	return &detail, nil
}

func (r *BankDetailRepository) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	const query = `DELETE FROM bank_details WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete bank detail: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete bank detail: %w", err)
	}
	return n > 0, nil
}
