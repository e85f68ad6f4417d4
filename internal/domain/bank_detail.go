package domain

import (
	"time"

	"github.com/google/uuid"
)

// BankDetail holds a user's payout account. AccountNumber, IFSCCode and UPIID
// are ciphertext while stored and plaintext only on owner reads.
type BankDetail struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        uuid.UUID `db:"user_id" json:"user_id"`
	BankName      string    `db:"bank_name" json:"bank_name"`
	AccountHolder string    `db:"account_holder" json:"account_holder"`
	AccountNumber string    `db:"account_number" json:"account_number"`
	IFSCCode      *string   `db:"ifsc_code" json:"ifsc_code,omitempty"`
	UPIID         *string   `db:"upi_id" json:"upi_id,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
