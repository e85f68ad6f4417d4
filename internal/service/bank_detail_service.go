package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/njprem/MagicBilling_BackEnd/internal/domain"
	"github.com/njprem/MagicBilling_BackEnd/internal/repository/ports"
)

// FieldCipher encrypts the sensitive bank columns at rest.
type FieldCipher interface {
	Encrypt(plaintext string) string
	Decrypt(ciphertextHex string) (string, error)
}

type BankDetailInput struct {
	BankName      string
	AccountHolder string
	AccountNumber string
	IFSCCode      string
	UPIID         string
}

type BankDetailService struct {
	details ports.BankDetailRepository
	cipher  FieldCipher
}

func NewBankDetailService(details ports.BankDetailRepository, cipher FieldCipher) *BankDetailService {
	return &BankDetailService{details: details, cipher: cipher}
}

func (s *BankDetailService) Create(ctx context.Context, userID uuid.UUID, in BankDetailInput) (*domain.BankDetail, error) {
	in.BankName = strings.TrimSpace(in.BankName)
	in.AccountHolder = strings.TrimSpace(in.AccountHolder)
	in.AccountNumber = strings.TrimSpace(in.AccountNumber)
	if in.BankName == "" || in.AccountHolder == "" || in.AccountNumber == "" {
		return nil, ErrValidation.WithMessage("bank_name, account_holder and account_number are required")
	}

	detail := &domain.BankDetail{
		UserID:        userID,
		BankName:      in.BankName,
		AccountHolder: in.AccountHolder,
		AccountNumber: s.cipher.Encrypt(in.AccountNumber),
		IFSCCode:      s.encryptOptional(in.IFSCCode),
		UPIID:         s.encryptOptional(in.UPIID),
	}
	created, err := s.details.Create(ctx, detail)
	if err != nil {
		return nil, dependency(err)
	}
	return s.decrypt(created)
}

func (s *BankDetailService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.BankDetail, error) {
	details, err := s.details.ListByUser(ctx, userID)
	if err != nil {
		return nil, dependency(err)
	}
	out := make([]domain.BankDetail, 0, len(details))
	for i := range details {
		plain, err := s.decrypt(&details[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *plain)
	}
	return out, nil
}

// GetByID hides records owned by someone else behind ErrBankDetailNotFound.
func (s *BankDetailService) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.BankDetail, error) {
	detail, err := s.details.FindByID(ctx, userID, id)
	if err != nil {
		return nil, dependency(err)
	}
	if detail == nil {
		return nil, ErrBankDetailNotFound
	}
	return s.decrypt(detail)
}

func (s *BankDetailService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	deleted, err := s.details.Delete(ctx, userID, id)
	if err != nil {
		return dependency(err)
	}
	if !deleted {
		return ErrBankDetailNotFound
	}
	return nil
}

func (s *BankDetailService) encryptOptional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	enc := s.cipher.Encrypt(value)
	return &enc
}

func (s *BankDetailService) decrypt(stored *domain.BankDetail) (*domain.BankDetail, error) {
	out := *stored
	var err error
	if out.AccountNumber, err = s.cipher.Decrypt(stored.AccountNumber); err != nil {
		return nil, ErrDecryption.Wrap(err)
	}
	if out.IFSCCode, err = s.decryptOptional(stored.IFSCCode); err != nil {
		return nil, ErrDecryption.Wrap(err)
	}
	if out.UPIID, err = s.decryptOptional(stored.UPIID); err != nil {
		return nil, ErrDecryption.Wrap(err)
	}
	return &out, nil
}

func (s *BankDetailService) decryptOptional(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	plain, err := s.cipher.Decrypt(*value)
	if err != nil {
		return nil, err
	}
	return &plain, nil
}
