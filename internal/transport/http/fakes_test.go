package http

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/MagicBilling_BackEnd/internal/domain"
	"github.com/njprem/MagicBilling_BackEnd/internal/logging"
	"github.com/njprem/MagicBilling_BackEnd/internal/service"
)

type recordingLogger struct {
	mu     sync.Mutex
	infos  []string
	warns  []string
	errors []string
	args   [][]any
}

func (l *recordingLogger) record(dst *[]string, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*dst = append(*dst, msg)
	l.args = append(l.args, args)
}

func (l *recordingLogger) Info(_ context.Context, msg string, args ...any) {
	l.record(&l.infos, msg, args)
}

func (l *recordingLogger) Warn(_ context.Context, msg string, args ...any) {
	l.record(&l.warns, msg, args)
}

func (l *recordingLogger) Error(_ context.Context, msg string, args ...any) {
	l.record(&l.errors, msg, args)
}

func (l *recordingLogger) With(...any) logging.Logger { return l }

type fakeAuth struct {
	result     *service.AuthResult
	err        error
	refreshed  string
	loggedOut  uuid.UUID
	signUpWith service.SignUpInput
}

func (f *fakeAuth) SignUp(_ context.Context, in service.SignUpInput) (*service.AuthResult, error) {
	f.signUpWith = in
	return f.result, f.err
}

func (f *fakeAuth) SignIn(context.Context, string, string) (*service.AuthResult, error) {
	return f.result, f.err
}

func (f *fakeAuth) RefreshAccess(_ context.Context, token string) (*service.AuthResult, error) {
	f.refreshed = token
	return f.result, f.err
}

func (f *fakeAuth) Logout(_ context.Context, userID uuid.UUID) error {
	f.loggedOut = userID
	return f.err
}

type fakeOTP struct {
	err      error
	sentTo   string
	verified [2]string
}

func (f *fakeOTP) SendOTP(_ context.Context, email string) error {
	f.sentTo = email
	return f.err
}

func (f *fakeOTP) VerifyOTP(_ context.Context, email, code string) error {
	f.verified = [2]string{email, code}
	return f.err
}

type fakePasswords struct {
	err        error
	resetUser  uuid.UUID
	resetToken string
	changedFor uuid.UUID
}

func (f *fakePasswords) ForgotPassword(context.Context, string) error { return f.err }

func (f *fakePasswords) ResetPassword(_ context.Context, userID uuid.UUID, token, _ string) error {
	f.resetUser = userID
	f.resetToken = token
	return f.err
}

func (f *fakePasswords) ChangePassword(_ context.Context, userID uuid.UUID, _, _ string) error {
	f.changedFor = userID
	return f.err
}

type fakeBanks struct {
	details map[uuid.UUID]domain.BankDetail
	err     error
}

func newFakeBanks() *fakeBanks {
	return &fakeBanks{details: map[uuid.UUID]domain.BankDetail{}}
}

func (f *fakeBanks) Create(_ context.Context, userID uuid.UUID, in service.BankDetailInput) (*domain.BankDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	d := domain.BankDetail{
		ID:            uuid.New(),
		UserID:        userID,
		BankName:      in.BankName,
		AccountHolder: in.AccountHolder,
		AccountNumber: in.AccountNumber,
		CreatedAt:     time.Now(),
	}
	f.details[d.ID] = d
	return &d, nil
}

func (f *fakeBanks) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.BankDetail, error) {
	var out []domain.BankDetail
	for _, d := range f.details {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, f.err
}

func (f *fakeBanks) GetByID(_ context.Context, userID, id uuid.UUID) (*domain.BankDetail, error) {
	d, ok := f.details[id]
	if !ok || d.UserID != userID {
		return nil, service.ErrBankDetailNotFound
	}
	return &d, nil
}

func (f *fakeBanks) Delete(_ context.Context, userID, id uuid.UUID) error {
	d, ok := f.details[id]
	if !ok || d.UserID != userID {
		return service.ErrBankDetailNotFound
	}
	delete(f.details, id)
	return nil
}
