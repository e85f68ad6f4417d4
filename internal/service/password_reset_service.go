package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/MagicBilling_BackEnd/internal/logging"
	"github.com/njprem/MagicBilling_BackEnd/internal/repository/ports"
	"github.com/njprem/MagicBilling_BackEnd/internal/util"
)

type PasswordResetSender interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}

type PasswordResetConfig struct {
	TTL         time.Duration
	MailTimeout time.Duration
	BaseURL     string
	BcryptCost  int
}

type PasswordResetService struct {
	users  ports.UserRepository
	resets ports.PasswordResetRepository
	sender PasswordResetSender
	log    logging.Logger

	ttl         time.Duration
	mailTimeout time.Duration
	baseURL     string
	bcryptCost  int
	now         func() time.Time
	newToken    func() (string, error)
}

func NewPasswordResetService(users ports.UserRepository, resets ports.PasswordResetRepository, sender PasswordResetSender, log logging.Logger, cfg PasswordResetConfig) *PasswordResetService {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	if cfg.MailTimeout <= 0 {
		cfg.MailTimeout = 10 * time.Second
	}
	if log == nil {
		log = logging.Nop{}
	}
	return &PasswordResetService{
		users:       users,
		resets:      resets,
		sender:      sender,
		log:         log.With("component", "password_reset"),
		ttl:         cfg.TTL,
		mailTimeout: cfg.MailTimeout,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		bcryptCost:  cfg.BcryptCost,
		now:         time.Now,
		newToken:    util.GenerateResetToken,
	}
}

// ForgotPassword replaces the user's outstanding links with a new one, stores
// only its hash and mails the raw token.
func (s *PasswordResetService) ForgotPassword(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return dependency(err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	raw, err := s.newToken()
	if err != nil {
		return dependency(err)
	}
	now := s.now()
	if _, err := s.resets.Issue(ctx, user.ID, util.HashToken(raw), now.Add(s.ttl), now); err != nil {
		return dependency(err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.mailTimeout)
	defer cancel()
	if err := s.sender.SendPasswordReset(sendCtx, user.Email, s.resetLink(raw, user.ID)); err != nil {
		s.log.Error(ctx, "password reset delivery failed", "user_id", user.ID, "error", err)
		return ErrNotificationDeliveryFailed.Wrap(err)
	}
	return nil
}

// ResetPassword redeems a reset token. The password change and the used flag
// are written together, so a token changes the password at most once.
func (s *PasswordResetService) ResetPassword(ctx context.Context, userID uuid.UUID, rawToken, newPassword string) error {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" || userID == uuid.Nil {
		return ErrInvalidOrExpiredResetToken
	}
	if err := util.ValidatePassword(newPassword); err != nil {
		return ErrPasswordTooWeak.WithMessage("%s", err.Error())
	}

	tokenHash := util.HashToken(rawToken)
	// Checked before hashing so bad links don't pay for bcrypt.
	reset, err := s.resets.FindActive(ctx, userID, tokenHash, s.now())
	if err != nil {
		return dependency(err)
	}
	if reset == nil {
		return ErrInvalidOrExpiredResetToken
	}

	hash, err := util.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return dependency(err)
	}
	consumed, err := s.resets.Consume(ctx, userID, tokenHash, hash, s.now())
	if err != nil {
		s.log.Error(ctx, "password reset failed", "reset_id", reset.ID, "user_id", userID, "error", err)
		return dependency(err)
	}
	if !consumed {
		return ErrInvalidOrExpiredResetToken
	}
	return nil
}

func (s *PasswordResetService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return dependency(err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !util.VerifyPassword(oldPassword, user.PasswordHash) {
		return ErrIncorrectOldPassword
	}
	if err := util.ValidatePassword(newPassword); err != nil {
		return ErrPasswordTooWeak.WithMessage("%s", err.Error())
	}

	hash, err := util.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return dependency(err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return dependency(err)
	}
	return nil
}

func (s *PasswordResetService) resetLink(raw string, userID uuid.UUID) string {
	q := url.Values{}
	q.Set("token", raw)
	q.Set("id", userID.String())
	return s.baseURL + "/api/v1/auth/reset-password?" + q.Encode()
}
