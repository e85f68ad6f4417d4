package service

import (
	"context"
	"math"
	"net/mail"
	"strings"
	"time"

	"github.com/njprem/MagicBilling_BackEnd/internal/logging"
	"github.com/njprem/MagicBilling_BackEnd/internal/repository/ports"
	"github.com/njprem/MagicBilling_BackEnd/internal/util"
)

const otpDigits = 6

// OTPSender delivers a freshly issued verification code.
type OTPSender interface {
	SendOTP(ctx context.Context, email, code string, ttl time.Duration) error
}

type OTPServiceConfig struct {
	Cooldown    time.Duration
	TTL         time.Duration
	MailTimeout time.Duration
}

type OTPService struct {
	otps   ports.OTPRepository
	users  ports.UserRepository
	sender OTPSender
	log    logging.Logger

	cooldown    time.Duration
	ttl         time.Duration
	mailTimeout time.Duration
	now         func() time.Time
	generate    func(digits int) (string, error)
}

func NewOTPService(otps ports.OTPRepository, users ports.UserRepository, sender OTPSender, log logging.Logger, cfg OTPServiceConfig) *OTPService {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 45 * time.Second
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	if cfg.MailTimeout <= 0 {
		cfg.MailTimeout = 10 * time.Second
	}
	if log == nil {
		log = logging.Nop{}
	}
	return &OTPService{
		otps:        otps,
		users:       users,
		sender:      sender,
		log:         log.With("component", "otp"),
		cooldown:    cfg.Cooldown,
		ttl:         cfg.TTL,
		mailTimeout: cfg.MailTimeout,
		now:         time.Now,
		generate:    util.GenerateNumericOTP,
	}
}

// SendOTP issues a code unless the newest unused one is still inside the
// cooldown window. The record is persisted before mail goes out; a delivery
// failure leaves it valid and is reported as ErrNotificationDeliveryFailed.
func (s *OTPService) SendOTP(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	now := s.now()
	latest, err := s.otps.FindLatestUnused(ctx, email)
	if err != nil {
		return dependency(err)
	}
	if latest != nil {
		if elapsed := now.Sub(latest.CreatedAt); elapsed < s.cooldown {
			return &CooldownError{SecondsRemaining: int(math.Ceil((s.cooldown - elapsed).Seconds()))}
		}
	}

	code, err := s.generate(otpDigits)
	if err != nil {
		return dependency(err)
	}
	if _, err := s.otps.Create(ctx, email, code, now.Add(s.ttl)); err != nil {
		return dependency(err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.mailTimeout)
	defer cancel()
	if err := s.sender.SendOTP(sendCtx, email, code, s.ttl); err != nil {
		s.log.Error(ctx, "otp delivery failed", "email", email, "error", err)
		return ErrNotificationDeliveryFailed.Wrap(err)
	}
	return nil
}

// VerifyOTP consumes the newest live record matching email and code, then
// marks a matching account as verified. It does not authenticate anyone.
func (s *OTPService) VerifyOTP(ctx context.Context, email, code string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	code = strings.TrimSpace(code)
	if !isDigits(code, otpDigits) {
		return ErrInvalidOrExpiredOTP
	}

	rec, err := s.otps.FindActive(ctx, email, code, s.now())
	if err != nil {
		return dependency(err)
	}
	if rec == nil {
		return ErrInvalidOrExpiredOTP
	}

	consumed, err := s.otps.MarkUsed(ctx, rec.ID)
	if err != nil {
		return dependency(err)
	}
	if !consumed {
		return ErrInvalidOrExpiredOTP
	}

	verified, err := s.users.MarkVerifiedByEmail(ctx, email)
	if err != nil {
		return dependency(err)
	}
	if verified {
		s.log.Info(ctx, "email verified", "email", email)
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrValidation.WithMessage("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrValidation.WithMessage("email is invalid")
	}
	return email, nil
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
