package service

import (
	"errors"
	"fmt"
)

// Kind classifies service errors independently of any transport.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindRateLimit
	KindDependency
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRateLimit:
		return "rate_limit"
	case KindDependency:
		return "dependency"
	}
	return "unknown"
}

// Error is the typed error returned by services. Two Errors match under
// errors.Is when their codes are equal, so a sentinel still matches after
// Wrap attached a cause.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.Err = cause
	return &c
}

// WithMessage returns a copy of e with a more specific message.
func (e *Error) WithMessage(format string, args ...any) *Error {
	c := *e
	c.Message = fmt.Sprintf(format, args...)
	return &c
}

var (
	ErrValidation            = newError(KindValidation, "VALIDATION_FAILED", "invalid request")
	ErrInvalidDurationFormat = newError(KindValidation, "INVALID_DURATION_FORMAT", "invalid duration format")
	ErrPasswordTooWeak       = newError(KindValidation, "PASSWORD_TOO_WEAK", "password does not meet requirements")
	ErrInvalidOrExpiredOTP   = newError(KindValidation, "INVALID_OR_EXPIRED_OTP", "invalid or expired OTP")

	ErrInvalidOrExpiredResetToken = newError(KindValidation, "INVALID_OR_EXPIRED_RESET_TOKEN", "invalid or expired reset token")

	ErrEmailAlreadyRegistered = newError(KindConflict, "EMAIL_ALREADY_REGISTERED", "email is already registered")

	ErrAuthenticationTokenMissing = newError(KindAuthentication, "AUTHENTICATION_TOKEN_MISSING", "authentication token missing")
	ErrTokenExpired               = newError(KindAuthentication, "TOKEN_EXPIRED", "token expired")
	ErrUnauthorizedAccess         = newError(KindAuthentication, "UNAUTHORIZED_ACCESS", "unauthorized access")
	ErrInvalidTokenPayload        = newError(KindAuthentication, "INVALID_TOKEN_PAYLOAD", "invalid token payload")
	ErrInvalidCredentials         = newError(KindAuthentication, "INVALID_CREDENTIALS", "invalid email or password")
	ErrIncorrectOldPassword       = newError(KindAuthentication, "INCORRECT_OLD_PASSWORD", "old password is incorrect")
	ErrRefreshTokenInvalid        = newError(KindAuthentication, "REFRESH_TOKEN_INVALID", "refresh token invalid or expired")

	ErrForbidden          = newError(KindAuthorization, "FORBIDDEN", "forbidden")
	ErrAccountDeactivated = newError(KindAuthorization, "ACCOUNT_DEACTIVATED", "account is deactivated")

	ErrUserNotFound       = newError(KindNotFound, "USER_NOT_FOUND", "user not found")
	ErrBankDetailNotFound = newError(KindNotFound, "BANK_DETAIL_NOT_FOUND", "bank detail not found")

	ErrCooldownActive = newError(KindRateLimit, "COOLDOWN_ACTIVE", "please wait before requesting a new code")

	ErrNotificationDeliveryFailed = newError(KindDependency, "NOTIFICATION_DELIVERY_FAILED", "failed to deliver notification")
	ErrDecryption                 = newError(KindDependency, "DECRYPTION_FAILED", "failed to decrypt stored field")
	ErrDependencyFailure          = newError(KindDependency, "DEPENDENCY_FAILURE", "internal error")
)

// CooldownError is returned while an issued code is still inside its
// cooldown window.
type CooldownError struct {
	SecondsRemaining int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("please wait %d seconds before requesting a new code", e.SecondsRemaining)
}

func (e *CooldownError) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == ErrCooldownActive.Code
}

// KindOf reports the kind of err. Errors that carry no kind are treated as
// dependency failures.
func KindOf(err error) Kind {
	var cooldown *CooldownError
	if errors.As(err, &cooldown) {
		return KindRateLimit
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindDependency
}

func dependency(cause error) error {
	return ErrDependencyFailure.Wrap(cause)
}
