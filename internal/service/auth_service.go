package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/njprem/MagicBilling_BackEnd/internal/domain"
	"github.com/njprem/MagicBilling_BackEnd/internal/logging"
	"github.com/njprem/MagicBilling_BackEnd/internal/repository/ports"
	"github.com/njprem/MagicBilling_BackEnd/internal/util"
)

const pgUniqueViolation = "23505"

type SignUpInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type AuthResult struct {
	User            *domain.User
	AccessToken     string
	AccessExpiresAt time.Time
	RefreshToken    string
}

type AuthService struct {
	users   ports.UserRepository
	issuer  *util.TokenIssuer
	refresh *RefreshTokenStore
	log     logging.Logger

	refreshTTLSpec string
	bcryptCost     int
	verify         func(password, hash string) bool

	decoyOnce sync.Once
	decoy     string
}

func NewAuthService(users ports.UserRepository, issuer *util.TokenIssuer, refresh *RefreshTokenStore, log logging.Logger, refreshTTLSpec string, bcryptCost int) *AuthService {
	if log == nil {
		log = logging.Nop{}
	}
	return &AuthService{
		users:          users,
		issuer:         issuer,
		refresh:        refresh,
		log:            log.With("component", "auth"),
		refreshTTLSpec: refreshTTLSpec,
		bcryptCost:     bcryptCost,
		verify:         util.VerifyPassword,
	}
}

func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := util.ValidatePassword(in.Password); err != nil {
		return nil, ErrPasswordTooWeak.WithMessage("%s", err.Error())
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, dependency(err)
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	hash, err := util.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, dependency(err)
	}
	user, err := s.users.Create(ctx, &domain.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		IsActive:     true,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, dependency(err)
	}

	s.log.Info(ctx, "user signed up", "user_id", user.ID)
	return s.issue(ctx, user)
}

// SignIn rotates the stored refresh token on every successful login.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, dependency(err)
	}
	if user == nil {
		// Unknown emails still pay for one bcrypt compare.
		s.verify(password, s.decoyHash())
		return nil, ErrInvalidCredentials
	}
	if !s.verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}
	return s.issue(ctx, user)
}

func (s *AuthService) decoyHash() string {
	s.decoyOnce.Do(func() {
		hash, err := util.HashPassword(uuid.NewString(), s.bcryptCost)
		if err != nil {
			s.log.Warn(context.Background(), "sign-in decoy hash unavailable", "error", err)
			return
		}
		s.decoy = hash
	})
	return s.decoy
}

// RefreshAccess mints a new access token from a possibly expired one. The
// token's signature is still checked; liveness is decided by the stored
// refresh record, which must itself verify under the refresh secret.
func (s *AuthService) RefreshAccess(ctx context.Context, accessToken string) (*AuthResult, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, ErrAuthenticationTokenMissing
	}
	claims, err := s.issuer.Access().ParseAllowExpired(accessToken)
	if err != nil {
		return nil, ErrUnauthorizedAccess
	}
	identity, err := IdentityFromClaims(claims)
	if err != nil {
		return nil, err
	}

	rec, err := s.refresh.FindValid(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrRefreshTokenInvalid
	}
	refreshClaims := s.issuer.VerifyRefreshToken(rec.Token)
	if refreshClaims == nil || refreshClaims.UserID != identity.UserID.String() {
		return nil, ErrRefreshTokenInvalid
	}

	user, err := s.users.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, dependency(err)
	}
	if user == nil {
		return nil, ErrRefreshTokenInvalid
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	access, expiresAt, err := s.issuer.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, dependency(err)
	}
	return &AuthResult{User: user, AccessToken: access, AccessExpiresAt: expiresAt}, nil
}

// Logout revokes the user's refresh record; repeated calls are harmless.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.refresh.RevokeForUser(ctx, userID)
}

func (s *AuthService) issue(ctx context.Context, user *domain.User) (*AuthResult, error) {
	access, expiresAt, err := s.issuer.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, dependency(err)
	}
	refresh, _, err := s.issuer.IssueRefreshToken(user.ID, user.Role)
	if err != nil {
		return nil, dependency(err)
	}
	if _, err := s.refresh.Store(ctx, user.ID, refresh, s.refreshTTLSpec); err != nil {
		return nil, err
	}
	return &AuthResult{
		User:            user,
		AccessToken:     access,
		AccessExpiresAt: expiresAt,
		RefreshToken:    refresh,
	}, nil
}

// IdentityFromClaims requires both an id and a known role.
func IdentityFromClaims(claims *util.Claims) (domain.Identity, error) {
	if claims == nil {
		return domain.Identity{}, ErrInvalidTokenPayload
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil || id == uuid.Nil {
		return domain.Identity{}, ErrInvalidTokenPayload
	}
	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return domain.Identity{}, ErrInvalidTokenPayload
	}
	return domain.Identity{UserID: id, Role: role}, nil
}
