package util

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/njprem/MagicBilling_BackEnd/internal/domain"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims is the payload of both access and refresh tokens. It is never persisted.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies HS256 tokens for a single secret/TTL pair.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *JWTManager) TTL() time.Duration {
	return m.ttl
}

func (m *JWTManager) Generate(userID uuid.UUID, role domain.Role) (string, time.Time, error) {
	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.ttl)
	claims := Claims{
		UserID: userID.String(),
		Role:   role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse verifies signature and expiry. The error is ErrTokenExpired when the
// only problem is expiry and ErrTokenInvalid for everything else.
func (m *JWTManager) Parse(tokenString string) (*Claims, error) {
	return m.parse(tokenString, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
}

// Verify is Parse without the reason: nil means "not usable right now".
func (m *JWTManager) Verify(tokenString string) *Claims {
	claims, err := m.Parse(tokenString)
	if err != nil {
		return nil
	}
	return claims
}

// ParseAllowExpired checks the signature but skips time-based claims. It is
// meant for extracting an identity whose liveness is decided by a store lookup.
func (m *JWTManager) ParseAllowExpired(tokenString string) (*Claims, error) {
	return m.parse(tokenString, jwt.WithoutClaimsValidation())
}

func (m *JWTManager) parse(tokenString string, opts ...jwt.ParserOption) (*Claims, error) {
	claims := &Claims{}
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// TokenIssuer holds the independent access and refresh key pairs.
type TokenIssuer struct {
	access  *JWTManager
	refresh *JWTManager
}

func NewTokenIssuer(accessSecret string, accessTTL time.Duration, refreshSecret string, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		access:  NewJWTManager(accessSecret, accessTTL),
		refresh: NewJWTManager(refreshSecret, refreshTTL),
	}
}

func (i *TokenIssuer) Access() *JWTManager {
	return i.access
}

func (i *TokenIssuer) Refresh() *JWTManager {
	return i.refresh
}

func (i *TokenIssuer) IssueAccessToken(userID uuid.UUID, role domain.Role) (string, time.Time, error) {
	return i.access.Generate(userID, role)
}

func (i *TokenIssuer) IssueRefreshToken(userID uuid.UUID, role domain.Role) (string, time.Time, error) {
	return i.refresh.Generate(userID, role)
}

func (i *TokenIssuer) VerifyAccessToken(token string) *Claims {
	return i.access.Verify(token)
}

func (i *TokenIssuer) VerifyRefreshToken(token string) *Claims {
	return i.refresh.Verify(token)
}

// SetClock replaces the time source of both managers.
func (i *TokenIssuer) SetClock(now func() time.Time) {
	i.access.now = now
	i.refresh.now = now
}
