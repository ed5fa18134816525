package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/csemotors/dealership/internal/core/domain"
)

const (
	DefaultTokenTTL = time.Hour
	issuer          = "cse-motors"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrEmptySecret  = errors.New("token secret must not be empty")
)

// accountClaims is the JWT payload. The password hash is never part of it.
type accountClaims struct {
	AccountID int64  `json:"account_id"`
	FirstName string `json:"account_firstname"`
	Email     string `json:"account_email"`
	Role      string `json:"account_type"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies HS256 account tokens.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager builds a manager around the process-wide secret.
func NewJWTManager(secret string, ttl time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL is the validity window of every issued token.
func (m *JWTManager) TTL() time.Duration { return m.ttl }

// Issue signs c with a fresh token id and an expiry of now+TTL.
func (m *JWTManager) Issue(c domain.Claims) (string, time.Time, error) {
	now := m.now().Truncate(time.Second)
	exp := now.Add(m.ttl)

	claims := accountClaims{
		AccountID: c.AccountID,
		FirstName: c.FirstName,
		Email:     c.Email,
		Role:      string(c.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   strconv.FormatInt(c.AccountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks signature, algorithm and expiry. Every failure is reported
// as ErrInvalidToken.
func (m *JWTManager) Verify(token string) (*domain.Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	var claims accountClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	role := domain.Role(claims.Role)
	if claims.AccountID <= 0 || !role.Valid() {
		return nil, ErrInvalidToken
	}

	out := &domain.Claims{
		AccountID: claims.AccountID,
		FirstName: claims.FirstName,
		Email:     claims.Email,
		Role:      role,
		TokenID:   claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
