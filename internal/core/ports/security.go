package ports

import (
	"context"
	"time"

	"github.com/csemotors/dealership/internal/core/domain"
)

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify never errors: a mismatch or a malformed hash is simply false.
	Verify(plaintext, hash string) bool
}

// TokenManager issues and verifies signed, time-bounded credential tokens.
type TokenManager interface {
	Issue(claims domain.Claims) (token string, expiresAt time.Time, err error)
	Verify(token string) (*domain.Claims, error)
	TTL() time.Duration
}

// TokenRevoker remembers tokens invalidated before their natural expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
