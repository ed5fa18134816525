package ports

import (
	"context"
	"time"

	"github.com/csemotors/dealership/internal/core/domain"
)

// RegisterInput is the registration form after shape validation.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UpdateProfileInput carries the editable account fields.
type UpdateProfileInput struct {
	AccountID int64
	FirstName string
	LastName  string
	Email     string
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Account   *domain.Account
}

// AuthService implements the account use-cases.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, token string) error
	Identify(ctx context.Context, token string) domain.Identity
	Account(ctx context.Context, id int64) (*domain.Account, error)
	UpdateProfile(ctx context.Context, in UpdateProfileInput) (*domain.Account, error)
	UpdatePassword(ctx context.Context, id int64, password string) (*domain.Account, error)
}
