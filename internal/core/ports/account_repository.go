package ports

import (
	"context"

	"github.com/csemotors/dealership/internal/core/domain"
)

// AccountRepository is the credential store.
//
// Lookups return domain.ErrAccountNotFound for missing rows. Create and
// UpdateProfile return domain.ErrAccountExists when the unique email
// constraint rejects the write.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName, email string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}
