package domain

import (
	"errors"
	"time"
)

// Role is the account type stored alongside every account.
type Role string

const (
	RoleClient   Role = "client"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// DefaultRole is assigned at registration. Only an administrative path may
// change it.
const DefaultRole = RoleClient

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleEmployee, RoleAdmin:
		return true
	}
	return false
}

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidAccountID   = errors.New("invalid account id")
	ErrForbidden          = errors.New("access forbidden")
)

// Account models a registered user of the dealership site.
type Account struct {
	ID           int64     `json:"account_id"`
	FirstName    string    `json:"account_firstname"`
	LastName     string    `json:"account_lastname"`
	Email        string    `json:"account_email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"account_type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Public returns a copy of the account with the password hash removed.
func (a *Account) Public() *Account {
	if a == nil {
		return nil
	}
	clone := *a
	clone.PasswordHash = ""
	return &clone
}
