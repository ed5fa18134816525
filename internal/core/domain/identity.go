package domain

import "time"

// Claims is what a credential token asserts about its bearer. It never
// carries the password hash.
type Claims struct {
	AccountID int64
	FirstName string
	Email     string
	Role      Role

	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ClaimsFor builds token claims from a stored account.
func ClaimsFor(a *Account) Claims {
	return Claims{
		AccountID: a.ID,
		FirstName: a.FirstName,
		Email:     a.Email,
		Role:      a.Role,
	}
}

// Identity is the per-request view of who is calling. The zero value is an
// anonymous caller.
type Identity struct {
	LoggedIn  bool
	AccountID int64
	FirstName string
	Email     string
	Role      Role
}

// Anonymous is the identity of a request without a valid token.
var Anonymous = Identity{}

// IdentityFrom converts verified claims into a logged-in identity.
func IdentityFrom(c *Claims) Identity {
	if c == nil {
		return Anonymous
	}
	return Identity{
		LoggedIn:  true,
		AccountID: c.AccountID,
		FirstName: c.FirstName,
		Email:     c.Email,
		Role:      c.Role,
	}
}

// HasRole reports whether the identity is logged in with one of roles.
func (i Identity) HasRole(roles ...Role) bool {
	if !i.LoggedIn {
		return false
	}
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}
