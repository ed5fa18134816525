package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

// fallbackDummyHash is a well-formed cost-10 bcrypt hash compared against
// when the hasher cannot produce a dummy of its own.
const fallbackDummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

const (
	msgEmailRegistered = "Email exists. Please log in or use different email."
	msgEmailTaken      = "That email already exists. Please use another."
)

// AuthService implements registration, login, logout and account upkeep.
type AuthService struct {
	accounts ports.AccountRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenManager
	revoker  ports.TokenRevoker
	audit    ports.AuditRecorder
	log      zerolog.Logger
	now      func() time.Time

	dummyMu   sync.Mutex
	dummyHash string
}

// NewAuthService wires the account use-cases. revoker and audit may be nil.
func NewAuthService(
	accounts ports.AccountRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenManager,
	revoker ports.TokenRevoker,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		revoker:  revoker,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
}

// NormalizeEmail lower-cases and trims an address before it reaches the store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a client account. An email already on file is reported
// as domain.FieldErrors; a concurrent insert that loses the unique
// constraint race is reported as domain.ErrAccountExists.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	email := NormalizeEmail(in.Email)

	_, err := s.accounts.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.FieldErrors{"account_email": msgEmailRegistered}
	case !errors.Is(err, domain.ErrAccountNotFound):
		return nil, fmt.Errorf("register: lookup email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := s.now().UTC()
	created, err := s.accounts.Create(ctx, &domain.Account{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.DefaultRole,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.record(domain.EventRegistered, created.ID, email)
	s.log.Info().Int64("account_id", created.ID).Msg("account registered")
	return created.Public(), nil
}

// Login verifies credentials and mints a token. Unknown email and wrong
// password both return domain.ErrInvalidCredentials after a bcrypt
// comparison, so neither content nor timing tells them apart.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	email = NormalizeEmail(email)

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.hasher.Verify(password, s.dummy())
			s.record(domain.EventLoginFailed, 0, email)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.record(domain.EventLoginFailed, account.ID, email)
		return nil, domain.ErrInvalidCredentials
	}

	public := account.Public()
	token, exp, err := s.tokens.Issue(domain.ClaimsFor(public))
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.record(domain.EventLoginSucceeded, account.ID, email)
	return &ports.Session{Token: token, ExpiresAt: exp, Account: public}, nil
}

// Logout revokes a still-valid token until its natural expiry. Calling it
// without a token, or with an invalid one, is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil
	}

	s.record(domain.EventLogout, claims.AccountID, claims.Email)
	if s.revoker == nil || claims.TokenID == "" {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Identify turns a transport token into the caller's identity. Bad,
// expired and revoked tokens degrade to domain.Anonymous.
func (s *AuthService) Identify(ctx context.Context, token string) domain.Identity {
	if token == "" {
		return domain.Anonymous
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return domain.Anonymous
	}

	if s.revoker != nil && claims.TokenID != "" {
		revoked, err := s.revoker.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			s.log.Warn().Err(err).Int64("account_id", claims.AccountID).Msg("revocation check failed, accepting token")
		} else if revoked {
			return domain.Anonymous
		}
	}
	return domain.IdentityFrom(claims)
}

// Account returns the stored account without its password hash.
func (s *AuthService) Account(ctx context.Context, id int64) (*domain.Account, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidAccountID
	}
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return account.Public(), nil
}

// UpdateProfile changes names and email. The email must not belong to any
// other account.
func (s *AuthService) UpdateProfile(ctx context.Context, in ports.UpdateProfileInput) (*domain.Account, error) {
	if in.AccountID <= 0 {
		return nil, domain.ErrInvalidAccountID
	}
	email := NormalizeEmail(in.Email)

	existing, err := s.accounts.FindByEmail(ctx, email)
	switch {
	case err == nil && existing.ID != in.AccountID:
		return nil, domain.FieldErrors{"account_email": msgEmailTaken}
	case err != nil && !errors.Is(err, domain.ErrAccountNotFound):
		return nil, fmt.Errorf("update profile: lookup email: %w", err)
	}

	err = s.accounts.UpdateProfile(ctx, in.AccountID, strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName), email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			return nil, domain.FieldErrors{"account_email": msgEmailTaken}
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	updated, err := s.accounts.FindByID(ctx, in.AccountID)
	if err != nil {
		return nil, fmt.Errorf("update profile: reload: %w", err)
	}

	s.record(domain.EventProfileUpdated, in.AccountID, email)
	return updated.Public(), nil
}

// UpdatePassword stores a new hash for the account.
func (s *AuthService) UpdatePassword(ctx context.Context, id int64, password string) (*domain.Account, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidAccountID
	}

	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}
	if err := s.accounts.UpdatePassword(ctx, id, hash); err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}

	s.record(domain.EventPasswordChanged, id, account.Email)
	return account.Public(), nil
}

// dummy returns a hash used to spend the same bcrypt time on unknown
// emails as on real ones. A failed attempt is retried on the next call.
func (s *AuthService) dummy() string {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()

	if s.dummyHash != "" {
		return s.dummyHash
	}
	h, err := s.hasher.Hash("not-a-real-password-0000")
	if err != nil {
		s.log.Error().Err(err).Msg("failed to prepare dummy hash")
		return fallbackDummyHash
	}
	s.dummyHash = h
	return h
}

func (s *AuthService) record(kind domain.AuthEventKind, accountID int64, email string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuthEvent{
		Kind:       kind,
		AccountID:  accountID,
		Email:      email,
		OccurredAt: s.now().UTC(),
	})
}

var _ ports.AuthService = (*AuthService)(nil)
