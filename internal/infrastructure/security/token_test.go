package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/csemotors/dealership/internal/core/domain"
)

var testClaims = domain.Claims{
	AccountID: 7,
	FirstName: "Ada",
	Email:     "ada@example.com",
	Role:      domain.RoleClient,
}

func newTestManager(t *testing.T, secret string) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(secret, time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	return m
}

func TestJWTManager_IssueAndVerify(t *testing.T) {
	m := newTestManager(t, "secret")

	token, exp, err := m.Issue(testClaims)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if d := time.Until(exp); d <= 59*time.Minute || d > time.Hour {
		t.Fatalf("unexpected expiry distance %v", d)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.AccountID != 7 || claims.FirstName != "Ada" || claims.Email != "ada@example.com" || claims.Role != domain.RoleClient {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.TokenID == "" {
		t.Fatalf("expected token id")
	}
	if !claims.ExpiresAt.Equal(exp) {
		t.Fatalf("expected exp %v, got %v", exp, claims.ExpiresAt)
	}
}

func TestJWTManager_UniqueTokenIDs(t *testing.T) {
	m := newTestManager(t, "secret")

	a, _, _ := m.Issue(testClaims)
	b, _, _ := m.Issue(testClaims)
	ca, _ := m.Verify(a)
	cb, _ := m.Verify(b)
	if ca.TokenID == cb.TokenID {
		t.Fatalf("expected distinct token ids")
	}
}

func TestJWTManager_Expired(t *testing.T) {
	m := newTestManager(t, "secret")
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	m.now = func() time.Time { return issuedAt }
	token, _, err := m.Issue(testClaims)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	m.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	if _, err := m.Verify(token); err != nil {
		t.Fatalf("expected token valid before expiry, got %v", err)
	}

	m.now = func() time.Time { return issuedAt.Add(time.Hour) }
	if _, err := m.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken at expiry, got %v", err)
	}

	m.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	if _, err := m.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestJWTManager_WrongSecret(t *testing.T) {
	issuerMgr := newTestManager(t, "secret")
	other := newTestManager(t, "other-secret")

	token, _, _ := issuerMgr.Issue(testClaims)
	if _, err := other.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTManager_TamperedClaims(t *testing.T) {
	m := newTestManager(t, "secret")
	token, _, _ := m.Issue(testClaims)

	// Re-sign an escalated payload with a different key and splice the
	// original signature onto it.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, accountClaims{
		AccountID: 7,
		Role:      string(domain.RoleAdmin),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	forgedSigned, _ := forged.SignedString([]byte("attacker"))

	orig := strings.Split(token, ".")
	fake := strings.Split(forgedSigned, ".")
	spliced := orig[0] + "." + fake[1] + "." + orig[2]

	if _, err := m.Verify(spliced); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for tampered payload, got %v", err)
	}
}

func TestJWTManager_RejectsNoneAlgorithm(t *testing.T) {
	m := newTestManager(t, "secret")

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, accountClaims{
		AccountID: 1,
		Role:      string(domain.RoleAdmin),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := m.Verify(s); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTManager_Malformed(t *testing.T) {
	m := newTestManager(t, "secret")

	for _, tok := range []string{"", "not-a-token", "a.b.c", "...."} {
		if _, err := m.Verify(tok); err != ErrInvalidToken {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestJWTManager_MissingExpiry(t *testing.T) {
	m := newTestManager(t, "secret")

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, accountClaims{
		AccountID:        1,
		Role:             string(domain.RoleClient),
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer},
	})
	s, _ := noExp.SignedString([]byte("secret"))
	if _, err := m.Verify(s); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for token without exp, got %v", err)
	}
}

func TestNewJWTManager_EmptySecret(t *testing.T) {
	if _, err := NewJWTManager("", time.Hour); err != ErrEmptySecret {
		t.Fatalf("expected ErrEmptySecret, got %v", err)
	}
}
