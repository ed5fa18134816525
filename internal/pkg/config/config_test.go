package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func requiredEnv() map[string]string {
	return map[string]string{
		"ACCESS_TOKEN_SECRET": "token-secret",
		"SESSION_SECRET":      "session-secret",
	}
}

func TestProcess_Defaults(t *testing.T) {
	cfg, err := Process(context.Background(), envconfig.MapLookuper(requiredEnv()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "5500" {
		t.Errorf("Port = %q, want 5500", cfg.Port)
	}
	if !cfg.IsDevelopment() {
		t.Errorf("expected development by default")
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("TokenTTL = %s, want 1h", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.CookieName != "jwt" {
		t.Errorf("CookieName = %q, want jwt", cfg.Auth.CookieName)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d, want 10", cfg.Auth.BcryptCost)
	}
	if cfg.Audit.Workers != 4 {
		t.Errorf("Audit.Workers = %d, want 4", cfg.Audit.Workers)
	}
}

func TestProcess_Overrides(t *testing.T) {
	env := requiredEnv()
	env["ENV"] = "production"
	env["ACCESS_TOKEN_TTL"] = "30m"
	env["AUTH_COOKIE_NAME"] = "cse"
	env["REDIS_DB"] = "3"

	cfg, err := Process(context.Background(), envconfig.MapLookuper(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.IsDevelopment() {
		t.Errorf("expected production environment")
	}
	if cfg.Auth.TokenTTL != 30*time.Minute {
		t.Errorf("TokenTTL = %s, want 30m", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.CookieName != "cse" {
		t.Errorf("CookieName = %q, want cse", cfg.Auth.CookieName)
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("Redis.DB = %d, want 3", cfg.Redis.DB)
	}
}

func TestProcess_MissingSecrets(t *testing.T) {
	for _, missing := range []string{"ACCESS_TOKEN_SECRET", "SESSION_SECRET"} {
		t.Run(missing, func(t *testing.T) {
			env := requiredEnv()
			delete(env, missing)
			_, err := Process(context.Background(), envconfig.MapLookuper(env))
			if err == nil {
				t.Fatalf("expected error when %s is missing", missing)
			}
			if !strings.Contains(err.Error(), missing) {
				t.Fatalf("error should name %s, got %v", missing, err)
			}
		})
	}
}

func TestProcess_RejectsNonPositiveTTL(t *testing.T) {
	env := requiredEnv()
	env["ACCESS_TOKEN_TTL"] = "0s"
	if _, err := Process(context.Background(), envconfig.MapLookuper(env)); err == nil {
		t.Fatalf("expected error for zero TTL")
	}
}
