package config

import (
	"testing"
	"time"
)

func validAuth() AuthConfig {
	return AuthConfig{AccessSecret: "a-secret", RefreshSecret: "r-secret"}
}

func TestLoad_ReportsMissingRequired(t *testing.T) {
	// Ensure a clean env by not setting anything and calling validation directly.
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_ProductionRequiresSSLMode(t *testing.T) {
	c := Config{
		App:   AppConfig{Env: "production", Port: 8080},
		DB:    DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "crm", SSLMode: ""},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		Auth:  validAuth(),
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_LocalDefaultsSSLMode(t *testing.T) {
	c := Config{
		App:   AppConfig{Env: "local", Port: 8080},
		DB:    DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "crm", SSLMode: ""},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		Auth:  validAuth(),
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
}

func TestValidate_RejectsSharedSecrets(t *testing.T) {
	c := Config{
		App:   AppConfig{Env: "local", Port: 8080},
		DB:    DBConfig{Host: "localhost", Port: 5432, User: "postgres", Name: "crm"},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		Auth:  AuthConfig{AccessSecret: "same", RefreshSecret: "same"},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error when both secrets are identical")
	}
}

func TestValidate_AppliesTokenTTLDefaults(t *testing.T) {
	c := Config{
		App:   AppConfig{Env: "local", Port: 8080},
		DB:    DBConfig{Host: "localhost", Port: 5432, User: "postgres", Name: "crm"},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		Auth:  validAuth(),
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Auth.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("expected 15m access TTL default, got %v", c.Auth.AccessTokenTTL)
	}
	if c.Auth.RefreshTokenTTL != 7*24*time.Hour {
		t.Fatalf("expected 168h refresh TTL default, got %v", c.Auth.RefreshTokenTTL)
	}
	if c.Auth.AccessCookieName == "" || c.Auth.RefreshCookieName == "" {
		t.Fatalf("expected cookie name defaults")
	}
}

func TestValidate_RefreshTTLMustExceedAccessTTL(t *testing.T) {
	auth := validAuth()
	auth.AccessTokenTTL = time.Hour
	auth.RefreshTokenTTL = time.Minute
	c := Config{
		App:   AppConfig{Env: "local", Port: 8080},
		DB:    DBConfig{Host: "localhost", Port: 5432, User: "postgres", Name: "crm"},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		Auth:  auth,
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error when refresh TTL <= access TTL")
	}
}
