package config

import (
	"testing"
	"time"
)

func TestGetDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "DB_HOST", "DB_PORT", "TOKEN_ISSUER", "CRON_ENABLED", "SESSION_MAX_AGE", "RATE_LIMIT_REQUESTS"} {
		t.Setenv(key, "")
	}

	env, err := Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if env.PORT != 8080 {
		t.Errorf("PORT = %d, want 8080", env.PORT)
	}
	if env.DB_DRIVER != "postgres" {
		t.Errorf("DB_DRIVER = %q, want postgres", env.DB_DRIVER)
	}
	if env.DB_HOST != "localhost" || env.DB_PORT != "5432" {
		t.Errorf("DB_HOST/DB_PORT = %q/%q", env.DB_HOST, env.DB_PORT)
	}
	if env.TOKEN_ISSUER != "admissions-api" {
		t.Errorf("TOKEN_ISSUER = %q", env.TOKEN_ISSUER)
	}
	if !env.CRON_ENABLED {
		t.Error("CRON_ENABLED should default to true")
	}
	if env.SESSION_MAX_AGE != 0 {
		t.Errorf("SESSION_MAX_AGE = %v, want 0", env.SESSION_MAX_AGE)
	}
}

func TestGetFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file:test.db")
	t.Setenv("TOKEN_SECRET", "s3cret")
	t.Setenv("CRON_ENABLED", "false")
	t.Setenv("SESSION_MAX_AGE", "720h")
	t.Setenv("GO_ENV", "production")

	env, err := Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if env.PORT != 9090 {
		t.Errorf("PORT = %d, want 9090", env.PORT)
	}
	if env.DB_DRIVER != "sqlite" || env.DB_DSN != "file:test.db" {
		t.Errorf("DB_DRIVER/DB_DSN = %q/%q", env.DB_DRIVER, env.DB_DSN)
	}
	if env.TOKEN_SECRET != "s3cret" {
		t.Errorf("TOKEN_SECRET = %q", env.TOKEN_SECRET)
	}
	if env.CRON_ENABLED {
		t.Error("CRON_ENABLED should be false")
	}
	if env.SESSION_MAX_AGE != 720*time.Hour {
		t.Errorf("SESSION_MAX_AGE = %v, want 720h", env.SESSION_MAX_AGE)
	}
	if !env.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}
}
