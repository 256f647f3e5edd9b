package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// This function will Load the ENVIORNMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := viper.New()
	goEnv.AutomaticEnv()

	env := goEnv.GetString("GO_ENV")
	if env == "" || env == "development" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	GO_ENV string
	PORT   int

	// Database Configuration
	DB_DRIVER    string // postgres (pgx), pq (lib/pq) or sqlite
	DB_DSN       string // overrides the discrete settings below when set
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string

	// Session token signing
	TOKEN_SECRET string
	TOKEN_ISSUER string

	// Redis Configuration
	REDIS_URL string

	// HTTP
	ALLOWED_ORIGINS     string
	RATE_LIMIT_REQUESTS int

	// Maintenance jobs
	CRON_ENABLED    bool
	SESSION_MAX_AGE time.Duration

	// Seeded staff account
	ADMIN_EMAIL    string
	ADMIN_USERNAME string
	ADMIN_PASSWORD string
}

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("TOKEN_ISSUER", "admissions-api")
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("CRON_ENABLED", true)
	v.SetDefault("SESSION_MAX_AGE", "0s")
	v.SetDefault("ADMIN_USERNAME", "admin")
}

func Get() (*EnviornmentVariable, error) {
	v := viper.New()
	v.AutomaticEnv()
	defaults(v)

	envVariables := &EnviornmentVariable{
		GO_ENV: v.GetString("GO_ENV"),
		PORT:   v.GetInt("PORT"),
		// Database
		DB_DRIVER:    v.GetString("DB_DRIVER"),
		DB_DSN:       v.GetString("DB_DSN"),
		DB_USER_NAME: v.GetString("DB_USER_NAME"),
		DB_PASSWORD:  v.GetString("DB_PASSWORD"),
		DB_NAME:      v.GetString("DB_NAME"),
		DB_HOST:      v.GetString("DB_HOST"),
		DB_PORT:      v.GetString("DB_PORT"),
		DB_SSL_MODE:  v.GetString("DB_SSL_MODE"),
		// Tokens
		TOKEN_SECRET: v.GetString("TOKEN_SECRET"),
		TOKEN_ISSUER: v.GetString("TOKEN_ISSUER"),
		// Redis
		REDIS_URL: v.GetString("REDIS_URL"),
		// HTTP
		ALLOWED_ORIGINS:     v.GetString("ALLOWED_ORIGINS"),
		RATE_LIMIT_REQUESTS: v.GetInt("RATE_LIMIT_REQUESTS"),
		// Cron
		CRON_ENABLED:    v.GetBool("CRON_ENABLED"),
		SESSION_MAX_AGE: v.GetDuration("SESSION_MAX_AGE"),
		// Seed
		ADMIN_EMAIL:    v.GetString("ADMIN_EMAIL"),
		ADMIN_USERNAME: v.GetString("ADMIN_USERNAME"),
		ADMIN_PASSWORD: v.GetString("ADMIN_PASSWORD"),
	}

	if envVariables.PORT <= 0 {
		envVariables.PORT = 8080
	}

	return envVariables, nil
}

// IsProduction reports whether GO_ENV is set to production.
func (e *EnviornmentVariable) IsProduction() bool {
	return e.GO_ENV == "production"
}
