package app

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/admissions-api/api"
	"github.com/sahilchouksey/admissions-api/config"
	"github.com/sahilchouksey/admissions-api/database"
	"github.com/sahilchouksey/admissions-api/router"
	"github.com/sahilchouksey/admissions-api/services/cron"
	"github.com/sahilchouksey/admissions-api/utils/auth"
	"github.com/sahilchouksey/admissions-api/utils/cache"
	"github.com/sahilchouksey/admissions-api/utils/middleware"
)

// ErrMissingTokenSecret is returned when TOKEN_SECRET is not configured
var ErrMissingTokenSecret = errors.New("TOKEN_SECRET environment variable is not set")

// NewTokenManager builds the session key signer from TOKEN_SECRET
func NewTokenManager(env *config.EnviornmentVariable) (*auth.TokenManager, error) {
	if strings.TrimSpace(env.TOKEN_SECRET) == "" {
		return nil, ErrMissingTokenSecret
	}
	return auth.NewTokenManager(env.TOKEN_SECRET, env.TOKEN_ISSUER)
}

// NewServer builds the API server on top of an initialised store. attempts
// may be nil, which disables login brute-force protection.
func NewServer(store database.Storage, env *config.EnviornmentVariable, tokens *auth.TokenManager, attempts middleware.AttemptStore) *api.APIServer {
	server := api.NewAPIServer(fmt.Sprintf(":%d", env.PORT))
	router.SetupRoutes(server.GetEngine(), router.Config{
		Store:    store,
		Tokens:   tokens,
		Attempts: attempts,
		Security: middleware.SecurityConfig{
			AllowedOrigins:    env.ALLOWED_ORIGINS,
			RateLimitRequests: env.RATE_LIMIT_REQUESTS,
			RateLimitWindow:   time.Minute,
		},
	})
	return server
}

// connectRedis returns the brute-force store, or nil when Redis is unreachable
func connectRedis(url string) (middleware.AttemptStore, func()) {
	if url == "" {
		log.Warn("REDIS_URL is empty. Brute force protection will be disabled.")
		return nil, func() {}
	}
	redisCache, err := cache.NewRedisCache(url)
	if err != nil {
		log.Warnf("Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
		return nil, func() {}
	}
	return redisCache, func() { _ = redisCache.Close() }
}

func SetupAndRunServer() error {
	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	tokens, err := NewTokenManager(getEnv)
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM(getEnv)
	if err != nil {
		log.Errorf("Failed to connect to the %s database. Check whether it is running.", getEnv.DB_DRIVER)
		return err
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Error("Failed to initialize database tables")
		return err
	}

	attempts, closeRedis := connectRedis(getEnv.REDIS_URL)
	defer closeRedis()

	server := NewServer(store, getEnv, tokens, attempts)

	// Maintenance jobs
	if getEnv.CRON_ENABLED {
		cronManager := cron.NewCronManager(store.GetDB(), auth.NewSessionStore(store.GetDB(), tokens), cron.Options{
			SessionMaxAge: getEnv.SESSION_MAX_AGE,
		})
		if err := cronManager.Start(); err != nil {
			// Don't fail the app, just log the warning
			log.Warnf("Failed to start cron jobs: %v", err)
		} else {
			defer cronManager.Stop()
		}
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down server...")
		if err := server.Shutdown(10 * time.Second); err != nil {
			log.Errorf("Server shutdown failed: %v", err)
		}
	}()

	return server.Run()
}
