package main

import (
	"context"   // context package is needed for Redis operations
	"os"        // Signal handling
	"os/signal" // Signal handling
	"syscall"   // SIGTERM
	"time"      // Purge interval

	"storefront/internal/api"        // Custom package for API handlers
	"storefront/internal/config"     // Custom package for configuration
	"storefront/internal/db"         // Database connection
	"storefront/internal/middleware" // Custom package for middleware
	"storefront/internal/session"    // Server-side sessions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if cfg.SessionSecret == "" {
		logrus.Fatal("SESSION_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the database and size the pool
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	store, err := newSessionStore(ctx, cfg)
	if err != nil {
		logrus.Fatalf("failed to set up sessions: %v", err)
	}
	sessions := session.NewManager(store, cfg.SessionSecret, cfg.SessionTTL, cfg.IsProd)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewRouter(api.Deps{
		DB:          gdb,                                         // Connection pool
		Sessions:    sessions,                                    // Session manager
		AuthLimiter: middleware.PerMinute(cfg.AuthRatePerMinute), // Signup/login throttle
	})

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"port":     cfg.AppPort,        // Listen port
		"db":       cfg.DBDriver,       // Database driver
		"sessions": cfg.SessionBackend, // Session backend
	}).Info("Server running")
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}

// newSessionStore builds the configured session backend
func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	if cfg.SessionBackend == "redis" {
		// Setup Redis client
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(ctx).Result(); err != nil {
			return nil, err
		}
		return session.NewRedisStore(redisClient), nil
	}

	fs, err := session.NewFileStore(cfg.SessionDir)
	if err != nil {
		return nil, err
	}
	go purgeSessions(ctx, fs, cfg.SessionTTL) // Expired files are otherwise only removed on access
	return fs, nil
}

// purgeSessions sweeps expired session files every interval until ctx ends
func purgeSessions(ctx context.Context, fs *session.FileStore, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := fs.Purge(ctx)
			if err != nil {
				logrus.WithField("error", err.Error()).Warn("Session purge failed")
				continue
			}
			if n > 0 {
				logrus.WithField("removed", n).Info("Purged expired sessions")
			}
		}
	}
}
