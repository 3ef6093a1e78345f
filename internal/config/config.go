package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For session lifetime

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort           string        // Application port
	DBDriver          string        // mysql, postgres or sqlite
	DBUser            string        // Database user
	DBPassword        string        // Database password
	DBHost            string        // Database host
	DBPort            string        // Database port
	DBName            string        // Database name
	DBPath            string        // SQLite database file
	SessionSecret     string        // Key used to sign the session cookie
	SessionBackend    string        // file or redis
	SessionDir        string        // Directory for file-backed sessions
	SessionTTL        time.Duration // Idle lifetime of a session
	RedisAddr         string        // Redis server address
	RedisPass         string        // Redis password
	RedisDB           int           // Redis database number
	AuthRatePerMinute int           // Allowed signup/login POSTs per IP per minute
	IsProd            bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:           getEnv("APP_PORT", "5000"),
		DBDriver:          getEnv("DB_DRIVER", "mysql"),
		DBUser:            getEnv("DB_USER", "root"),
		DBPassword:        os.Getenv("DB_PASSWORD"), // Blank on a default XAMPP install
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBName:            getEnv("DB_NAME", "modes7vn"),
		DBPath:            getEnv("DB_PATH", "modes7vn.db"),
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		SessionBackend:    getEnv("SESSION_BACKEND", "file"),
		SessionDir:        getEnv("SESSION_DIR", "sessions"),
		SessionTTL:        getDuration("SESSION_TTL", 30*time.Minute),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:         os.Getenv("REDIS_PASS"),
		RedisDB:           getInt("REDIS_DB", 0),
		AuthRatePerMinute: getInt("AUTH_RATE_PER_MINUTE", 20),
		IsProd:            os.Getenv("IS_PROD") == "true", // Is production environment
	}
}

// getEnv returns the variable or fallback when unset
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getInt parses an integer variable, falling back on absence or garbage
func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// getDuration parses a duration such as "30m"
func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
