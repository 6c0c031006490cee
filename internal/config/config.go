package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Session store backends.
const (
	StoreFile  = "file"
	StoreRedis = "redis"
)

// Config aggregates runtime configuration for the CLI.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Session  SessionConfig
	Auth     AuthConfig
}

// AppConfig identifies the running tool.
type AppConfig struct {
	Name    string
	Env     string
	Version string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// SessionConfig controls where the session token lives and how long it lasts.
type SessionConfig struct {
	Store    string
	EnvFile  string
	TTLHours int
	Issuer   string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	BcryptCost int
}

// Load reads configuration from envFile (if present) and the process
// environment, applying defaults where possible.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	store := getEnv("SESSION_STORE", StoreFile)
	if store != StoreFile && store != StoreRedis {
		return nil, fmt.Errorf("invalid SESSION_STORE %q: want %q or %q", store, StoreFile, StoreRedis)
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "epicevents"),
			Env:     getEnv("APP_ENV", "development"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 4)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 0)),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "warn"),
		},
		Session: SessionConfig{
			Store:    store,
			EnvFile:  getEnv("SESSION_ENV_FILE", envFile),
			TTLHours: getEnvAsInt("SESSION_TTL_HOURS", 12),
			Issuer:   getEnv("SESSION_ISSUER", "epicevents_crm"),
		},
		Auth: AuthConfig{
			BcryptCost: getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
	}

	return cfg, nil
}

// TTL returns the session validity window.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLHours <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(s.TTLHours) * time.Hour
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
