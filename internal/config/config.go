package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	redisclient "github.com/eaglebank/statement-service/internal/redis"
	"github.com/eaglebank/statement-service/internal/repository"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP             HTTPConfig
	Storage          StorageConfig
	Events           EventsConfig
	Logging          LoggingConfig
	InstitutionsFile string
}

type HTTPConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

// StorageConfig selects and configures the transaction backend.
type StorageConfig struct {
	Backend       string
	DatabaseURL   string
	CreateSchema  bool
	SQLitePath    string
	RedisAddr     string
	RedisURL      string
	RedisPassword string
	RedisDB       int
	FilePath      string
}

// EventsConfig points at the Redis server that receives transaction events.
// An empty address disables publishing.
type EventsConfig struct {
	RedisAddr string
}

type LoggingConfig struct {
	Level  string
	Format string // console|json
}

const (
	defaultPort            = "8080"
	defaultShutdownTimeout = 10 * time.Second
	defaultBackend         = repository.BackendFile
	defaultSQLitePath      = "transactions.db"
	defaultRedisAddr       = "localhost:6379"
	defaultFilePath        = "transactions.jsonl"
	defaultLoggingLevel    = "info"
	defaultLoggingFormat   = "console"
)

// Load reads .env when present and then the environment, applying defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the config from environment variables only.
func FromEnv() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Port:            getEnv("PORT", defaultPort),
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Storage: StorageConfig{
			Backend:       strings.ToLower(getEnv("STORAGE_BACKEND", defaultBackend)),
			DatabaseURL:   os.Getenv("DATABASE_URL"),
			SQLitePath:    getEnv("SQLITE_PATH", defaultSQLitePath),
			RedisAddr:     getEnv("REDIS_ADDR", defaultRedisAddr),
			RedisURL:      os.Getenv("REDIS_URL"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			FilePath:      getEnv("FILE_PATH", defaultFilePath),
		},
		Events: EventsConfig{
			RedisAddr: os.Getenv("EVENTS_REDIS_ADDR"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", defaultLoggingLevel),
			Format: getEnv("LOG_FORMAT", defaultLoggingFormat),
		},
		InstitutionsFile: os.Getenv("INSTITUTIONS_FILE"),
	}

	createSchema, err := parseBool("DATABASE_CREATE_SCHEMA", false)
	if err != nil {
		return Config{}, err
	}
	cfg.Storage.CreateSchema = createSchema

	redisDB, err := parseInt("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	cfg.Storage.RedisDB = redisDB

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.HTTP.ShutdownTimeout = d
	}

	switch cfg.Storage.Backend {
	case repository.BackendPostgres:
		if cfg.Storage.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case repository.BackendSQLite, repository.BackendRedis, repository.BackendFile:
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_BACKEND %q", cfg.Storage.Backend)
	}

	return cfg, nil
}

// Repository converts the storage settings for repository.New.
func (c StorageConfig) Repository() repository.Config {
	return repository.Config{
		Backend:      c.Backend,
		DatabaseURL:  c.DatabaseURL,
		CreateSchema: c.CreateSchema,
		SQLitePath:   c.SQLitePath,
		Redis: redisclient.Options{
			Addr:     c.RedisAddr,
			URL:      c.RedisURL,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		},
		FilePath: c.FilePath,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	val, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return val, nil
}

func parseInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	val, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return val, nil
}
