// Package repository holds the storage backends of the statement service and
// the capability interfaces they satisfy. Every adapter returns failures as
// *DatabaseError.
package repository

import (
	"fmt"
	"strings"

	redisclient "github.com/eaglebank/statement-service/internal/redis"
)

const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendFile     = "file"
)

type Config struct {
	Backend      string
	DatabaseURL  string
	CreateSchema bool
	SQLitePath   string
	Redis        redisclient.Options
	FilePath     string
}

// New builds the backend named by cfg.Backend. The backend is not connected;
// the first operation connects it.
func New(cfg Config) (Backend, error) {
	switch strings.ToLower(cfg.Backend) {
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres backend requires a database url")
		}
		return NewPostgresStore(cfg.DatabaseURL, cfg.CreateSchema), nil
	case BackendSQLite:
		return NewSQLiteStore(cfg.SQLitePath), nil
	case BackendRedis:
		return NewRedisStore(cfg.Redis), nil
	case BackendFile, "":
		return NewTextFileStore(cfg.FilePath), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
