package config

import (
	"testing"
	"time"

	"github.com/eaglebank/statement-service/internal/repository"
)

var configKeys = []string{
	"PORT", "SHUTDOWN_TIMEOUT", "STORAGE_BACKEND", "DATABASE_URL", "DATABASE_CREATE_SCHEMA",
	"SQLITE_PATH", "REDIS_ADDR", "REDIS_URL", "REDIS_PASSWORD", "REDIS_DB", "FILE_PATH",
	"EVENTS_REDIS_ADDR", "INSTITUTIONS_FILE", "LOG_LEVEL", "LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTP.Port != "8080" || cfg.HTTP.ShutdownTimeout != 10*time.Second {
		t.Errorf("unexpected http config %+v", cfg.HTTP)
	}
	if cfg.Storage.Backend != repository.BackendFile || cfg.Storage.FilePath != "transactions.jsonl" {
		t.Errorf("unexpected storage config %+v", cfg.Storage)
	}
	if cfg.Events.RedisAddr != "" {
		t.Errorf("expected events to be disabled, got %q", cfg.Events.RedisAddr)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("EVENTS_REDIS_ADDR", "events:6379")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTP.Port != "9090" || cfg.HTTP.ShutdownTimeout != 3*time.Second {
		t.Errorf("unexpected http config %+v", cfg.HTTP)
	}
	repoCfg := cfg.Storage.Repository()
	if repoCfg.Backend != repository.BackendRedis {
		t.Errorf("expected redis backend, got %s", repoCfg.Backend)
	}
	if repoCfg.Redis.Addr != "cache:6380" || repoCfg.Redis.Password != "secret" || repoCfg.Redis.DB != 2 {
		t.Errorf("unexpected redis options %+v", repoCfg.Redis)
	}
	if cfg.Events.RedisAddr != "events:6379" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "postgres without url", env: map[string]string{"STORAGE_BACKEND": "postgres"}},
		{name: "unknown backend", env: map[string]string{"STORAGE_BACKEND": "mongo"}},
		{name: "bad schema flag", env: map[string]string{"DATABASE_CREATE_SCHEMA": "maybe"}},
		{name: "bad redis db", env: map[string]string{"REDIS_DB": "one"}},
		{name: "bad shutdown timeout", env: map[string]string{"SHUTDOWN_TIMEOUT": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := FromEnv(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestFromEnv_Postgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/statements")
	t.Setenv("DATABASE_CREATE_SCHEMA", "true")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	repoCfg := cfg.Storage.Repository()
	if repoCfg.DatabaseURL != "postgres://localhost/statements" || !repoCfg.CreateSchema {
		t.Errorf("unexpected repository config %+v", repoCfg)
	}
}
