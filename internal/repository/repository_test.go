package repository

import (
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    any
		wantErr bool
	}{
		{name: "postgres", cfg: Config{Backend: "postgres", DatabaseURL: "postgres://x"}, want: &PostgresStore{}},
		{name: "postgres without url", cfg: Config{Backend: "postgres"}, wantErr: true},
		{name: "sqlite", cfg: Config{Backend: "SQLite", SQLitePath: "x.db"}, want: &SQLiteStore{}},
		{name: "redis", cfg: Config{Backend: "redis"}, want: &RedisStore{}},
		{name: "file", cfg: Config{Backend: "file", FilePath: "x.jsonl"}, want: &TextFileStore{}},
		{name: "default is file", cfg: Config{FilePath: "x.jsonl"}, want: &TextFileStore{}},
		{name: "unknown", cfg: Config{Backend: "mongo"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got %T", backend)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if backend.Connected() {
				t.Error("expected a disconnected backend")
			}
			switch tt.want.(type) {
			case *PostgresStore:
				_, ok := backend.(*PostgresStore)
				if !ok {
					t.Errorf("expected *PostgresStore, got %T", backend)
				}
			case *SQLiteStore:
				if _, ok := backend.(*SQLiteStore); !ok {
					t.Errorf("expected *SQLiteStore, got %T", backend)
				}
			case *RedisStore:
				if _, ok := backend.(*RedisStore); !ok {
					t.Errorf("expected *RedisStore, got %T", backend)
				}
			case *TextFileStore:
				if _, ok := backend.(*TextFileStore); !ok {
					t.Errorf("expected *TextFileStore, got %T", backend)
				}
			}
		})
	}
}
