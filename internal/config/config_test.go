package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/petmatch")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPPort != "8080" || cfg.DBDriver != DriverPostgres {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.PoolCacheTTL() != 30*time.Second {
		t.Fatalf("expected 30s pool cache ttl, got %s", cfg.PoolCacheTTL())
	}
	if cfg.RankTimeout() != 2*time.Second {
		t.Fatalf("expected 2s rank timeout, got %s", cfg.RankTimeout())
	}
	if cfg.JWTAccessTTL() != 15*time.Minute {
		t.Fatalf("expected 15m access ttl, got %s", cfg.JWTAccessTTL())
	}
	if cfg.RateLimitPerMinute != 120 {
		t.Fatalf("expected 120 requests per minute, got %d", cfg.RateLimitPerMinute)
	}
}

func TestLoadConfig_DriverRequirements(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{
			name:    "postgres without url",
			env:     map[string]string{"DB_DRIVER": "postgres"},
			wantErr: ErrMissingDatabaseURL,
		},
		{
			name:    "sqlite without path",
			env:     map[string]string{"DB_DRIVER": "sqlite"},
			wantErr: ErrMissingSQLitePath,
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"DB_DRIVER": "mysql"},
			wantErr: ErrUnknownDriver,
		},
		{
			name: "sqlite with path",
			env:  map[string]string{"DB_DRIVER": " SQLite ", "SQLITE_PATH": "/tmp/pets.db"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "")
			t.Setenv("SQLITE_PATH", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadConfig()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.DBDriver != DriverSQLite {
				t.Fatalf("expected normalized driver, got %q", cfg.DBDriver)
			}
		})
	}
}
