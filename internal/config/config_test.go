package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Heuristics.DailyCapacity != 100 {
		t.Errorf("expected daily capacity 100, got %v", cfg.Heuristics.DailyCapacity)
	}
	if cfg.Heuristics.MinutesPerPage != 2 {
		t.Errorf("expected 2 minutes per page, got %d", cfg.Heuristics.MinutesPerPage)
	}
	if cfg.Timer.DefaultDuration != 25*time.Minute {
		t.Errorf("expected 25m focus duration, got %s", cfg.Timer.DefaultDuration)
	}
	if !cfg.Database.AutoMigrate {
		t.Error("expected auto-migrate to default on")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DAILY_CAPACITY", "80.5")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("REDIS_ADDRESS", "")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Heuristics.DailyCapacity != 80.5 {
		t.Errorf("expected capacity 80.5, got %v", cfg.Heuristics.DailyCapacity)
	}
	if cfg.Database.Backend != BackendMemory {
		t.Errorf("expected memory backend, got %s", cfg.Database.Backend)
	}
	if cfg.Redis.Enabled() {
		t.Error("expected redis disabled with empty address")
	}
	if cfg.Log.SlogLevel().String() != "DEBUG" {
		t.Errorf("expected debug level, got %s", cfg.Log.SlogLevel())
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:     ServerConfig{Port: 8080},
			Database:   DatabaseConfig{Backend: BackendPostgres, DSN: "postgres://x"},
			Auth:       AuthConfig{JWTSecret: "s", AccessTokenTTL: time.Hour},
			Timer:      TimerConfig{DefaultDuration: 25 * time.Minute},
			Heuristics: HeuristicsConfig{Timezone: "UTC", DailyCapacity: 100, MinutesPerPage: 2},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"empty dsn", func(c *Config) { c.Database.DSN = "" }, true},
		{"memory without dsn", func(c *Config) { c.Database.Backend = BackendMemory; c.Database.DSN = "" }, false},
		{"unknown backend", func(c *Config) { c.Database.Backend = "sqlite" }, true},
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }, true},
		{"zero capacity", func(c *Config) { c.Heuristics.DailyCapacity = 0 }, true},
		{"zero minutes per page", func(c *Config) { c.Heuristics.MinutesPerPage = 0 }, true},
		{"unknown timezone", func(c *Config) { c.Heuristics.Timezone = "Mars/Olympus" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyHeuristicsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "heuristics.yaml")
	content := "daily_capacity: 60\nminutes_per_page: 3\nfocus_duration: 50m\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	cfg := &Config{
		Timer:      TimerConfig{DefaultDuration: 25 * time.Minute},
		Heuristics: HeuristicsConfig{DailyCapacity: 100, MinutesPerPage: 2, UpNextLimit: 3},
	}
	if err := cfg.ApplyHeuristicsFile(path); err != nil {
		t.Fatalf("ApplyHeuristicsFile failed: %v", err)
	}

	if cfg.Heuristics.DailyCapacity != 60 {
		t.Errorf("expected capacity 60, got %v", cfg.Heuristics.DailyCapacity)
	}
	if cfg.Heuristics.MinutesPerPage != 3 {
		t.Errorf("expected 3 minutes per page, got %d", cfg.Heuristics.MinutesPerPage)
	}
	if cfg.Heuristics.UpNextLimit != 3 {
		t.Errorf("absent key should keep up_next_limit 3, got %d", cfg.Heuristics.UpNextLimit)
	}
	if cfg.Timer.DefaultDuration != 50*time.Minute {
		t.Errorf("expected 50m, got %s", cfg.Timer.DefaultDuration)
	}

	s := cfg.Heuristics.Settings()
	if s.UrgentWithinDays != 3 {
		t.Errorf("expected default urgent window 3, got %d", s.UrgentWithinDays)
	}
}

func TestApplyHeuristicsFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("focus_duration: soon\n"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	cfg := &Config{}
	if err := cfg.ApplyHeuristicsFile(path); err == nil {
		t.Error("expected error for invalid focus_duration")
	}

	if err := cfg.ApplyHeuristicsFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
