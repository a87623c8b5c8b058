package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SKILLLINK_APP_HTTP_PORT", "8080")
	t.Setenv("SKILLLINK_JWT_ACCESS_SECRET", "access")
	t.Setenv("SKILLLINK_JWT_REFRESH_SECRET", "refresh")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() err = %v", err)
	}
	if cfg.App.HTTPPort != "8080" {
		t.Fatalf("HTTPPort = %q", cfg.App.HTTPPort)
	}
	if cfg.Matching.DefaultRadiusKm != 25 {
		t.Fatalf("DefaultRadiusKm = %v", cfg.Matching.DefaultRadiusKm)
	}
	if cfg.Demand.RefreshCron != "@every 6h" {
		t.Fatalf("RefreshCron = %q", cfg.Demand.RefreshCron)
	}
	if cfg.Database.DBPort != "5432" {
		t.Fatalf("DBPort = %q", cfg.Database.DBPort)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SKILLLINK_DB_SSL_MODE", "require")
	t.Setenv("SKILLLINK_DB_MAX_CONNS", "20")
	t.Setenv("SKILLLINK_REDIS_TTL", "30s")
	t.Setenv("SKILLLINK_MATCHING_CANDIDATE_LIMIT", "50")
	t.Setenv("SKILLLINK_DEMAND_REFRESH_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() err = %v", err)
	}
	if cfg.Database.DBSSLMode != "require" {
		t.Fatalf("DBSSLMode = %q", cfg.Database.DBSSLMode)
	}
	if cfg.Database.MaxConns != 20 {
		t.Fatalf("MaxConns = %d", cfg.Database.MaxConns)
	}
	if cfg.Redis.TTL != 30*time.Second {
		t.Fatalf("TTL = %v", cfg.Redis.TTL)
	}
	if cfg.Matching.CandidateLimit != 50 {
		t.Fatalf("CandidateLimit = %d", cfg.Matching.CandidateLimit)
	}
	if cfg.Demand.RefreshEnabled {
		t.Fatalf("RefreshEnabled should be false")
	}
	// untouched keys keep their defaults
	if cfg.Database.DBHost != "localhost" {
		t.Fatalf("DBHost = %q", cfg.Database.DBHost)
	}
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skilllink.yaml")
	body := `
app:
  http_port: "9000"
  env: staging
jwt:
  access_secret: a
  refresh_secret: r
matching:
  default_radius_km: 40
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("SKILLLINK_CONFIG", path)
	t.Setenv("SKILLLINK_APP_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() err = %v", err)
	}
	if cfg.App.HTTPPort != "9000" {
		t.Fatalf("HTTPPort = %q", cfg.App.HTTPPort)
	}
	if cfg.App.Environment != "production" {
		t.Fatalf("env should override file, got %q", cfg.App.Environment)
	}
	if cfg.Matching.DefaultRadiusKm != 40 {
		t.Fatalf("DefaultRadiusKm = %v", cfg.Matching.DefaultRadiusKm)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("SKILLLINK_APP_HTTP_PORT", "")
	t.Setenv("SKILLLINK_JWT_ACCESS_SECRET", "")
	t.Setenv("SKILLLINK_JWT_REFRESH_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsMissingRequired(err) {
		t.Fatalf("expected missing required error, got %v", err)
	}
	for _, key := range []string{"app.http_port", "jwt.access_secret", "jwt.refresh_secret"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("error %q does not name %s", err, key)
		}
	}
}

func TestEnvKey(t *testing.T) {
	cases := map[string]string{
		"SKILLLINK_APP_HTTP_PORT":   "app.http_port",
		"SKILLLINK_DB_SSL_MODE":     "db.ssl_mode",
		"SKILLLINK_LOG_JSON":        "log.json",
		"SKILLLINK_CONFIG":          "",
		"SKILLLINK_JWT_REFRESH_TTL": "jwt.refresh_ttl",
	}
	for in, want := range cases {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}
