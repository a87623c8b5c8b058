package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "SKILLLINK_"
	envConfigPath = "SKILLLINK_CONFIG"
)

type Config struct {
	App      AppConfig      `koanf:"app"`
	Database DatabaseConfig `koanf:"db"`
	Redis    RedisConfig    `koanf:"redis"`
	JWT      JWTConfig      `koanf:"jwt"`
	Matching MatchingConfig `koanf:"matching"`
	Demand   DemandConfig   `koanf:"demand"`
	Log      LogConfig      `koanf:"log"`
}

type AppConfig struct {
	AppName     string `koanf:"name"`
	Environment string `koanf:"env"`
	HTTPPort    string `koanf:"http_port"`
}

type DatabaseConfig struct {
	DBHost            string        `koanf:"host"`
	DBPort            string        `koanf:"port"`
	DBName            string        `koanf:"name"`
	DBUser            string        `koanf:"user"`
	DBPassword        string        `koanf:"password"`
	DBSSLMode         string        `koanf:"ssl_mode"`
	ConnectTimeout    time.Duration `koanf:"connect_timeout"`
	MaxConns          int32         `koanf:"max_conns"`
	MinConns          int32         `koanf:"min_conns"`
	MaxConnLifetime   time.Duration `koanf:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `koanf:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `koanf:"health_check_period"`
}

type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

type JWTConfig struct {
	AccessSecret  string        `koanf:"access_secret"`
	RefreshSecret string        `koanf:"refresh_secret"`
	AccessTTL     time.Duration `koanf:"access_ttl"`
	RefreshTTL    time.Duration `koanf:"refresh_ttl"`
}

type MatchingConfig struct {
	DefaultRadiusKm float64 `koanf:"default_radius_km"`
	// CandidateLimit caps the rows pulled from the store before scoring.
	CandidateLimit int `koanf:"candidate_limit"`
}

type DemandConfig struct {
	RefreshCron    string `koanf:"refresh_cron"`
	RefreshEnabled bool   `koanf:"refresh_enabled"`
	RefreshWorkers int    `koanf:"refresh_workers"`
}

type LogConfig struct {
	JSON  bool `koanf:"json"`
	Debug bool `koanf:"debug"`
}

var errMissingRequired = errors.New("missing required configuration")

func Defaults() Config {
	return Config{
		App: AppConfig{
			AppName:     "skilllink",
			Environment: "development",
		},
		Database: DatabaseConfig{
			DBHost:            "localhost",
			DBPort:            "5432",
			DBName:            "skilllink",
			DBUser:            "postgres",
			DBSSLMode:         "disable",
			ConnectTimeout:    5 * time.Second,
			MaxConns:          10,
			MinConns:          1,
			MaxConnLifetime:   30 * time.Minute,
			MaxConnIdleTime:   5 * time.Minute,
			HealthCheckPeriod: time.Minute,
		},
		Redis: RedisConfig{
			TTL: 10 * time.Minute,
		},
		JWT: JWTConfig{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		Matching: MatchingConfig{
			DefaultRadiusKm: 25,
			CandidateLimit:  500,
		},
		Demand: DemandConfig{
			RefreshCron:    "@every 6h",
			RefreshEnabled: true,
			RefreshWorkers: 4,
		},
		Log: LogConfig{JSON: true},
	}
}

// Load layers defaults, an optional YAML file named by SKILLLINK_CONFIG and
// SKILLLINK_<SECTION>_<KEY> environment variables, in that order.
func Load() (Config, error) {
	k := koanf.New(".")

	if path := strings.TrimSpace(os.Getenv(envConfigPath)); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load env config: %w", err)
	}

	cfg := Defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey maps SKILLLINK_DB_SSL_MODE to db.ssl_mode. Only the first
// underscore separates the section so multi-word keys survive.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if s == "config" {
		return ""
	}
	return strings.Replace(s, "_", ".", 1)
}

func (c Config) validate() error {
	var missing []string
	req := func(key, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
	}

	req("app.http_port", c.App.HTTPPort)
	req("jwt.access_secret", c.JWT.AccessSecret)
	req("jwt.refresh_secret", c.JWT.RefreshSecret)

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", errMissingRequired, strings.Join(missing, ", "))
	}
	return nil
}

func IsMissingRequired(err error) bool {
	return errors.Is(err, errMissingRequired)
}
