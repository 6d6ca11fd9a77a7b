package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/cargoledger-backend/internal/data/db"
	"github.com/yungbote/cargoledger-backend/internal/observability"
	"github.com/yungbote/cargoledger-backend/internal/platform/envutil"
)

const defaultJWTSecret = "defaultsecret"

type FeedConfig struct {
	SourceTimeoutMS int `yaml:"source_timeout_ms"`
	MaxLimit        int `yaml:"max_limit"`
	// MaxWindow caps page*limit for a single feed request.
	MaxWindow int `yaml:"max_window"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// LockTTLMS bounds how long a crashed holder can block a container's rollup.
	LockTTLMS int `yaml:"lock_ttl_ms"`
	// Channel is the pub/sub channel relaying live activity between instances.
	Channel string `yaml:"channel"`
}

type Config struct {
	Port           string                   `yaml:"port"`
	LogMode        string                   `yaml:"log_mode"`
	DBDriver       string                   `yaml:"db_driver"`
	SQLitePath     string                   `yaml:"sqlite_path"`
	Postgres       db.PostgresConfig        `yaml:"postgres"`
	JWTSecretKey   string                   `yaml:"jwt_secret_key"`
	Redis          RedisConfig              `yaml:"redis"`
	CORSOrigins    []string                 `yaml:"cors_origins"`
	Feed           FeedConfig               `yaml:"feed"`
	MetricsEnabled bool                     `yaml:"metrics_enabled"`
	Otel           observability.OtelConfig `yaml:"otel"`
}

func defaultConfig() Config {
	return Config{
		Port:       "8080",
		LogMode:    "development",
		DBDriver:   "sqlite",
		SQLitePath: "cargoledger.db",
		Postgres: db.PostgresConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "cargoledger",
			SSLMode: "disable",
		},
		JWTSecretKey:   defaultJWTSecret,
		Feed:           FeedConfig{SourceTimeoutMS: 5000, MaxLimit: 100, MaxWindow: 10000},
		MetricsEnabled: true,
		Otel: observability.OtelConfig{
			ServiceName: "cargoledger-backend",
			Environment: "development",
			SampleRatio: 1,
		},
	}
}

// LoadConfig starts from defaults, layers CONFIG_FILE (when set) on top, then env.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()
	if path := envutil.String("CONFIG_FILE", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envutil.String("PORT", cfg.Port)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.DBDriver = strings.ToLower(envutil.String("DB_DRIVER", cfg.DBDriver))
	cfg.SQLitePath = envutil.String("SQLITE_PATH", cfg.SQLitePath)

	cfg.Postgres.Host = envutil.String("POSTGRES_HOST", cfg.Postgres.Host)
	cfg.Postgres.Port = envutil.String("POSTGRES_PORT", cfg.Postgres.Port)
	cfg.Postgres.User = envutil.String("POSTGRES_USER", cfg.Postgres.User)
	cfg.Postgres.Password = envutil.String("POSTGRES_PASSWORD", cfg.Postgres.Password)
	cfg.Postgres.Name = envutil.String("POSTGRES_NAME", cfg.Postgres.Name)
	cfg.Postgres.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.Postgres.SSLMode)

	cfg.JWTSecretKey = envutil.String("JWT_SECRET_KEY", cfg.JWTSecretKey)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.LockTTLMS = envutil.Int("REDIS_LOCK_TTL_MS", cfg.Redis.LockTTLMS)
	cfg.Redis.Channel = envutil.String("REDIS_CHANNEL", cfg.Redis.Channel)

	if raw := envutil.String("CORS_ALLOWED_ORIGINS", ""); raw != "" {
		cfg.CORSOrigins = splitList(raw)
	}

	cfg.Feed.SourceTimeoutMS = envutil.Int("FEED_SOURCE_TIMEOUT_MS", cfg.Feed.SourceTimeoutMS)
	cfg.Feed.MaxLimit = envutil.Int("FEED_MAX_LIMIT", cfg.Feed.MaxLimit)
	cfg.Feed.MaxWindow = envutil.Int("FEED_MAX_WINDOW", cfg.Feed.MaxWindow)
	cfg.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.MetricsEnabled)

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Otel.ServiceName)
	cfg.Otel.Environment = envutil.String("OTEL_ENVIRONMENT", cfg.Otel.Environment)
	cfg.Otel.Version = envutil.String("OTEL_SERVICE_VERSION", cfg.Otel.Version)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint)
	cfg.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Otel.Insecure)
	if raw := envutil.String("OTEL_EXPORTER_OTLP_HEADERS", ""); raw != "" {
		cfg.Otel.Headers = observability.ParseHeaders(raw)
	}
	if raw := envutil.String("OTEL_SAMPLE_RATIO", ""); raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.Otel.SampleRatio = f
		}
	}
}

func (c Config) validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		return fmt.Errorf("JWT_SECRET_KEY must not be empty")
	}
	if c.Feed.MaxLimit < 0 || c.Feed.MaxWindow < 0 || c.Feed.SourceTimeoutMS < 0 {
		return fmt.Errorf("feed limits must not be negative")
	}
	return nil
}

func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (c Config) SourceTimeout() time.Duration {
	return time.Duration(c.Feed.SourceTimeoutMS) * time.Millisecond
}

func (c Config) LockTTL() time.Duration {
	return time.Duration(c.Redis.LockTTLMS) * time.Millisecond
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
