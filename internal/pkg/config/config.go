package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration is a time.Duration written as "90s" or "5m" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	DB       string `toml:"db"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	SSLMode  string `toml:"ssl_mode"`
	MaxConns int32  `toml:"max_conns"`
	MinConns int32  `toml:"min_conns"`
}

type BadgerConfig struct {
	Path string `toml:"path"`
}

type RepositoriesConfig struct {
	Driver   string         `toml:"driver"`
	Postgres PostgresConfig `toml:"postgres"`
	Badger   BadgerConfig   `toml:"badger"`
}

type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

type SessionConfig struct {
	Secret          string   `toml:"secret"`
	IdleTTL         Duration `toml:"idle_ttl"`
	SnapshotTTL     Duration `toml:"snapshot_ttl"`
	JanitorSchedule string   `toml:"janitor_schedule"`
}

type ObservabilityConfig struct {
	ServiceName  string `toml:"service_name"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	MetricsAddr  string `toml:"metrics_addr"`
	PprofAddr    string `toml:"pprof_addr"`
}

type Config struct {
	ServerPort          string              `toml:"server_port"`
	LogLevel            string              `toml:"log_level"`
	Gemini              GeminiConfig        `toml:"gemini"`
	Repositories        RepositoriesConfig  `toml:"repositories"`
	Session             SessionConfig       `toml:"session"`
	ReviewUploadDelay   Duration            `toml:"review_upload_delay"`
	SearchRatePerMinute int                 `toml:"search_rate_per_minute"`
	Observability       ObservabilityConfig `toml:"observability"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		ServerPort: "8091",
		LogLevel:   "info",
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		Repositories: RepositoriesConfig{
			Driver: "memory",
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     "5454",
				DB:       "hidden_gems",
				Username: "postgres",
				SSLMode:  "disable",
				MaxConns: 30,
				MinConns: 5,
			},
			Badger: BadgerConfig{Path: "./data/badger"},
		},
		Session: SessionConfig{
			Secret:          "hidden-gems-dev-secret",
			IdleTTL:         Duration{30 * time.Minute},
			SnapshotTTL:     Duration{5 * time.Minute},
			JanitorSchedule: "@every 1m",
		},
		ReviewUploadDelay:   Duration{1500 * time.Millisecond},
		SearchRatePerMinute: 10,
		Observability: ObservabilityConfig{
			ServiceName: "hidden-gems",
			MetricsAddr: ":9092",
			PprofAddr:   ":6060",
		},
	}
}

// Load builds the configuration from defaults, the optional TOML file named
// by GEMS_CONFIG_FILE, and then environment variables, in that order.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("GEMS_CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.ServerPort = getEnvOrDefault("SERVER_PORT", c.ServerPort)
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)

	c.Gemini.APIKey = getEnvOrDefault("GEMINI_API_KEY", getEnvOrDefault("API_KEY", c.Gemini.APIKey))
	c.Gemini.Model = getEnvOrDefault("GEMINI_MODEL", c.Gemini.Model)

	c.Repositories.Driver = strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", c.Repositories.Driver))
	c.Repositories.Badger.Path = getEnvOrDefault("BADGER_PATH", c.Repositories.Badger.Path)
	pg := &c.Repositories.Postgres
	pg.Host = getEnvOrDefault("POSTGRES_HOST", pg.Host)
	pg.Port = getEnvOrDefault("POSTGRES_PORT", pg.Port)
	pg.DB = getEnvOrDefault("POSTGRES_DB", pg.DB)
	pg.Username = getEnvOrDefault("POSTGRES_USER", pg.Username)
	pg.Password = getEnvOrDefault("POSTGRES_PASSWORD", pg.Password)
	pg.SSLMode = getEnvOrDefault("POSTGRES_SSLMODE", pg.SSLMode)

	c.Session.Secret = getEnvOrDefault("SESSION_SECRET", c.Session.Secret)
	c.Session.JanitorSchedule = getEnvOrDefault("SESSION_JANITOR_SCHEDULE", c.Session.JanitorSchedule)

	var errs []error
	errs = append(errs,
		durationEnv("SESSION_TTL", &c.Session.IdleTTL),
		durationEnv("SNAPSHOT_TTL", &c.Session.SnapshotTTL),
		durationEnv("REVIEW_UPLOAD_DELAY", &c.ReviewUploadDelay),
	)
	if v := os.Getenv("SEARCH_RATE_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid SEARCH_RATE_PER_MINUTE %q: %w", v, err))
		} else {
			c.SearchRatePerMinute = n
		}
	}

	c.Observability.OTLPEndpoint = getEnvOrDefault("OTEL_ENDPOINT", c.Observability.OTLPEndpoint)
	c.Observability.MetricsAddr = getEnvOrDefault("METRICS_ADDR", c.Observability.MetricsAddr)
	c.Observability.PprofAddr = getEnvOrDefault("PPROF_ADDR", c.Observability.PprofAddr)

	return errors.Join(errs...)
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Repositories.Driver {
	case "memory", "badger":
	case "postgres":
		if c.Repositories.Postgres.Password == "" {
			return fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Repositories.Driver)
	}
	if c.SearchRatePerMinute < 0 {
		return fmt.Errorf("SEARCH_RATE_PER_MINUTE must not be negative")
	}
	if c.Session.SnapshotTTL.Duration <= 0 {
		return fmt.Errorf("SNAPSHOT_TTL must be positive")
	}
	return nil
}

func durationEnv(key string, dst *Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	if err := dst.UnmarshalText([]byte(v)); err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
