package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Store drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Rate limiter backends
const (
	LimiterLocal = "local"
	LimiterRedis = "redis"
)

// Duration is a time.Duration written as a string ("10s", "1m") in TOML
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config holds application configuration
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Auth      AuthConfig      `toml:"auth"`
	Store     StoreConfig     `toml:"store"`
	Lifecycle LifecycleConfig `toml:"lifecycle"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
	NATS      NATSConfig      `toml:"nats"`
	Tracing   TracingConfig   `toml:"tracing"`
	Log       LogConfig       `toml:"log"`
}

type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	// TrustedProxies lists the proxy IPs or CIDRs whose X-Forwarded-For is believed; empty trusts none
	TrustedProxies []string `toml:"trusted_proxies"`
}

type AuthConfig struct {
	// CronSecret is the bearer token the scheduler must present
	CronSecret string `toml:"cron_secret"`
}

type StoreConfig struct {
	Driver          string   `toml:"driver"`
	DSN             string   `toml:"dsn"`
	MaxOpenConns    int      `toml:"max_open_conns"`
	MaxIdleConns    int      `toml:"max_idle_conns"`
	ConnMaxLifetime Duration `toml:"conn_max_lifetime"`
	InitSchema      bool     `toml:"init_schema"`
	SeedDemo        bool     `toml:"seed_demo"`
}

type LifecycleConfig struct {
	Workers        int      `toml:"workers"`
	AuctionTimeout Duration `toml:"auction_timeout"`
	BatchSize      int      `toml:"batch_size"`
}

type RateLimitConfig struct {
	Backend       string   `toml:"backend"`
	Limit         int      `toml:"limit"`
	Window        Duration `toml:"window"`
	Burst         int      `toml:"burst"`
	MaxKeys       int      `toml:"max_keys"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
}

type NATSConfig struct {
	// URL of the NATS server; empty disables notification fan-out
	URL           string `toml:"url"`
	SubjectPrefix string `toml:"subject_prefix"`
}

type TracingConfig struct {
	// Endpoint is the OTLP/HTTP collector host:port; empty disables export
	Endpoint    string `toml:"endpoint"`
	Insecure    bool   `toml:"insecure"`
	ServiceName string `toml:"service_name"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the configuration used when no file or environment overrides exist
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration{10 * time.Second},
			WriteTimeout:    Duration{2 * time.Minute},
			ShutdownTimeout: Duration{30 * time.Second},
		},
		Store: StoreConfig{
			Driver:          DriverMemory,
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: Duration{5 * time.Minute},
		},
		Lifecycle: LifecycleConfig{
			Workers:        4,
			AuctionTimeout: Duration{10 * time.Second},
			BatchSize:      500,
		},
		RateLimit: RateLimitConfig{
			Backend: LimiterLocal,
			Limit:   30,
			Window:  Duration{time.Minute},
			Burst:   5,
			MaxKeys: 1024,
		},
		NATS: NATSConfig{
			SubjectPrefix: "notifications",
		},
		Tracing: TracingConfig{
			ServiceName: "auction-lifecycle",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the TOML file at path (skipped when path is empty) over the defaults, then applies
// environment overrides and validates the result
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).DisallowUnknownFields().Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	cfg.Server.Addr = GetEnv("SERVER_ADDR", cfg.Server.Addr)
	cfg.Auth.CronSecret = GetEnv("CRON_SECRET", cfg.Auth.CronSecret)
	cfg.Store.DSN = GetEnv("DATABASE_URL", cfg.Store.DSN)
	cfg.Store.Driver = GetEnv("STORE_DRIVER", cfg.Store.Driver)
	cfg.NATS.URL = GetEnv("NATS_URL", cfg.NATS.URL)
	cfg.RateLimit.Backend = GetEnv("RATE_LIMIT_BACKEND", cfg.RateLimit.Backend)
	cfg.RateLimit.RedisAddr = GetEnv("REDIS_ADDR", cfg.RateLimit.RedisAddr)
	cfg.RateLimit.RedisPassword = GetEnv("REDIS_PASSWORD", cfg.RateLimit.RedisPassword)
	cfg.Tracing.Endpoint = GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Tracing.Endpoint)
	cfg.Log.Level = GetEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = GetEnv("LOG_FORMAT", cfg.Log.Format)
	cfg.Server.TrustedProxies = GetEnvList("TRUSTED_PROXIES", cfg.Server.TrustedProxies)

	var err error
	if cfg.Lifecycle.Workers, err = GetEnvInt("LIFECYCLE_WORKERS", cfg.Lifecycle.Workers); err != nil {
		return err
	}
	if cfg.RateLimit.RedisDB, err = GetEnvInt("REDIS_DB", cfg.RateLimit.RedisDB); err != nil {
		return err
	}
	if cfg.Store.SeedDemo, err = GetEnvBool("SEED_DEMO", cfg.Store.SeedDemo); err != nil {
		return err
	}
	return nil
}

// Validate rejects configurations the service cannot start with
func (c Config) Validate() error {
	var errs []error

	for _, proxy := range c.Server.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				errs = append(errs, fmt.Errorf("invalid server.trusted_proxies entry %q", proxy))
			}
		}
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Store.DSN == "" {
			errs = append(errs, errors.New("store.dsn is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.driver %q", c.Store.Driver))
	}

	switch c.RateLimit.Backend {
	case LimiterLocal:
		if c.RateLimit.MaxKeys <= 0 {
			errs = append(errs, errors.New("ratelimit.max_keys must be positive"))
		}
	case LimiterRedis:
		if c.RateLimit.RedisAddr == "" {
			errs = append(errs, errors.New("ratelimit.redis_addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ratelimit.backend %q", c.RateLimit.Backend))
	}
	if c.RateLimit.Limit <= 0 || c.RateLimit.Window.Duration <= 0 {
		errs = append(errs, errors.New("ratelimit.limit and ratelimit.window must be positive"))
	}

	if c.Lifecycle.Workers <= 0 {
		errs = append(errs, errors.New("lifecycle.workers must be positive"))
	}
	if c.Lifecycle.AuctionTimeout.Duration <= 0 {
		errs = append(errs, errors.New("lifecycle.auction_timeout must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// GetEnv returns the environment variable key, or defaultValue when unset or empty
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt is GetEnv for integers
func GetEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

// GetEnvList is GetEnv for comma-separated lists
func GetEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var list []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return list
}

// GetEnvBool is GetEnv for booleans
func GetEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
