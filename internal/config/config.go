package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Backend  BackendConfig
	Session  SessionConfig
	Cache    CacheConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Metrics  MetricsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	BodyLimitMB           int
}

// BackendConfig points at the ferry REST API.
type BackendConfig struct {
	BaseURL        string
	TimeoutSeconds int
	UserAgent      string
}

// Session storage drivers.
const (
	SessionDriverMemory   = "memory"
	SessionDriverRedis    = "redis"
	SessionDriverPostgres = "postgres"
)

// SessionConfig controls how browser sessions are identified and persisted.
type SessionConfig struct {
	Driver          string
	CookieName      string
	CookieSecure    bool
	Secret          string
	TTLMinutes      int
	EncryptionKey   string
	KeyPrefix       string
	ResolveWaitMS   int
	SweepSchedule   string
	IdleEvictMinute int
}

// CacheConfig tunes the per-session list cache.
type CacheConfig struct {
	StaleSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	PoolSize      int
	DialTimeoutMS int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level       string
	Format      string
	Development bool
	Service     string
	Version     string
}

// MetricsConfig toggles the prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	appName := getEnv("APP_NAME", "ferry-admin")
	appEnv := getEnv("APP_ENV", "development")
	appVersion := getEnv("APP_VERSION", "dev")

	cfg := &Config{
		App: AppConfig{
			Name:                  appName,
			Env:                   appEnv,
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               appVersion,
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			BodyLimitMB:           getEnvAsInt("HTTP_BODY_LIMIT_MB", 8),
		},
		Backend: BackendConfig{
			BaseURL:        strings.TrimRight(getEnv("BACKEND_BASE_URL", "http://127.0.0.1:8000/api"), "/"),
			TimeoutSeconds: getEnvAsInt("BACKEND_TIMEOUT_SECONDS", 15),
			UserAgent:      getEnv("BACKEND_USER_AGENT", "ferry-admin"),
		},
		Session: SessionConfig{
			Driver:          strings.ToLower(getEnv("SESSION_DRIVER", SessionDriverMemory)),
			CookieName:      getEnv("SESSION_COOKIE_NAME", "ferry_session"),
			CookieSecure:    getEnvAsBool("SESSION_COOKIE_SECURE", false),
			Secret:          getEnv("SESSION_SECRET", "dev-secret"),
			TTLMinutes:      getEnvAsInt("SESSION_TTL_MINUTES", 60*24*7),
			EncryptionKey:   os.Getenv("SESSION_ENCRYPTION_KEY"),
			KeyPrefix:       getEnv("SESSION_KEY_PREFIX", "ferry:session"),
			ResolveWaitMS:   getEnvAsInt("SESSION_RESOLVE_WAIT_MS", 2000),
			SweepSchedule:   getEnv("SESSION_SWEEP_SCHEDULE", "@every 5m"),
			IdleEvictMinute: getEnvAsInt("SESSION_IDLE_EVICT_MINUTES", 30),
		},
		Cache: CacheConfig{
			StaleSeconds: getEnvAsInt("CACHE_STALE_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:          getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:      os.Getenv("REDIS_PASSWORD"),
			DB:            redisDB,
			PoolSize:      getEnvAsInt("REDIS_POOL_SIZE", 10),
			DialTimeoutMS: getEnvAsInt("REDIS_DIAL_TIMEOUT_MS", 3000),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Format:      strings.ToLower(getEnv("LOG_FORMAT", "json")),
			Development: appEnv == "development",
			Service:     appName,
			Version:     appVersion,
		},
		Metrics: MetricsConfig{
			Enabled:   getEnvAsBool("METRICS_ENABLED", true),
			Namespace: getEnv("METRICS_NAMESPACE", "ferry_admin"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.Driver {
	case SessionDriverMemory:
	case SessionDriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("SESSION_DRIVER=redis requires REDIS_ADDR")
		}
	case SessionDriverPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("SESSION_DRIVER=postgres requires POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("invalid SESSION_DRIVER %q", c.Session.Driver)
	}
	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid LOG_FORMAT %q", c.Logger.Format)
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("BACKEND_BASE_URL is required")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-call backend timeout.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// TTL returns how long a durable session lives.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

// ResolveWait bounds how long a guard waits for rehydration before rendering the wait state.
func (s SessionConfig) ResolveWait() time.Duration {
	if s.ResolveWaitMS < 0 {
		return 0
	}
	return time.Duration(s.ResolveWaitMS) * time.Millisecond
}

// IdleEvict returns how long an in-memory session may sit unused.
func (s SessionConfig) IdleEvict() time.Duration {
	if s.IdleEvictMinute <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(s.IdleEvictMinute) * time.Minute
}

// DialTimeout bounds connecting to Redis.
func (r RedisConfig) DialTimeout() time.Duration {
	if r.DialTimeoutMS <= 0 {
		return 3 * time.Second
	}
	return time.Duration(r.DialTimeoutMS) * time.Millisecond
}

// StaleAfter returns how long a cached list stays fresh.
func (c CacheConfig) StaleAfter() time.Duration {
	if c.StaleSeconds <= 0 {
		return 0
	}
	return time.Duration(c.StaleSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
