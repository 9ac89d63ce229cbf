package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the process configuration read from the environment.
type Config struct {
	AppEnv string
	Port   string

	PGHost     string
	PGPort     string
	PGUser     string
	PGDB       string
	PGPassword string
	PGSSLMode  string

	// Empty RedisAddr selects in-process cache and departure locks.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	RateLimitPerSecond float64
	RateLimitBurst     int

	ReconcileInterval time.Duration
	CacheWarmInterval time.Duration
	LockTTL           time.Duration

	// EventStreamMaxLen caps the Redis sale event stream.
	EventStreamMaxLen int64

	// BlockUnavailableVessels rejects sales on MAINTENANCE and INACTIVE vessels.
	BlockUnavailableVessels bool

	CORSOrigins []string
}

// Load reads the configuration from environment variables, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		Port:          getEnv("PORT", "8080"),
		PGHost:        getEnv("PG_HOST", "localhost"),
		PGPort:        getEnv("PG_PORT", "5432"),
		PGUser:        getEnv("PG_USER", "postgres"),
		PGDB:          getEnv("PG_DB", "ticketdesk"),
		PGPassword:    os.Getenv("PG_PASSWORD"),
		PGSSLMode:     getEnv("PG_SSLMODE", "disable"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		CORSOrigins:   splitCSV(getEnv("CORS_ORIGINS", "*")),
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerSecond, err = getFloat("RATE_LIMIT_RPS", 10); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}
	if cfg.ReconcileInterval, err = getDuration("RECONCILE_INTERVAL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.CacheWarmInterval, err = getDuration("CACHE_WARM_INTERVAL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.LockTTL, err = getDuration("DEPARTURE_LOCK_TTL", 10*time.Second); err != nil {
		return nil, err
	}
	maxLen, err := getInt("EVENT_STREAM_MAXLEN", 100000)
	if err != nil {
		return nil, err
	}
	cfg.EventStreamMaxLen = int64(maxLen)
	if cfg.BlockUnavailableVessels, err = getBool("SALES_BLOCK_UNAVAILABLE_VESSELS", false); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" && cfg.AppEnv == "production" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}
	return cfg, nil
}

// PostgresDSN builds the connection URL shared by GORM and sqlx.
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PGUser, c.PGPassword),
		Host:     net.JoinHostPort(c.PGHost, c.PGPort),
		Path:     "/" + c.PGDB,
		RawQuery: url.Values{"sslmode": {c.PGSSLMode}}.Encode(),
	}
	return u.String()
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
