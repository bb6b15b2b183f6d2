package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Storage    string // "sqlite" | "redis" | "memory"
	SQLitePath string // database file when Storage is sqlite

	// Redis, only read when Storage is redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)

	// Reminders
	NotificationsPermitted bool          // answer given when the store asks for notification permission
	DispatchInterval       time.Duration // how often due reminders are delivered
	NoticeLimit            int           // how many user notices are kept until drained

	SeedFile string // optional YAML roster imported into an empty store

	AllowedCIDRS []string // optional, restrict /readyz and /metrics to these networks
	TrustProxy   bool     // true => trust X-Forwarded-For headers
	CORSOrigins  []string // origins allowed to call the API from a browser
}

// Load reads .env when present, then the MEMARCH_ environment.
// Invalid required settings panic.
func Load() *Config {
	loadDotenv(getenv("MEMARCH_ENV_FILE", ".env"))

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("MEMARCH_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("MEMARCH_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("MEMARCH_LOG_LEVEL", "info"),
		PrettyLog: mustBool("MEMARCH_PRETTY_LOG", true),

		// Storage
		Storage:    strings.ToLower(getenv("MEMARCH_STORAGE", StorageSQLite)),
		SQLitePath: getenv("MEMARCH_SQLITE_PATH", "memarch.db"),

		// Reminders
		NotificationsPermitted: mustBool("MEMARCH_NOTIFICATIONS_PERMITTED", true),
		DispatchInterval:       mustDuration("MEMARCH_DISPATCH_INTERVAL", 30*time.Second),
		NoticeLimit:            getenvInt("MEMARCH_NOTICE_LIMIT", 50),

		SeedFile: getenv("MEMARCH_SEED_FILE", ""),

		// Access restrictions
		AllowedCIDRS: parseList(getenv("MEMARCH_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("MEMARCH_TRUST_PROXY", false),
		CORSOrigins:  parseList(getenv("MEMARCH_CORS_ORIGINS", "*")),
	}

	switch cfg.Storage {
	case StorageSQLite, StorageMemory:
	case StorageRedis:
		loadRedis(cfg)
	default:
		panic(fmt.Sprintf("❌ FATAL: MEMARCH_STORAGE must be one of sqlite, redis, memory (got %q)", cfg.Storage))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		if cfgCopy.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("MEMARCH_REDIS_ADDR")
	cfg.RedisUser = getenv("MEMARCH_REDIS_USERNAME", "")
	cfg.RedisPasswordRequired = mustBool("MEMARCH_REDIS_PASSWORD_REQUIRED", false)
	cfg.RedisPassword = getenv("MEMARCH_REDIS_PASSWORD", "")
	cfg.RedisDB = getenvInt("MEMARCH_REDIS_DB", 0)
	cfg.RedisDT = mustDuration("MEMARCH_REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("MEMARCH_REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("MEMARCH_REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("MEMARCH_REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("MEMARCH_REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("MEMARCH_REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("MEMARCH_REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("MEMARCH_REDIS_RETRY_INTERVAL", 2*time.Second)

	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: MEMARCH_REDIS_PASSWORD is required when MEMARCH_REDIS_PASSWORD_REQUIRED=true")
	}
}

// loadDotenv never overrides variables already set in the environment.
func loadDotenv(path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[WARN] failed to load %s: %v\n", path, err)
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
