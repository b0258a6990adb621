package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAdminToken is used when ADMIN_TOKEN is not set. It is public and
// must never be relied upon in a deployment.
const DefaultAdminToken = "dreambook-admin-change-me"

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	Store                string
	StoreTimeout         time.Duration
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	AdminToken     string
	AdminTokenHash string

	InterpreterName string
	ContentDenylist []string

	RateLimitMax    int
	RateLimitWindow time.Duration
	RateLimitKeys   int

	LogLevel  string
	LogFormat string
}

// InsecureAdminToken reports whether the admin gate falls back to the
// built-in secret.
func (c Config) InsecureAdminToken() bool {
	return c.AdminTokenHash == "" && c.AdminToken == DefaultAdminToken
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          getenv("DATABASE_URL", "postgres://localhost:5432/dreambook?sslmode=disable"),
		Store:                strings.ToLower(getenv("STORE", StorePostgres)),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
		AdminToken:           getenv("ADMIN_TOKEN", DefaultAdminToken),
		AdminTokenHash:       getenv("ADMIN_TOKEN_HASH", ""),
		InterpreterName:      getenv("INTERPRETER_NAME", "Kareem Fuad"),
		LogLevel:             strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat:            strings.ToLower(getenv("LOG_FORMAT", "json")),
	}

	if cfg.Store != StorePostgres && cfg.Store != StoreMemory {
		return Config{}, fmt.Errorf("invalid STORE %q: want %q or %q", cfg.Store, StorePostgres, StoreMemory)
	}

	cfg.CORSAllowedOrigins = splitList(getenv("CORS_ALLOWED_ORIGINS", ""), false)
	// "none" turns the content check off
	if deny := getenv("CONTENT_DENYLIST", "spam,test,fake"); !strings.EqualFold(deny, "none") {
		cfg.ContentDenylist = splitList(deny, true)
	}

	var err error
	if cfg.StoreTimeout, err = durationEnv("STORE_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitWindow, err = durationEnv("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitMax, err = intEnv("RATE_LIMIT_MAX", 10); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitKeys, err = intEnv("RATE_LIMIT_KEYS", 500); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func splitList(raw string, lower bool) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if lower {
			s = strings.ToLower(s)
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := getenv(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: want a positive duration", key, v)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	v := getenv(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: want a positive integer", key, v)
	}
	return n, nil
}
