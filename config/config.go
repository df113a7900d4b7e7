package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultPath is where the grouped JSON configuration is looked up.
var DefaultPath = filepath.Join("config", "config.json")

// AppConfig holds file and environment driven configuration values.
// Secrets have no defaults in code and must be provided via config.json, .env or the environment.
type AppConfig struct {
	AppHost            string
	AppPort            string
	Debug              bool
	SecretKey          string
	DatabaseURL        string
	AdminUserID        uint
	SessionTTLHours    int
	RateLimitPerMinute int
	AllowedOrigins     []string
	TrustedProxies     []string
	CookieSecure       bool
	// Redis for token revocation and list caching; disabled when RedisAddr is empty
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Static page copy
	AboutHeading   string
	AboutText      string
	ContactHeading string
	ContactText    string
}

// Addr returns the listen address built from AppHost and AppPort.
func (c AppConfig) Addr() string {
	return c.AppHost + ":" + c.AppPort
}

// envBindings maps grouped config keys onto the environment variables that override them.
var envBindings = map[string]string{
	"app.host":                  "APP_HOST",
	"app.port":                  "APP_PORT",
	"app.debug":                 "DEBUG",
	"app.secret_key":            "SECRET_KEY",
	"app.admin_user_id":         "ADMIN_USER_ID",
	"app.session_ttl_hours":     "SESSION_TTL_HOURS",
	"app.rate_limit_per_minute": "RATE_LIMIT_PER_MINUTE",
	"app.allowed_origins":       "ALLOWED_ORIGINS",
	"app.trusted_proxies":       "TRUSTED_PROXIES",
	"app.cookie_secure":         "COOKIE_SECURE",
	"database.url":              "DATABASE_URL",
	"redis.addr":                "REDIS_ADDR",
	"redis.password":            "REDIS_PASSWORD",
	"redis.db":                  "REDIS_DB",
	"log.level":                 "LOG_LEVEL",
	"log.path":                  "LOG_PATH",
	"log.max_size_mb":           "LOG_MAX_SIZE_MB",
	"log.max_backups":           "LOG_MAX_BACKUPS",
	"log.max_age_days":          "LOG_MAX_AGE_DAYS",
	"log.compress":              "LOG_COMPRESS",
	"pages.about_heading":       "PAGES_ABOUT_HEADING",
	"pages.about_text":          "PAGES_ABOUT_TEXT",
	"pages.contact_heading":     "PAGES_CONTACT_HEADING",
	"pages.contact_text":        "PAGES_CONTACT_TEXT",
}

// Load reads configuration. Precedence: environment (including .env files) -> config.json -> defaults.
// When no env files are given, ./.env is used if present.
func Load(path string, envFiles ...string) (AppConfig, error) {
	if len(envFiles) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			envFiles = []string{".env"}
		}
	}
	if len(envFiles) > 0 {
		// godotenv never overrides variables already present in the environment
		if err := godotenv.Load(envFiles...); err != nil {
			return AppConfig{}, fmt.Errorf("load env files: %w", err)
		}
	}

	v := viper.New()
	applyDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return AppConfig{}, fmt.Errorf("read %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return AppConfig{}, fmt.Errorf("stat %s: %w", path, err)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return AppConfig{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	cfg := AppConfig{
		AppHost:            v.GetString("app.host"),
		AppPort:            v.GetString("app.port"),
		Debug:              v.GetBool("app.debug"),
		SecretKey:          v.GetString("app.secret_key"),
		DatabaseURL:        v.GetString("database.url"),
		AdminUserID:        v.GetUint("app.admin_user_id"),
		SessionTTLHours:    v.GetInt("app.session_ttl_hours"),
		RateLimitPerMinute: v.GetInt("app.rate_limit_per_minute"),
		AllowedOrigins:     splitList(v.Get("app.allowed_origins")),
		TrustedProxies:     splitList(v.Get("app.trusted_proxies")),
		CookieSecure:       v.GetBool("app.cookie_secure"),
		RedisAddr:          v.GetString("redis.addr"),
		RedisPassword:      v.GetString("redis.password"),
		RedisDB:            v.GetInt("redis.db"),
		LogLevel:           strings.ToLower(v.GetString("log.level")),
		LogPath:            v.GetString("log.path"),
		LogMaxSizeMB:       v.GetInt("log.max_size_mb"),
		LogMaxBackups:      v.GetInt("log.max_backups"),
		LogMaxAgeDays:      v.GetInt("log.max_age_days"),
		LogCompress:        v.GetBool("log.compress"),
		AboutHeading:       v.GetString("pages.about_heading"),
		AboutText:          v.GetString("pages.about_text"),
		ContactHeading:     v.GetString("pages.contact_heading"),
		ContactText:        v.GetString("pages.contact_text"),
	}

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate ensures that required configuration values are present and usable.
func (c AppConfig) Validate() error {
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY must be set")
	}
	if c.AppPort == "" {
		return errors.New("APP_PORT must not be empty")
	}
	if c.AdminUserID == 0 {
		return errors.New("ADMIN_USER_ID must be a positive user id")
	}
	if c.SessionTTLHours <= 0 {
		return errors.New("SESSION_TTL_HOURS must be positive")
	}
	return nil
}

// applyDefaults sets sane defaults for every non-secret key.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", "5000")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.admin_user_id", 1)
	v.SetDefault("app.session_ttl_hours", 72)
	v.SetDefault("app.rate_limit_per_minute", 30)
	v.SetDefault("app.allowed_origins", "")
	v.SetDefault("app.trusted_proxies", "")
	v.SetDefault("app.cookie_secure", false)
	v.SetDefault("database.url", "sqlite:blog.db")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 7)
	v.SetDefault("log.compress", false)
	v.SetDefault("pages.about_heading", "About Me")
	v.SetDefault("pages.about_text", "A blog about code, coffee and everything in between.")
	v.SetDefault("pages.contact_heading", "Contact Me")
	v.SetDefault("pages.contact_text", "Have questions? I have answers. Drop a line and I will get back to you.")
}

// splitList accepts either a JSON array or a comma separated string.
func splitList(raw any) []string {
	var parts []string
	switch t := raw.(type) {
	case []any:
		for _, it := range t {
			if s, ok := it.(string); ok {
				parts = append(parts, s)
			}
		}
	case []string:
		parts = t
	case string:
		parts = strings.Split(t, ",")
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
