package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr             = ":8080"
	defaultDatabaseURL          = "kambafy.db"
	defaultJWTAccessTTL         = "24h"
	defaultMemberSessionTTL     = "720h"
	defaultJWTSecret            = "change-me-jwt-secret"
	defaultMemberTokenSecret    = "change-me-member-secret"
	defaultDevBypassEmail       = "validar@kambafy.com"
	defaultProgressWriteEvery   = "5s"
	defaultLiveRefreshInterval  = "30s"
	defaultLiveCommissionRate   = "0.0899"
	defaultLoginRateLimit       = "10"
	defaultLoginRateWindow      = "1m"
	defaultSessionCleanupCron   = "@every 1h"
	defaultMarketingHost        = "kambafy.com"
	defaultAppHost              = "app.kambafy.com"
	defaultPayHost              = "pay.kambafy.com"
	defaultFunctionsTimeout     = "10s"
	defaultImpersonationMaxTime = "60m"
)

// Config holds every runtime setting of the API process.
type Config struct {
	AppEnv   string
	HTTPAddr string
	LogLevel string
	LogJSON  bool

	DatabaseURL string
	RedisURL    string

	JWTSecret         string
	JWTAccessTTL      time.Duration
	MemberTokenSecret string
	MemberSessionTTL  time.Duration
	// MemberBypassEmails may log into any member area without a grant. Every use is audited.
	MemberBypassEmails []string
	LoginRateLimit     int64
	LoginRateWindow    time.Duration

	InternalToken      string
	InternalAllowedIPs []string
	CORSAllowedOrigins []string

	FunctionsBaseURL    string
	FunctionsServiceKey string
	FunctionsTimeout    time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	MarketingHost string
	AppHost       string
	PayHost       string

	VideoCDNHost string

	ProgressWriteEvery  time.Duration
	LiveRefreshInterval time.Duration
	LiveCommissionRate  string
	LiveRatesAOA        string
	LiveRatesMZN        string

	ImpersonationMaxTTL time.Duration
	SessionCleanupCron  string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.LogLevel = strings.TrimSpace(getEnv("LOG_LEVEL", "info"))
	cfg.LogJSON = parseBoolEnv("LOG_JSON", strconv.FormatBool(IsProdLike(cfg.AppEnv)))

	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.MemberTokenSecret = strings.TrimSpace(getEnv("MEMBER_TOKEN_SECRET", defaultMemberTokenSecret))

	bypassDefault := ""
	if !IsProdLike(cfg.AppEnv) {
		bypassDefault = defaultDevBypassEmail
	}
	cfg.MemberBypassEmails = splitList(getEnv("MEMBERS_BYPASS_EMAILS", bypassDefault), true)

	cfg.InternalToken = strings.TrimSpace(os.Getenv("INTERNAL_EVENTS_TOKEN"))
	cfg.InternalAllowedIPs = splitList(os.Getenv("INTERNAL_EVENTS_ALLOWED_IPS"), false)
	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"), false)

	cfg.FunctionsBaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("FUNCTIONS_BASE_URL")), "/")
	cfg.FunctionsServiceKey = strings.TrimSpace(os.Getenv("FUNCTIONS_SERVICE_KEY"))

	cfg.GoogleClientID = strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_ID"))
	cfg.GoogleClientSecret = strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_SECRET"))
	cfg.GoogleRedirectURL = strings.TrimSpace(os.Getenv("GOOGLE_REDIRECT_URL"))

	cfg.MarketingHost = strings.TrimSpace(getEnv("MARKETING_HOST", defaultMarketingHost))
	cfg.AppHost = strings.TrimSpace(getEnv("APP_HOST", defaultAppHost))
	cfg.PayHost = strings.TrimSpace(getEnv("PAY_HOST", defaultPayHost))
	cfg.VideoCDNHost = strings.TrimSpace(os.Getenv("VIDEO_CDN_HOST"))

	cfg.LiveCommissionRate = strings.TrimSpace(getEnv("LIVE_COMMISSION_RATE", defaultLiveCommissionRate))
	cfg.LiveRatesAOA = strings.TrimSpace(os.Getenv("LIVE_RATES_AOA"))
	cfg.LiveRatesMZN = strings.TrimSpace(os.Getenv("LIVE_RATES_MZN"))
	cfg.SessionCleanupCron = strings.TrimSpace(getEnv("SESSION_CLEANUP_CRON", defaultSessionCleanupCron))

	var err error
	durations := []struct {
		name     string
		fallback string
		dst      *time.Duration
	}{
		{"JWT_ACCESS_TTL", defaultJWTAccessTTL, &cfg.JWTAccessTTL},
		{"MEMBER_SESSION_TTL", defaultMemberSessionTTL, &cfg.MemberSessionTTL},
		{"LOGIN_RATE_WINDOW", defaultLoginRateWindow, &cfg.LoginRateWindow},
		{"FUNCTIONS_TIMEOUT", defaultFunctionsTimeout, &cfg.FunctionsTimeout},
		{"PROGRESS_WRITE_EVERY", defaultProgressWriteEvery, &cfg.ProgressWriteEvery},
		{"LIVE_REFRESH_INTERVAL", defaultLiveRefreshInterval, &cfg.LiveRefreshInterval},
		{"IMPERSONATION_MAX_TTL", defaultImpersonationMaxTime, &cfg.ImpersonationMaxTTL},
	}
	for _, d := range durations {
		if *d.dst, err = parseDurationEnv(d.name, d.fallback); err != nil {
			return nil, err
		}
	}

	cfg.LoginRateLimit, err = parseIntEnv("LOGIN_RATE_LIMIT", defaultLoginRateLimit)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.MemberSessionTTL <= 0 {
		return fmt.Errorf("MEMBER_SESSION_TTL must be > 0")
	}
	if cfg.LiveRefreshInterval <= 0 {
		return fmt.Errorf("LIVE_REFRESH_INTERVAL must be > 0")
	}
	if cfg.ProgressWriteEvery < 0 {
		return fmt.Errorf("PROGRESS_WRITE_EVERY must be >= 0")
	}
	if cfg.ImpersonationMaxTTL <= 0 {
		return fmt.Errorf("IMPERSONATION_MAX_TTL must be > 0")
	}
	if cfg.LoginRateLimit <= 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must be > 0")
	}

	if IsProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.MemberTokenSecret, defaultMemberTokenSecret) {
			return fmt.Errorf("in prod/release MEMBER_TOKEN_SECRET must be set and not default")
		}
		if cfg.InternalToken == "" {
			return fmt.Errorf("in prod/release INTERNAL_EVENTS_TOKEN must be set")
		}
	}
	return nil
}

// IsProdLike reports whether env names a production deployment.
func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitList(raw string, lower bool) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lower {
			part = strings.ToLower(part)
		}
		out = append(out, part)
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
