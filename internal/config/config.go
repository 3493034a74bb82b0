package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DevSessionSecret is used when SESSION_SECRET is not set.
const DevSessionSecret = "flashdeck-insecure-development-secret"

// Stale card policies.
const (
	StalePolicySkip  = "skip"
	StalePolicyAbort = "abort"
)

type Config struct {
	Addr               string
	DBPath             string
	LogLevel           string
	LogFormat          string
	SessionSecret      string
	SessionTTL         time.Duration
	StaleCardPolicy    string
	LearningSteps      []time.Duration
	ImportWorkerCount  int
	ImportQueueSize    int
	ImportTopWords     int
	WikiLanguage       string
	TranslateURL       string
	TranslateTarget    string
	TranslateAPIKey    string
	CORSAllowedOrigins []string
	SecureCookies      bool
	RequestTimeout     time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", ":8080"),
		DBPath:             envOr("DB_PATH", "file:flashdeck.db"),
		LogLevel:           envOr("LOG_LEVEL", "INFO"),
		LogFormat:          envOr("LOG_FORMAT", "console"),
		SessionSecret:      envOr("SESSION_SECRET", DevSessionSecret),
		SessionTTL:         envDurationOr("SESSION_TTL", 12*time.Hour),
		StaleCardPolicy:    strings.ToLower(envOr("STALE_CARD_POLICY", StalePolicySkip)),
		LearningSteps:      envDurationsOr("LEARNING_STEPS", []time.Duration{time.Minute, 10 * time.Minute}),
		ImportWorkerCount:  envIntOr("IMPORT_WORKER_COUNT", 2),
		ImportQueueSize:    envIntOr("IMPORT_QUEUE_SIZE", 16),
		ImportTopWords:     envIntOr("IMPORT_TOP_WORDS", 100),
		WikiLanguage:       envOr("WIKI_LANGUAGE", "es"),
		TranslateURL:       envOr("TRANSLATE_URL", ""),
		TranslateTarget:    envOr("TRANSLATE_TARGET", "en"),
		TranslateAPIKey:    envOr("TRANSLATE_API_KEY", ""),
		CORSAllowedOrigins: envListOr("CORS_ALLOWED_ORIGINS", []string{"http://localhost:8080"}),
		SecureCookies:      envBoolOr("SECURE_COOKIES", false),
		RequestTimeout:     envDurationOr("REQUEST_TIMEOUT", 15*time.Second),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q must be console or json", c.LogFormat))
	}
	if len(c.SessionSecret) < 16 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 16 characters"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.StaleCardPolicy != StalePolicySkip && c.StaleCardPolicy != StalePolicyAbort {
		errs = append(errs, fmt.Errorf("STALE_CARD_POLICY %q must be skip or abort", c.StaleCardPolicy))
	}
	for _, d := range c.LearningSteps {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("LEARNING_STEPS contains non-positive step %v", d))
			break
		}
	}
	if c.ImportWorkerCount < 1 {
		errs = append(errs, errors.New("IMPORT_WORKER_COUNT must be at least 1"))
	}
	if c.ImportQueueSize < 1 {
		errs = append(errs, errors.New("IMPORT_QUEUE_SIZE must be at least 1"))
	}
	if c.ImportTopWords < 1 || c.ImportTopWords > 1000 {
		errs = append(errs, errors.New("IMPORT_TOP_WORDS must be between 1 and 1000"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.WikiLanguage == "" {
		errs = append(errs, errors.New("WIKI_LANGUAGE cannot be empty"))
	}
	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}

// envDurationsOr parses a comma separated list such as "1m,10m".
func envDurationsOr(key string, def []time.Duration) []time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []time.Duration
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := time.ParseDuration(part)
		if err != nil {
			log.Printf("invalid value for %s=%q, using default %v", key, v, def)
			return def
		}
		out = append(out, d)
	}
	return out
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
