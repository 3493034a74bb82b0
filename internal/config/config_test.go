package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:              ":8080",
		DBPath:            "test.db",
		LogLevel:          "INFO",
		LogFormat:         "console",
		SessionSecret:     "0123456789abcdef",
		SessionTTL:        time.Hour,
		StaleCardPolicy:   config.StalePolicySkip,
		LearningSteps:     []time.Duration{time.Minute, 10 * time.Minute},
		ImportWorkerCount: 2,
		ImportQueueSize:   16,
		ImportTopWords:    100,
		WikiLanguage:      "es",
		RequestTimeout:    15 * time.Second,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_StaleCardPolicy(t *testing.T) {
	tests := []struct {
		policy string
		valid  bool
	}{
		{config.StalePolicySkip, true},
		{config.StalePolicyAbort, true},
		{"retry", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			cfg := validConfig()
			cfg.StaleCardPolicy = tt.policy

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, "STALE_CARD_POLICY")
			}
		})
	}
}

func TestValidate_EmptyLearningStepsAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.LearningSteps = nil

	assert.NoError(t, cfg.Validate())
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{
		LogLevel:        "INVALID",
		LogFormat:       "xml",
		StaleCardPolicy: "skip",
		LearningSteps:   []time.Duration{-time.Minute},
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "LOG_FORMAT")
	assert.Contains(t, errStr, "SESSION_SECRET")
	assert.Contains(t, errStr, "SESSION_TTL")
	assert.Contains(t, errStr, "LEARNING_STEPS")
	assert.Contains(t, errStr, "IMPORT_WORKER_COUNT")
	assert.Contains(t, errStr, "IMPORT_QUEUE_SIZE")
	assert.Contains(t, errStr, "IMPORT_TOP_WORDS")
	assert.Contains(t, errStr, "WIKI_LANGUAGE")
	assert.Contains(t, errStr, "REQUEST_TIMEOUT")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("LEARNING_STEPS", "30s, 5m")
	t.Setenv("STALE_CARD_POLICY", "ABORT")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("IMPORT_TOP_WORDS", "not-a-number")
	t.Setenv("SECURE_COOKIES", "true")
	t.Setenv("REQUEST_TIMEOUT", "3s")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, []time.Duration{30 * time.Second, 5 * time.Minute}, cfg.LearningSteps)
	assert.Equal(t, config.StalePolicyAbort, cfg.StaleCardPolicy)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 100, cfg.ImportTopWords)
	assert.True(t, cfg.SecureCookies)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
}
