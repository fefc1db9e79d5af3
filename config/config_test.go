package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingKeyReturnsMissingKeyError(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := Load("openai")
	require.Error(t, err)
	var missing *MissingKeyError
	assert.ErrorAs(t, err, &missing)
}

func TestLoadReturnsConfiguredKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err := Load("openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.APIKey)
}

func TestLoadUnknownProvider(t *testing.T) {
	_, err := Load("carrier-pigeon")
	require.Error(t, err)
}

func TestLoadBedrockNeverRequiresAPIKey(t *testing.T) {
	t.Setenv("AWS_REGION", "us-west-2")
	cfg, err := Load("bedrock")
	require.NoError(t, err)
	assert.Equal(t, "us-west-2", cfg.Region)
}

func TestLoadDeepseekDefaultsBaseURL(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "dk-test")
	cfg, err := Load("deepseek")
	require.NoError(t, err)
	assert.Equal(t, "https://api.deepseek.com/v1", cfg.BaseURL)
}

func TestLoadDefaultsTimeout(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err := Load("openai")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestLoadReadsTimeoutFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DEFAULT_TIMEOUT", "15")
	cfg, err := Load("openai")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
}

func TestLoadIgnoresInvalidTimeout(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DEFAULT_TIMEOUT", "not-a-number")
	cfg, err := Load("openai")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestLoadBedrockReadsTimeoutFromEnv(t *testing.T) {
	t.Setenv("DEFAULT_TIMEOUT", "30")
	cfg, err := Load("bedrock")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLogLevelDefaultsToInfo(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	assert.Equal(t, slog.LevelInfo, LogLevel())
}

func TestLogLevelReadsDebug(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	assert.Equal(t, slog.LevelDebug, LogLevel())
}

func TestLogLevelReadsWarnAndError(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	assert.Equal(t, slog.LevelWarn, LogLevel())

	t.Setenv("LOG_LEVEL", "error")
	assert.Equal(t, slog.LevelError, LogLevel())
}
