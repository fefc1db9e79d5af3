// Package config loads provider API credentials and connection settings
// from the environment, following a .env-then-os.Environ precedence.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultTimeout is the provider request timeout used when
// DEFAULT_TIMEOUT is unset or unparseable.
const DefaultTimeout = 60 * time.Second

// APIConfig is the connection configuration for one provider backend.
type APIConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
	Region   string
	Timeout  time.Duration
}

// MissingKeyError is returned when a provider's required API key
// environment variable is unset.
type MissingKeyError struct {
	Provider string
	EnvVar   string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("config: %s requires environment variable %s", e.Provider, e.EnvVar)
}

var envVarByProvider = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"deepseek":  "DEEPSEEK_API_KEY",
	"zhipu":     "ZHIPU_API_KEY",
	"google":    "GOOGLE_API_KEY",
}

var baseURLByProvider = map[string]string{
	"deepseek": "https://api.deepseek.com/v1",
	"zhipu":    "https://open.bigmodel.cn/api/paas/v4",
	"google":   "https://generativelanguage.googleapis.com/v1beta/openai",
}

// loadDotenv loads a .env file into the process environment if present.
// A missing .env is not an error; godotenv.Load already treats it as one,
// so the failure is swallowed deliberately here.
func loadDotenv() {
	_ = godotenv.Load()
}

// Load resolves an APIConfig for the named provider from the
// environment. bedrock uses the AWS SDK's own credential chain and has
// no required key of its own, so it never returns MissingKeyError.
func Load(providerName string) (APIConfig, error) {
	loadDotenv()

	cfg := APIConfig{
		Provider: providerName,
		BaseURL:  baseURLByProvider[providerName],
		Timeout:  timeoutFromEnv(),
	}

	if providerName == "bedrock" {
		cfg.Region = os.Getenv("AWS_REGION")
		if cfg.Region == "" {
			cfg.Region = "us-east-1"
		}
		return cfg, nil
	}

	envVar, known := envVarByProvider[providerName]
	if !known {
		return APIConfig{}, fmt.Errorf("config: unknown provider %q", providerName)
	}
	cfg.APIKey = os.Getenv(envVar)
	if cfg.APIKey == "" {
		return APIConfig{}, &MissingKeyError{Provider: providerName, EnvVar: envVar}
	}

	if override := os.Getenv(fmt.Sprintf("%s_BASE_URL", envVarPrefix(providerName))); override != "" {
		cfg.BaseURL = override
	}
	return cfg, nil
}

func envVarPrefix(providerName string) string {
	out := make([]byte, 0, len(providerName))
	for _, r := range providerName {
		if r >= 'a' && r <= 'z' {
			r -= 32
		}
		out = append(out, byte(r))
	}
	return string(out)
}

// timeoutFromEnv reads DEFAULT_TIMEOUT as a whole number of seconds,
// falling back to DefaultTimeout when it is unset, non-numeric, or not
// positive.
func timeoutFromEnv() time.Duration {
	raw := os.Getenv("DEFAULT_TIMEOUT")
	if raw == "" {
		return DefaultTimeout
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(seconds) * time.Second
}

// LogLevel resolves the process-wide default slog level from LOG_LEVEL
// (debug, info, warn, error; case-insensitive), defaulting to Info when
// unset or unrecognized.
func LogLevel() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
