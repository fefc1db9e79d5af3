package provider

import (
	"github.com/ericswarm/swarm/config"
	"github.com/ericswarm/swarm/provider/anthropic"
	"github.com/ericswarm/swarm/provider/bedrock"
	"github.com/ericswarm/swarm/provider/openai"
)

// New builds the Adapter for the given provider name. deepseek, zhipu,
// and google all speak the OpenAI-compatible chat-completion wire
// format, so they share the openai adapter pointed at a different base
// URL; only anthropic and bedrock need bespoke translation.
func New(cfg config.APIConfig) (Adapter, error) {
	switch cfg.Provider {
	case "openai", "deepseek", "zhipu", "google":
		return openai.New(cfg.APIKey, cfg.BaseURL), nil
	case "anthropic":
		return anthropic.New(cfg.APIKey), nil
	case "bedrock":
		return bedrock.New(cfg.Region)
	default:
		return nil, &UnsupportedModelError{Provider: cfg.Provider}
	}
}
