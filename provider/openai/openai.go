// Package openai adapts the provider.Adapter contract to the
// OpenAI-compatible chat-completion wire format shared by OpenAI,
// DeepSeek, Zhipu, and Google's OpenAI-compatibility endpoint.
package openai

import (
	"context"
	"errors"
	"fmt"

	sdk "github.com/sashabaranov/go-openai"

	"github.com/ericswarm/swarm/provider"
)

// Adapter talks to any OpenAI-compatible chat-completion endpoint.
type Adapter struct {
	client *sdk.Client
}

// New builds an Adapter. An empty baseURL uses OpenAI's own endpoint;
// a non-empty one points the client at a compatible endpoint instead
// (DeepSeek, Zhipu, Google).
func New(apiKey, baseURL string) *Adapter {
	cfg := sdk.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Adapter{client: sdk.NewClientWithConfig(cfg)}
}

func (a *Adapter) Chat(ctx context.Context, req provider.ChatRequest) (*provider.Completion, error) {
	messages := make([]sdk.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, toSDKMessage(m))
	}

	var tools []sdk.Tool
	for _, t := range req.Tools {
		fn, _ := t["function"].(map[string]any)
		tools = append(tools, sdk.Tool{
			Type: sdk.ToolTypeFunction,
			Function: &sdk.FunctionDefinition{
				Name:        stringOf(fn["name"]),
				Description: stringOf(fn["description"]),
				Parameters:  fn["parameters"],
			},
		})
	}

	resp, err := a.client.CreateChatCompletion(ctx, sdk.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Tools:       tools,
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		status := statusCodeOf(err)
		return nil, &provider.Error{
			Provider:   "openai",
			Model:      req.Model,
			StatusCode: status,
			Retriable:  isRetriableStatus(status),
			Err:        err,
		}
	}
	if len(resp.Choices) == 0 {
		return nil, &provider.Error{Provider: "openai", Model: req.Model, Err: fmt.Errorf("no choices returned")}
	}

	choice := resp.Choices[0]
	completion := &provider.Completion{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		TokensUsed:   resp.Usage.TotalTokens,
	}
	for _, tc := range choice.Message.ToolCalls {
		completion.ToolCalls = append(completion.ToolCalls, provider.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return completion, nil
}

func toSDKMessage(m provider.ChatMessage) sdk.ChatCompletionMessage {
	out := sdk.ChatCompletionMessage{
		Role:       string(m.Role),
		Content:    m.Content,
		Name:       m.Name,
		ToolCallID: m.ToolCallID,
	}
	for _, tc := range m.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, sdk.ToolCall{
			ID:   tc.ID,
			Type: sdk.ToolTypeFunction,
			Function: sdk.FunctionCall{
				Name:      tc.Name,
				Arguments: tc.Arguments,
			},
		})
	}
	return out
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}

// statusCodeOf extracts the HTTP status code from a go-openai SDK
// error, if it carries one. Network errors and the like yield 0.
func statusCodeOf(err error) int {
	var apiErr *sdk.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *sdk.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// isRetriableStatus reports whether a failure at the given HTTP status
// is worth a caller retrying: rate limiting and server-side errors,
// but not a well-formed client error like a bad request or an
// unauthorized key.
func isRetriableStatus(status int) bool {
	return status == 429 || status >= 500
}
