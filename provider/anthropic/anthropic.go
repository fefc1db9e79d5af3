// Package anthropic adapts the provider.Adapter contract to Anthropic's
// native Messages API, translating the uniform role taxonomy into
// Anthropic's system-prompt-plus-user/assistant-turn shape and content
// blocks.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ericswarm/swarm/provider"
)

// Adapter talks to the Anthropic Messages API.
type Adapter struct {
	client sdk.Client
	model  string
}

// New builds an Adapter for the given API key. Model selection happens
// per-request via ChatRequest.Model.
func New(apiKey string) *Adapter {
	return &Adapter{client: sdk.NewClient(option.WithAPIKey(apiKey))}
}

func (a *Adapter) Chat(ctx context.Context, req provider.ChatRequest) (*provider.Completion, error) {
	var systemParts []string
	var messages []sdk.MessageParam
	for _, m := range req.Messages {
		switch m.Role {
		case provider.RoleSystem:
			systemParts = append(systemParts, m.Content)
		case provider.RoleUser:
			messages = append(messages, sdk.NewUserMessage(sdk.NewTextBlock(m.Content)))
		case provider.RoleAssistant:
			messages = append(messages, assistantMessage(m))
		case provider.RoleTool:
			messages = append(messages, sdk.NewUserMessage(
				sdk.NewToolResultBlock(m.ToolCallID, m.Content, false),
			))
		}
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(req.Model),
		MaxTokens: int64(maxTokens),
		Messages:  messages,
	}
	if len(systemParts) > 0 {
		params.System = []sdk.TextBlockParam{{Text: strings.Join(systemParts, "\n\n")}}
	}
	for _, t := range req.Tools {
		toolParam, err := toAnthropicTool(t)
		if err != nil {
			return nil, &provider.Error{Provider: "anthropic", Model: req.Model, Err: err}
		}
		params.Tools = append(params.Tools, sdk.ToolUnionParamOfTool(toolParam))
	}

	message, err := a.client.Messages.New(ctx, params)
	if err != nil {
		status := statusCodeOf(err)
		return nil, &provider.Error{
			Provider:   "anthropic",
			Model:      req.Model,
			StatusCode: status,
			Retriable:  isRetriableStatus(status),
			Err:        err,
		}
	}

	completion := &provider.Completion{
		FinishReason: string(message.StopReason),
		TokensUsed:   int(message.Usage.OutputTokens + message.Usage.InputTokens),
	}
	for _, block := range message.Content {
		switch variant := block.AsAny().(type) {
		case sdk.TextBlock:
			completion.Content += variant.Text
		case sdk.ToolUseBlock:
			completion.ToolCalls = append(completion.ToolCalls, provider.ToolCall{
				ID:        variant.ID,
				Name:      variant.Name,
				Arguments: string(variant.Input),
			})
		}
	}
	return completion, nil
}

func assistantMessage(m provider.ChatMessage) sdk.MessageParam {
	var blocks []sdk.ContentBlockParamUnion
	if m.Content != "" {
		blocks = append(blocks, sdk.NewTextBlock(m.Content))
	}
	for _, tc := range m.ToolCalls {
		var input map[string]any
		_ = json.Unmarshal([]byte(tc.Arguments), &input)
		blocks = append(blocks, sdk.NewToolUseBlock(tc.ID, input, tc.Name))
	}
	return sdk.NewAssistantMessage(blocks...)
}

func toAnthropicTool(t map[string]any) (sdk.ToolParam, error) {
	fn, ok := t["function"].(map[string]any)
	if !ok {
		return sdk.ToolParam{}, fmt.Errorf("anthropic: malformed tool declaration")
	}
	name, _ := fn["name"].(string)
	description, _ := fn["description"].(string)
	parameters, _ := fn["parameters"].(map[string]any)

	properties, _ := parameters["properties"].(map[string]any)
	var required []string
	if rs, ok := parameters["required"].([]string); ok {
		required = append(required, rs...)
	}

	return sdk.ToolParam{
		Name:        name,
		Description: sdk.String(description),
		InputSchema: sdk.ToolInputSchemaParam{
			Properties: properties,
			Required:   required,
		},
	}, nil
}

// statusCodeOf extracts the HTTP status code from an Anthropic SDK
// error, if it carries one. Network errors and the like yield 0.
func statusCodeOf(err error) int {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
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
