// Package bedrock adapts the provider.Adapter contract to Amazon
// Bedrock's Converse API. Bedrock is not an OpenAI-compatible backend:
// its content blocks, system-prompt placement, and JSON-Schema dialect
// for tool input all differ, so this adapter does the translation the
// other two backends get for free.
package bedrock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go/document"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/ericswarm/swarm/provider"
)

// Adapter talks to Bedrock's Converse API.
type Adapter struct {
	client *bedrockruntime.Client
}

// New loads the default AWS credential chain for the given region and
// builds an Adapter.
func New(region string) (*Adapter, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, &provider.Error{Provider: "bedrock", Err: fmt.Errorf("load AWS config: %w", err)}
	}
	return &Adapter{client: bedrockruntime.NewFromConfig(cfg)}, nil
}

func (a *Adapter) Chat(ctx context.Context, req provider.ChatRequest) (*provider.Completion, error) {
	var system []types.SystemContentBlock
	var messages []types.Message
	for _, m := range req.Messages {
		switch m.Role {
		case provider.RoleSystem:
			system = append(system, &types.SystemContentBlockMemberText{Value: m.Content})
		case provider.RoleUser:
			messages = append(messages, types.Message{
				Role:    types.ConversationRoleUser,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: m.Content}},
			})
		case provider.RoleAssistant:
			messages = append(messages, assistantMessage(m))
		case provider.RoleTool:
			messages = append(messages, types.Message{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{&types.ContentBlockMemberToolResult{
					Value: types.ToolResultBlock{
						ToolUseId: aws.String(toolUseID(m)),
						Content:   []types.ToolResultContentBlock{&types.ToolResultContentBlockMemberText{Value: m.Content}},
					},
				}},
			})
		}
	}

	input := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(req.Model),
		Messages: messages,
		System:   system,
	}
	if req.MaxTokens > 0 || req.Temperature > 0 {
		cfg := &types.InferenceConfiguration{}
		if req.MaxTokens > 0 {
			cfg.MaxTokens = aws.Int32(int32(req.MaxTokens))
		}
		if req.Temperature > 0 {
			cfg.Temperature = aws.Float32(float32(req.Temperature))
		}
		input.InferenceConfig = cfg
	}
	if len(req.Tools) > 0 {
		tools, err := toBedrockTools(req.Tools)
		if err != nil {
			return nil, &provider.Error{Provider: "bedrock", Model: req.Model, Err: err}
		}
		input.ToolConfig = &types.ToolConfiguration{Tools: tools}
	}

	output, err := a.client.Converse(ctx, input)
	if err != nil {
		status := statusCodeOf(err)
		return nil, &provider.Error{
			Provider:   "bedrock",
			Model:      req.Model,
			StatusCode: status,
			Retriable:  isRetriableStatus(status),
			Err:        err,
		}
	}
	return toCompletion(output)
}

// statusCodeOf extracts the HTTP status code from an AWS SDK error, if
// the transport surfaced one. Non-HTTP failures (credential errors,
// context cancellation) yield 0.
func statusCodeOf(err error) int {
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode()
	}
	return 0
}

// isRetriableStatus reports whether a failure at the given HTTP status
// is worth a caller retrying: throttling and server-side errors, but
// not a well-formed client error like a bad request.
func isRetriableStatus(status int) bool {
	return status == 429 || status >= 500
}

func assistantMessage(m provider.ChatMessage) types.Message {
	var blocks []types.ContentBlock
	if m.Content != "" {
		blocks = append(blocks, &types.ContentBlockMemberText{Value: m.Content})
	}
	for _, tc := range m.ToolCalls {
		var input map[string]any
		_ = json.Unmarshal([]byte(tc.Arguments), &input)
		blocks = append(blocks, &types.ContentBlockMemberToolUse{
			Value: types.ToolUseBlock{
				ToolUseId: aws.String(toolCallID(tc)),
				Name:      aws.String(tc.Name),
				Input:     document.NewLazyDocument(input),
			},
		})
	}
	return types.Message{Role: types.ConversationRoleAssistant, Content: blocks}
}

func toBedrockTools(tools []map[string]any) ([]types.Tool, error) {
	out := make([]types.Tool, 0, len(tools))
	for _, t := range tools {
		fn, ok := t["function"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("bedrock: malformed tool declaration")
		}
		name, _ := fn["name"].(string)
		description, _ := fn["description"].(string)
		parameters, _ := fn["parameters"].(map[string]any)

		out = append(out, &types.ToolMemberToolSpec{
			Value: types.ToolSpecification{
				Name:        aws.String(name),
				Description: aws.String(description),
				InputSchema: &types.ToolInputSchemaMemberJson{
					Value: document.NewLazyDocument(translateSchemaTypes(parameters)),
				},
			},
		})
	}
	return out, nil
}

// translateSchemaTypes recursively rewrites a JSON-Schema map so every
// nested "properties"/"items" subtree is walked, matching Bedrock's
// stricter expectation that every object-typed node in the tree
// declares its own "properties" and "required" keys even when empty.
func translateSchemaTypes(schema map[string]any) map[string]any {
	if schema == nil {
		return map[string]any{"type": "object", "properties": map[string]any{}, "required": []string{}}
	}
	out := make(map[string]any, len(schema))
	for k, v := range schema {
		switch k {
		case "properties":
			props, _ := v.(map[string]any)
			translatedProps := make(map[string]any, len(props))
			for name, p := range props {
				if nested, ok := p.(map[string]any); ok {
					translatedProps[name] = translateSchemaTypes(nested)
				} else {
					translatedProps[name] = p
				}
			}
			out[k] = translatedProps
		case "items":
			if nested, ok := v.(map[string]any); ok {
				out[k] = translateSchemaTypes(nested)
			} else {
				out[k] = v
			}
		default:
			out[k] = v
		}
	}
	if out["type"] == "object" {
		if _, ok := out["properties"]; !ok {
			out["properties"] = map[string]any{}
		}
		if _, ok := out["required"]; !ok {
			out["required"] = []string{}
		}
	}
	return out
}

func toCompletion(output *bedrockruntime.ConverseOutput) (*provider.Completion, error) {
	completion := &provider.Completion{FinishReason: string(output.StopReason)}
	if output.Usage != nil {
		completion.TokensUsed = int(output.Usage.TotalTokens)
	}

	msgOutput, ok := output.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return completion, nil
	}
	for _, block := range msgOutput.Value.Content {
		switch variant := block.(type) {
		case *types.ContentBlockMemberText:
			completion.Content += variant.Value
		case *types.ContentBlockMemberToolUse:
			var args map[string]any
			_ = variant.Value.Input.UnmarshalSmithyDocument(&args)
			raw, _ := json.Marshal(args)
			id := aws.ToString(variant.Value.ToolUseId)
			if id == "" {
				id = syntheticCallID(aws.ToString(variant.Value.Name), raw)
			}
			completion.ToolCalls = append(completion.ToolCalls, provider.ToolCall{
				ID:        id,
				Name:      aws.ToString(variant.Value.Name),
				Arguments: string(raw),
			})
		}
	}
	return completion, nil
}

// toolUseID recovers the tool_use id a ToolCallID should carry back to
// Bedrock; it falls back to a synthetic id if the upstream caller never
// set one.
func toolUseID(m provider.ChatMessage) string {
	if m.ToolCallID != "" {
		return m.ToolCallID
	}
	return syntheticCallID(m.Name, []byte(m.Content))
}

func toolCallID(tc provider.ToolCall) string {
	if tc.ID != "" {
		return tc.ID
	}
	return syntheticCallID(tc.Name, []byte(tc.Arguments))
}

// syntheticCallID fabricates a stable tool-call id for backends that
// don't hand one back, so a later tool-result message can still be
// correlated with the call that produced it.
func syntheticCallID(functionName string, payload []byte) string {
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("call_%s_%s", functionName, hex.EncodeToString(sum[:])[:12])
}
