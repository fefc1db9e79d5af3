package swarm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ericswarm/swarm/provider"
	"github.com/ericswarm/swarm/tool"
)

// DefaultMaxFunctionCalls bounds how many tool-call round trips a
// single agent invocation may take before the loop stops with a
// ToolCallLimitError.
const DefaultMaxFunctionCalls = 10

// runToolLoop drives the alternating completion/tool-execution cycle:
// request a completion, and if the model asks for tool calls, execute
// each one against registry and feed the results back as tool-role
// messages, repeating until the model stops requesting tools. If the
// model still requests tools on completion maxCalls+1, the loop returns
// a ToolCallLimitError carrying that completion instead.
func runToolLoop(ctx context.Context, adapter provider.Adapter, registry *tool.Registry, req provider.ChatRequest, maxCalls int) (*provider.Completion, []provider.ChatMessage, error) {
	if maxCalls <= 0 {
		maxCalls = DefaultMaxFunctionCalls
	}
	messages := append([]provider.ChatMessage(nil), req.Messages...)

	var last *provider.Completion
	for call := 0; call <= maxCalls; call++ {
		attempt := req
		attempt.Messages = messages

		completion, err := adapter.Chat(ctx, attempt)
		if err != nil {
			return nil, messages, err
		}
		last = completion

		if len(completion.ToolCalls) == 0 {
			break
		}
		if call == maxCalls {
			return nil, messages, &ToolCallLimitError{LastResponse: completion}
		}

		messages = append(messages, provider.ChatMessage{
			Role:      provider.RoleAssistant,
			Content:   completion.Content,
			ToolCalls: completion.ToolCalls,
		})

		for _, tc := range completion.ToolCalls {
			result := executeToolCall(ctx, registry, tc)
			messages = append(messages, provider.ChatMessage{
				Role:       provider.RoleTool,
				Content:    result,
				Name:       tc.Name,
				ToolCallID: tc.ID,
			})
		}
	}

	return last, messages, nil
}

// executeToolCall parses a tool call's JSON arguments, validates and
// runs it against the registry, and renders either its result or an
// "error: ..." string as the tool-role message the model sees next.
// Failures stay within the loop rather than aborting it so the model
// can react to the error on its next turn.
func executeToolCall(ctx context.Context, registry *tool.Registry, tc provider.ToolCall) string {
	if registry == nil {
		return fmt.Sprintf("error: no tools are available to call %q", tc.Name)
	}
	t, ok := registry.Get(tc.Name)
	if !ok {
		return fmt.Sprintf("error: no such tool %q", tc.Name)
	}

	var args map[string]any
	if tc.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
			return fmt.Sprintf("error: %v", &ToolError{ToolName: tc.Name, CallID: tc.ID, Err: fmt.Errorf("parse arguments: %w", err)})
		}
	}

	if err := t.Spec().ValidateArgs(args); err != nil {
		return fmt.Sprintf("error: %v", &ToolError{ToolName: tc.Name, CallID: tc.ID, Err: fmt.Errorf("invalid arguments: %w", err)})
	}

	result, err := t.Run(ctx, args)
	if err != nil {
		return fmt.Sprintf("error: %v", &ToolError{ToolName: tc.Name, CallID: tc.ID, Err: err})
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("%v", result)
	}
	return string(raw)
}
