package swarm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericswarm/swarm/provider"
	"github.com/ericswarm/swarm/tool"
)

type scriptedAdapter struct {
	completions []*provider.Completion
	calls       int
}

func (a *scriptedAdapter) Chat(ctx context.Context, req provider.ChatRequest) (*provider.Completion, error) {
	c := a.completions[a.calls]
	a.calls++
	return c, nil
}

type echoTool struct{}

func (echoTool) Spec() tool.Spec {
	return tool.Spec{
		Name: "echo",
		Params: []tool.NamedParam{
			{Name: "text", Param: tool.Param{Type: tool.TypeString, Required: true}},
		},
	}
}

func (echoTool) Run(ctx context.Context, args map[string]any) (any, error) {
	return args["text"], nil
}

func TestRunToolLoopNoToolCalls(t *testing.T) {
	adapter := &scriptedAdapter{completions: []*provider.Completion{
		{Content: "hello there"},
	}}
	completion, _, err := runToolLoop(context.Background(), adapter, nil, provider.ChatRequest{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "hello there", completion.Content)
	assert.Equal(t, 1, adapter.calls)
}

func TestRunToolLoopExecutesToolAndFeedsResultBack(t *testing.T) {
	registry := tool.NewRegistry()
	require.NoError(t, registry.Register(echoTool{}))

	adapter := &scriptedAdapter{completions: []*provider.Completion{
		{ToolCalls: []provider.ToolCall{{ID: "call_1", Name: "echo", Arguments: `{"text":"hi"}`}}},
		{Content: "the tool said: hi"},
	}}

	completion, messages, err := runToolLoop(context.Background(), adapter, registry, provider.ChatRequest{}, DefaultMaxFunctionCalls)
	require.NoError(t, err)
	assert.Equal(t, "the tool said: hi", completion.Content)
	assert.Equal(t, 2, adapter.calls)

	var sawToolResult bool
	for _, m := range messages {
		if m.Role == provider.RoleTool && m.ToolCallID == "call_1" {
			sawToolResult = true
			assert.Contains(t, m.Content, "hi")
		}
	}
	assert.True(t, sawToolResult)
}

func TestRunToolLoopStopsAtMaxCalls(t *testing.T) {
	registry := tool.NewRegistry()
	require.NoError(t, registry.Register(echoTool{}))

	call := provider.ToolCall{ID: "call_1", Name: "echo", Arguments: `{"text":"again"}`}
	adapter := &scriptedAdapter{completions: []*provider.Completion{
		{ToolCalls: []provider.ToolCall{call}},
		{ToolCalls: []provider.ToolCall{call}},
	}}

	completion, _, err := runToolLoop(context.Background(), adapter, registry, provider.ChatRequest{}, 1)
	require.Error(t, err)
	assert.Nil(t, completion)
	assert.Equal(t, 2, adapter.calls)

	var limitErr *ToolCallLimitError
	require.ErrorAs(t, err, &limitErr)
	require.NotNil(t, limitErr.LastResponse)
	assert.Equal(t, call.ID, limitErr.LastResponse.ToolCalls[0].ID)
}

func TestExecuteToolCallUnknownTool(t *testing.T) {
	registry := tool.NewRegistry()
	out := executeToolCall(context.Background(), registry, provider.ToolCall{Name: "ghost"})
	assert.Contains(t, out, "error:")
	assert.Contains(t, out, "ghost")
}

func TestExecuteToolCallInvalidArguments(t *testing.T) {
	registry := tool.NewRegistry()
	require.NoError(t, registry.Register(echoTool{}))

	out := executeToolCall(context.Background(), registry, provider.ToolCall{Name: "echo", Arguments: `{}`})
	assert.Contains(t, out, "error:")
}
