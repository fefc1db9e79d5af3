package swarm

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"reflect"

	"github.com/ericswarm/swarm/card"
	"github.com/ericswarm/swarm/provider"
	"github.com/ericswarm/swarm/tool"
)

// Agent is the contract the pump invokes: given the task's history and
// the message just routed to it, produce the next message, or nil to
// end the task without a reply (the "agent returns nil" termination
// condition).
type Agent interface {
	Name() string
	Role() string
	Invoke(ctx context.Context, history []Message, incoming Message) (*Message, error)
}

// AgentBase is the common substrate every concrete agent embeds: a
// persona loaded from a card and prompt templates, sampling
// parameters, the tool registry it may call, and the provider adapter
// it talks to.
type AgentBase struct {
	AgentName string
	Card      *card.Card
	Prompts   *card.Prompts
	Model     string
	Adapter   provider.Adapter
	Tools     *tool.Registry
	Roster    *Roster

	MaxFunctionCalls int
	Temperature      float64
	MaxTokens        int
}

func (a *AgentBase) Name() string { return a.AgentName }

func (a *AgentBase) Role() string {
	if a.Card == nil {
		return ""
	}
	return a.Card.Role
}

// ResolvePersona loads a concrete agent's card and prompt templates
// from baseDir, deriving the filename stem from the struct's own type
// name: a BrowserOperator resolves browser_operator.yaml and
// browser_operator_prompt.yaml.
func ResolvePersona(baseDir string, agent any) (*card.Card, *card.Prompts, error) {
	t := reflect.TypeOf(agent)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	stem := card.CamelToSnake(t.Name())

	c, err := card.Load(filepath.Join(baseDir, stem+".yaml"))
	if err != nil {
		return nil, nil, err
	}
	p, err := card.LoadPrompts(filepath.Join(baseDir, stem+"_prompt.yaml"))
	if err != nil {
		return nil, nil, err
	}
	return c, p, nil
}

// SystemPrompt renders the agent's full system message: its card
// persona, its system prompt template with placeholder values
// substituted, and the roster directory so it can address other
// agents by name.
func (a *AgentBase) SystemPrompt(values map[string]string) string {
	out := ""
	if a.Card != nil {
		out = a.Card.Prompt() + "\n\n"
	}
	if a.Prompts != nil {
		out += a.Prompts.System.Format(values) + "\n\n"
	}
	if a.Roster != nil {
		out += a.Roster.DirectoryPrompt()
	}
	return out
}

// Invoke runs the tool-call loop against the incoming message and the
// task's accumulated history, returning the next message to enqueue. A
// nil result with a nil error (an empty final completion) tells the
// pump this agent has nothing further to say, and the pump ends the
// task.
func (a *AgentBase) Invoke(ctx context.Context, history []Message, incoming Message) (*Message, error) {
	if a.Adapter == nil {
		return nil, &ConfigError{Detail: fmt.Sprintf("agent %q has no provider adapter configured", a.AgentName)}
	}

	messages := []provider.ChatMessage{{Role: provider.RoleSystem, Content: a.SystemPrompt(nil)}}
	for _, h := range history {
		messages = append(messages, historyToChatMessage(h, a.AgentName))
	}
	messages = append(messages, historyToChatMessage(incoming, a.AgentName))

	req := provider.ChatRequest{
		Model:       a.Model,
		Messages:    messages,
		MaxTokens:   a.MaxTokens,
		Temperature: a.Temperature,
	}
	if a.Tools != nil {
		req.Tools = a.Tools.Schemas()
	}

	completion, _, err := runToolLoop(ctx, a.Adapter, a.Tools, req, a.MaxFunctionCalls)
	if err != nil {
		return nil, err
	}
	if completion == nil || completion.Content == "" {
		return nil, nil
	}

	out, err := decodeAgentOutput(a.AgentName, completion.Content)
	if err != nil {
		return nil, err
	}

	reply := NewMessage(out.Content)
	reply.Sender = a.AgentName
	reply.Receiver = out.Receiver
	reply.NextReceiver = out.NextReceiver
	reply.TaskID = incoming.TaskID
	reply.TokenUsage = completion.TokensUsed
	return &reply, nil
}

// historyToChatMessage projects a swarm Message onto the uniform
// provider chat-message shape. A message this agent itself sent is an
// assistant turn; every other message (from the user or from a peer
// agent) is a user turn, matching the original's single-assistant,
// everything-else-is-input simplification.
func historyToChatMessage(m Message, selfName string) provider.ChatMessage {
	role := provider.RoleUser
	if m.Sender == selfName {
		role = provider.RoleAssistant
	}
	return provider.ChatMessage{Role: role, Content: fmt.Sprintf("%v", m.Content)}
}

// agentOutput is the JSON shape a completion's content must decode
// into: the addressee of the reply, the reply's own content, and an
// optional hint for who should receive the message after that.
type agentOutput struct {
	Receiver     string `json:"receiver"`
	Content      string `json:"content"`
	NextReceiver string `json:"next_receiver"`
}

// decodeAgentOutput parses a completion's content as the agent output
// contract. A completion that isn't valid JSON, or that omits
// "receiver", is an unroutable output the pump must treat as an agent
// exception rather than silently forward.
func decodeAgentOutput(agentName, raw string) (agentOutput, error) {
	var out agentOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return agentOutput{}, &AgentOutputError{Agent: agentName, Detail: fmt.Sprintf("not valid JSON: %v", err)}
	}
	if out.Receiver == "" {
		return agentOutput{}, &AgentOutputError{Agent: agentName, Detail: `missing "receiver" field`}
	}
	return out, nil
}
