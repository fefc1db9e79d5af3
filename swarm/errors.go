package swarm

import (
	"fmt"

	"github.com/ericswarm/swarm/provider"
)

// ConfigError reports a malformed or missing configuration value
// discovered while building an agent or task.
type ConfigError struct {
	Detail string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("swarm: config error: %s", e.Detail) }

// ToolError wraps a failure raised by a tool's Run method, preserving
// which tool and call produced it so the tool-call loop can render it
// into a tool-role message instead of aborting the task.
type ToolError struct {
	ToolName string
	CallID   string
	Err      error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("swarm: tool %q (call %s) failed: %v", e.ToolName, e.CallID, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// AgentOutputError reports an agent that returned a value the pump
// cannot route: content that is not valid JSON, or JSON with an empty
// or missing receiver. A receiver absent from the roster is reported by
// the pump as a RouteError instead.
type AgentOutputError struct {
	Agent  string
	Detail string
}

func (e *AgentOutputError) Error() string {
	return fmt.Sprintf("swarm: agent %q produced unroutable output: %s", e.Agent, e.Detail)
}

// ToolCallLimitError reports that an agent's tool-call loop hit its
// round-trip cap (DefaultMaxFunctionCalls, or an agent's configured
// override) while the model still wanted to call more tools.
// LastResponse is the final completion the loop received, preserved so
// the coordinator can see what the agent was doing when it was cut off.
type ToolCallLimitError struct {
	LastResponse *provider.Completion
}

func (e *ToolCallLimitError) Error() string {
	return "tool-call limit reached"
}

// SchedulerTimeoutError reports a task that exhausted its iteration
// budget without reaching a user-receiver termination.
type SchedulerTimeoutError struct {
	TaskID     string
	Iterations int
}

func (e *SchedulerTimeoutError) Error() string {
	return fmt.Sprintf("swarm: task %s reached its limit of %d iterations without resolving", e.TaskID, e.Iterations)
}

// RouteError reports a message addressed to a name absent from the
// roster.
type RouteError struct {
	Receiver string
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("swarm: no agent registered as %q", e.Receiver)
}

// UnknownAgentError reports an attempt to unregister an agent name the
// roster or swarm does not hold.
type UnknownAgentError struct {
	Name string
}

func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("swarm: unknown agent %q", e.Name)
}
