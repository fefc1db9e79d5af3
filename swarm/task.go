package swarm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// MaxIterations bounds how many non-user-addressed messages a task's
// pump loop may dispatch before giving up, so a looping agent
// conversation cannot run forever.
const MaxIterations = 50

// Task is a single conversation's cooperative scheduler: a FIFO pending
// queue, an append-only history, and a pump loop that hands each
// message to its receiver until the receiver is the reserved User
// sentinel.
type Task struct {
	ID          string
	Coordinator string

	mu      sync.RWMutex
	history []Message

	pending chan Message

	agents map[string]Agent

	iterations    int
	maxIterations int

	snapshotPath string
	metrics      *Metrics
}

// NewTask creates a task bound to the given agent set. coordinator is
// the name the initial user message is routed to.
func NewTask(id, coordinator string, agents map[string]Agent) *Task {
	return &Task{
		ID:            id,
		Coordinator:   coordinator,
		agents:        agents,
		pending:       make(chan Message, 64),
		maxIterations: MaxIterations,
	}
}

// WithSnapshot configures a path the task's history is atomically
// written to after each message, letting a crashed process resume a
// task from disk.
func (t *Task) WithSnapshot(path string) *Task {
	t.snapshotPath = path
	return t
}

// WithMetrics attaches an optional metrics sink. A nil metrics is safe.
func (t *Task) WithMetrics(m *Metrics) *Task {
	t.metrics = m
	return t
}

// History returns a snapshot of the task's message history so far.
func (t *Task) History() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Message, len(t.history))
	copy(out, t.history)
	return out
}

func (t *Task) appendHistory(m Message) {
	t.mu.Lock()
	t.history = append(t.history, m)
	t.mu.Unlock()
}

func (t *Task) enqueue(m Message) {
	m.TaskID = t.ID
	t.pending <- m
}

// Invoke starts the task from a user utterance and pumps messages
// until the conversation routes back to the user, an agent declines to
// reply, or the iteration ceiling is hit. The returned Message is
// always the conversation's terminal message: on failure its sender is
// System and its receiver is User.
func (t *Task) Invoke(ctx context.Context, userInput string) (Message, error) {
	initial := NewMessage(userInput)
	initial.Sender = User
	initial.Receiver = t.Coordinator
	t.enqueue(initial)
	return t.pump(ctx)
}

func (t *Task) pump(ctx context.Context) (Message, error) {
	for {
		if t.iterations >= t.maxIterations {
			timeoutErr := &SchedulerTimeoutError{TaskID: t.ID, Iterations: t.iterations}
			slog.Warn("task timed out", "task_id", t.ID, "iterations", t.iterations, "error", timeoutErr)
			return t.terminal(fmt.Sprintf("task timeout; processed %d messages", len(t.History())),
				map[string]any{"error": timeoutErr.Error()}), nil
		}

		var msg Message
		select {
		case <-ctx.Done():
			return t.terminal(fmt.Sprintf("task cancelled: %v", ctx.Err()),
				map[string]any{"error": ctx.Err().Error()}), nil
		case msg = <-t.pending:
		}

		t.appendHistory(msg)
		t.snapshot()

		if msg.Receiver == User {
			slog.Debug("task resolved", "task_id", t.ID, "iterations", t.iterations)
			return msg, nil
		}

		t.iterations++
		if t.metrics != nil {
			t.metrics.ObservePumpIteration()
		}

		agent, ok := t.agents[msg.Receiver]
		if !ok {
			t.routeSystemError(&RouteError{Receiver: msg.Receiver})
			continue
		}

		reply, err := agent.Invoke(ctx, t.History(), msg)
		if err != nil {
			t.routeSystemError(err)
			continue
		}
		if reply == nil {
			slog.Debug("task ended: agent declined to reply", "task_id", t.ID, "agent", msg.Receiver)
			return t.terminal(fmt.Sprintf("agent %q ended the conversation without a reply", msg.Receiver), nil), nil
		}
		t.enqueue(*reply)
	}
}

// terminal builds the system-sender, user-receiver message the pump
// returns when a conversation ends without a receiver == User message
// from an agent, and records it in history so it's visible to anyone
// reading the task's transcript back. metadata may be nil.
func (t *Task) terminal(content string, metadata map[string]any) Message {
	m := NewMessage(content)
	m.Sender = System
	m.Receiver = User
	m.TaskID = t.ID
	m.Metadata = metadata
	t.appendHistory(m)
	t.snapshot()
	return m
}

// routeSystemError synthesizes a system-sender message describing a
// pump-level failure and routes it back to the coordinator, so a
// misrouted message or a failed agent call surfaces in the
// conversation instead of silently killing the task.
func (t *Task) routeSystemError(err error) {
	errMsg := NewMessage(fmt.Sprintf("error: %v", err))
	errMsg.Sender = System
	errMsg.Receiver = t.Coordinator
	t.enqueue(errMsg)
}

// snapshot atomically persists the task's history to snapshotPath, if
// one was configured. Failures are logged, not returned: a snapshot
// write failure must never abort an in-flight conversation.
func (t *Task) snapshot() {
	if t.snapshotPath == "" {
		return
	}
	t.mu.RLock()
	maps := make([]map[string]any, len(t.history))
	for i, m := range t.history {
		maps[i] = m.ToMap()
	}
	t.mu.RUnlock()

	raw, err := json.MarshalIndent(maps, "", "  ")
	if err != nil {
		slog.Error("task: failed to marshal snapshot", "task_id", t.ID, "error", err)
		return
	}

	dir := filepath.Dir(t.snapshotPath)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		slog.Error("task: failed to create snapshot temp file", "task_id", t.ID, "error", err)
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		slog.Error("task: failed to write snapshot", "task_id", t.ID, "error", err)
		return
	}
	if err := tmp.Close(); err != nil {
		slog.Error("task: failed to close snapshot temp file", "task_id", t.ID, "error", err)
		return
	}
	if err := os.Rename(tmp.Name(), t.snapshotPath); err != nil {
		slog.Error("task: failed to rename snapshot into place", "task_id", t.ID, "error", err)
	}
}

// LoadHistory restores a task's history from a prior snapshot file, for
// resuming a task after a process restart.
func LoadHistory(path string) ([]Message, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var maps []map[string]any
	if err := json.Unmarshal(raw, &maps); err != nil {
		return nil, err
	}
	history := make([]Message, len(maps))
	for i, m := range maps {
		history[i] = MessageFromMap(m)
	}
	return history, nil
}
