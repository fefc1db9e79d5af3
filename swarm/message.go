// Package swarm implements the cooperative message-pump scheduler that
// routes Messages between named Agents until a task resolves to the user
// sentinel.
package swarm

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// User is the reserved receiver that terminates a task when dequeued.
const User = "user"

// System is the reserved sender used for scheduler-synthesized messages.
const System = "system"

// Message is an immutable envelope for one turn of conversation. Messages
// are created by an initiator (the user, an agent, or the pump's error
// synthesizer), enqueued, and never mutated after construction.
type Message struct {
	ID           string
	Timestamp    time.Time
	Sender       string
	Receiver     string
	NextReceiver string
	Content      any
	TaskID       string
	TokenUsage   int
	Metadata     map[string]any
}

// NewMessage constructs a Message. Only Content is required; sender,
// receiver, and other fields default to the zero value and may be set by
// the caller before the message is handed to a Task.
func NewMessage(content any) Message {
	return Message{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Content:   content,
		Metadata:  map[string]any{},
	}
}

// String renders a message for logs, grounded on the original agent
// message's debug repr.
func (m Message) String() string {
	return fmt.Sprintf(
		"Message{id=%s sender=%q receiver=%q next=%q task=%s tokens=%d content=%v}",
		m.ID, m.Sender, m.Receiver, m.NextReceiver, m.TaskID, m.TokenUsage, m.Content,
	)
}

// ToMap produces a canonical mapping suitable for JSON persistence.
func (m Message) ToMap() map[string]any {
	out := map[string]any{
		"message_id":    m.ID,
		"timestamp":     m.Timestamp.Format(time.RFC3339Nano),
		"sender":        m.Sender,
		"receiver":      m.Receiver,
		"next_receiver": m.NextReceiver,
		"content":       m.Content,
		"task_id":       m.TaskID,
		"token_usage":   m.TokenUsage,
		"metadata":      m.Metadata,
	}
	return out
}

// MessageFromMap reconstructs a Message from its canonical mapping,
// preserving id and timestamp when present.
func MessageFromMap(data map[string]any) Message {
	m := Message{
		Sender:       stringField(data, "sender"),
		Receiver:     stringField(data, "receiver"),
		NextReceiver: stringField(data, "next_receiver"),
		Content:      data["content"],
		TaskID:       stringField(data, "task_id"),
	}

	if id, ok := data["message_id"].(string); ok && id != "" {
		m.ID = id
	} else {
		m.ID = uuid.NewString()
	}

	if ts, ok := data["timestamp"].(string); ok && ts != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			m.Timestamp = parsed
		}
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}

	if tu, ok := data["token_usage"].(int); ok {
		m.TokenUsage = tu
	} else if tu, ok := data["token_usage"].(float64); ok {
		m.TokenUsage = int(tu)
	}

	if meta, ok := data["metadata"].(map[string]any); ok {
		m.Metadata = meta
	} else {
		m.Metadata = map[string]any{}
	}

	return m
}

func stringField(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
