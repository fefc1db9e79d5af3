package swarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageSetsIDAndTimestamp(t *testing.T) {
	m := NewMessage("hello")
	assert.NotEmpty(t, m.ID)
	assert.False(t, m.Timestamp.IsZero())
	assert.Equal(t, "hello", m.Content)
}

func TestMessageRoundTrip(t *testing.T) {
	original := NewMessage("do the thing")
	original.Sender = "Eric"
	original.Receiver = "Researcher"
	original.TaskID = "task-1"
	original.TokenUsage = 42
	original.Metadata = map[string]any{"source": "test"}

	restored := MessageFromMap(original.ToMap())

	require.Equal(t, original.ID, restored.ID)
	assert.Equal(t, original.Sender, restored.Sender)
	assert.Equal(t, original.Receiver, restored.Receiver)
	assert.Equal(t, original.TaskID, restored.TaskID)
	assert.Equal(t, original.TokenUsage, restored.TokenUsage)
	assert.Equal(t, original.Content, restored.Content)
	assert.WithinDuration(t, original.Timestamp, restored.Timestamp, 0)
}

func TestMessageFromMapAssignsFreshIDWhenAbsent(t *testing.T) {
	m := MessageFromMap(map[string]any{"sender": "user", "receiver": "Eric", "content": "hi"})
	assert.NotEmpty(t, m.ID)
	assert.False(t, m.Timestamp.IsZero())
}
