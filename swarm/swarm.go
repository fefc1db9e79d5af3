package swarm

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/ericswarm/swarm/card"
)

// Swarm is the process-wide façade: a roster of agent identities, the
// live agent handles bound to it, and the set of in-flight and
// completed tasks keyed by task id. It is the single entry point a
// caller (CLI, HTTP handler, test) uses to run a conversation.
type Swarm struct {
	Roster *Roster

	mu            sync.RWMutex
	agents        map[string]Agent
	tasks         map[string]*Task
	coordinator   string
	snapshotDir   string
	metrics       *Metrics
	maxIterations int
}

// New creates an empty Swarm. coordinator names the agent every task's
// first message is routed to, and the agent system error messages are
// routed back to.
func New(coordinator string) *Swarm {
	return &Swarm{
		Roster:        NewRoster(),
		agents:        make(map[string]Agent),
		tasks:         make(map[string]*Task),
		coordinator:   coordinator,
		maxIterations: MaxIterations,
	}
}

// WithSnapshotDir configures a directory each task's history is
// snapshotted into, named "<task-id>.json".
func (s *Swarm) WithSnapshotDir(dir string) *Swarm {
	s.snapshotDir = dir
	return s
}

// WithMetrics attaches an optional metrics sink shared by every task.
func (s *Swarm) WithMetrics(m *Metrics) *Swarm {
	s.metrics = m
	return s
}

// RegisterAgent adds an agent to both the roster (its public identity)
// and the live agent map (its invokable handle). A name already
// registered is replaced; see Roster.Register.
func (s *Swarm) RegisterAgent(agent Agent, c *card.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agents[agent.Name()] = agent
	s.Roster.Register(agent.Name(), Member{Card: c, Role: agent.Role()})
}

// UnregisterAgent removes an agent from both the roster and the live
// agent map.
func (s *Swarm) UnregisterAgent(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.agents[name]; !ok {
		return &UnknownAgentError{Name: name}
	}
	delete(s.agents, name)
	return s.Roster.Unregister(name)
}

// Invoke runs a user utterance through the swarm. If taskID is empty,
// a new task is created with a fresh id. If taskID names an existing
// task, the utterance is multiplexed onto that task's same pending
// queue and history rather than starting a new conversation — the
// swarm keys tasks by id for reuse, not by single-shot identity.
func (s *Swarm) Invoke(ctx context.Context, userInput string, taskID string) (Message, error) {
	task, err := s.taskFor(taskID)
	if err != nil {
		return Message{}, err
	}
	return task.Invoke(ctx, userInput)
}

func (s *Swarm) taskFor(taskID string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if taskID != "" {
		if existing, ok := s.tasks[taskID]; ok {
			return existing, nil
		}
	} else {
		taskID = uuid.NewString()
	}

	if _, ok := s.agents[s.coordinator]; !ok {
		return nil, &ConfigError{Detail: fmt.Sprintf("coordinator %q is not registered", s.coordinator)}
	}

	agentsCopy := make(map[string]Agent, len(s.agents))
	for name, agent := range s.agents {
		agentsCopy[name] = agent
	}

	task := NewTask(taskID, s.coordinator, agentsCopy)
	task.maxIterations = s.maxIterations
	if s.snapshotDir != "" {
		task.WithSnapshot(filepath.Join(s.snapshotDir, taskID+".json"))
	}
	task.WithMetrics(s.metrics)

	s.tasks[taskID] = task
	return task, nil
}

// Task returns the task registered under id, if any.
func (s *Swarm) Task(id string) (*Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	return t, ok
}
