package swarm

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ericswarm/swarm/card"
)

// Member pairs an agent's card with the live handle the roster hands
// back to callers needing its identity without its tool-call internals.
type Member struct {
	Card *card.Card
	Role string
}

// Roster is the process-wide directory of agent identities. It is
// insertion-ordered: registering a name a second time replaces the
// member and logs a warning but keeps its original position, matching
// the original multi-agent roster's replace-in-place semantics.
type Roster struct {
	mu      sync.RWMutex
	order   []string
	members map[string]Member
}

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{members: make(map[string]Member)}
}

// Register adds or replaces a member by name.
func (r *Roster) Register(name string, m Member) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.members[name]; exists {
		slog.Warn("roster: replacing existing agent registration", "name", name)
	} else {
		r.order = append(r.order, name)
	}
	r.members[name] = m
}

// Unregister removes a member by name.
func (r *Roster) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.members[name]; !exists {
		return &UnknownAgentError{Name: name}
	}
	delete(r.members, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get looks up a member by name.
func (r *Roster) Get(name string) (Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[name]
	return m, ok
}

// Names returns registered agent names in registration order.
func (r *Roster) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// DirectoryPrompt renders the roster as a directory an agent's routing
// instructions can embed, listing every member's name, role, and
// description in registration order.
func (r *Roster) DirectoryPrompt() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var b strings.Builder
	b.WriteString("Available agents:\n")
	for _, name := range r.order {
		m := r.members[name]
		description := ""
		if m.Card != nil {
			description = m.Card.Description
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", name, m.Role, description)
	}
	return b.String()
}

// Stats reports how many agents are registered per role.
func (r *Roster) Stats() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := make(map[string]int)
	for _, m := range r.members {
		stats[m.Role]++
	}
	return stats
}

// ByRole returns the names of every agent registered under the given
// role, in registration order.
func (r *Roster) ByRole(role string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, name := range r.order {
		if r.members[name].Role == role {
			out = append(out, name)
		}
	}
	return out
}

// Coordinator returns the name of the first agent registered with the
// "coordinator" role. Ok is false if no coordinator is registered. A
// task's first message is routed to the name given to New, not to this
// lookup.
func (r *Roster) Coordinator() (string, bool) {
	names := r.ByRole("coordinator")
	if len(names) == 0 {
		return "", false
	}
	return names[0], true
}
