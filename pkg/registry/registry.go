// Package registry implements the AgentRegistry: a named lookup of the
// agents a server instance hosts, each pairing its protocol-visible
// AgentCard with the Runner and opaque agent handle message/send and
// message/stream dispatch against.
package registry

import (
	"sync"

	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/runner"
)

// Entry is one registered agent: its public card, an optional extended
// card (for agent/extendedCard), and the Runner/Agent pair that executes
// its tasks.
type Entry struct {
	Card         *a2a.AgentCard
	ExtendedCard *a2a.AgentCard
	Runner       runner.Runner
	Agent        *runner.Agent
}

// AgentRegistry is a name-keyed lookup of registered agents. Safe for
// concurrent use; entries are immutable once registered, matching §5's
// "Agent Cards are immutable after construction."
type AgentRegistry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*Entry
}

func New() *AgentRegistry {
	return &AgentRegistry{entries: make(map[string]*Entry)}
}

// Register adds or replaces the entry for entry.Agent.Name.
func (r *AgentRegistry) Register(entry *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := entry.Agent.Name
	if _, exists := r.entries[name]; !exists {
		r.order = append(r.order, name)
	}
	r.entries[name] = entry
}

// Get returns the entry registered under name.
func (r *AgentRegistry) Get(name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[name]
	return entry, ok
}

// First returns the first registered entry, for message/send,
// message/stream and agent/extendedCard calls that omit agentName.
func (r *AgentRegistry) First() (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return nil, false
	}
	return r.entries[r.order[0]], true
}

// Resolve returns the named entry, or First() when name is blank.
func (r *AgentRegistry) Resolve(name string) (*Entry, bool) {
	if name == "" {
		return r.First()
	}
	return r.Get(name)
}

// List returns every registered entry in registration order.
func (r *AgentRegistry) List() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Entry, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name])
	}
	return out
}
