package tool

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is a static mapping from agent name to the tools that agent
// may invoke, including handoff pseudo-tools. The registry is populated
// at composition time and read-only afterwards; the active agent's entry
// strictly bounds what side effects a turn can produce.
type Registry struct {
	mu      sync.RWMutex
	byAgent map[string][]Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byAgent: make(map[string][]Tool)}
}

// Register sets the tool list for an agent. Registering the same agent
// twice is a programming error.
func (r *Registry) Register(agentName string, tools []Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byAgent[agentName]; exists {
		return fmt.Errorf("tools already registered for agent %q", agentName)
	}
	r.byAgent[agentName] = append([]Tool(nil), tools...)
	return nil
}

// For returns the tool list registered for an agent. The returned slice
// must not be mutated.
func (r *Registry) For(agentName string) []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byAgent[agentName]
}

// Agents returns the registered agent names in sorted order.
func (r *Registry) Agents() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byAgent))
	for name := range r.byAgent {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
