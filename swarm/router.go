package swarm

import (
	"fmt"

	"github.com/smallnest/agentswarm/tool"
)

// Router owns the agent registry and the active-agent pointer rules.
// Agent selection is a pure lookup: the active agent recorded in the
// state handles the turn, and only a successful handoff moves the
// pointer.
type Router struct {
	agents       map[string]*AgentDefinition
	registry     *tool.Registry
	defaultAgent string
}

// NewRouter creates a router over the given agents. defaultAgent
// handles fresh threads and must be one of the agents.
func NewRouter(defaultAgent string, agents ...*AgentDefinition) (*Router, error) {
	if len(agents) == 0 {
		return nil, fmt.Errorf("router needs at least one agent")
	}

	byName := make(map[string]*AgentDefinition, len(agents))
	registry := tool.NewRegistry()
	for _, agent := range agents {
		if agent.Name == "" {
			return nil, fmt.Errorf("agent name must not be empty")
		}
		if _, exists := byName[agent.Name]; exists {
			return nil, fmt.Errorf("duplicate agent name %s", agent.Name)
		}
		byName[agent.Name] = agent
		if err := registry.Register(agent.Name, agent.Tools); err != nil {
			return nil, err
		}
	}

	if _, ok := byName[defaultAgent]; !ok {
		return nil, fmt.Errorf("default agent %s is not registered", defaultAgent)
	}

	return &Router{
		agents:       byName,
		registry:     registry,
		defaultAgent: defaultAgent,
	}, nil
}

// Get returns the agent with the given name.
func (r *Router) Get(name string) (*AgentDefinition, bool) {
	agent, ok := r.agents[name]
	return agent, ok
}

// DefaultAgent returns the name of the agent that handles fresh threads.
func (r *Router) DefaultAgent() string {
	return r.defaultAgent
}

// Agents returns the registered agent names, sorted.
func (r *Router) Agents() []string {
	return r.registry.Agents()
}

// Tools returns the tool set registered for the agent. The returned
// slice must not be mutated.
func (r *Router) Tools(agentName string) []tool.Tool {
	return r.registry.For(agentName)
}

// SelectAgent returns the agent that handles the next model call. An
// unknown active-agent value falls back to the default agent.
func (r *Router) SelectAgent(state *ConversationState) *AgentDefinition {
	if agent, ok := r.agents[state.ActiveAgent]; ok {
		return agent
	}
	return r.agents[r.defaultAgent]
}

// ApplyHandoff moves the active-agent pointer to the target named by a
// handoff tool call. On an unknown target it returns a *RoutingError
// and leaves the state untouched.
func (r *Router) ApplyHandoff(state *ConversationState, toolName string) (string, error) {
	target, ok := HandoffTarget(toolName)
	if !ok {
		return "", &RoutingError{Target: toolName, Agent: state.ActiveAgent}
	}
	if _, exists := r.agents[target]; !exists {
		return "", &RoutingError{Target: target, Agent: state.ActiveAgent}
	}
	state.ActiveAgent = target
	return target, nil
}
