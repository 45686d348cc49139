package swarm

import "fmt"

// RoutingError is returned when a handoff names an agent the router does
// not know. It is fatal for the turn: the conversation state is left
// unchanged and nothing is persisted.
type RoutingError struct {
	// Target is the unknown agent name.
	Target string
	// Agent is the agent that attempted the handoff.
	Agent string
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("agent %s attempted handoff to unknown agent %s", e.Agent, e.Target)
}

// ExternalServiceError wraps a failure of an upstream service, typically
// the model provider. The turn fails without persisting.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}
