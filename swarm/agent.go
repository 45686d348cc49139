package swarm

import (
	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/agentswarm/tool"
)

// AgentDefinition describes one agent in the swarm: its name, system
// prompt and the tools it may call. Handoff tools created with
// NewHandoffTool are listed alongside regular tools so the model can
// choose to transfer the conversation.
type AgentDefinition struct {
	// Name identifies the agent. Handoff tools target agents by name.
	Name string

	// Prompt is the system prompt sent before the conversation history.
	Prompt string

	// Tools the agent may call, including handoff tools.
	Tools []tool.Tool

	// Model optionally overrides the executor's model for this agent.
	Model llms.Model
}
