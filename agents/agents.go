// Package agents assembles the stock three-agent swarm: a lightweight
// conversational agent, a research agent and a tool-running agent, each
// able to hand the conversation to the others.
package agents

import (
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/agentswarm/swarm"
	"github.com/smallnest/agentswarm/tool"
)

// Stock agent names. Handoff tools derive their names from these, so
// changing one changes the tool surface the model sees.
const (
	SmolAgent         = "Smol_Agent"
	DeepResearchAgent = "Deep_Research_Agent"
	ToolsAgent        = "Tools_Agent"
)

const smolPrompt = `You are a helpful personal assistant. Answer conversational
questions directly and keep your replies short.

You manage the user's todo list with the todo tools. Deleting a todo asks the
user for confirmation first; relay the confirmation question verbatim.

For questions that need in-depth research, transfer the conversation to
Deep_Research_Agent. For tasks that need external tools you do not have,
transfer the conversation to Tools_Agent.`

const researchPrompt = `You are a research assistant. Dig into the user's
question thoroughly, reason step by step, and give a structured, sourced
answer.

When the research is done and the conversation returns to everyday topics,
transfer the conversation back to Smol_Agent.`

const toolsPrompt = `You are a tool-running assistant. Use the tools available
to you to carry out the user's request and report the result plainly.

When no tool is needed anymore, transfer the conversation back to Smol_Agent.`

// Config selects the models and extra tools for the stock swarm.
type Config struct {
	// Todos is the session todo list. A nil value gets a fresh store,
	// so every session starts empty.
	Todos *tool.TodoStore

	// ResearchModel optionally runs Deep_Research_Agent on a different
	// model than the rest of the swarm.
	ResearchModel llms.Model

	// ExtraTools extends Tools_Agent, typically with tools loaded from
	// MCP servers.
	ExtraTools []tool.Tool

	// Now is the clock for the current-time tool. Defaults to time.Now.
	Now func() time.Time
}

// NewRouter builds the stock swarm router with Smol_Agent as the entry
// agent.
func NewRouter(cfg Config) (*swarm.Router, error) {
	todos := cfg.Todos
	if todos == nil {
		todos = tool.NewTodoStore()
	}

	smolTools := append(tool.TodoTools(todos), tool.CurrentTimeTool(cfg.Now))
	smolTools = append(smolTools,
		swarm.NewHandoffTool(DeepResearchAgent,
			"Transfer the conversation to the research agent for in-depth questions."),
		swarm.NewHandoffTool(ToolsAgent,
			"Transfer the conversation to the tool-running agent for external tasks."),
	)

	researchTools := []tool.Tool{
		swarm.NewHandoffTool(SmolAgent,
			"Transfer the conversation back to the main assistant."),
	}

	toolsAgentTools := append([]tool.Tool{}, cfg.ExtraTools...)
	toolsAgentTools = append(toolsAgentTools,
		swarm.NewHandoffTool(SmolAgent,
			"Transfer the conversation back to the main assistant."),
	)

	return swarm.NewRouter(SmolAgent,
		&swarm.AgentDefinition{
			Name:   SmolAgent,
			Prompt: smolPrompt,
			Tools:  smolTools,
		},
		&swarm.AgentDefinition{
			Name:   DeepResearchAgent,
			Prompt: researchPrompt,
			Tools:  researchTools,
			Model:  cfg.ResearchModel,
		},
		&swarm.AgentDefinition{
			Name:   ToolsAgent,
			Prompt: toolsPrompt,
			Tools:  toolsAgentTools,
		},
	)
}
