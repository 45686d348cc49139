// Package tool defines the tool surface exposed to swarm agents: the Tool
// interface, a per-agent registry, deterministic execution with structured
// error payloads, built-in tools, and a provider that loads remote tools
// from MCP servers.
package tool

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// Tool is a callable capability exposed to an agent's LLM. Parameters
// returns a JSON schema object describing the arguments; Call receives the
// raw JSON arguments produced by the model.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Call(ctx context.Context, arguments string) (string, error)
}

// FuncTool adapts a plain function into a Tool.
type FuncTool struct {
	ToolName        string
	ToolDescription string
	ToolParameters  map[string]any
	Fn              func(ctx context.Context, arguments string) (string, error)
}

// Name returns the tool name.
func (t *FuncTool) Name() string { return t.ToolName }

// Description returns the tool description.
func (t *FuncTool) Description() string { return t.ToolDescription }

// Parameters returns the JSON schema for the tool arguments.
func (t *FuncTool) Parameters() map[string]any {
	if t.ToolParameters == nil {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}
	return t.ToolParameters
}

// Call invokes the wrapped function.
func (t *FuncTool) Call(ctx context.Context, arguments string) (string, error) {
	return t.Fn(ctx, arguments)
}

// NewFuncTool creates a FuncTool from its parts.
func NewFuncTool(name, description string, parameters map[string]any,
	fn func(ctx context.Context, arguments string) (string, error)) *FuncTool {
	return &FuncTool{
		ToolName:        name,
		ToolDescription: description,
		ToolParameters:  parameters,
		Fn:              fn,
	}
}

// Definitions converts tools into the llms.Tool definitions passed to the
// model on each call.
func Definitions(tools []Tool) []llms.Tool {
	defs := make([]llms.Tool, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return defs
}

// Invocation identifies one tool call requested by the model.
type Invocation struct {
	ID        string
	Name      string
	Arguments string
}

// ExecutionError describes a failed tool invocation. It is never raised
// past the executor: Execute converts it into the payload the model
// sees, so the agent can react to the failure conversationally.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tool %s failed: %v", e.Tool, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Payload is the tool-result content returned to the model in place of
// the error.
func (e *ExecutionError) Payload() string {
	return fmt.Sprintf("Error: %v", e.Err)
}

// Executor dispatches tool invocations against a fixed tool set.
type Executor struct {
	toolsByName map[string]Tool
}

// NewExecutor creates an executor over the given tools.
func NewExecutor(tools []Tool) *Executor {
	byName := make(map[string]Tool, len(tools))
	for _, t := range tools {
		byName[t.Name()] = t
	}
	return &Executor{toolsByName: byName}
}

// Lookup returns the tool with the given name, if registered.
func (e *Executor) Lookup(name string) (Tool, bool) {
	t, ok := e.toolsByName[name]
	return t, ok
}

// Execute runs the invocation exactly once. Tool failures are not raised:
// they are converted into an error payload string so the model can react
// to them conversationally. Interrupt requests pass through as errors so
// the caller can suspend the turn.
func (e *Executor) Execute(ctx context.Context, inv Invocation) (string, error) {
	t, ok := e.toolsByName[inv.Name]
	if !ok {
		return fmt.Sprintf("Error: tool %q is not available", inv.Name), nil
	}

	result, err := t.Call(ctx, inv.Arguments)
	if err != nil {
		if IsInterrupt(err) {
			return "", err
		}
		execErr := &ExecutionError{Tool: inv.Name, Err: err}
		return execErr.Payload(), nil
	}
	return result, nil
}
