package swarm

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallnest/agentswarm/tool"
)

// handoffPrefix is the reserved tool-name prefix that marks a handoff.
// The executor intercepts calls to these tools instead of dispatching
// them like regular tools.
const handoffPrefix = "transfer_to_"

// HandoffToolName returns the tool name that transfers to target.
func HandoffToolName(target string) string {
	return handoffPrefix + target
}

// HandoffTarget extracts the target agent from a handoff tool name.
// The second return is false for regular tool names.
func HandoffTarget(toolName string) (string, bool) {
	if !strings.HasPrefix(toolName, handoffPrefix) {
		return "", false
	}
	target := toolName[len(handoffPrefix):]
	if target == "" {
		return "", false
	}
	return target, true
}

// NewHandoffTool creates the tool an agent exposes to transfer the
// conversation to target. The description tells the model when to use
// it; pass "" for a generic one.
func NewHandoffTool(target, description string) tool.Tool {
	if description == "" {
		description = fmt.Sprintf("Transfer the conversation to %s.", target)
	}
	return tool.NewFuncTool(
		HandoffToolName(target),
		description,
		map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		func(ctx context.Context, arguments string) (string, error) {
			// The executor intercepts handoff calls before dispatch;
			// this body only runs if a handoff tool is invoked outside
			// an executor turn.
			return fmt.Sprintf("Successfully transferred to %s", target), nil
		},
	)
}
