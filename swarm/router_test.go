package swarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/agentswarm/tool"
)

func TestNewRouter(t *testing.T) {
	alpha := &AgentDefinition{Name: "Alpha", Tools: []tool.Tool{echoTool()}}
	beta := &AgentDefinition{Name: "Beta"}

	router, err := NewRouter("Alpha", alpha, beta)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", router.DefaultAgent())
	assert.Equal(t, []string{"Alpha", "Beta"}, router.Agents())

	got, ok := router.Get("Beta")
	require.True(t, ok)
	assert.Equal(t, beta, got)

	require.Len(t, router.Tools("Alpha"), 1)
	assert.Equal(t, "echo", router.Tools("Alpha")[0].Name())
	assert.Empty(t, router.Tools("Beta"))
}

func TestNewRouterValidation(t *testing.T) {
	alpha := &AgentDefinition{Name: "Alpha"}

	_, err := NewRouter("Alpha")
	assert.Error(t, err)

	_, err = NewRouter("Missing", alpha)
	assert.Error(t, err)

	_, err = NewRouter("Alpha", alpha, &AgentDefinition{Name: "Alpha"})
	assert.Error(t, err)

	_, err = NewRouter("Alpha", alpha, &AgentDefinition{})
	assert.Error(t, err)
}

func TestSelectAgent(t *testing.T) {
	alpha := &AgentDefinition{Name: "Alpha"}
	beta := &AgentDefinition{Name: "Beta"}
	router, err := NewRouter("Alpha", alpha, beta)
	require.NoError(t, err)

	state := NewConversationState("Beta", 5)
	assert.Equal(t, beta, router.SelectAgent(state))

	// Unknown active agent falls back to the default.
	state.ActiveAgent = "Ghost"
	assert.Equal(t, alpha, router.SelectAgent(state))
}

func TestApplyHandoff(t *testing.T) {
	alpha := &AgentDefinition{Name: "Alpha"}
	beta := &AgentDefinition{Name: "Beta"}
	router, err := NewRouter("Alpha", alpha, beta)
	require.NoError(t, err)

	state := NewConversationState("Alpha", 5)

	target, err := router.ApplyHandoff(state, "transfer_to_Beta")
	require.NoError(t, err)
	assert.Equal(t, "Beta", target)
	assert.Equal(t, "Beta", state.ActiveAgent)
}

func TestApplyHandoffUnknownTarget(t *testing.T) {
	alpha := &AgentDefinition{Name: "Alpha"}
	router, err := NewRouter("Alpha", alpha)
	require.NoError(t, err)

	state := NewConversationState("Alpha", 5)

	_, err = router.ApplyHandoff(state, "transfer_to_Nobody")
	require.Error(t, err)

	var routingErr *RoutingError
	require.ErrorAs(t, err, &routingErr)
	assert.Equal(t, "Nobody", routingErr.Target)
	assert.Equal(t, "Alpha", routingErr.Agent)

	// State is untouched on a failed handoff.
	assert.Equal(t, "Alpha", state.ActiveAgent)
}

func TestHandoffToolName(t *testing.T) {
	assert.Equal(t, "transfer_to_Tools_Agent", HandoffToolName("Tools_Agent"))

	target, ok := HandoffTarget("transfer_to_Tools_Agent")
	assert.True(t, ok)
	assert.Equal(t, "Tools_Agent", target)

	_, ok = HandoffTarget("add_todo")
	assert.False(t, ok)

	_, ok = HandoffTarget("transfer_to_")
	assert.False(t, ok)
}
