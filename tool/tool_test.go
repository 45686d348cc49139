package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuncTool(t *testing.T) {
	echo := NewFuncTool("echo", "Echoes the input back.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
			},
			"required": []string{"text"},
		},
		func(ctx context.Context, arguments string) (string, error) {
			var args struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal([]byte(arguments), &args); err != nil {
				return "", err
			}
			return args.Text, nil
		})

	assert.Equal(t, "echo", echo.Name())
	assert.Equal(t, "Echoes the input back.", echo.Description())

	result, err := echo.Call(context.Background(), `{"text":"hello"}`)
	require.NoError(t, err)
	assert.Equal(t, "hello", result)
}

func TestDefinitions(t *testing.T) {
	tools := []Tool{
		NewFuncTool("a", "first", map[string]any{"type": "object"}, nil),
		NewFuncTool("b", "second", map[string]any{"type": "object"}, nil),
	}

	defs := Definitions(tools)
	require.Len(t, defs, 2)
	assert.Equal(t, "function", defs[0].Type)
	assert.Equal(t, "a", defs[0].Function.Name)
	assert.Equal(t, "second", defs[1].Function.Description)
}

func TestExecutorExecute(t *testing.T) {
	ok := NewFuncTool("ok", "always succeeds", map[string]any{"type": "object"},
		func(ctx context.Context, arguments string) (string, error) {
			return "done", nil
		})
	failing := NewFuncTool("failing", "always fails", map[string]any{"type": "object"},
		func(ctx context.Context, arguments string) (string, error) {
			return "", errors.New("backend unavailable")
		})

	executor := NewExecutor([]Tool{ok, failing})

	t.Run("success", func(t *testing.T) {
		result, err := executor.Execute(context.Background(), Invocation{ID: "1", Name: "ok"})
		require.NoError(t, err)
		assert.Equal(t, "done", result)
	})

	t.Run("tool failure becomes payload", func(t *testing.T) {
		result, err := executor.Execute(context.Background(), Invocation{ID: "2", Name: "failing"})
		require.NoError(t, err)
		assert.Equal(t, "Error: backend unavailable", result)
	})

	t.Run("unknown tool becomes payload", func(t *testing.T) {
		result, err := executor.Execute(context.Background(), Invocation{ID: "3", Name: "missing"})
		require.NoError(t, err)
		assert.Equal(t, `Error: tool "missing" is not available`, result)
	})

	t.Run("interrupt passes through", func(t *testing.T) {
		confirming := NewFuncTool("confirming", "needs confirmation", map[string]any{"type": "object"},
			func(ctx context.Context, arguments string) (string, error) {
				return Confirm(ctx, "Proceed? (yes/no)")
			})
		executor := NewExecutor([]Tool{confirming})

		_, err := executor.Execute(context.Background(), Invocation{ID: "4", Name: "confirming"})
		require.Error(t, err)
		assert.True(t, IsInterrupt(err))
	})
}

func TestExecutionError(t *testing.T) {
	cause := errors.New("backend unavailable")
	execErr := &ExecutionError{Tool: "failing", Err: cause}

	assert.Equal(t, "tool failing failed: backend unavailable", execErr.Error())
	assert.Equal(t, "Error: backend unavailable", execErr.Payload())
	assert.ErrorIs(t, execErr, cause)
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	clock := CurrentTimeTool(time.Now)

	require.NoError(t, registry.Register("Tools_Agent", []Tool{clock}))
	err := registry.Register("Tools_Agent", []Tool{clock})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	require.NoError(t, registry.Register("Smol_Agent", []Tool{clock}))

	assert.Len(t, registry.For("Tools_Agent"), 1)
	assert.Empty(t, registry.For("Unknown_Agent"))
	assert.Equal(t, []string{"Smol_Agent", "Tools_Agent"}, registry.Agents())
}

func TestCurrentTimeTool(t *testing.T) {
	fixed := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	clock := CurrentTimeTool(func() time.Time { return fixed })

	result, err := clock.Call(context.Background(), "{}")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14 09:26:53 UTC", result)
}
