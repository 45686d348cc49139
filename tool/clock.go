package tool

import (
	"context"
	"time"
)

// CurrentTimeTool reports the current time to the agent. now is injectable
// for tests; pass nil to use time.Now.
func CurrentTimeTool(now func() time.Time) Tool {
	if now == nil {
		now = time.Now
	}
	return &FuncTool{
		ToolName:        "current_time",
		ToolDescription: "Get the current date and time.",
		Fn: func(ctx context.Context, arguments string) (string, error) {
			return now().Format("2006-01-02 15:04:05 MST"), nil
		},
	}
}
