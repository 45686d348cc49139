// Package assistant is the high-level entry point: a conversational
// facade over the swarm executor with chat history access and thread
// management.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/agentswarm/agents"
	"github.com/smallnest/agentswarm/log"
	"github.com/smallnest/agentswarm/message"
	"github.com/smallnest/agentswarm/store"
	"github.com/smallnest/agentswarm/store/memory"
	"github.com/smallnest/agentswarm/swarm"
)

// apology is returned to the user when a turn fails outright.
const apology = "I'm sorry, I ran into a problem while processing your message. Please try again."

// timeFormat stamps the wall-clock time onto each user message so
// agents answer time questions without a tool round trip.
const timeFormat = "2006-01-02 15:04:05 MST"

// Config configures an Assistant.
type Config struct {
	// Model generates responses for every agent without its own model.
	Model llms.Model

	// Router defaults to the stock three-agent swarm.
	Router *swarm.Router

	// Store defaults to an in-memory store.
	Store store.ThreadStore

	// MaxSteps caps model calls per turn.
	MaxSteps int

	// Logger defaults to the package-level logger.
	Logger log.Logger

	// Now is the clock for message timestamps. Defaults to time.Now.
	Now func() time.Time
}

// Assistant answers user messages through the agent swarm, one thread
// per conversation.
type Assistant struct {
	executor *swarm.Executor
	logger   log.Logger
	now      func() time.Time
}

// New creates an assistant from the config.
func New(cfg Config) (*Assistant, error) {
	if cfg.Model == nil {
		return nil, fmt.Errorf("model is required")
	}

	router := cfg.Router
	if router == nil {
		var err error
		router, err = agents.NewRouter(agents.Config{Now: cfg.Now})
		if err != nil {
			return nil, err
		}
	}

	threadStore := cfg.Store
	if threadStore == nil {
		threadStore = memory.NewMemoryThreadStore()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.GetDefaultLogger()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	executor, err := swarm.NewExecutor(swarm.Config{
		Model:    cfg.Model,
		Router:   router,
		Store:    threadStore,
		MaxSteps: cfg.MaxSteps,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	return &Assistant{
		executor: executor,
		logger:   logger,
		now:      now,
	}, nil
}

// GetResponse runs one turn and returns the assistant's reply. When a
// tool interrupts the turn, the reply is the confirmation question and
// the next GetResponse call on the thread is treated as the answer.
// Fatal turn errors return an apology alongside the error so callers
// can still show something to the user.
func (a *Assistant) GetResponse(ctx context.Context, threadID string, input any) (string, error) {
	result, err := a.executor.RunTurn(ctx, threadID, a.stamp(ctx, threadID, input))
	if err != nil {
		a.logger.Error("turn failed for thread %s: %v", threadID, err)
		return apology, err
	}
	if result.Interrupted {
		return result.Prompt, nil
	}
	return result.Response, nil
}

// GetStreamResponse is GetResponse with live events delivered to
// handler: model tokens, handoffs, interrupts and the final response.
func (a *Assistant) GetStreamResponse(ctx context.Context, threadID string, input any, handler func(swarm.StreamEvent)) (string, error) {
	result, err := a.executor.StreamTurn(ctx, threadID, a.stamp(ctx, threadID, input), handler)
	if err != nil {
		a.logger.Error("turn failed for thread %s: %v", threadID, err)
		return apology, err
	}
	if result.Interrupted {
		return result.Prompt, nil
	}
	return result.Response, nil
}

// GetChatHistory returns the user-visible conversation: user and
// assistant messages with content, without tool traffic. An unknown
// thread yields an empty history.
func (a *Assistant) GetChatHistory(ctx context.Context, threadID string) ([]message.Message, error) {
	state, err := a.executor.State(ctx, threadID)
	if err != nil {
		if errors.Is(err, store.ErrThreadNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return message.VisibleHistory(state.Messages), nil
}

// ClearChatHistory deletes the thread's conversation state.
func (a *Assistant) ClearChatHistory(ctx context.Context, threadID string) error {
	return a.executor.Reset(ctx, threadID)
}

// stamp appends the current time to the inbound message. Answers to a
// pending confirmation pass through verbatim, as do payloads that fail
// normalization, so the executor reports the error.
func (a *Assistant) stamp(ctx context.Context, threadID string, input any) any {
	if state, err := a.executor.State(ctx, threadID); err == nil &&
		state.Status == swarm.StatusAwaitingConfirmation {
		return input
	}
	msg, err := message.Normalize(input)
	if err != nil {
		return input
	}
	msg.AppendText(fmt.Sprintf("\n\n[Current Time: %s]", a.now().Format(timeFormat)))
	return msg
}
