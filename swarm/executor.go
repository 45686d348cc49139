package swarm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/agentswarm/log"
	"github.com/smallnest/agentswarm/message"
	"github.com/smallnest/agentswarm/store"
	"github.com/smallnest/agentswarm/tool"
)

// DefaultMaxSteps is the model-call budget per turn when Config leaves
// MaxSteps unset.
const DefaultMaxSteps = 10

// Config configures an Executor.
type Config struct {
	// Model generates agent responses. Required unless every agent
	// carries its own model.
	Model llms.Model

	// Router selects agents and applies handoffs. Required.
	Router *Router

	// Store persists conversation state between turns. Required.
	Store store.ThreadStore

	// MaxSteps caps model calls per turn. Defaults to DefaultMaxSteps.
	MaxSteps int

	// Logger defaults to the package-level logger.
	Logger log.Logger
}

// Executor drives complete conversation turns: it selects the active
// agent, calls the model, dispatches tool calls and handoffs, and
// persists the resulting state exactly once per successful turn.
type Executor struct {
	model    llms.Model
	router   *Router
	store    store.ThreadStore
	logger   log.Logger
	maxSteps int

	mu          sync.Mutex
	threadLocks map[string]*sync.Mutex
}

// NewExecutor creates an executor from the config.
func NewExecutor(cfg Config) (*Executor, error) {
	if cfg.Router == nil {
		return nil, fmt.Errorf("router is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}

	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.GetDefaultLogger()
	}

	return &Executor{
		model:       cfg.Model,
		router:      cfg.Router,
		store:       cfg.Store,
		logger:      logger,
		maxSteps:    maxSteps,
		threadLocks: make(map[string]*sync.Mutex),
	}, nil
}

// TurnResult reports the outcome of one turn.
type TurnResult struct {
	ThreadID string

	// Response is the final assistant text, or "" when the turn
	// interrupted or exhausted its budget before answering.
	Response string

	// ActiveAgent is the agent holding the conversation after the turn.
	ActiveAgent string

	// Interrupted is true when a tool suspended the turn; Prompt then
	// carries the question for the user.
	Interrupted bool
	Prompt      string

	// BudgetExhausted is true when the turn halted at zero remaining
	// steps.
	BudgetExhausted bool

	// State is the persisted state after the turn.
	State *ConversationState
}

// StreamEventType identifies a StreamTurn event.
type StreamEventType string

const (
	// EventToken carries one streamed model token.
	EventToken StreamEventType = "token"
	// EventHandoff signals that the active agent changed.
	EventHandoff StreamEventType = "handoff"
	// EventInterrupt signals that a tool needs user confirmation.
	EventInterrupt StreamEventType = "interrupt"
	// EventDone carries the final assistant response.
	EventDone StreamEventType = "done"
)

// StreamEvent is one event emitted during a streaming turn.
type StreamEvent struct {
	Type    StreamEventType
	Agent   string
	Token   string
	Prompt  string
	Content string
}

// RunTurn processes one external input for the thread and returns when
// the turn completes, interrupts, or fails. Concurrent turns on the
// same thread are serialized; other threads run independently.
func (e *Executor) RunTurn(ctx context.Context, threadID string, input any) (*TurnResult, error) {
	return e.runTurn(ctx, threadID, input, nil)
}

// StreamTurn is RunTurn with live events: model tokens, handoffs,
// interrupts and the final response are delivered to handler as they
// happen.
func (e *Executor) StreamTurn(ctx context.Context, threadID string, input any, handler func(StreamEvent)) (*TurnResult, error) {
	if handler == nil {
		return nil, fmt.Errorf("stream handler is required")
	}
	return e.runTurn(ctx, threadID, input, handler)
}

// State returns the persisted conversation state for the thread, or
// store.ErrThreadNotFound.
func (e *Executor) State(ctx context.Context, threadID string) (*ConversationState, error) {
	thread, err := e.store.Load(ctx, threadID)
	if err != nil {
		return nil, err
	}
	return UnmarshalState(thread.State)
}

// Reset deletes the thread's persisted state and releases the thread's
// lock entry. Turns racing a reset of their own thread may observe
// either the old or the empty state.
func (e *Executor) Reset(ctx context.Context, threadID string) error {
	lock := e.threadLock(threadID)
	lock.Lock()
	defer lock.Unlock()

	if err := e.store.Delete(ctx, threadID); err != nil {
		return err
	}

	e.mu.Lock()
	delete(e.threadLocks, threadID)
	e.mu.Unlock()
	return nil
}

func (e *Executor) threadLock(threadID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.threadLocks[threadID]
	if !ok {
		lock = &sync.Mutex{}
		e.threadLocks[threadID] = lock
	}
	return lock
}

func (e *Executor) runTurn(ctx context.Context, threadID string, input any, emit func(StreamEvent)) (*TurnResult, error) {
	lock := e.threadLock(threadID)
	lock.Lock()
	defer lock.Unlock()

	state, err := e.loadState(ctx, threadID)
	if err != nil {
		return nil, err
	}

	resuming := state.Status == StatusAwaitingConfirmation && state.Interrupt != nil

	inbound, err := message.Normalize(input)
	if err != nil {
		return nil, err
	}

	// One budget per external turn.
	state.RemainingSteps = e.maxSteps
	state.Status = StatusRunning
	state.BudgetExhausted = false

	if resuming {
		pending := *state.Interrupt
		state.Interrupt = nil

		interrupted, err := e.resume(ctx, state, pending, inbound.Content(), emit)
		if err != nil {
			return nil, err
		}
		if interrupted {
			return e.finishInterrupted(ctx, threadID, state, emit)
		}
	} else {
		state.Append(inbound)
	}

	for {
		if state.RemainingSteps <= 0 {
			state.BudgetExhausted = true
			e.logger.Warn("thread %s halted: step budget exhausted", threadID)
			break
		}

		agent := e.router.SelectAgent(state)
		msg, err := e.callModel(ctx, agent, state, emit)
		if err != nil {
			return nil, err
		}
		state.Append(msg)
		state.RemainingSteps--

		if !msg.HasToolCalls() {
			break
		}

		interrupted, err := e.dispatchCalls(ctx, agent, msg.ToolCalls, state, emit)
		if err != nil {
			return nil, err
		}
		if interrupted {
			return e.finishInterrupted(ctx, threadID, state, emit)
		}
	}

	state.Status = StatusDone
	if err := e.saveState(ctx, threadID, state); err != nil {
		return nil, err
	}

	result := &TurnResult{
		ThreadID:        threadID,
		Response:        state.LastAssistantText(),
		ActiveAgent:     state.ActiveAgent,
		BudgetExhausted: state.BudgetExhausted,
		State:           state,
	}
	if emit != nil {
		emit(StreamEvent{Type: EventDone, Agent: state.ActiveAgent, Content: result.Response})
	}
	return result, nil
}

// resume replays the interrupted tool call with the user's answer, then
// dispatches the calls that were still queued behind it.
func (e *Executor) resume(ctx context.Context, state *ConversationState, pending PendingInterrupt, answer string, emit func(StreamEvent)) (bool, error) {
	agent, ok := e.router.Get(pending.Agent)
	if !ok {
		agent = e.router.SelectAgent(state)
	}

	rctx := tool.WithResumeValue(ctx, answer)
	calls := append([]message.ToolCall{pending.Call}, pending.Remaining...)

	// Only the replayed call sees the resume value.
	interrupted, err := e.dispatchCalls(rctx, agent, calls[:1], state, emit)
	if err != nil || interrupted {
		return interrupted, err
	}
	return e.dispatchCalls(ctx, agent, calls[1:], state, emit)
}

func (e *Executor) callModel(ctx context.Context, agent *AgentDefinition, state *ConversationState, emit func(StreamEvent)) (message.Message, error) {
	model := e.model
	if agent.Model != nil {
		model = agent.Model
	}
	if model == nil {
		return message.Message{}, fmt.Errorf("no model configured for agent %s", agent.Name)
	}

	msgs := make([]llms.MessageContent, 0, len(state.Messages)+1)
	if agent.Prompt != "" {
		msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeSystem, agent.Prompt))
	}
	msgs = append(msgs, message.ToLLMContent(state.Messages)...)

	var opts []llms.CallOption
	if tools := e.router.Tools(agent.Name); len(tools) > 0 {
		opts = append(opts, llms.WithTools(tool.Definitions(tools)))
	}
	if emit != nil {
		agentName := agent.Name
		opts = append(opts, llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			emit(StreamEvent{Type: EventToken, Agent: agentName, Token: string(chunk)})
			return nil
		}))
	}

	resp, err := model.GenerateContent(ctx, msgs, opts...)
	if err != nil {
		return message.Message{}, &ExternalServiceError{Service: "model", Err: err}
	}
	if len(resp.Choices) == 0 {
		return message.Message{}, &ExternalServiceError{Service: "model", Err: errors.New("empty response")}
	}

	return message.FromContentChoice(resp.Choices[0]), nil
}

// dispatchCalls executes the tool calls of one assistant message in
// order. Handoff calls move the active-agent pointer; regular calls go
// through the active agent's tool executor, so calls queued behind a
// handoff already run with the receiving agent's tool set. Returns true
// when a call interrupted the turn.
func (e *Executor) dispatchCalls(ctx context.Context, agent *AgentDefinition, calls []message.ToolCall, state *ConversationState, emit func(StreamEvent)) (bool, error) {
	executor := tool.NewExecutor(e.router.Tools(agent.Name))

	for i, call := range calls {
		if target, isHandoff := HandoffTarget(call.Name); isHandoff {
			if _, err := e.router.ApplyHandoff(state, call.Name); err != nil {
				return false, err
			}
			state.Append(message.ToolResult(call.ID, call.Name,
				fmt.Sprintf("Successfully transferred to %s", target)))
			e.logger.Info("agent %s handed off to %s", agent.Name, target)
			if emit != nil {
				emit(StreamEvent{Type: EventHandoff, Agent: target})
			}
			if next, ok := e.router.Get(target); ok {
				agent = next
				executor = tool.NewExecutor(e.router.Tools(agent.Name))
			}
			continue
		}

		result, err := executor.Execute(ctx, tool.Invocation{
			ID:        call.ID,
			Name:      call.Name,
			Arguments: call.Arguments,
		})
		if err != nil {
			if interrupt, ok := tool.AsInterrupt(err); ok {
				state.Interrupt = &PendingInterrupt{
					Prompt:    interrupt.Prompt,
					Agent:     agent.Name,
					Call:      call,
					Remaining: append([]message.ToolCall(nil), calls[i+1:]...),
				}
				state.Status = StatusAwaitingConfirmation
				return true, nil
			}
			return false, err
		}
		state.Append(message.ToolResult(call.ID, call.Name, result))
	}
	return false, nil
}

// finishInterrupted persists the suspended state and reports the
// interrupt to the caller. This is the turn's single persist.
func (e *Executor) finishInterrupted(ctx context.Context, threadID string, state *ConversationState, emit func(StreamEvent)) (*TurnResult, error) {
	if err := e.saveState(ctx, threadID, state); err != nil {
		return nil, err
	}

	result := &TurnResult{
		ThreadID:    threadID,
		ActiveAgent: state.ActiveAgent,
		Interrupted: true,
		Prompt:      state.Interrupt.Prompt,
		State:       state,
	}
	if emit != nil {
		emit(StreamEvent{Type: EventInterrupt, Agent: state.ActiveAgent, Prompt: result.Prompt})
	}
	return result, nil
}

func (e *Executor) loadState(ctx context.Context, threadID string) (*ConversationState, error) {
	thread, err := e.store.Load(ctx, threadID)
	if err != nil {
		if errors.Is(err, store.ErrThreadNotFound) {
			return NewConversationState(e.router.DefaultAgent(), e.maxSteps), nil
		}
		return nil, fmt.Errorf("failed to load thread %s: %w", threadID, err)
	}
	return UnmarshalState(thread.State)
}

func (e *Executor) saveState(ctx context.Context, threadID string, state *ConversationState) error {
	data, err := state.Marshal()
	if err != nil {
		return err
	}
	if err := e.store.Save(ctx, &store.Thread{
		ID:        threadID,
		State:     data,
		UpdatedAt: time.Now(),
	}); err != nil {
		return fmt.Errorf("failed to save thread %s: %w", threadID, err)
	}
	return nil
}
