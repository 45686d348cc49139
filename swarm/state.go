package swarm

import (
	"encoding/json"
	"fmt"

	"github.com/smallnest/agentswarm/message"
)

// Status is the lifecycle phase of a conversation turn.
type Status string

const (
	// StatusRunning means a turn is in progress.
	StatusRunning Status = "running"

	// StatusAwaitingConfirmation means a tool interrupted the turn and
	// the next input resumes it as the user's answer.
	StatusAwaitingConfirmation Status = "awaiting_confirmation"

	// StatusDone means the last turn completed and the conversation is
	// ready for the next user message.
	StatusDone Status = "done"
)

// PendingInterrupt records the tool call suspended by an interrupt so
// the next turn can replay it with the user's answer. A thread holds at
// most one pending interrupt.
type PendingInterrupt struct {
	// Prompt is the question shown to the user.
	Prompt string `json:"prompt"`

	// Agent is the agent whose tool interrupted.
	Agent string `json:"agent"`

	// Call is the tool call to replay with the resume value.
	Call message.ToolCall `json:"call"`

	// Remaining holds tool calls from the same assistant message that
	// were not yet dispatched when the interrupt fired.
	Remaining []message.ToolCall `json:"remaining,omitempty"`
}

// ConversationState is the full durable state of one conversation
// thread. It round-trips through JSON unchanged, so any ThreadStore
// backend can hold it.
type ConversationState struct {
	// Messages is the append-only conversation history, including tool
	// calls and tool results.
	Messages []message.Message `json:"messages"`

	// ActiveAgent names the agent that handles the next model call.
	// Only handoff tools change it.
	ActiveAgent string `json:"active_agent"`

	// RemainingSteps is the model-call budget for the current turn.
	RemainingSteps int `json:"remaining_steps"`

	// Status is the turn lifecycle phase.
	Status Status `json:"status"`

	// Interrupt is the pending interrupt, set only while Status is
	// StatusAwaitingConfirmation.
	Interrupt *PendingInterrupt `json:"interrupt,omitempty"`

	// BudgetExhausted is set when the last turn halted because
	// RemainingSteps reached zero.
	BudgetExhausted bool `json:"budget_exhausted,omitempty"`
}

// NewConversationState creates the state for a fresh thread.
func NewConversationState(defaultAgent string, steps int) *ConversationState {
	return &ConversationState{
		ActiveAgent:    defaultAgent,
		RemainingSteps: steps,
		Status:         StatusDone,
	}
}

// Marshal serializes the state for persistence.
func (s *ConversationState) Marshal() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal conversation state: %w", err)
	}
	return data, nil
}

// UnmarshalState deserializes a persisted state.
func UnmarshalState(data []byte) (*ConversationState, error) {
	var state ConversationState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation state: %w", err)
	}
	return &state, nil
}

// Append adds messages to the history.
func (s *ConversationState) Append(msgs ...message.Message) {
	s.Messages = append(s.Messages, msgs...)
}

// LastAssistantText returns the content of the most recent assistant
// message without tool calls, or "" if there is none.
func (s *ConversationState) LastAssistantText() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		m := s.Messages[i]
		if m.Role == message.RoleAssistant && !m.HasToolCalls() {
			return m.Content()
		}
	}
	return ""
}
