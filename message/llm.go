package message

import (
	"github.com/tmc/langchaingo/llms"
)

// ToLLMContent converts messages into the langchaingo wire representation.
// This is the single conversion point to the model boundary; nothing else
// in the module handles llms.ContentPart values directly.
func ToLLMContent(messages []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		out = append(out, toLLMMessage(m))
	}
	return out
}

func toLLMMessage(m Message) llms.MessageContent {
	mc := llms.MessageContent{Role: llmRole(m.Role)}

	for _, p := range m.Parts {
		switch p.Kind {
		case PartText:
			mc.Parts = append(mc.Parts, llms.TextPart(p.Text))
		case PartImage:
			mc.Parts = append(mc.Parts, llms.ImageURLPart(p.ImageURL))
		}
	}

	for _, tc := range m.ToolCalls {
		mc.Parts = append(mc.Parts, llms.ToolCall{
			ID:   tc.ID,
			Type: "function",
			FunctionCall: &llms.FunctionCall{
				Name:      tc.Name,
				Arguments: tc.Arguments,
			},
		})
	}

	if m.ToolResponse != nil {
		mc.Parts = append(mc.Parts, llms.ToolCallResponse{
			ToolCallID: m.ToolResponse.CallID,
			Name:       m.ToolResponse.Name,
			Content:    m.ToolResponse.Content,
		})
	}

	return mc
}

func llmRole(r Role) llms.ChatMessageType {
	switch r {
	case RoleUser:
		return llms.ChatMessageTypeHuman
	case RoleAssistant:
		return llms.ChatMessageTypeAI
	case RoleSystem:
		return llms.ChatMessageTypeSystem
	case RoleTool:
		return llms.ChatMessageTypeTool
	default:
		return llms.ChatMessageTypeHuman
	}
}

// FromContentChoice converts a model response choice into an assistant
// message, carrying over any tool call requests.
func FromContentChoice(choice *llms.ContentChoice) Message {
	msg := Message{Role: RoleAssistant}

	if choice.Content != "" {
		msg.Parts = append(msg.Parts, TextPart(choice.Content))
	}

	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall == nil {
			continue
		}
		msg.ToolCalls = append(msg.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.FunctionCall.Name,
			Arguments: tc.FunctionCall.Arguments,
		})
	}

	return msg
}
