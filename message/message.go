// Package message defines the conversation message model shared by the
// swarm router, the persistence layer and the outward-facing assistant.
//
// Messages are built from tagged parts (text or image reference) so that
// state can be serialized and inspected without runtime type probing.
// Conversion to the LLM wire types happens in exactly one place, at the
// model boundary (see llm.go).
package message

import "strings"

// Role identifies the author of a message.
type Role string

const (
	// RoleUser is an end-user message.
	RoleUser Role = "user"
	// RoleAssistant is a model-produced message.
	RoleAssistant Role = "assistant"
	// RoleSystem is an instruction message, never part of user history.
	RoleSystem Role = "system"
	// RoleTool is a tool execution result fed back to the model.
	RoleTool Role = "tool"
)

// PartKind tags the variant of a message part.
type PartKind string

const (
	// PartText is a plain text segment.
	PartText PartKind = "text"
	// PartImage is a reference to an image by URL or data URI.
	PartImage PartKind = "image"
)

// Part is one segment of message content.
type Part struct {
	Kind     PartKind `json:"kind"`
	Text     string   `json:"text,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
}

// TextPart creates a text part.
func TextPart(text string) Part {
	return Part{Kind: PartText, Text: text}
}

// ImagePart creates an image reference part.
func ImagePart(url string) Part {
	return Part{Kind: PartImage, ImageURL: url}
}

// ToolCall is a model request to invoke a tool.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolResponse carries a tool result back into the conversation.
type ToolResponse struct {
	CallID  string `json:"call_id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Message is one entry in a conversation history.
type Message struct {
	Role         Role          `json:"role"`
	Parts        []Part        `json:"parts,omitempty"`
	ToolCalls    []ToolCall    `json:"tool_calls,omitempty"`
	ToolResponse *ToolResponse `json:"tool_response,omitempty"`
}

// User creates a user message with a single text part.
func User(text string) Message {
	return Message{Role: RoleUser, Parts: []Part{TextPart(text)}}
}

// Assistant creates an assistant message with a single text part.
func Assistant(text string) Message {
	return Message{Role: RoleAssistant, Parts: []Part{TextPart(text)}}
}

// System creates a system message with a single text part.
func System(text string) Message {
	return Message{Role: RoleSystem, Parts: []Part{TextPart(text)}}
}

// ToolResult creates a tool result message for the given call.
func ToolResult(callID, name, content string) Message {
	return Message{
		Role:         RoleTool,
		ToolResponse: &ToolResponse{CallID: callID, Name: name, Content: content},
	}
}

// Content returns the concatenated text parts of the message.
func (m Message) Content() string {
	var sb strings.Builder
	for _, p := range m.Parts {
		if p.Kind == PartText {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

// HasToolCalls reports whether the message requests any tool invocations.
func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

// AppendText appends text to the last text part, or adds a new text part
// if the message has none.
func (m *Message) AppendText(text string) {
	for i := len(m.Parts) - 1; i >= 0; i-- {
		if m.Parts[i].Kind == PartText {
			m.Parts[i].Text += text
			return
		}
	}
	m.Parts = append(m.Parts, TextPart(text))
}

// VisibleHistory filters a conversation down to what an end user should
// see: user and assistant messages with non-empty text content. Tool
// traffic, including handoff signals, is excluded.
func VisibleHistory(messages []Message) []Message {
	var visible []Message
	for _, m := range messages {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			continue
		}
		if m.HasToolCalls() {
			continue
		}
		if m.Content() == "" {
			continue
		}
		visible = append(visible, m)
	}
	return visible
}
