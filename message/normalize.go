package message

import (
	"errors"
	"fmt"
)

// ErrInvalidPayload is returned when an inbound payload cannot be
// normalized into a Message.
var ErrInvalidPayload = errors.New("invalid message payload")

// Normalize validates an inbound chat payload once, at the boundary, and
// converts it into a Message. Accepted shapes:
//
//   - string: treated as user text
//   - map with "role" and "content", where content is a string or a list
//     of part maps ({"type": "text", "text": ...} or
//     {"type": "image_url", "image_url": ...})
//
// Anything else is rejected with ErrInvalidPayload.
func Normalize(payload any) (Message, error) {
	switch v := payload.(type) {
	case string:
		return User(v), nil
	case Message:
		return v, nil
	case map[string]any:
		return normalizeMap(v)
	default:
		return Message{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidPayload, payload)
	}
}

func normalizeMap(v map[string]any) (Message, error) {
	role, _ := v["role"].(string)
	switch Role(role) {
	case RoleUser, RoleAssistant, RoleSystem:
	default:
		return Message{}, fmt.Errorf("%w: unknown role %q", ErrInvalidPayload, role)
	}

	msg := Message{Role: Role(role)}

	switch content := v["content"].(type) {
	case string:
		msg.Parts = []Part{TextPart(content)}
	case []any:
		for _, raw := range content {
			part, err := normalizePart(raw)
			if err != nil {
				return Message{}, err
			}
			msg.Parts = append(msg.Parts, part)
		}
	default:
		return Message{}, fmt.Errorf("%w: content must be a string or part list", ErrInvalidPayload)
	}

	if len(msg.Parts) == 0 {
		return Message{}, fmt.Errorf("%w: empty content", ErrInvalidPayload)
	}
	return msg, nil
}

func normalizePart(raw any) (Part, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return Part{}, fmt.Errorf("%w: part must be an object, got %T", ErrInvalidPayload, raw)
	}

	kind, _ := m["type"].(string)
	switch kind {
	case "text":
		text, ok := m["text"].(string)
		if !ok {
			return Part{}, fmt.Errorf("%w: text part missing text field", ErrInvalidPayload)
		}
		return TextPart(text), nil
	case "image_url", "image":
		switch u := m["image_url"].(type) {
		case string:
			return ImagePart(u), nil
		case map[string]any:
			// OpenAI-style nested {"image_url": {"url": ...}}
			if url, ok := u["url"].(string); ok {
				return ImagePart(url), nil
			}
		}
		return Part{}, fmt.Errorf("%w: image part missing url", ErrInvalidPayload)
	default:
		return Part{}, fmt.Errorf("%w: unknown part type %q", ErrInvalidPayload, kind)
	}
}

// NormalizeAll normalizes a slice of inbound payloads, failing on the
// first invalid entry.
func NormalizeAll(payloads []any) ([]Message, error) {
	messages := make([]Message, 0, len(payloads))
	for i, p := range payloads {
		msg, err := Normalize(p)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
