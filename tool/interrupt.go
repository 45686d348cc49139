package tool

import (
	"context"
	"errors"
)

// Interrupt is returned by a tool that needs human input before it can
// complete. The executor suspends the turn, surfaces Prompt to the user,
// and replays the tool call with the user's answer as the resume value.
type Interrupt struct {
	// Prompt is the question shown to the user.
	Prompt string
}

func (e *Interrupt) Error() string {
	return "tool awaiting confirmation: " + e.Prompt
}

// IsInterrupt reports whether err is (or wraps) an Interrupt.
func IsInterrupt(err error) bool {
	var interrupt *Interrupt
	return errors.As(err, &interrupt)
}

// AsInterrupt extracts the Interrupt from err, if present.
func AsInterrupt(err error) (*Interrupt, bool) {
	var interrupt *Interrupt
	if errors.As(err, &interrupt) {
		return interrupt, true
	}
	return nil, false
}

type resumeValueKey struct{}

// WithResumeValue attaches a resume value to the context. Confirm returns
// this value instead of interrupting when the tool call is replayed.
func WithResumeValue(ctx context.Context, value string) context.Context {
	return context.WithValue(ctx, resumeValueKey{}, value)
}

// ResumeValue retrieves the resume value from the context.
func ResumeValue(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(resumeValueKey{}).(string)
	return v, ok
}

// Confirm pauses the tool until the user answers prompt. On first
// execution it returns an *Interrupt error; when the call is replayed
// with a resume value it returns that value.
func Confirm(ctx context.Context, prompt string) (string, error) {
	if v, ok := ResumeValue(ctx); ok {
		return v, nil
	}
	return "", &Interrupt{Prompt: prompt}
}

// Affirmative reports whether a resume value counts as a confirmation.
// Accepted tokens are "yes", "y" and "true", case-insensitive.
func Affirmative(answer string) bool {
	switch normalizeAnswer(answer) {
	case "yes", "y", "true":
		return true
	default:
		return false
	}
}

func normalizeAnswer(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '.' || r == '!':
			// strip trivial punctuation and whitespace
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
