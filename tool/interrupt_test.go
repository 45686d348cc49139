package tool

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmWithoutResumeValue(t *testing.T) {
	_, err := Confirm(context.Background(), "Delete everything? (yes/no)")
	require.Error(t, err)

	interrupt, ok := AsInterrupt(err)
	require.True(t, ok)
	assert.Equal(t, "Delete everything? (yes/no)", interrupt.Prompt)
}

func TestConfirmWithResumeValue(t *testing.T) {
	ctx := WithResumeValue(context.Background(), "yes")
	answer, err := Confirm(ctx, "Delete everything? (yes/no)")
	require.NoError(t, err)
	assert.Equal(t, "yes", answer)
}

func TestIsInterrupt(t *testing.T) {
	assert.True(t, IsInterrupt(&Interrupt{Prompt: "sure?"}))
	assert.True(t, IsInterrupt(fmt.Errorf("wrapped: %w", &Interrupt{Prompt: "sure?"})))
	assert.False(t, IsInterrupt(errors.New("plain error")))
	assert.False(t, IsInterrupt(nil))
}

func TestAffirmative(t *testing.T) {
	affirmative := []string{"yes", "Yes", "YES", "y", "Y", "true", "True", " yes ", "yes.", "y!"}
	for _, answer := range affirmative {
		assert.True(t, Affirmative(answer), "expected %q to be affirmative", answer)
	}

	negative := []string{"no", "n", "false", "", "nope", "yess", "confirm"}
	for _, answer := range negative {
		assert.False(t, Affirmative(answer), "expected %q to be negative", answer)
	}
}
