package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePosition(t *testing.T) {
	cases := map[string]Position{
		"AFFIRMATIVE":   PositionAffirmative,
		"affirmative":   PositionAffirmative,
		" Yes ":         PositionAffirmative,
		"support":       PositionAffirmative,
		"NEGATIVE":      PositionNegative,
		"against":       PositionNegative,
		"no":            PositionNegative,
		"NEUTRAL":       PositionNeutral,
		"unsure":        PositionNeutral,
		"":              PositionNeutral,
		`"affirmative"`: PositionAffirmative,
	}
	for in, want := range cases {
		assert.Equalf(t, want, ParsePosition(in), "input %q", in)
	}
}

func TestPositionValid(t *testing.T) {
	assert.True(t, PositionAffirmative.Valid())
	assert.True(t, PositionNegative.Valid())
	assert.True(t, PositionNeutral.Valid())
	assert.False(t, Position("MAYBE").Valid())
}

func TestClampConfidence(t *testing.T) {
	assert.Equal(t, 0.0, ClampConfidence(-0.5))
	assert.Equal(t, 1.0, ClampConfidence(1.5))
	assert.Equal(t, 0.42, ClampConfidence(0.42))
}

func TestFailure_ErrorsAs(t *testing.T) {
	f := NewFailure(ErrKindBackendTimeout, "call to %s timed out", "openai")
	f.Retries = 2

	wrapped := fmt.Errorf("stage think: %w", f)

	got, ok := AsFailure(wrapped)
	assert.True(t, ok)
	assert.Equal(t, ErrKindBackendTimeout, got.Kind)
	assert.Equal(t, 2, got.Retries)
	assert.Contains(t, got.Error(), "BACKEND_TIMEOUT")

	_, ok = AsFailure(errors.New("plain"))
	assert.False(t, ok)
}
