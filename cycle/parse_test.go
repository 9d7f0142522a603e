package cycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symposium-ai/symposium/core"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced no tag", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding prose", `Here is my answer: {"a": 1} hope it helps`, `{"a": 1}`},
		{"no object", "no json here", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.in))
		})
	}
}

func TestParseThink(t *testing.T) {
	got := parseThink(`{"initial_thought": "the claim is plausible", "hypothesis": "it holds", "initial_confidence": 0.6, "information_needs": ["base rates", "recent studies"]}`)
	assert.Equal(t, "the claim is plausible", got.InitialThought)
	assert.Equal(t, "it holds", got.Hypothesis)
	assert.Equal(t, 0.6, got.InitialConfidence)
	assert.Equal(t, []string{"base rates", "recent studies"}, got.InformationNeeds)
}

func TestParseThinkFallbacks(t *testing.T) {
	got := parseThink("The model ignored the format and just wrote prose.")
	assert.Equal(t, "The model ignored the format and just wrote prose.", got.InitialThought)
	assert.Equal(t, got.InitialThought, got.Hypothesis)
	assert.Zero(t, got.InitialConfidence)
}

func TestParseThinkClampsConfidence(t *testing.T) {
	got := parseThink(`{"initial_thought": "x", "initial_confidence": 3.5}`)
	assert.Equal(t, 1.0, got.InitialConfidence)
}

func TestParseActions(t *testing.T) {
	text := `{"actions": [
		{"type": "search", "query": "remote work productivity studies"},
		{"type": "ANALYZE", "query": "survey methodology"},
		{"type": "teleport", "query": "unknown type falls back"},
		{"type": "lookup", "query": ""},
		{"type": "lookup", "query": "bls telework data"}
	]}`

	actions := parseActions(text, 5)
	require.Len(t, actions, 4)
	assert.Equal(t, core.ActionSearch, actions[0].Type)
	assert.Equal(t, core.ActionAnalyze, actions[1].Type)
	assert.Equal(t, core.ActionSearch, actions[2].Type)
	assert.Equal(t, core.ActionLookup, actions[3].Type)
}

func TestParseActionsCap(t *testing.T) {
	text := `{"actions": [
		{"type": "search", "query": "one"},
		{"type": "search", "query": "two"},
		{"type": "search", "query": "three"}
	]}`
	assert.Len(t, parseActions(text, 2), 2)
	assert.Empty(t, parseActions("not json", 3))
}

func TestParseObservationsAligned(t *testing.T) {
	text := `{"observations": [
		{"content": "first finding", "source": "journal A"},
		{"content": "second finding", "source": "journal B"}
	], "source_validations": [
		{"source": "journal A", "reliability": 0.9, "concerns": "small sample"},
		{"source": "", "reliability": 0.5}
	]}`

	obs, vals := parseObservations(text, 3)
	require.Len(t, obs, 3)
	assert.Equal(t, "first finding", obs[0].Content)
	assert.Equal(t, "journal B", obs[1].Source)
	assert.Equal(t, "no observation recorded", obs[2].Content)

	require.Len(t, vals, 1)
	assert.Equal(t, "journal A", vals[0].Source)
	assert.Equal(t, 0.9, vals[0].Reliability)
}

func TestParseObservationsTruncates(t *testing.T) {
	text := `{"observations": [
		{"content": "one"}, {"content": "two"}, {"content": "three"}
	]}`
	obs, _ := parseObservations(text, 2)
	assert.Len(t, obs, 2)
}

func TestParseSynthesis(t *testing.T) {
	got := parseSynthesis(`{
		"position": "affirmative",
		"confidence": 0.85,
		"content": "The evidence supports the claim.",
		"reasoning": "Multiple independent sources agree.",
		"synthesis_thought": "Counterpoints were weak.",
		"counter_arguments": ["selection bias in surveys"],
		"confidence_adjustment": 0.15
	}`)
	assert.Equal(t, core.PositionAffirmative, got.Position)
	assert.Equal(t, 0.85, got.Confidence)
	assert.Equal(t, "The evidence supports the claim.", got.Content)
	assert.Equal(t, []string{"selection bias in surveys"}, got.CounterArguments)
	assert.Equal(t, 0.15, got.Adjustment)
}

func TestParseSynthesisFallback(t *testing.T) {
	got := parseSynthesis("I cannot produce JSON, but I lean against the claim.")
	assert.Equal(t, core.PositionNeutral, got.Position)
	assert.Equal(t, "I cannot produce JSON, but I lean against the claim.", got.Content)
}
