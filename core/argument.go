package core

import "time"

// Argument is one participant's recorded output for a round. Created exactly
// once per (agent, round) pair on success; absent on failure.
type Argument struct {
	ID            string     `json:"id"`
	PropositionID string     `json:"proposition_id"`
	Round         int        `json:"round"`
	AuthorID      string     `json:"author_id"`
	AuthorClass   VoterClass `json:"author_class"`
	Position      Position   `json:"position"`
	Confidence    float64    `json:"confidence"`
	Content       string     `json:"content"`
	Reasoning     string     `json:"reasoning"`
	Evidence      []string   `json:"evidence,omitempty"`
	Created       time.Time  `json:"created"`
}

// ActionType categorizes an evidence-gathering action.
type ActionType string

const (
	// ActionSearch is a broad evidence query.
	ActionSearch ActionType = "SEARCH"
	// ActionLookup targets a specific fact or figure.
	ActionLookup ActionType = "LOOKUP"
	// ActionAnalyze examines evidence already gathered.
	ActionAnalyze ActionType = "ANALYZE"
)

// Action is one evidence-gathering step taken during the act stage.
type Action struct {
	Type  ActionType `json:"type"`
	Query string     `json:"query"`
}

// Observation records the outcome of one action. Observations are aligned
// with actions by index.
type Observation struct {
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
}

// SourceValidation is an optional reliability note on an evidence source.
type SourceValidation struct {
	Source      string  `json:"source"`
	Reliability float64 `json:"reliability"`
	Concerns    string  `json:"concerns,omitempty"`
}

// ReasoningCycle is the structured think/act/observe/synthesize trace behind
// one Argument. One-to-one with the argument it links to.
type ReasoningCycle struct {
	ArgumentID        string             `json:"argument_id"`
	InitialThought    string             `json:"initial_thought"`
	Hypothesis        string             `json:"hypothesis"`
	InformationNeeds  []string           `json:"information_needs,omitempty"`
	Actions           []Action           `json:"actions,omitempty"`
	Observations      []Observation      `json:"observations,omitempty"`
	SourceValidations []SourceValidation `json:"source_validations,omitempty"`
	SynthesisThought  string             `json:"synthesis_thought"`
	CounterArguments  []string           `json:"counter_arguments,omitempty"`
	ConfidenceDelta   float64            `json:"confidence_delta"`
	StepsUsed         int                `json:"steps_used"`
	StepsAllowed      int                `json:"steps_allowed"`
}
