package core

import "time"

// Default configuration values.
const (
	DefaultMaxRounds          = 3
	DefaultConsensusThreshold = 0.7
	DefaultMinAgents          = 2
	DefaultMaxSteps           = 5
	DefaultStagnationEpsilon  = 0.02
	DefaultRoundTimeout       = 5 * time.Minute
	DefaultAgentTimeout       = 90 * time.Second
)

// MaxSteps bounds enforced at configuration time.
const (
	MinMaxSteps = 3
	MaxMaxSteps = 10
)

// DebateConfig controls the round loop for one proposition.
type DebateConfig struct {
	// MaxRounds caps the number of rounds before forced termination.
	MaxRounds int `json:"max_rounds" yaml:"max_rounds"`
	// ConsensusThreshold is the weighted-affirmative share, in (0,1], at
	// which the debate terminates with CONSENSUS_REACHED.
	ConsensusThreshold float64 `json:"consensus_threshold" yaml:"consensus_threshold"`
	// MinAgents is the minimum number of successful responses required for
	// consensus termination, and the minimum eligible population below which
	// the debate terminates with INSUFFICIENT_AGENTS.
	MinAgents int `json:"min_agents" yaml:"min_agents"`
	// StagnationEpsilon is the minimum inter-round score movement; smaller
	// deltas terminate the debate with STAGNATION from round 2 on.
	StagnationEpsilon float64 `json:"stagnation_epsilon" yaml:"stagnation_epsilon"`
	// RoundTimeout is the round-level deadline for the collect barrier.
	RoundTimeout time.Duration `json:"round_timeout" yaml:"round_timeout"`
	// AgentTimeout is the outer per-agent ceiling; in-flight work past it is
	// abandoned and the agent is marked TIMEOUT.
	AgentTimeout time.Duration `json:"agent_timeout" yaml:"agent_timeout"`
}

// DefaultDebateConfig returns the baseline configuration.
func DefaultDebateConfig() DebateConfig {
	return DebateConfig{
		MaxRounds:          DefaultMaxRounds,
		ConsensusThreshold: DefaultConsensusThreshold,
		MinAgents:          DefaultMinAgents,
		StagnationEpsilon:  DefaultStagnationEpsilon,
		RoundTimeout:       DefaultRoundTimeout,
		AgentTimeout:       DefaultAgentTimeout,
	}
}

// Validate rejects malformed configuration before any dispatch occurs.
func (c DebateConfig) Validate() error {
	if c.MaxRounds < 1 {
		return NewFailure(ErrKindValidation, "max_rounds must be >= 1, got %d", c.MaxRounds)
	}
	if c.ConsensusThreshold <= 0 || c.ConsensusThreshold > 1 {
		return NewFailure(ErrKindValidation, "consensus_threshold must be in (0,1], got %v", c.ConsensusThreshold)
	}
	if c.MinAgents < 1 {
		return NewFailure(ErrKindValidation, "min_agents must be >= 1, got %d", c.MinAgents)
	}
	if c.StagnationEpsilon < 0 {
		return NewFailure(ErrKindValidation, "stagnation_epsilon must be >= 0, got %v", c.StagnationEpsilon)
	}
	if c.RoundTimeout <= 0 {
		return NewFailure(ErrKindValidation, "round_timeout must be positive, got %v", c.RoundTimeout)
	}
	if c.AgentTimeout <= 0 {
		return NewFailure(ErrKindValidation, "agent_timeout must be positive, got %v", c.AgentTimeout)
	}
	return nil
}

// AgentConfig controls one agent's reasoning cycle.
type AgentConfig struct {
	// MaxSteps bounds the number of evidence-gathering actions per cycle.
	// Valid range is 3-10 inclusive.
	MaxSteps int `json:"max_steps" yaml:"max_steps"`
	// ThinkingDepth selects prompt elaboration: basic, detailed or
	// comprehensive.
	ThinkingDepth ThinkingDepth `json:"thinking_depth" yaml:"thinking_depth"`
}

// DefaultAgentConfig returns the baseline per-agent configuration.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{MaxSteps: DefaultMaxSteps, ThinkingDepth: DepthBasic}
}

// Validate rejects out-of-range agent configuration.
func (c AgentConfig) Validate() error {
	if c.MaxSteps < MinMaxSteps || c.MaxSteps > MaxMaxSteps {
		return NewFailure(ErrKindValidation, "max_steps must be in [%d,%d], got %d", MinMaxSteps, MaxMaxSteps, c.MaxSteps)
	}
	if !c.ThinkingDepth.Valid() {
		return NewFailure(ErrKindValidation, "unknown thinking_depth %q", c.ThinkingDepth)
	}
	return nil
}
