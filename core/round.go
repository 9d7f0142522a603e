package core

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateArgument is returned by DebateStore implementations when a
// second argument is persisted for the same (agent, round) pair.
var ErrDuplicateArgument = errors.New("argument already exists for agent and round")

// TerminationReason explains why a debate's round loop stopped.
type TerminationReason string

const (
	// TerminationConsensusReached means the consensus score met the
	// configured threshold with enough successful responses.
	TerminationConsensusReached TerminationReason = "CONSENSUS_REACHED"
	// TerminationMaxRounds means the configured round cap was reached.
	TerminationMaxRounds TerminationReason = "MAX_ROUNDS"
	// TerminationInsufficientAgents means fewer eligible agents exist than
	// the configured minimum.
	TerminationInsufficientAgents TerminationReason = "INSUFFICIENT_AGENTS"
	// TerminationStagnation means the consensus score stopped moving
	// between rounds.
	TerminationStagnation TerminationReason = "STAGNATION"
)

// Round is one iteration of deliberation for a proposition. Rounds for one
// proposition form a strictly ordered, append-only sequence starting at 1;
// round N+1 is never created before round N is closed.
type Round struct {
	ID                string            `json:"id"`
	PropositionID     string            `json:"proposition_id"`
	Number            int               `json:"number"`
	Started           time.Time         `json:"started"`
	Ended             time.Time         `json:"ended"`
	Distribution      map[Position]int  `json:"distribution,omitempty"`
	ConsensusScore    float64           `json:"consensus_score"`
	IsFinal           bool              `json:"is_final"`
	TerminationReason TerminationReason `json:"termination_reason,omitempty"`
}

// Closed reports whether the round has an end timestamp.
func (r *Round) Closed() bool { return !r.Ended.IsZero() }

// RoundResult is the outcome of executing one round: the closed round
// record, every argument persisted for it, every per-agent failure, and the
// consensus snapshot computed at scoring time.
type RoundResult struct {
	Round     Round
	Arguments []Argument
	Failures  []FailureRecord
	Snapshot  *ConsensusSnapshot
	Eligible  int
}

// DebateStore is the persistence sink for rounds, arguments, reasoning
// cycles and failure records. Implementations must enforce round contiguity
// (numbers 1..N with no gaps, previous round closed before the next is
// created) and at most one argument per (agent, round) pair.
type DebateStore interface {
	CreateRound(ctx context.Context, r *Round) error
	CloseRound(ctx context.Context, r *Round) error
	Rounds(ctx context.Context, propositionID string) ([]Round, error)
	LastRound(ctx context.Context, propositionID string) (*Round, error)

	PutArgument(ctx context.Context, a *Argument, c *ReasoningCycle) error
	ArgumentsByRound(ctx context.Context, propositionID string) (map[int][]Argument, error)
	Cycle(ctx context.Context, argumentID string) (*ReasoningCycle, error)

	PutFailure(ctx context.Context, f *FailureRecord) error
	Failures(ctx context.Context, propositionID string) ([]FailureRecord, error)
}
