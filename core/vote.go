package core

import (
	"context"
	"time"
)

// Vote is a current position statement by one participant on one
// proposition. At most one current vote exists per (proposition, voter);
// later casts overwrite earlier ones. Weight is assigned at cast time from
// the weighting regime in force.
type Vote struct {
	PropositionID string     `json:"proposition_id"`
	VoterID       string     `json:"voter_id"`
	Class         VoterClass `json:"class"`
	Position      Position   `json:"position"`
	Confidence    float64    `json:"confidence"`
	Weight        float64    `json:"weight"`
	Cast          time.Time  `json:"cast"`
}

// VoteStore persists current votes. Upsert for a (proposition, voter) pair
// must be linearizable with respect to concurrent ForProposition reads: a
// read sees either the old or the new vote, never both.
type VoteStore interface {
	Upsert(ctx context.Context, v *Vote) error
	ForProposition(ctx context.Context, propositionID string) ([]Vote, error)
}

// ClassAggregate summarizes the votes of one voter class within a snapshot.
type ClassAggregate struct {
	Votes             int     `json:"votes"`
	Weight            float64 `json:"weight"`
	AffirmativeWeight float64 `json:"affirmative_weight"`
	ConsensusPct      float64 `json:"consensus_pct"`
	AvgConfidence     float64 `json:"avg_confidence"`
}

// ConsensusSnapshot is a derived, recomputable aggregate over all current
// votes for a proposition. It is always a pure function of those votes.
type ConsensusSnapshot struct {
	PropositionID    string               `json:"proposition_id"`
	Total            int                  `json:"total"`
	TotalWeight      float64              `json:"total_weight"`
	ByPosition       map[Position]int     `json:"by_position"`
	WeightByPosition map[Position]float64 `json:"weight_by_position"`
	ConsensusPct     float64              `json:"consensus_pct"`
	AvgConfidence    float64              `json:"avg_confidence"`
	Humans           ClassAggregate       `json:"humans"`
	Agents           ClassAggregate       `json:"agents"`
	Computed         time.Time            `json:"computed"`
}
