// Package consensus folds heterogeneous, differently-weighted votes into a
// single convergence signal. The engine owns the weighting policy (regime
// table) and the snapshot computation; the vote store it aggregates over is
// a core.VoteStore whose upserts are linearizable with respect to
// recomputes.
package consensus

import (
	"context"
	"fmt"
	"time"

	"github.com/symposium-ai/symposium/core"
	"github.com/symposium-ai/symposium/logging"
)

// Options configure the consensus engine.
type Options struct {
	Logger logging.Logger
}

// Engine computes weighted consensus over current votes. Recompute is a
// pure aggregation and is idempotent: two calls with no intervening vote
// changes yield identical snapshots (modulo the Computed timestamp).
type Engine struct {
	votes        core.VoteStore
	participants core.ParticipantCounter
	logger       logging.Logger
}

// New constructs an Engine over a vote store and participant counter.
func New(votes core.VoteStore, participants core.ParticipantCounter, optFns ...func(o *Options)) *Engine {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Engine{votes: votes, participants: participants, logger: logging.OrNoOp(opts.Logger)}
}

// CurrentRegime resolves the weighting regime from the live participant count.
func (e *Engine) CurrentRegime(ctx context.Context) (Regime, error) {
	n, err := e.participants.ParticipantCount(ctx)
	if err != nil {
		return RegimeBootstrap, fmt.Errorf("participant count: %w", err)
	}
	return RegimeFor(n), nil
}

// Cast validates and upserts a vote, assigning its weight from the regime in
// force at cast time. At most one current vote exists per (proposition,
// voter); later casts overwrite.
func (e *Engine) Cast(ctx context.Context, propositionID, voterID string, class core.VoterClass, position core.Position, confidence float64) (*core.Vote, error) {
	if propositionID == "" || voterID == "" {
		return nil, core.NewFailure(core.ErrKindValidation, "proposition and voter ids are required")
	}
	if !class.Valid() {
		return nil, core.NewFailure(core.ErrKindValidation, "unknown voter class %q", class)
	}
	if !position.Valid() {
		return nil, core.NewFailure(core.ErrKindValidation, "unknown position %q", position)
	}
	if confidence < 0 || confidence > 1 {
		return nil, core.NewFailure(core.ErrKindValidation, "confidence must be in [0,1], got %v", confidence)
	}

	regime, err := e.CurrentRegime(ctx)
	if err != nil {
		return nil, err
	}
	v := &core.Vote{
		PropositionID: propositionID,
		VoterID:       voterID,
		Class:         class,
		Position:      position,
		Confidence:    confidence,
		Weight:        regime.WeightFor(class),
		Cast:          time.Now().UTC(),
	}
	if err := e.votes.Upsert(ctx, v); err != nil {
		return nil, fmt.Errorf("upsert vote: %w", err)
	}
	e.logger.Debug("vote cast", "proposition_id", propositionID, "voter_id", voterID, "class", class, "position", position, "weight", v.Weight)
	return v, nil
}

// Recompute derives a ConsensusSnapshot from all current votes for the
// proposition. The weighted affirmative share is defined as 0 when total
// weight is 0. Safe to call concurrently with vote writes: the store read
// is a consistent point-in-time view.
func (e *Engine) Recompute(ctx context.Context, propositionID string) (*core.ConsensusSnapshot, error) {
	votes, err := e.votes.ForProposition(ctx, propositionID)
	if err != nil {
		return nil, fmt.Errorf("read votes: %w", err)
	}

	snap := &core.ConsensusSnapshot{
		PropositionID:    propositionID,
		ByPosition:       map[core.Position]int{},
		WeightByPosition: map[core.Position]float64{},
		Computed:         time.Now().UTC(),
	}

	var confidenceSum float64
	for _, v := range votes {
		snap.Total++
		snap.TotalWeight += v.Weight
		snap.ByPosition[v.Position]++
		snap.WeightByPosition[v.Position] += v.Weight
		confidenceSum += v.Confidence

		agg := &snap.Agents
		if v.Class == core.VoterHuman {
			agg = &snap.Humans
		}
		agg.Votes++
		agg.Weight += v.Weight
		agg.AvgConfidence += v.Confidence
		if v.Position == core.PositionAffirmative {
			agg.AffirmativeWeight += v.Weight
		}
	}

	snap.ConsensusPct = share(snap.WeightByPosition[core.PositionAffirmative], snap.TotalWeight)
	if snap.Total > 0 {
		snap.AvgConfidence = confidenceSum / float64(snap.Total)
	}
	finalizeAggregate(&snap.Humans)
	finalizeAggregate(&snap.Agents)

	return snap, nil
}

// share guards the weighted-affirmative division against zero total weight.
func share(affirmative, total float64) float64 {
	if total == 0 {
		return 0
	}
	return affirmative / total
}

func finalizeAggregate(a *core.ClassAggregate) {
	a.ConsensusPct = share(a.AffirmativeWeight, a.Weight)
	if a.Votes > 0 {
		a.AvgConfidence /= float64(a.Votes)
	}
}
