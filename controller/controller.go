// Package controller drives the debate round loop. It creates rounds
// through the orchestrator, feeds results to the consensus engine, writes
// round learnings back into each participating agent's memory, and exposes
// the operations consumed by collaborators: StartDeliberation, CastVote,
// GetConsensus and GetDebateStatus.
package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/symposium-ai/symposium/consensus"
	"github.com/symposium-ai/symposium/core"
	"github.com/symposium-ai/symposium/logging"
	"github.com/symposium-ai/symposium/orchestrator"
)

// maxKeyInsights bounds how many insights are distilled per argument.
const maxKeyInsights = 3

// Options configure the controller.
type Options struct {
	Logger logging.Logger
}

// Controller owns the debate lifecycle for propositions. All methods are
// safe for concurrent use across propositions; rounds for one proposition
// are serialized by the caller or the intake queue.
type Controller struct {
	orch   *orchestrator.Orchestrator
	engine *consensus.Engine
	memory core.MemoryStore
	store  core.DebateStore
	props  core.PropositionStore
	logger logging.Logger
}

// New constructs a Controller.
func New(
	orch *orchestrator.Orchestrator,
	engine *consensus.Engine,
	memory core.MemoryStore,
	store core.DebateStore,
	props core.PropositionStore,
	optFns ...func(o *Options),
) *Controller {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Controller{
		orch:   orch,
		engine: engine,
		memory: memory,
		store:  store,
		props:  props,
		logger: logging.OrNoOp(opts.Logger),
	}
}

// StartDeliberation runs exactly one round for the proposition and returns
// its outcome; callers loop or schedule subsequent rounds. After the round
// settles, each participating agent's memory is updated with that round's
// learnings. A memory update failure is logged and skipped, never fatal to
// the round result.
func (c *Controller) StartDeliberation(ctx context.Context, propositionID string, cfg core.DebateConfig) (*core.RoundResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	result, err := c.orch.ExecuteRound(ctx, propositionID, cfg)
	if err != nil {
		// Round-level failure: the debate is neither advanced nor closed.
		return nil, err
	}

	prop, err := c.props.Get(ctx, propositionID)
	if err != nil {
		return nil, fmt.Errorf("proposition lookup: %w", err)
	}
	for _, arg := range result.Arguments {
		l := distillLearnings(prop, arg)
		if err := c.memory.Update(ctx, arg.AuthorID, l); err != nil {
			c.logger.Error("memory update failed", "agent_id", arg.AuthorID, "proposition_id", propositionID, "round", arg.Round, "error", err)
		}
	}
	return result, nil
}

// RunDebate drives rounds until the debate terminates, returning the final
// round's result.
func (c *Controller) RunDebate(ctx context.Context, propositionID string, cfg core.DebateConfig) (*core.RoundResult, error) {
	for {
		result, err := c.StartDeliberation(ctx, propositionID, cfg)
		if err != nil {
			return nil, err
		}
		if result.Round.IsFinal {
			return result, nil
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
	}
}

// CastVote validates and records an explicit vote. Two casts by the same
// voter on the same proposition leave exactly one current vote.
func (c *Controller) CastVote(ctx context.Context, propositionID, voterID string, class core.VoterClass, position core.Position, confidence float64) (*core.Vote, error) {
	return c.engine.Cast(ctx, propositionID, voterID, class, position, confidence)
}

// GetConsensus recomputes the consensus snapshot on demand.
func (c *Controller) GetConsensus(ctx context.Context, propositionID string) (*core.ConsensusSnapshot, error) {
	return c.engine.Recompute(ctx, propositionID)
}

// DebateStatus is the read model exposed to UIs and ops tooling.
type DebateStatus struct {
	PropositionID     string                  `json:"proposition_id"`
	CurrentRound      int                     `json:"current_round"`
	IsComplete        bool                    `json:"is_complete"`
	TerminationReason core.TerminationReason  `json:"termination_reason,omitempty"`
	Consensus         *core.ConsensusSnapshot `json:"consensus"`
	ArgumentsByRound  map[int][]core.Argument `json:"arguments_by_round"`
}

// GetDebateStatus aggregates rounds, arguments and the current consensus
// for a proposition.
func (c *Controller) GetDebateStatus(ctx context.Context, propositionID string) (*DebateStatus, error) {
	last, err := c.store.LastRound(ctx, propositionID)
	if err != nil {
		return nil, fmt.Errorf("last round: %w", err)
	}
	args, err := c.store.ArgumentsByRound(ctx, propositionID)
	if err != nil {
		return nil, fmt.Errorf("arguments: %w", err)
	}
	snapshot, err := c.engine.Recompute(ctx, propositionID)
	if err != nil {
		return nil, fmt.Errorf("consensus: %w", err)
	}

	status := &DebateStatus{
		PropositionID:    propositionID,
		Consensus:        snapshot,
		ArgumentsByRound: args,
	}
	if last != nil {
		status.CurrentRound = last.Number
		status.IsComplete = last.IsFinal
		status.TerminationReason = last.TerminationReason
	}
	return status, nil
}

// distillLearnings builds the memory update for one argument: position,
// confidence, up to three key insights from the content, and mistake /
// success notes when the proposition has resolved.
func distillLearnings(prop *core.Proposition, arg core.Argument) core.RoundLearnings {
	l := core.RoundLearnings{
		PropositionTitle: prop.Title,
		Round:            arg.Round,
		Position:         arg.Position,
		Confidence:       arg.Confidence,
		KeyInsights:      distillInsights(arg.Content),
	}
	if prop.Resolved() {
		if arg.Position == *prop.ResolvedOutcome {
			l.SuccessfulStrategies = append(l.SuccessfulStrategies,
				fmt.Sprintf("position %s matched the resolved outcome", arg.Position))
		} else {
			l.Mistakes = append(l.Mistakes,
				fmt.Sprintf("position %s contradicted the resolved outcome %s", arg.Position, *prop.ResolvedOutcome))
		}
	}
	return l
}

// distillInsights takes the first sentences of the argument content, capped
// at maxKeyInsights.
func distillInsights(content string) []string {
	var insights []string
	for _, s := range strings.FieldsFunc(content, func(r rune) bool { return r == '.' || r == '\n' || r == '!' || r == '?' }) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		insights = append(insights, s)
		if len(insights) == maxKeyInsights {
			break
		}
	}
	return insights
}
