// Package orchestrator executes deliberation rounds: it selects eligible
// agents, fans their reasoning cycles out concurrently, collects outcomes at
// a fan-in barrier bounded by the round deadline, persists results, scores
// the round through the consensus engine and decides termination. One
// agent's failure or timeout never cancels or delays another agent's call.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/symposium-ai/symposium/consensus"
	"github.com/symposium-ai/symposium/core"
	"github.com/symposium-ai/symposium/cycle"
	"github.com/symposium-ai/symposium/logging"
)

// Options configure the orchestrator.
type Options struct {
	Logger logging.Logger
}

// Orchestrator drives one round at a time for a proposition. Rounds for
// different propositions may execute fully concurrently; within one
// proposition the caller serializes rounds.
type Orchestrator struct {
	props     core.PropositionStore
	directory core.AgentDirectory
	store     core.DebateStore
	memory    core.MemoryStore
	runner    *cycle.Runner
	engine    *consensus.Engine
	logger    logging.Logger
}

// New constructs an Orchestrator.
func New(
	props core.PropositionStore,
	directory core.AgentDirectory,
	store core.DebateStore,
	memory core.MemoryStore,
	runner *cycle.Runner,
	engine *consensus.Engine,
	optFns ...func(o *Options),
) *Orchestrator {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{
		props:     props,
		directory: directory,
		store:     store,
		memory:    memory,
		runner:    runner,
		engine:    engine,
		logger:    logging.OrNoOp(opts.Logger),
	}
}

// outcome is one settled dispatch: either an argument plus its trace, or a
// failure.
type outcome struct {
	agentID string
	arg     *core.Argument
	trace   *core.ReasoningCycle
	failure *core.Failure
}

// ExecuteRound runs the round state machine for a proposition: select,
// dispatch, collect, persist, score, decide. Configuration errors are
// rejected before any dispatch. A round with zero successful agents still
// yields a valid RoundResult; only round-level persistence failures surface
// as errors, leaving the round resumable.
func (o *Orchestrator) ExecuteRound(ctx context.Context, propositionID string, cfg core.DebateConfig) (*core.RoundResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	prop, err := o.props.Get(ctx, propositionID)
	if err != nil {
		return nil, fmt.Errorf("proposition lookup: %w", err)
	}

	last, err := o.store.LastRound(ctx, propositionID)
	if err != nil {
		return nil, fmt.Errorf("last round: %w", err)
	}
	if last != nil && last.IsFinal {
		return nil, fmt.Errorf("debate for proposition %s already terminated: %s", propositionID, last.TerminationReason)
	}

	round := core.Round{
		PropositionID: propositionID,
		Number:        1,
		Started:       time.Now().UTC(),
	}
	resumed := false
	switch {
	case last == nil:
	case last.Closed():
		round.Number = last.Number + 1
	default:
		// A previous execution failed mid-round; resume it.
		round = *last
		resumed = true
	}

	// Select.
	eligible, err := o.directory.ListEligible(ctx, propositionID)
	if err != nil {
		return nil, fmt.Errorf("list eligible agents: %w", err)
	}
	if !resumed {
		if err := o.store.CreateRound(ctx, &round); err != nil {
			return nil, fmt.Errorf("create round: %w", err)
		}
	}
	log := o.logger
	log.Info("round started", "proposition_id", propositionID, "round", round.Number, "eligible", len(eligible))

	if len(eligible) < cfg.MinAgents {
		round.IsFinal = true
		round.TerminationReason = core.TerminationInsufficientAgents
		round.Ended = time.Now().UTC()
		if err := o.store.CloseRound(ctx, &round); err != nil {
			return nil, fmt.Errorf("close round: %w", err)
		}
		return &core.RoundResult{Round: round, Eligible: len(eligible)}, nil
	}

	// Dispatch and collect.
	outcomes := o.dispatch(ctx, *prop, eligible, round.Number, cfg)

	// Persist.
	result := &core.RoundResult{Round: round, Eligible: len(eligible)}
	for _, oc := range outcomes {
		if oc.failure != nil {
			rec := core.FailureRecord{
				PropositionID: propositionID,
				AgentID:       oc.agentID,
				Round:         round.Number,
				Kind:          oc.failure.Kind,
				Message:       oc.failure.Message,
				Retries:       oc.failure.Retries,
				Timestamp:     time.Now().UTC(),
			}
			if err := o.store.PutFailure(ctx, &rec); err != nil {
				return nil, fmt.Errorf("persist failure record: %w", err)
			}
			result.Failures = append(result.Failures, rec)
			log.Warn("agent failed", "proposition_id", propositionID, "round", round.Number,
				"agent_id", oc.agentID, "kind", rec.Kind, "message", rec.Message, "retries", rec.Retries)
			continue
		}
		if err := o.store.PutArgument(ctx, oc.arg, oc.trace); err != nil {
			// On a resumed round the agent's argument from the failed
			// attempt may already be stored; keep it and score with the
			// fresh result.
			if !resumed || !errors.Is(err, core.ErrDuplicateArgument) {
				return nil, fmt.Errorf("persist argument: %w", err)
			}
		}
		result.Arguments = append(result.Arguments, *oc.arg)
	}

	// Materialize agent positions as votes, then score.
	for _, a := range result.Arguments {
		if _, err := o.engine.Cast(ctx, propositionID, a.AuthorID, core.VoterAgent, a.Position, a.Confidence); err != nil {
			return nil, fmt.Errorf("materialize agent vote: %w", err)
		}
	}
	snapshot, err := o.engine.Recompute(ctx, propositionID)
	if err != nil {
		return nil, fmt.Errorf("score round: %w", err)
	}
	result.Snapshot = snapshot

	round.Distribution = map[core.Position]int{}
	for _, a := range result.Arguments {
		round.Distribution[a.Position]++
	}
	round.ConsensusScore = snapshot.ConsensusPct

	// Decide termination.
	round.IsFinal, round.TerminationReason = o.decide(ctx, propositionID, round.Number, len(result.Arguments), snapshot.ConsensusPct, cfg)
	round.Ended = time.Now().UTC()
	if err := o.store.CloseRound(ctx, &round); err != nil {
		return nil, fmt.Errorf("close round: %w", err)
	}
	result.Round = round

	log.Info("round closed", "proposition_id", propositionID, "round", round.Number,
		"succeeded", len(result.Arguments), "failed", len(result.Failures),
		"score", round.ConsensusScore, "final", round.IsFinal, "reason", string(round.TerminationReason))
	return result, nil
}

// dispatch fans one reasoning cycle per eligible agent out concurrently and
// collects settled outcomes until all agents report or the round deadline
// elapses. Agents still pending at the deadline are marked TIMEOUT and their
// in-flight work is abandoned, not awaited.
func (o *Orchestrator) dispatch(ctx context.Context, prop core.Proposition, agents []core.AgentProfile, roundNumber int, cfg core.DebateConfig) []outcome {
	results := make(chan outcome, len(agents))
	cancelAll := make([]context.CancelFunc, 0, len(agents))
	defer func() {
		for _, cancel := range cancelAll {
			cancel()
		}
	}()

	for _, agent := range agents {
		agentCtx, cancel := context.WithTimeout(ctx, cfg.AgentTimeout)
		cancelAll = append(cancelAll, cancel)
		go func(a core.AgentProfile, actx context.Context) {
			results <- o.runAgent(actx, a, prop, roundNumber)
		}(agent, agentCtx)
	}

	deadline := time.NewTimer(cfg.RoundTimeout)
	defer deadline.Stop()

	settled := make(map[string]outcome, len(agents))
	for len(settled) < len(agents) {
		select {
		case oc := <-results:
			settled[oc.agentID] = oc
		case <-deadline.C:
			return o.markStragglers(agents, settled)
		case <-ctx.Done():
			return o.markStragglers(agents, settled)
		}
	}

	out := make([]outcome, 0, len(agents))
	for _, a := range agents {
		out = append(out, settled[a.ID])
	}
	return out
}

// runAgent executes one agent's cycle: memory read, render, run. Panics and
// errors are confined to this agent's outcome.
func (o *Orchestrator) runAgent(ctx context.Context, agent core.AgentProfile, prop core.Proposition, roundNumber int) outcome {
	mem, err := o.memory.Load(ctx, agent.ID)
	if err != nil {
		return outcome{agentID: agent.ID, failure: core.NewFailure(core.ErrKindMemoryStore, "load memory for agent %s: %v", agent.ID, err)}
	}
	memoryContext := o.memory.Render(mem)

	arg, trace, err := o.runner.Run(ctx, agent, prop, memoryContext, roundNumber)
	if err != nil {
		if f, ok := core.AsFailure(err); ok {
			return outcome{agentID: agent.ID, failure: f}
		}
		return outcome{agentID: agent.ID, failure: core.NewFailure(core.ErrKindBackendError, "agent %s: %v", agent.ID, err)}
	}
	return outcome{agentID: agent.ID, arg: arg, trace: trace}
}

// markStragglers converts every unsettled agent into a TIMEOUT outcome.
func (o *Orchestrator) markStragglers(agents []core.AgentProfile, settled map[string]outcome) []outcome {
	out := make([]outcome, 0, len(agents))
	for _, a := range agents {
		if oc, ok := settled[a.ID]; ok {
			out = append(out, oc)
			continue
		}
		out = append(out, outcome{
			agentID: a.ID,
			failure: core.NewFailure(core.ErrKindTimeout, "agent %s did not settle before the round deadline", a.ID),
		})
	}
	return out
}

// decide applies the termination rules in precedence order: consensus,
// round cap, stagnation.
func (o *Orchestrator) decide(ctx context.Context, propositionID string, roundNumber, successes int, score float64, cfg core.DebateConfig) (bool, core.TerminationReason) {
	if score >= cfg.ConsensusThreshold && successes >= cfg.MinAgents {
		return true, core.TerminationConsensusReached
	}
	if roundNumber >= cfg.MaxRounds {
		return true, core.TerminationMaxRounds
	}
	if roundNumber >= 2 {
		rounds, err := o.store.Rounds(ctx, propositionID)
		if err == nil && len(rounds) >= roundNumber-1 {
			prev := rounds[roundNumber-2]
			if math.Abs(score-prev.ConsensusScore) < cfg.StagnationEpsilon {
				return true, core.TerminationStagnation
			}
		}
	}
	return false, ""
}
