package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symposium-ai/symposium/backend"
	"github.com/symposium-ai/symposium/consensus"
	"github.com/symposium-ai/symposium/core"
	"github.com/symposium-ai/symposium/cycle"
	"github.com/symposium-ai/symposium/internal/testutil"
	"github.com/symposium-ai/symposium/memory"
	"github.com/symposium-ai/symposium/store"
)

type fixture struct {
	orch      *Orchestrator
	props     *store.InMemoryPropositionStore
	directory *store.InMemoryDirectory
	debates   *store.InMemoryStore
	votes     *store.InMemoryVoteStore
	engine    *consensus.Engine
}

func newFixture(t *testing.T, b backend.Backend, agents ...core.AgentProfile) *fixture {
	t.Helper()
	props := store.NewInMemoryPropositionStore()
	directory := store.NewInMemoryDirectory()
	debates := store.NewInMemoryStore()
	votes := store.NewInMemoryVoteStore()
	mem := memory.NewInMemoryStore()
	engine := consensus.New(votes, directory)
	runner := cycle.New(b, func(o *cycle.Options) {
		o.MaxRetries = 0
		o.Backoff = time.Millisecond
	})

	props.Put(testutil.NewProposition("prop-1", "Remote work improves productivity"))
	for _, a := range agents {
		directory.Register(a)
	}

	return &fixture{
		orch:      New(props, directory, debates, mem, runner, engine),
		props:     props,
		directory: directory,
		debates:   debates,
		votes:     votes,
		engine:    engine,
	}
}

func defaultAgents() []core.AgentProfile {
	return []core.AgentProfile{
		testutil.NewAgentProfile("agent-1", core.PersonalityAnalyst),
		testutil.NewAgentProfile("agent-2", core.PersonalitySkeptic),
		testutil.NewAgentProfile("agent-3", core.PersonalityEmpiricist),
	}
}

func TestExecuteRoundReachesConsensus(t *testing.T) {
	b := testutil.NewStagedBackend(core.PositionAffirmative, 0.85)
	fx := newFixture(t, b, defaultAgents()...)

	result, err := fx.orch.ExecuteRound(context.Background(), "prop-1", core.DefaultDebateConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Round.Number)
	assert.True(t, result.Round.IsFinal)
	assert.Equal(t, core.TerminationConsensusReached, result.Round.TerminationReason)
	assert.Len(t, result.Arguments, 3)
	assert.Empty(t, result.Failures)
	assert.Equal(t, 3, result.Eligible)
	assert.Equal(t, 3, result.Round.Distribution[core.PositionAffirmative])
	// All votes affirmative, so the weighted share is 1.
	assert.Equal(t, 1.0, result.Round.ConsensusScore)
	require.NotNil(t, result.Snapshot)
	assert.Equal(t, 3, result.Snapshot.Total)

	last, err := fx.debates.LastRound(context.Background(), "prop-1")
	require.NoError(t, err)
	assert.True(t, last.Closed())
}

func TestExecuteRoundInvalidConfig(t *testing.T) {
	b := testutil.NewStagedBackend(core.PositionAffirmative, 0.85)
	fx := newFixture(t, b, defaultAgents()...)

	cfg := core.DefaultDebateConfig()
	cfg.MaxRounds = 0
	_, err := fx.orch.ExecuteRound(context.Background(), "prop-1", cfg)
	f, ok := core.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, core.ErrKindValidation, f.Kind)
	assert.Zero(t, b.Calls())
}

func TestExecuteRoundUnknownProposition(t *testing.T) {
	b := testutil.NewStagedBackend(core.PositionAffirmative, 0.85)
	fx := newFixture(t, b, defaultAgents()...)

	_, err := fx.orch.ExecuteRound(context.Background(), "missing", core.DefaultDebateConfig())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestExecuteRoundInsufficientAgents(t *testing.T) {
	b := testutil.NewStagedBackend(core.PositionAffirmative, 0.85)
	fx := newFixture(t, b, testutil.NewAgentProfile("agent-1", core.PersonalityAnalyst))

	result, err := fx.orch.ExecuteRound(context.Background(), "prop-1", core.DefaultDebateConfig())
	require.NoError(t, err)
	assert.True(t, result.Round.IsFinal)
	assert.Equal(t, core.TerminationInsufficientAgents, result.Round.TerminationReason)
	assert.Equal(t, 1, result.Eligible)
	assert.Empty(t, result.Arguments)
	assert.Zero(t, b.Calls())
}

func TestExecuteRoundRejectsTerminatedDebate(t *testing.T) {
	b := testutil.NewStagedBackend(core.PositionAffirmative, 0.85)
	fx := newFixture(t, b, defaultAgents()...)

	_, err := fx.orch.ExecuteRound(context.Background(), "prop-1", core.DefaultDebateConfig())
	require.NoError(t, err)

	_, err = fx.orch.ExecuteRound(context.Background(), "prop-1", core.DefaultDebateConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already terminated")
}

func TestOneFailingAgentDoesNotBlockOthers(t *testing.T) {
	// Exactly one of the three concurrent cycles fails at the think stage.
	b := &failOneThink{
		inner: testutil.NewStagedBackend(core.PositionAffirmative, 0.9),
		err:   errors.New("upstream 500"),
	}
	fx := newFixture(t, b, defaultAgents()...)

	result, err := fx.orch.ExecuteRound(context.Background(), "prop-1", core.DefaultDebateConfig())
	require.NoError(t, err)

	assert.Len(t, result.Arguments, 2)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, core.ErrKindBackendError, result.Failures[0].Kind)

	failures, err := fx.debates.Failures(context.Background(), "prop-1")
	require.NoError(t, err)
	assert.Len(t, failures, 1)
}

func TestOneTimedOutAgentOthersPersist(t *testing.T) {
	// Exactly one cycle stalls at synthesize until its per-agent ceiling.
	b := &stallOneSynthesize{inner: testutil.NewStagedBackend(core.PositionAffirmative, 0.9)}
	fx := newFixture(t, b, defaultAgents()...)

	cfg := core.DefaultDebateConfig()
	cfg.AgentTimeout = 50 * time.Millisecond
	cfg.RoundTimeout = 5 * time.Second

	result, err := fx.orch.ExecuteRound(context.Background(), "prop-1", cfg)
	require.NoError(t, err)

	assert.Len(t, result.Arguments, 2)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, core.ErrKindTimeout, result.Failures[0].Kind)

	byRound, err := fx.debates.ArgumentsByRound(context.Background(), "prop-1")
	require.NoError(t, err)
	assert.Len(t, byRound[1], 2)
}

func TestStalledAgentMarkedTimeout(t *testing.T) {
	b := testutil.NewStagedBackend(core.PositionAffirmative, 0.9, func(o *testutil.StagedOptions) {
		o.StallStage = testutil.StageSynthesize
	})
	fx := newFixture(t, b, defaultAgents()...)

	cfg := core.DefaultDebateConfig()
	cfg.AgentTimeout = 30 * time.Millisecond
	cfg.RoundTimeout = time.Second

	result, err := fx.orch.ExecuteRound(context.Background(), "prop-1", cfg)
	require.NoError(t, err)

	assert.Empty(t, result.Arguments)
	require.Len(t, result.Failures, 3)
	for _, f := range result.Failures {
		assert.Equal(t, core.ErrKindTimeout, f.Kind)
	}
	// Zero successes still closes the round; with max rounds remaining the
	// debate stays open.
	assert.True(t, result.Round.Closed())
	assert.False(t, result.Round.IsFinal)
}

func TestRoundDeadlineMarksStragglers(t *testing.T) {
	b := testutil.NewStagedBackend(core.PositionAffirmative, 0.9, func(o *testutil.StagedOptions) {
		o.StallStage = testutil.StageThink
	})
	fx := newFixture(t, b, defaultAgents()...)

	cfg := core.DefaultDebateConfig()
	cfg.AgentTimeout = time.Minute
	cfg.RoundTimeout = 30 * time.Millisecond

	result, err := fx.orch.ExecuteRound(context.Background(), "prop-1", cfg)
	require.NoError(t, err)
	require.Len(t, result.Failures, 3)
	for _, f := range result.Failures {
		assert.Equal(t, core.ErrKindTimeout, f.Kind)
		assert.Contains(t, f.Message, "round deadline")
	}
}

func TestMaxRoundsTermination(t *testing.T) {
	// Low confidence negatives never cross the threshold.
	b := testutil.NewStagedBackend(core.PositionNegative, 0.6)
	fx := newFixture(t, b, defaultAgents()...)

	cfg := core.DefaultDebateConfig()
	cfg.MaxRounds = 2
	cfg.StagnationEpsilon = 0 // disable stagnation for this test

	ctx := context.Background()
	r1, err := fx.orch.ExecuteRound(ctx, "prop-1", cfg)
	require.NoError(t, err)
	assert.False(t, r1.Round.IsFinal)

	r2, err := fx.orch.ExecuteRound(ctx, "prop-1", cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, r2.Round.Number)
	assert.True(t, r2.Round.IsFinal)
	assert.Equal(t, core.TerminationMaxRounds, r2.Round.TerminationReason)
}

func TestStagnationTermination(t *testing.T) {
	b := testutil.NewStagedBackend(core.PositionNegative, 0.6)
	fx := newFixture(t, b, defaultAgents()...)

	cfg := core.DefaultDebateConfig()
	cfg.MaxRounds = 5

	ctx := context.Background()
	r1, err := fx.orch.ExecuteRound(ctx, "prop-1", cfg)
	require.NoError(t, err)
	assert.False(t, r1.Round.IsFinal)

	// Identical votes produce an identical score; the delta is below epsilon.
	r2, err := fx.orch.ExecuteRound(ctx, "prop-1", cfg)
	require.NoError(t, err)
	assert.True(t, r2.Round.IsFinal)
	assert.Equal(t, core.TerminationStagnation, r2.Round.TerminationReason)
}

func TestAgentVotesMaterialized(t *testing.T) {
	b := testutil.NewStagedBackend(core.PositionAffirmative, 0.8)
	fx := newFixture(t, b, defaultAgents()...)

	_, err := fx.orch.ExecuteRound(context.Background(), "prop-1", core.DefaultDebateConfig())
	require.NoError(t, err)

	votes, err := fx.votes.ForProposition(context.Background(), "prop-1")
	require.NoError(t, err)
	require.Len(t, votes, 3)
	for _, v := range votes {
		assert.Equal(t, core.VoterAgent, v.Class)
		assert.Equal(t, core.PositionAffirmative, v.Position)
		// Bootstrap regime: 3 agents, no humans.
		assert.Equal(t, 0.5, v.Weight)
	}
}

// failOneThink fails the first think-stage invocation it sees and delegates
// everything else to the inner backend.
type failOneThink struct {
	inner  backend.Backend
	err    error
	mu     sync.Mutex
	failed bool
}

func (f *failOneThink) Invoke(ctx context.Context, p backend.Prompt) (*backend.Result, error) {
	if strings.Contains(p.Input, "Produce your initial analysis") {
		f.mu.Lock()
		first := !f.failed
		f.failed = true
		f.mu.Unlock()
		if first {
			return nil, f.err
		}
	}
	return f.inner.Invoke(ctx, p)
}

func (f *failOneThink) Info() backend.Info { return backend.Info{Name: "fail-one", Provider: "mock"} }

// stallOneSynthesize blocks the first synthesize-stage invocation until its
// context expires and delegates everything else to the inner backend.
type stallOneSynthesize struct {
	inner   backend.Backend
	mu      sync.Mutex
	stalled bool
}

func (s *stallOneSynthesize) Invoke(ctx context.Context, p backend.Prompt) (*backend.Result, error) {
	if strings.Contains(p.Input, "Deliver your final position") {
		s.mu.Lock()
		first := !s.stalled
		s.stalled = true
		s.mu.Unlock()
		if first {
			<-ctx.Done()
			return nil, ctx.Err()
		}
	}
	return s.inner.Invoke(ctx, p)
}

func (s *stallOneSynthesize) Info() backend.Info {
	return backend.Info{Name: "stall-one", Provider: "mock"}
}
