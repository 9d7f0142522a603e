package controller

import (
	"context"
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
	"github.com/symposium-ai/symposium/orchestrator"
	"github.com/symposium-ai/symposium/store"
)

type fixture struct {
	controller *Controller
	props      *store.InMemoryPropositionStore
	directory  *store.InMemoryDirectory
	memory     *memory.InMemoryStore
}

func newFixture(t *testing.T, b backend.Backend) *fixture {
	t.Helper()
	props := store.NewInMemoryPropositionStore()
	directory := store.NewInMemoryDirectory()
	debates := store.NewInMemoryStore()
	votes := store.NewInMemoryVoteStore()
	mem := memory.NewInMemoryStore()
	engine := consensus.New(votes, directory)
	runner := cycle.New(b, func(o *cycle.Options) {
		o.MaxRetries = 0
	})
	orch := orchestrator.New(props, directory, debates, mem, runner, engine)

	props.Put(testutil.NewProposition("prop-1", "Carbon taxes reduce emissions"))
	directory.Register(testutil.NewAgentProfile("agent-1", core.PersonalityAnalyst))
	directory.Register(testutil.NewAgentProfile("agent-2", core.PersonalitySkeptic))

	return &fixture{
		controller: New(orch, engine, mem, debates, props),
		props:      props,
		directory:  directory,
		memory:     mem,
	}
}

func TestStartDeliberationUpdatesMemory(t *testing.T) {
	b := testutil.NewStagedBackend(core.PositionAffirmative, 0.8)
	fx := newFixture(t, b)

	result, err := fx.controller.StartDeliberation(context.Background(), "prop-1", core.DefaultDebateConfig())
	require.NoError(t, err)
	require.Len(t, result.Arguments, 2)

	for _, id := range []string{"agent-1", "agent-2"} {
		m, err := fx.memory.Load(context.Background(), id)
		require.NoError(t, err)
		require.Len(t, m.Episodic, 1)
		e := m.Episodic[0]
		assert.Equal(t, "Carbon taxes reduce emissions", e.PropositionTitle)
		assert.Equal(t, 1, e.Round)
		assert.Equal(t, core.PositionAffirmative, e.Position)
		assert.NotEmpty(t, e.KeyInsights)
		// The proposition is unresolved; no mistakes or successes yet.
		assert.Empty(t, e.Mistakes)
		assert.Empty(t, e.SuccessfulStrategies)
	}
}

func TestStartDeliberationResolvedOutcome(t *testing.T) {
	b := testutil.NewStagedBackend(core.PositionNegative, 0.8)
	fx := newFixture(t, b)

	require.NoError(t, fx.props.Resolve("prop-1", core.PositionAffirmative))

	_, err := fx.controller.StartDeliberation(context.Background(), "prop-1", core.DefaultDebateConfig())
	require.NoError(t, err)

	m, err := fx.memory.Load(context.Background(), "agent-1")
	require.NoError(t, err)
	require.Len(t, m.Episodic, 1)
	require.Len(t, m.Episodic[0].Mistakes, 1)
	assert.Contains(t, m.Episodic[0].Mistakes[0], "contradicted the resolved outcome")
	assert.Empty(t, m.Episodic[0].SuccessfulStrategies)
}

func TestRunDebateLoopsToTermination(t *testing.T) {
	// Negative low-confidence agents never reach the threshold; the loop
	// stops on stagnation in round 2.
	b := testutil.NewStagedBackend(core.PositionNegative, 0.6)
	fx := newFixture(t, b)

	result, err := fx.controller.RunDebate(context.Background(), "prop-1", core.DefaultDebateConfig())
	require.NoError(t, err)
	assert.True(t, result.Round.IsFinal)
	assert.Equal(t, 2, result.Round.Number)
	assert.Equal(t, core.TerminationStagnation, result.Round.TerminationReason)
}

func TestCastVoteAndGetConsensus(t *testing.T) {
	b := testutil.NewStagedBackend(core.PositionAffirmative, 0.8)
	fx := newFixture(t, b)
	ctx := context.Background()

	_, err := fx.controller.CastVote(ctx, "prop-1", "human-1", core.VoterHuman, core.PositionAffirmative, 0.9)
	require.NoError(t, err)
	_, err = fx.controller.CastVote(ctx, "prop-1", "human-2", core.VoterHuman, core.PositionNegative, 0.8)
	require.NoError(t, err)

	snap, err := fx.controller.GetConsensus(ctx, "prop-1")
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Total)
	assert.InDelta(t, 0.5, snap.ConsensusPct, 1e-9)
	assert.Equal(t, 2, snap.Humans.Votes)
	assert.Zero(t, snap.Agents.Votes)
}

func TestCastVoteValidation(t *testing.T) {
	b := testutil.NewStagedBackend(core.PositionAffirmative, 0.8)
	fx := newFixture(t, b)

	_, err := fx.controller.CastVote(context.Background(), "prop-1", "human-1", core.VoterHuman, core.Position("MAYBE"), 0.5)
	f, ok := core.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, core.ErrKindValidation, f.Kind)
}

func TestGetDebateStatus(t *testing.T) {
	b := testutil.NewStagedBackend(core.PositionAffirmative, 0.85)
	fx := newFixture(t, b)
	ctx := context.Background()

	// Before any round.
	status, err := fx.controller.GetDebateStatus(ctx, "prop-1")
	require.NoError(t, err)
	assert.Zero(t, status.CurrentRound)
	assert.False(t, status.IsComplete)

	_, err = fx.controller.RunDebate(ctx, "prop-1", core.DefaultDebateConfig())
	require.NoError(t, err)

	status, err = fx.controller.GetDebateStatus(ctx, "prop-1")
	require.NoError(t, err)
	assert.Equal(t, "prop-1", status.PropositionID)
	assert.Equal(t, 1, status.CurrentRound)
	assert.True(t, status.IsComplete)
	assert.Equal(t, core.TerminationConsensusReached, status.TerminationReason)
	assert.Len(t, status.ArgumentsByRound[1], 2)
	require.NotNil(t, status.Consensus)
	assert.Equal(t, 2, status.Consensus.Total)
}

func TestDistillInsights(t *testing.T) {
	insights := distillInsights("First point. Second point!\nThird point? Fourth point.")
	assert.Equal(t, []string{"First point", "Second point", "Third point"}, insights)

	assert.Empty(t, distillInsights(""))
	assert.Equal(t, []string{"just one thought"}, distillInsights("just one thought"))
}

func TestIntakeProcessesRequest(t *testing.T) {
	b := testutil.NewStagedBackend(core.PositionAffirmative, 0.85)
	fx := newFixture(t, b)

	q := NewIntake(fx.controller, func(o *IntakeOptions) {
		o.Backoff = time.Millisecond
	})

	ctx, cancel := context.WithCancel(context.Background())
	q.Start(ctx)

	require.NoError(t, q.Enqueue(Request{PropositionID: "prop-1", Config: core.DefaultDebateConfig()}))

	require.Eventually(t, func() bool {
		status, err := fx.controller.GetDebateStatus(context.Background(), "prop-1")
		return err == nil && status.IsComplete
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-q.Done():
	case <-time.After(time.Second):
		t.Fatal("worker did not exit")
	}
}

func TestIntakeEnqueueValidation(t *testing.T) {
	b := testutil.NewStagedBackend(core.PositionAffirmative, 0.85)
	fx := newFixture(t, b)

	q := NewIntake(fx.controller)
	err := q.Enqueue(Request{})
	f, ok := core.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, core.ErrKindValidation, f.Kind)
}

func TestIntakeQueueFull(t *testing.T) {
	b := testutil.NewStagedBackend(core.PositionAffirmative, 0.85)
	fx := newFixture(t, b)

	// Worker not started, so the buffer fills.
	q := NewIntake(fx.controller, func(o *IntakeOptions) { o.QueueSize = 1 })
	require.NoError(t, q.Enqueue(Request{PropositionID: "prop-1"}))
	err := q.Enqueue(Request{PropositionID: "prop-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue full")
}
