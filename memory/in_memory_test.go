package memory

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symposium-ai/symposium/core"
)

func TestLoadReturnsTemplateForUnknownAgent(t *testing.T) {
	s := NewInMemoryStore()

	m, err := s.Load(context.Background(), "agent-1")
	require.NoError(t, err)
	assert.Equal(t, "agent-1", m.AgentID)
	assert.NotEmpty(t, m.Identity)
	assert.NotEmpty(t, m.Skills)
	assert.Empty(t, m.Episodic)
}

func TestUpdateAppendsEpisodicEntry(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	err := s.Update(ctx, "agent-1", core.RoundLearnings{
		PropositionTitle: "Remote work improves productivity",
		Round:            1,
		Position:         core.PositionAffirmative,
		Confidence:       0.8,
		KeyInsights:      []string{"meta-analyses favor hybrid setups"},
	})
	require.NoError(t, err)

	m, err := s.Load(ctx, "agent-1")
	require.NoError(t, err)
	require.Len(t, m.Episodic, 1)
	assert.Equal(t, "Remote work improves productivity", m.Episodic[0].PropositionTitle)
	assert.Equal(t, core.PositionAffirmative, m.Episodic[0].Position)
	assert.False(t, m.Episodic[0].Recorded.IsZero())
}

func TestEpisodicCapDropsOldestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	for i := 1; i <= 15; i++ {
		err := s.Update(ctx, "agent-1", core.RoundLearnings{
			PropositionTitle: fmt.Sprintf("proposition %d", i),
			Round:            1,
			Position:         core.PositionNeutral,
			Confidence:       0.5,
		})
		require.NoError(t, err)
	}

	m, err := s.Load(ctx, "agent-1")
	require.NoError(t, err)
	require.Len(t, m.Episodic, core.DefaultEpisodicCap)
	assert.Equal(t, "proposition 6", m.Episodic[0].PropositionTitle)
	assert.Equal(t, "proposition 15", m.Episodic[len(m.Episodic)-1].PropositionTitle)
}

func TestLoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	require.NoError(t, s.Update(ctx, "agent-1", core.RoundLearnings{
		PropositionTitle: "original",
		KeyInsights:      []string{"keep"},
	}))

	m, err := s.Load(ctx, "agent-1")
	require.NoError(t, err)
	m.Episodic[0].PropositionTitle = "mutated"
	m.Episodic[0].KeyInsights[0] = "mutated"

	fresh, err := s.Load(ctx, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, "original", fresh.Episodic[0].PropositionTitle)
	assert.Equal(t, []string{"keep"}, fresh.Episodic[0].KeyInsights)
}

func TestRenderDeterministic(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	require.NoError(t, s.Update(ctx, "agent-1", core.RoundLearnings{
		PropositionTitle:     "Carbon taxes reduce emissions",
		Round:                2,
		Position:             core.PositionAffirmative,
		Confidence:           0.75,
		KeyInsights:          []string{"price elasticity matters"},
		Mistakes:             []string{"overweighted a single study"},
		SuccessfulStrategies: []string{"cross-checked sources"},
	}))

	m, err := s.Load(ctx, "agent-1")
	require.NoError(t, err)

	out := s.Render(m)
	assert.Equal(t, out, s.Render(m))
	assert.True(t, strings.HasPrefix(out, "## Agent Memory\n"))
	assert.Contains(t, out, "### Identity")
	assert.Contains(t, out, "### Episodic History (oldest first)")
	assert.Contains(t, out, `1. "Carbon taxes reduce emissions" round 2: AFFIRMATIVE (confidence 0.75)`)
	assert.Contains(t, out, "insights: price elasticity matters")
	assert.Contains(t, out, "mistakes: overweighted a single study")
	assert.Contains(t, out, "strategies: cross-checked sources")
}

func TestRenderNil(t *testing.T) {
	s := NewInMemoryStore()
	assert.Empty(t, s.Render(nil))
}

func TestCustomEpisodicCap(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore(func(o *Options) { o.EpisodicCap = 2 })

	for i := 1; i <= 4; i++ {
		require.NoError(t, s.Update(ctx, "agent-1", core.RoundLearnings{
			PropositionTitle: fmt.Sprintf("proposition %d", i),
		}))
	}

	m, err := s.Load(ctx, "agent-1")
	require.NoError(t, err)
	require.Len(t, m.Episodic, 2)
	assert.Equal(t, "proposition 3", m.Episodic[0].PropositionTitle)
}
