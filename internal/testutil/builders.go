package testutil

import (
	"time"

	"github.com/symposium-ai/symposium/core"
)

// NewAgentProfile builds an active, auto-participating agent with default
// cycle configuration.
func NewAgentProfile(id string, personality core.Personality) core.AgentProfile {
	return core.AgentProfile{
		ID:              id,
		Name:            "Agent " + id,
		Personality:     personality,
		Temperature:     0.7,
		Active:          true,
		AutoParticipate: true,
		Config:          core.DefaultAgentConfig(),
	}
}

// NewProposition builds a proposition with a far-future deadline.
func NewProposition(id, title string) core.Proposition {
	return core.Proposition{
		ID:          id,
		Title:       title,
		Description: "Test proposition: " + title,
		Category:    "test",
		Deadline:    time.Now().Add(24 * time.Hour),
	}
}
