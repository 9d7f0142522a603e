package core

import (
	"context"
	"time"
)

// Personality is a fixed behavior kind for a reasoning agent. Each kind maps
// to a prompt-shaping strategy in the cycle package; nothing outside prompt
// construction branches on it.
type Personality string

const (
	// PersonalityAnalyst weighs evidence methodically and hedges.
	PersonalityAnalyst Personality = "ANALYST"
	// PersonalitySkeptic hunts for flaws and disconfirming evidence.
	PersonalitySkeptic Personality = "SKEPTIC"
	// PersonalityOptimist looks for the strongest affirmative case.
	PersonalityOptimist Personality = "OPTIMIST"
	// PersonalityEmpiricist trusts only sourced, verifiable observations.
	PersonalityEmpiricist Personality = "EMPIRICIST"
	// PersonalityGeneralist applies no special slant.
	PersonalityGeneralist Personality = "GENERALIST"
)

// Valid reports whether p is a recognized personality kind.
func (p Personality) Valid() bool {
	switch p {
	case PersonalityAnalyst, PersonalitySkeptic, PersonalityOptimist,
		PersonalityEmpiricist, PersonalityGeneralist:
		return true
	}
	return false
}

// ThinkingDepth controls how elaborate an agent's stage prompts are.
type ThinkingDepth string

const (
	// DepthBasic produces terse single-pass reasoning.
	DepthBasic ThinkingDepth = "basic"
	// DepthDetailed asks for explicit justification at each stage.
	DepthDetailed ThinkingDepth = "detailed"
	// DepthComprehensive additionally demands counter-argument analysis.
	DepthComprehensive ThinkingDepth = "comprehensive"
)

// Valid reports whether d is a recognized thinking depth.
func (d ThinkingDepth) Valid() bool {
	switch d {
	case DepthBasic, DepthDetailed, DepthComprehensive:
		return true
	}
	return false
}

// AgentProfile describes one autonomous participant as listed by the
// external agent directory.
type AgentProfile struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Personality     Personality `json:"personality"`
	Temperature     float64     `json:"temperature"`
	Active          bool        `json:"active"`
	AutoParticipate bool        `json:"auto_participate"`
	CooldownUntil   time.Time   `json:"cooldown_until"`
	Config          AgentConfig `json:"config"`
}

// Eligible reports whether the agent may be dispatched at time now: it must
// be active, opted into auto-participation and out of cooldown.
func (a AgentProfile) Eligible(now time.Time) bool {
	return a.Active && a.AutoParticipate && !now.Before(a.CooldownUntil)
}

// AgentDirectory is the external eligible-agent listing collaborator.
type AgentDirectory interface {
	ListEligible(ctx context.Context, propositionID string) ([]AgentProfile, error)
}

// ParticipantCounter reports the total platform participant population,
// which selects the consensus weighting regime.
type ParticipantCounter interface {
	ParticipantCount(ctx context.Context) (int, error)
}
