package core

import (
	"context"
	"time"
)

// DefaultEpisodicCap bounds the episodic log length.
const DefaultEpisodicCap = 10

// EpisodicEntry summarizes one round outcome in an agent's memory.
type EpisodicEntry struct {
	PropositionTitle     string    `json:"proposition_title"`
	Round                int       `json:"round"`
	Position             Position  `json:"position"`
	Confidence           float64   `json:"confidence"`
	KeyInsights          []string  `json:"key_insights,omitempty"`
	Mistakes             []string  `json:"mistakes,omitempty"`
	SuccessfulStrategies []string  `json:"successful_strategies,omitempty"`
	Recorded             time.Time `json:"recorded"`
}

// AgentMemory is per-agent cross-round persistent state: a fixed identity
// ("soul") text, a skills text, and a bounded episodic log with the most
// recent entries last.
type AgentMemory struct {
	AgentID  string          `json:"agent_id"`
	Identity string          `json:"identity"`
	Skills   string          `json:"skills"`
	Episodic []EpisodicEntry `json:"episodic,omitempty"`
	Updated  time.Time       `json:"updated"`
}

// RoundLearnings is the controller-distilled input to a memory update.
type RoundLearnings struct {
	PropositionTitle     string
	Round                int
	Position             Position
	Confidence           float64
	KeyInsights          []string
	Mistakes             []string
	SuccessfulStrategies []string
}

// MemoryStore persists per-agent memory. Load never fails with "not found":
// missing agents receive a default template. Update is an atomic
// read-modify-write that appends one episodic entry and trims the log to the
// cap, dropping oldest entries first. Render deterministically formats a
// memory into the context block injected into the reasoning cycle; it
// returns an empty string for nil memory.
type MemoryStore interface {
	Load(ctx context.Context, agentID string) (*AgentMemory, error)
	Update(ctx context.Context, agentID string, l RoundLearnings) error
	Render(m *AgentMemory) string
}
