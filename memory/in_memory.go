package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/symposium-ai/symposium/core"
)

// Options configure the in-memory agent memory store.
type Options struct {
	// EpisodicCap bounds how many episodic entries are retained per agent.
	EpisodicCap int
	// DefaultIdentity seeds the identity text of agents with no stored memory.
	DefaultIdentity string
	// DefaultSkills seeds the skills text of agents with no stored memory.
	DefaultSkills string
}

// InMemoryStore is a process-local core.MemoryStore. Load never fails with
// "not found": agents without stored memory receive the default template.
// Update performs the read-modify-write under a single lock so a concurrent
// reader observes either the previous log or the fully trimmed new one,
// never a partially appended state.
//
// Concurrency: protected by RWMutex. Returned memories are deep copies so
// reasoning cycles can hold them across a round without racing the
// controller's post-round update.
type InMemoryStore struct {
	mu     sync.RWMutex
	agents map[string]*core.AgentMemory
	opts   Options
}

var _ core.MemoryStore = (*InMemoryStore)(nil)

// NewInMemoryStore creates a new in-memory agent memory store.
func NewInMemoryStore(optFns ...func(o *Options)) *InMemoryStore {
	opts := Options{
		EpisodicCap:     core.DefaultEpisodicCap,
		DefaultIdentity: "A careful debate participant with no recorded history.",
		DefaultSkills:   "Structured reasoning, evidence gathering, position synthesis.",
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemoryStore{agents: make(map[string]*core.AgentMemory), opts: opts}
}

// Load implements core.MemoryStore returning a deep copy of the stored
// memory, or a default template when none exists.
func (s *InMemoryStore) Load(_ context.Context, agentID string) (*core.AgentMemory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.agents[agentID]; ok {
		return cloneMemory(m), nil
	}
	return &core.AgentMemory{
		AgentID:  agentID,
		Identity: s.opts.DefaultIdentity,
		Skills:   s.opts.DefaultSkills,
	}, nil
}

// Update implements core.MemoryStore appending one episodic entry and
// trimming the log to the cap, oldest entries dropped first.
func (s *InMemoryStore) Update(_ context.Context, agentID string, l core.RoundLearnings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.agents[agentID]
	if !ok {
		m = &core.AgentMemory{
			AgentID:  agentID,
			Identity: s.opts.DefaultIdentity,
			Skills:   s.opts.DefaultSkills,
		}
		s.agents[agentID] = m
	}

	m.Episodic = append(m.Episodic, core.EpisodicEntry{
		PropositionTitle:     l.PropositionTitle,
		Round:                l.Round,
		Position:             l.Position,
		Confidence:           l.Confidence,
		KeyInsights:          append([]string(nil), l.KeyInsights...),
		Mistakes:             append([]string(nil), l.Mistakes...),
		SuccessfulStrategies: append([]string(nil), l.SuccessfulStrategies...),
		Recorded:             time.Now().UTC(),
	})
	if over := len(m.Episodic) - s.opts.EpisodicCap; over > 0 {
		m.Episodic = append([]core.EpisodicEntry(nil), m.Episodic[over:]...)
	}
	m.Updated = time.Now().UTC()

	return nil
}

// Render implements core.MemoryStore. The output is deterministic for a
// given memory and is injected verbatim into the reasoning context.
func (s *InMemoryStore) Render(m *core.AgentMemory) string {
	if m == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("## Agent Memory\n")
	if m.Identity != "" {
		sb.WriteString("### Identity\n")
		sb.WriteString(m.Identity)
		sb.WriteString("\n")
	}
	if m.Skills != "" {
		sb.WriteString("### Skills\n")
		sb.WriteString(m.Skills)
		sb.WriteString("\n")
	}
	if len(m.Episodic) > 0 {
		sb.WriteString("### Episodic History (oldest first)\n")
		for i, e := range m.Episodic {
			fmt.Fprintf(&sb, "%d. %q round %d: %s (confidence %.2f)\n", i+1, e.PropositionTitle, e.Round, e.Position, e.Confidence)
			writeList(&sb, "insights", e.KeyInsights)
			writeList(&sb, "mistakes", e.Mistakes)
			writeList(&sb, "strategies", e.SuccessfulStrategies)
		}
	}
	return sb.String()
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "   %s: %s\n", label, strings.Join(items, "; "))
}

func cloneMemory(m *core.AgentMemory) *core.AgentMemory {
	clone := *m
	clone.Episodic = make([]core.EpisodicEntry, len(m.Episodic))
	for i, e := range m.Episodic {
		e.KeyInsights = append([]string(nil), e.KeyInsights...)
		e.Mistakes = append([]string(nil), e.Mistakes...)
		e.SuccessfulStrategies = append([]string(nil), e.SuccessfulStrategies...)
		clone.Episodic[i] = e
	}
	return &clone
}
