package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/symposium-ai/symposium/core"
)

// InMemoryPropositionStore is a volatile core.PropositionStore.
type InMemoryPropositionStore struct {
	mu    sync.RWMutex
	props map[string]core.Proposition
}

var _ core.PropositionStore = (*InMemoryPropositionStore)(nil)

// NewInMemoryPropositionStore constructs an empty proposition store.
func NewInMemoryPropositionStore() *InMemoryPropositionStore {
	return &InMemoryPropositionStore{props: make(map[string]core.Proposition)}
}

// Put stores or replaces a proposition.
func (s *InMemoryPropositionStore) Put(p core.Proposition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.props[p.ID] = p
}

// Resolve records the final outcome of a proposition.
func (s *InMemoryPropositionStore) Resolve(id string, outcome core.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.props[id]
	if !ok {
		return fmt.Errorf("%w: proposition %s", ErrNotFound, id)
	}
	p.ResolvedOutcome = &outcome
	s.props[id] = p
	return nil
}

// Get implements core.PropositionStore.
func (s *InMemoryPropositionStore) Get(_ context.Context, id string) (*core.Proposition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.props[id]
	if !ok {
		return nil, fmt.Errorf("%w: proposition %s", ErrNotFound, id)
	}
	return &p, nil
}

// InMemoryDirectory is a volatile core.AgentDirectory plus
// core.ParticipantCounter. The human population is set explicitly; the
// participant count is humans plus registered agents.
type InMemoryDirectory struct {
	mu     sync.RWMutex
	agents map[string]core.AgentProfile
	humans int
	now    func() time.Time
}

var (
	_ core.AgentDirectory     = (*InMemoryDirectory)(nil)
	_ core.ParticipantCounter = (*InMemoryDirectory)(nil)
)

// NewInMemoryDirectory constructs an empty directory.
func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{agents: make(map[string]core.AgentProfile), now: time.Now}
}

// Register stores or replaces an agent profile.
func (d *InMemoryDirectory) Register(a core.AgentProfile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.agents[a.ID] = a
}

// SetCooldown places an agent in cooldown until the given time.
func (d *InMemoryDirectory) SetCooldown(agentID string, until time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if a, ok := d.agents[agentID]; ok {
		a.CooldownUntil = until
		d.agents[agentID] = a
	}
}

// SetHumanPopulation records the human participant population.
func (d *InMemoryDirectory) SetHumanPopulation(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.humans = n
}

// ListEligible implements core.AgentDirectory: active agents opted into
// auto-participation and out of cooldown, ordered by id.
func (d *InMemoryDirectory) ListEligible(_ context.Context, _ string) ([]core.AgentProfile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	now := d.now()
	out := make([]core.AgentProfile, 0, len(d.agents))
	for _, a := range d.agents {
		if a.Eligible(now) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ParticipantCount implements core.ParticipantCounter.
func (d *InMemoryDirectory) ParticipantCount(_ context.Context) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.humans + len(d.agents), nil
}
