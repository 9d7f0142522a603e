package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/symposium-ai/symposium/core"
)

// ErrRoundOrder is returned when round creation would break the contiguous
// append-only sequence for a proposition.
var ErrRoundOrder = fmt.Errorf("round out of order")

// ErrDuplicateArgument aliases the store contract sentinel for convenience.
var ErrDuplicateArgument = core.ErrDuplicateArgument

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = fmt.Errorf("record not found")

// InMemoryStore is a volatile core.DebateStore. It enforces the round
// invariants at write time: numbers are contiguous starting at 1, a round is
// created only after its predecessor closed, and each (agent, round) pair
// holds at most one argument.
type InMemoryStore struct {
	mu       sync.RWMutex
	rounds   map[string][]core.Round              // propositionID -> ordered rounds
	args     map[string]map[string]*core.Argument // propositionID -> agentID@round -> argument
	cycles   map[string]*core.ReasoningCycle      // argumentID -> cycle
	failures map[string][]core.FailureRecord      // propositionID -> failure records
}

var _ core.DebateStore = (*InMemoryStore)(nil)

// NewInMemoryStore constructs an empty in-memory debate store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		rounds:   make(map[string][]core.Round),
		args:     make(map[string]map[string]*core.Argument),
		cycles:   make(map[string]*core.ReasoningCycle),
		failures: make(map[string][]core.FailureRecord),
	}
}

// CreateRound appends a new round, enforcing contiguity and predecessor closure.
func (s *InMemoryStore) CreateRound(_ context.Context, r *core.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := s.rounds[r.PropositionID]
	if r.Number != len(existing)+1 {
		return fmt.Errorf("%w: expected round %d, got %d", ErrRoundOrder, len(existing)+1, r.Number)
	}
	if n := len(existing); n > 0 && !existing[n-1].Closed() {
		return fmt.Errorf("%w: round %d is still open", ErrRoundOrder, existing[n-1].Number)
	}
	if r.ID == "" {
		r.ID = core.NewID()
	}
	if r.Started.IsZero() {
		r.Started = time.Now().UTC()
	}
	s.rounds[r.PropositionID] = append(existing, cloneRound(r))
	return nil
}

// CloseRound writes the end timestamp and final fields of an open round.
func (s *InMemoryStore) CloseRound(_ context.Context, r *core.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rounds := s.rounds[r.PropositionID]
	for i := range rounds {
		if rounds[i].Number != r.Number {
			continue
		}
		if rounds[i].Closed() {
			return fmt.Errorf("%w: round %d already closed", ErrRoundOrder, r.Number)
		}
		if r.Ended.IsZero() {
			r.Ended = time.Now().UTC()
		}
		rounds[i] = cloneRound(r)
		return nil
	}
	return fmt.Errorf("%w: round %d for proposition %s", ErrNotFound, r.Number, r.PropositionID)
}

// Rounds returns a copy of the ordered round sequence for a proposition.
func (s *InMemoryStore) Rounds(_ context.Context, propositionID string) ([]core.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rounds := s.rounds[propositionID]
	out := make([]core.Round, len(rounds))
	copy(out, rounds)
	return out, nil
}

// LastRound returns the most recent round, or nil when none exist.
func (s *InMemoryStore) LastRound(_ context.Context, propositionID string) (*core.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rounds := s.rounds[propositionID]
	if len(rounds) == 0 {
		return nil, nil
	}
	last := rounds[len(rounds)-1]
	return cloneRoundPtr(&last), nil
}

// PutArgument persists an argument and its reasoning cycle atomically,
// rejecting duplicates for the same (agent, round) pair.
func (s *InMemoryStore) PutArgument(_ context.Context, a *core.Argument, c *core.ReasoningCycle) error {
	if a == nil || c == nil {
		return fmt.Errorf("argument and cycle are both required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%s@%d", a.AuthorID, a.Round)
	byKey, ok := s.args[a.PropositionID]
	if !ok {
		byKey = make(map[string]*core.Argument)
		s.args[a.PropositionID] = byKey
	}
	if _, exists := byKey[key]; exists {
		return fmt.Errorf("%w: agent %s round %d", ErrDuplicateArgument, a.AuthorID, a.Round)
	}
	ac := *a
	cc := *c
	cc.ArgumentID = ac.ID
	byKey[key] = &ac
	s.cycles[ac.ID] = &cc
	return nil
}

// ArgumentsByRound groups all arguments for a proposition by round number.
func (s *InMemoryStore) ArgumentsByRound(_ context.Context, propositionID string) (map[int][]core.Argument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int][]core.Argument)
	for _, a := range s.args[propositionID] {
		out[a.Round] = append(out[a.Round], *a)
	}
	return out, nil
}

// Cycle returns the reasoning cycle linked to an argument.
func (s *InMemoryStore) Cycle(_ context.Context, argumentID string) (*core.ReasoningCycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cycles[argumentID]
	if !ok {
		return nil, fmt.Errorf("%w: cycle for argument %s", ErrNotFound, argumentID)
	}
	cc := *c
	return &cc, nil
}

// PutFailure appends a per-agent failure record.
func (s *InMemoryStore) PutFailure(_ context.Context, f *core.FailureRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.Timestamp.IsZero() {
		f.Timestamp = time.Now().UTC()
	}
	s.failures[f.PropositionID] = append(s.failures[f.PropositionID], *f)
	return nil
}

// Failures returns a copy of all failure records for a proposition.
func (s *InMemoryStore) Failures(_ context.Context, propositionID string) ([]core.FailureRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	failures := s.failures[propositionID]
	out := make([]core.FailureRecord, len(failures))
	copy(out, failures)
	return out, nil
}

func cloneRound(r *core.Round) core.Round {
	c := *r
	if r.Distribution != nil {
		c.Distribution = make(map[core.Position]int, len(r.Distribution))
		for k, v := range r.Distribution {
			c.Distribution[k] = v
		}
	}
	return c
}

func cloneRoundPtr(r *core.Round) *core.Round {
	c := cloneRound(r)
	return &c
}
