package store

import (
	"context"
	"sort"
	"sync"

	"github.com/symposium-ai/symposium/core"
)

// InMemoryVoteStore is a volatile core.VoteStore. Upserts replace the
// current vote for a (proposition, voter) pair under the write lock, and
// ForProposition copies under the read lock, so a concurrent recompute sees
// either the old or the new vote, never a mixed state.
type InMemoryVoteStore struct {
	mu    sync.RWMutex
	votes map[string]map[string]core.Vote // propositionID -> voterID -> current vote
}

var _ core.VoteStore = (*InMemoryVoteStore)(nil)

// NewInMemoryVoteStore constructs an empty vote store.
func NewInMemoryVoteStore() *InMemoryVoteStore {
	return &InMemoryVoteStore{votes: make(map[string]map[string]core.Vote)}
}

// Upsert implements core.VoteStore.
func (s *InMemoryVoteStore) Upsert(_ context.Context, v *core.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byVoter, ok := s.votes[v.PropositionID]
	if !ok {
		byVoter = make(map[string]core.Vote)
		s.votes[v.PropositionID] = byVoter
	}
	byVoter[v.VoterID] = *v
	return nil
}

// ForProposition implements core.VoteStore, returning votes ordered by voter
// id for deterministic aggregation.
func (s *InMemoryVoteStore) ForProposition(_ context.Context, propositionID string) ([]core.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byVoter := s.votes[propositionID]
	out := make([]core.Vote, 0, len(byVoter))
	for _, v := range byVoter {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VoterID < out[j].VoterID })
	return out, nil
}
