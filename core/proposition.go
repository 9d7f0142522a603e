package core

import (
	"context"
	"time"
)

// Proposition is the claim or forecast under debate. It is owned by an
// external collaborator; the engine only reads it. ResolvedOutcome is nil
// until the proposition resolves.
type Proposition struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Deadline        time.Time `json:"deadline"`
	ResolvedOutcome *Position `json:"resolved_outcome,omitempty"`
}

// Resolved reports whether a final outcome has been recorded.
func (p *Proposition) Resolved() bool { return p.ResolvedOutcome != nil }

// PropositionStore is the external proposition lookup collaborator.
type PropositionStore interface {
	Get(ctx context.Context, id string) (*Proposition, error)
}
