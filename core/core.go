package core

import (
	"strings"

	"github.com/google/uuid"
)

// NewID generates a new unique identifier for rounds, arguments and votes.
func NewID() string { return uuid.NewString() }

// Position is a participant's declared stance on a proposition.
type Position string

const (
	// PositionAffirmative supports the proposition.
	PositionAffirmative Position = "AFFIRMATIVE"
	// PositionNegative opposes the proposition.
	PositionNegative Position = "NEGATIVE"
	// PositionNeutral takes no side.
	PositionNeutral Position = "NEUTRAL"
)

// Valid reports whether p is one of the three recognized positions.
func (p Position) Valid() bool {
	switch p {
	case PositionAffirmative, PositionNegative, PositionNeutral:
		return true
	}
	return false
}

// ParsePosition normalizes free-form model output ("affirmative", "Yes",
// "support", ...) into a Position, defaulting to PositionNeutral.
func ParsePosition(s string) Position {
	switch normalize(s) {
	case "affirmative", "yes", "true", "support", "agree", "for":
		return PositionAffirmative
	case "negative", "no", "false", "oppose", "disagree", "against":
		return PositionNegative
	}
	return PositionNeutral
}

func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '"', '.':
			return -1
		}
		return r
	}, strings.ToLower(s))
}

// VoterClass distinguishes autonomous agents from human voters.
type VoterClass string

const (
	// VoterAgent marks votes and arguments produced by reasoning agents.
	VoterAgent VoterClass = "AGENT"
	// VoterHuman marks votes cast by human participants.
	VoterHuman VoterClass = "HUMAN"
)

// Valid reports whether c is a recognized voter class.
func (c VoterClass) Valid() bool { return c == VoterAgent || c == VoterHuman }

// ClampConfidence bounds a confidence value to [0,1].
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
