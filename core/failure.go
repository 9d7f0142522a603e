package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies failures surfaced by the engine.
type ErrorKind string

const (
	// ErrKindBackendTimeout indicates the reasoning backend exceeded the
	// runner's inner per-call timeout (after exhausting retries).
	ErrKindBackendTimeout ErrorKind = "BACKEND_TIMEOUT"
	// ErrKindBackendError indicates the reasoning backend returned an error.
	ErrKindBackendError ErrorKind = "BACKEND_ERROR"
	// ErrKindTimeout indicates the orchestrator's outer per-agent ceiling or
	// the round deadline elapsed while the agent was still in flight.
	ErrKindTimeout ErrorKind = "TIMEOUT"
	// ErrKindValidation indicates malformed configuration or vote input.
	ErrKindValidation ErrorKind = "VALIDATION_ERROR"
	// ErrKindInsufficientAgents indicates fewer eligible agents exist than
	// the configured minimum.
	ErrKindInsufficientAgents ErrorKind = "INSUFFICIENT_AGENTS"
	// ErrKindMemoryStore indicates a persistence failure on memory load/update.
	ErrKindMemoryStore ErrorKind = "MEMORY_STORE_ERROR"
)

// Failure is a typed error carrying the engine's error taxonomy plus retry
// bookkeeping. Reasoning cycle failures are always reported as *Failure,
// never as partially populated arguments.
type Failure struct {
	Kind    ErrorKind
	Message string
	Retries int
}

// NewFailure constructs a Failure with a formatted message.
func NewFailure(kind ErrorKind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (f *Failure) Error() string { return fmt.Sprintf("%s: %s", f.Kind, f.Message) }

// AsFailure unwraps err into a *Failure if one is present in its chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// FailureRecord persists a per-agent failure observed during a round. It is
// written instead of an Argument so failed agents never appear as degenerate
// positions.
type FailureRecord struct {
	PropositionID string    `json:"proposition_id"`
	AgentID       string    `json:"agent_id"`
	Round         int       `json:"round"`
	Kind          ErrorKind `json:"kind"`
	Message       string    `json:"message"`
	Retries       int       `json:"retries"`
	Timestamp     time.Time `json:"timestamp"`
}
