// Package symposium provides a high-level façade over the deliberation
// engine: the round orchestrator, the per-agent reasoning cycle, the
// weighted consensus engine and the debate controller. Most applications
// interact with this package by:
//  1. Creating a Symposium via New() (optionally overriding the default
//     in-memory stores and the reasoning backend)
//  2. Registering propositions and agents
//  3. Driving debates via StartDeliberation / RunDebate or the intake queue
//
// The façade delegates orchestration to the controller and orchestrator
// packages while keeping setup ergonomics concise. All defaults are safe
// for local development and testing; production deployments typically
// supply durable store implementations, a hosted reasoning backend and a
// structured logger.
package symposium

import (
	"context"
	"time"

	"github.com/symposium-ai/symposium/backend"
	"github.com/symposium-ai/symposium/consensus"
	"github.com/symposium-ai/symposium/controller"
	"github.com/symposium-ai/symposium/core"
	"github.com/symposium-ai/symposium/cycle"
	"github.com/symposium-ai/symposium/logging"
	"github.com/symposium-ai/symposium/memory"
	"github.com/symposium-ai/symposium/orchestrator"
	"github.com/symposium-ai/symposium/store"
)

// Options configure the Symposium instance. Any unset service is
// initialized with an in-memory implementation.
type Options struct {
	// Backend is the external reasoning capability. Defaults to a mock.
	Backend backend.Backend
	// Debate is the round-loop configuration applied by default.
	Debate core.DebateConfig
	// CycleTimeout bounds each individual backend call inside a cycle.
	CycleTimeout time.Duration
	// CycleRetries is the per-call retry budget inside a cycle.
	CycleRetries int

	Propositions core.PropositionStore
	Directory    core.AgentDirectory
	Participants core.ParticipantCounter
	DebateStore  core.DebateStore
	VoteStore    core.VoteStore
	MemoryStore  core.MemoryStore

	Logger logging.Logger
}

// Symposium aggregates the engine services behind a compact API.
type Symposium struct {
	opts       Options
	controller *controller.Controller
	intake     *controller.Intake
	directory  *store.InMemoryDirectory
	props      *store.InMemoryPropositionStore
}

// New creates a Symposium with optional overrides.
func New(optFns ...func(o *Options)) *Symposium {
	directory := store.NewInMemoryDirectory()
	props := store.NewInMemoryPropositionStore()

	opts := Options{
		Backend:      backend.NewMockBackend(),
		Debate:       core.DefaultDebateConfig(),
		CycleTimeout: 30 * time.Second,
		CycleRetries: 2,
		Propositions: props,
		Directory:    directory,
		Participants: directory,
		DebateStore:  store.NewInMemoryStore(),
		VoteStore:    store.NewInMemoryVoteStore(),
		MemoryStore:  memory.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)

	engine := consensus.New(opts.VoteStore, opts.Participants, func(o *consensus.Options) {
		o.Logger = opts.Logger
	})
	runner := cycle.New(opts.Backend, func(o *cycle.Options) {
		o.Timeout = opts.CycleTimeout
		o.MaxRetries = opts.CycleRetries
		o.Logger = opts.Logger
	})
	orch := orchestrator.New(opts.Propositions, opts.Directory, opts.DebateStore, opts.MemoryStore, runner, engine, func(o *orchestrator.Options) {
		o.Logger = opts.Logger
	})
	ctrl := controller.New(orch, engine, opts.MemoryStore, opts.DebateStore, opts.Propositions, func(o *controller.Options) {
		o.Logger = opts.Logger
	})
	intake := controller.NewIntake(ctrl, func(o *controller.IntakeOptions) {
		o.Logger = opts.Logger
	})

	return &Symposium{opts: opts, controller: ctrl, intake: intake, directory: directory, props: props}
}

// Controller exposes the underlying debate controller.
func (s *Symposium) Controller() *controller.Controller { return s.controller }

// Intake exposes the fire-and-forget debate intake queue. Call Start before
// enqueuing.
func (s *Symposium) Intake() *controller.Intake { return s.intake }

// AddProposition registers a proposition with the default in-memory store.
// It is a no-op when a custom PropositionStore was supplied.
func (s *Symposium) AddProposition(p core.Proposition) {
	if s.opts.Propositions == core.PropositionStore(s.props) {
		s.props.Put(p)
	}
}

// RegisterAgent registers an agent with the default in-memory directory.
// It is a no-op when a custom AgentDirectory was supplied.
func (s *Symposium) RegisterAgent(a core.AgentProfile) {
	if s.opts.Directory == core.AgentDirectory(s.directory) {
		s.directory.Register(a)
	}
}

// StartDeliberation runs exactly one round for the proposition using the
// configured debate settings.
func (s *Symposium) StartDeliberation(ctx context.Context, propositionID string) (*core.RoundResult, error) {
	return s.controller.StartDeliberation(ctx, propositionID, s.opts.Debate)
}

// RunDebate drives rounds until the debate terminates.
func (s *Symposium) RunDebate(ctx context.Context, propositionID string) (*core.RoundResult, error) {
	return s.controller.RunDebate(ctx, propositionID, s.opts.Debate)
}

// CastVote records an explicit vote.
func (s *Symposium) CastVote(ctx context.Context, propositionID, voterID string, class core.VoterClass, position core.Position, confidence float64) (*core.Vote, error) {
	return s.controller.CastVote(ctx, propositionID, voterID, class, position, confidence)
}

// GetConsensus recomputes the consensus snapshot on demand.
func (s *Symposium) GetConsensus(ctx context.Context, propositionID string) (*core.ConsensusSnapshot, error) {
	return s.controller.GetConsensus(ctx, propositionID)
}

// GetDebateStatus returns the read model for a proposition's debate.
func (s *Symposium) GetDebateStatus(ctx context.Context, propositionID string) (*controller.DebateStatus, error) {
	return s.controller.GetDebateStatus(ctx, propositionID)
}
