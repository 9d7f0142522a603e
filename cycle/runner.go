package cycle

import (
	"context"
	"errors"
	"time"

	"github.com/symposium-ai/symposium/backend"
	"github.com/symposium-ai/symposium/core"
	"github.com/symposium-ai/symposium/logging"
)

// Options configure the runner's inner backend-call bounds. These are
// deliberately separate from the orchestrator's outer per-agent timeout: the
// runner's timeout is the inner bound on a single backend call, the
// orchestrator's is the hard ceiling for the whole cycle.
type Options struct {
	// Timeout bounds each individual backend invocation.
	Timeout time.Duration
	// MaxRetries is the per-call retry budget after the first attempt.
	MaxRetries int
	// Backoff is the base delay between retries, doubled per attempt.
	Backoff time.Duration
	// Logger receives per-call diagnostics.
	Logger logging.Logger
}

// Runner executes the four-stage reasoning workflow against a Backend.
type Runner struct {
	backend    backend.Backend
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	logger     logging.Logger
}

// New constructs a Runner with optional overrides.
func New(b backend.Backend, optFns ...func(o *Options)) *Runner {
	opts := Options{
		Timeout:    30 * time.Second,
		MaxRetries: 2,
		Backoff:    500 * time.Millisecond,
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Runner{
		backend:    b,
		timeout:    opts.Timeout,
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		logger:     logging.OrNoOp(opts.Logger),
	}
}

// Run executes one complete reasoning cycle for the agent on the
// proposition. On success it returns the Argument and its ReasoningCycle
// trace; on any stage failure after exhausting retries it returns a
// *core.Failure and no partial output.
func (r *Runner) Run(ctx context.Context, agent core.AgentProfile, prop core.Proposition, memoryContext string, round int) (*core.Argument, *core.ReasoningCycle, error) {
	cfg := agent.Config
	if cfg.MaxSteps == 0 && cfg.ThinkingDepth == "" {
		cfg = core.DefaultAgentConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	// Stage 1: think.
	res, retries, err := r.invoke(ctx, buildThinkPrompt(agent, prop, memoryContext, round))
	if err != nil {
		return nil, nil, stageFailure("think", agent.ID, retries, err)
	}
	think := parseThink(res.Text)

	// Stage 2: act. The action count is bounded by max_steps.
	res, retries, err = r.invoke(ctx, buildActPrompt(agent, prop, memoryContext, think, cfg.MaxSteps))
	if err != nil {
		return nil, nil, stageFailure("act", agent.ID, retries, err)
	}
	actions := parseActions(res.Text, cfg.MaxSteps)

	// Stage 3: observe, skipped when no actions were taken.
	var (
		observations []core.Observation
		validations  []core.SourceValidation
	)
	if len(actions) > 0 {
		res, retries, err = r.invoke(ctx, buildObservePrompt(agent, memoryContext, actions))
		if err != nil {
			return nil, nil, stageFailure("observe", agent.ID, retries, err)
		}
		observations, validations = parseObservations(res.Text, len(actions))
	}

	// Stage 4: synthesize.
	res, retries, err = r.invoke(ctx, buildSynthesizePrompt(agent, prop, memoryContext, think, actions, observations, round))
	if err != nil {
		return nil, nil, stageFailure("synthesize", agent.ID, retries, err)
	}
	synth := parseSynthesis(res.Text)

	arg := &core.Argument{
		ID:            core.NewID(),
		PropositionID: prop.ID,
		Round:         round,
		AuthorID:      agent.ID,
		AuthorClass:   core.VoterAgent,
		Position:      synth.Position,
		Confidence:    synth.Confidence,
		Content:       synth.Content,
		Reasoning:     synth.Reasoning,
		Evidence:      evidenceRefs(observations, validations),
		Created:       time.Now().UTC(),
	}
	trace := &core.ReasoningCycle{
		ArgumentID:        arg.ID,
		InitialThought:    think.InitialThought,
		Hypothesis:        think.Hypothesis,
		InformationNeeds:  think.InformationNeeds,
		Actions:           actions,
		Observations:      observations,
		SourceValidations: validations,
		SynthesisThought:  synth.SynthesisThought,
		CounterArguments:  synth.CounterArguments,
		ConfidenceDelta:   synth.Adjustment,
		StepsUsed:         len(actions),
		StepsAllowed:      cfg.MaxSteps,
	}
	return arg, trace, nil
}

// invoke calls the backend once per attempt under the inner timeout,
// retrying transient errors with exponential backoff. It returns the number
// of retries consumed alongside the result or terminal error.
func (r *Runner) invoke(ctx context.Context, p backend.Prompt) (*backend.Result, int, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			// The outer ceiling fired; do not burn retries against it.
			return nil, attempt, core.NewFailure(core.ErrKindTimeout, "cycle abandoned: %v", err)
		}
		if attempt > 0 {
			backoff := r.backoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, attempt, core.NewFailure(core.ErrKindTimeout, "cycle abandoned: %v", ctx.Err())
			case <-time.After(backoff):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		start := time.Now()
		res, err := r.backend.Invoke(callCtx, p)
		cancel()
		if err == nil {
			r.logger.Debug("backend call succeeded", "backend", r.backend.Info().Name, "tokens", res.Usage.TotalTokens, "duration", time.Since(start))
			return res, attempt, nil
		}
		lastErr = err
		r.logger.Warn("backend call failed", "backend", r.backend.Info().Name, "attempt", attempt+1, "error", err)
	}

	kind := core.ErrKindBackendError
	switch {
	case ctx.Err() != nil:
		// The outer ceiling expired while the last call was in flight.
		kind = core.ErrKindTimeout
	case errors.Is(lastErr, context.DeadlineExceeded):
		kind = core.ErrKindBackendTimeout
	}
	f := core.NewFailure(kind, "backend failed after %d retries: %v", r.maxRetries, lastErr)
	f.Retries = r.maxRetries
	return nil, r.maxRetries, f
}

// stageFailure annotates an invoke error with the stage that failed,
// preserving its kind and retry count.
func stageFailure(stage, agentID string, retries int, err error) error {
	if f, ok := core.AsFailure(err); ok {
		nf := core.NewFailure(f.Kind, "agent %s stage %s: %s", agentID, stage, f.Message)
		nf.Retries = retries
		return nf
	}
	nf := core.NewFailure(core.ErrKindBackendError, "agent %s stage %s: %v", agentID, stage, err)
	nf.Retries = retries
	return nf
}

func evidenceRefs(obs []core.Observation, validations []core.SourceValidation) []string {
	seen := map[string]bool{}
	var refs []string
	for _, o := range obs {
		if o.Source != "" && !seen[o.Source] {
			seen[o.Source] = true
			refs = append(refs, o.Source)
		}
	}
	for _, v := range validations {
		if !seen[v.Source] {
			seen[v.Source] = true
			refs = append(refs, v.Source)
		}
	}
	return refs
}
