package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/symposium-ai/symposium/core"
	"github.com/symposium-ai/symposium/logging"
)

// Request asks the intake queue to deliberate a proposition to completion.
type Request struct {
	PropositionID string
	Config        core.DebateConfig
}

// IntakeOptions configure the intake queue.
type IntakeOptions struct {
	// QueueSize bounds pending requests; Enqueue fails when exceeded.
	QueueSize int
	// MaxAttempts bounds retries for a failed round before the request is
	// dropped. The debate stays resumable by a later request.
	MaxAttempts int
	// Backoff is the base delay between attempts, doubled per attempt.
	Backoff time.Duration
	Logger  logging.Logger
}

// Intake decouples debate triggering from unrelated creation flows: callers
// hand an explicit Request to the queue instead of firing an un-awaited
// background call. The queue owns retry and backoff for failed rounds.
type Intake struct {
	controller  *Controller
	ch          chan Request
	maxAttempts int
	backoff     time.Duration
	logger      logging.Logger

	startOnce sync.Once
	done      chan struct{}
}

// NewIntake constructs an intake queue over a controller.
func NewIntake(c *Controller, optFns ...func(o *IntakeOptions)) *Intake {
	opts := IntakeOptions{
		QueueSize:   64,
		MaxAttempts: 3,
		Backoff:     time.Second,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Intake{
		controller:  c,
		ch:          make(chan Request, opts.QueueSize),
		maxAttempts: opts.MaxAttempts,
		backoff:     opts.Backoff,
		logger:      logging.OrNoOp(opts.Logger),
		done:        make(chan struct{}),
	}
}

// Start launches the worker; it runs until ctx is cancelled. Start is
// idempotent.
func (q *Intake) Start(ctx context.Context) {
	q.startOnce.Do(func() {
		go q.worker(ctx)
	})
}

// Done is closed when the worker has exited.
func (q *Intake) Done() <-chan struct{} { return q.done }

// Enqueue submits a request without blocking. It fails when the queue is
// full.
func (q *Intake) Enqueue(req Request) error {
	if req.PropositionID == "" {
		return core.NewFailure(core.ErrKindValidation, "proposition id is required")
	}
	select {
	case q.ch <- req:
		return nil
	default:
		return fmt.Errorf("intake queue full, dropping request for proposition %s", req.PropositionID)
	}
}

func (q *Intake) worker(ctx context.Context) {
	defer close(q.done)
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-q.ch:
			q.process(ctx, req)
		}
	}
}

// process drives the requested debate to completion, retrying failed rounds
// with exponential backoff up to the attempt budget.
func (q *Intake) process(ctx context.Context, req Request) {
	for attempt := 0; attempt < q.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(q.backoff << (attempt - 1)):
			}
		}
		result, err := q.controller.RunDebate(ctx, req.PropositionID, req.Config)
		if err == nil {
			q.logger.Info("debate completed", "proposition_id", req.PropositionID,
				"rounds", result.Round.Number, "reason", string(result.Round.TerminationReason))
			return
		}
		if ctx.Err() != nil {
			return
		}
		q.logger.Warn("debate attempt failed", "proposition_id", req.PropositionID, "attempt", attempt+1, "error", err)
	}
	q.logger.Error("debate abandoned after retries", "proposition_id", req.PropositionID, "attempts", q.maxAttempts)
}
