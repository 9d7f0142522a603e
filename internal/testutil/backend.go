package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/symposium-ai/symposium/backend"
	"github.com/symposium-ai/symposium/core"
)

// Stage names recognized by the staged backend.
const (
	StageThink      = "think"
	StageAct        = "act"
	StageObserve    = "observe"
	StageSynthesize = "synthesize"
)

// Stage instruction markers mirrored from the cycle package's prompts.
var stageMarkers = map[string]string{
	StageThink:      "Produce your initial analysis",
	StageAct:        "List the evidence-gathering actions",
	StageObserve:    "Record one observation for each action",
	StageSynthesize: "Deliver your final position",
}

// StagedOptions configure a StagedBackend.
type StagedOptions struct {
	// Position and Confidence shape the synthesize stage output.
	Position   core.Position
	Confidence float64
	// FailStage, when set, makes that stage return Err.
	FailStage string
	Err       error
	// StallStage, when set, blocks that stage until the context expires.
	StallStage string
	// Latency delays every invocation.
	Latency time.Duration
}

// StagedBackend emits well-formed reasoning-cycle JSON for each stage,
// detected from the prompt's instruction marker. It is safe for concurrent
// use.
type StagedBackend struct {
	mu    sync.Mutex
	opts  StagedOptions
	calls int
}

var _ backend.Backend = (*StagedBackend)(nil)

// NewStagedBackend builds a backend that concludes with the given position
// and confidence.
func NewStagedBackend(position core.Position, confidence float64, optFns ...func(o *StagedOptions)) *StagedBackend {
	opts := StagedOptions{Position: position, Confidence: confidence}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &StagedBackend{opts: opts}
}

// Calls reports how many invocations have been made.
func (b *StagedBackend) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

// Invoke implements backend.Backend.
func (b *StagedBackend) Invoke(ctx context.Context, p backend.Prompt) (*backend.Result, error) {
	b.mu.Lock()
	b.calls++
	opts := b.opts
	b.mu.Unlock()

	if opts.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.Latency):
		}
	}

	stage := detectStage(p.Input)
	if stage == opts.StallStage && opts.StallStage != "" {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if stage == opts.FailStage && opts.FailStage != "" {
		return nil, opts.Err
	}

	var text string
	switch stage {
	case StageThink:
		text = `{"initial_thought": "considering the proposition", "hypothesis": "the claim appears plausible", "initial_confidence": 0.5, "information_needs": ["base rates", "recent evidence"]}`
	case StageAct:
		text = `{"actions": [{"type": "SEARCH", "query": "recent evidence"}, {"type": "LOOKUP", "query": "base rate"}]}`
	case StageObserve:
		text = `{"observations": [{"content": "found supporting data", "source": "example.org"}, {"content": "base rate located", "source": "stats.example.org"}], "source_validations": [{"source": "example.org", "reliability": 0.8}]}`
	case StageSynthesize:
		text = fmt.Sprintf(`{"position": "%s", "confidence": %.2f, "content": "Evidence points one way. The base rate supports it. Remaining doubt is small.", "reasoning": "observations outweighed counter-arguments", "synthesis_thought": "settled after review", "counter_arguments": ["sample may be biased"], "confidence_adjustment": 0.1}`,
			opts.Position, opts.Confidence)
	default:
		text = `{}`
	}
	return &backend.Result{Text: text, Usage: backend.Usage{TotalTokens: len(text) / 4}}, nil
}

// Info implements backend.Backend.
func (b *StagedBackend) Info() backend.Info {
	return backend.Info{Name: "staged", Provider: "mock"}
}

func detectStage(input string) string {
	for stage, marker := range stageMarkers {
		if strings.Contains(input, marker) {
			return stage
		}
	}
	return ""
}
