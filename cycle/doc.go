// Package cycle executes one agent's structured reasoning workflow for one
// round: think, act, observe, synthesize. The external reasoning backend is
// invoked exactly once per stage, each call wrapped with the runner's inner
// timeout and retry budget (the orchestrator holds the outer per-agent
// ceiling). A cycle either yields a complete Argument plus its
// ReasoningCycle trace, or a typed core.Failure; partially populated
// arguments are never returned.
package cycle
