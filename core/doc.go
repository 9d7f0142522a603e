// Package core defines the shared domain model and service contracts for the
// deliberation engine: propositions, rounds, arguments, reasoning cycles,
// votes, consensus snapshots, agent profiles and memory, plus the store
// interfaces implemented elsewhere (store, memory, consensus). Higher level
// packages (cycle, orchestrator, controller) depend only on these contracts,
// never on concrete store implementations.
package core
