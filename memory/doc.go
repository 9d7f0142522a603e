// Package memory contains concrete MemoryStore implementations. The store
// interface and AgentMemory types reside in the core package. Import
// github.com/symposium-ai/symposium/core and depend on core.MemoryStore in
// your code; select an implementation (like the in-memory store below) at
// wiring time.
//
// Rationale: keeps domain contracts centralized while allowing pluggable
// backends (document stores, key/value stores, etc.) to be added without
// introducing dependency cycles.
package memory
