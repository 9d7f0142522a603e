// Package store provides volatile in-memory implementations of the
// persistence contracts defined in core: the debate store (rounds,
// arguments, reasoning cycles, failure records), the vote store, the
// proposition store and the agent directory. They are safe for concurrent
// access and best suited for tests or ephemeral demo deployments; durable
// deployments substitute their own implementations at wiring time.
package store
