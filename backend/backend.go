// Package backend abstracts the external reasoning capability invoked at
// reasoning-cycle stage boundaries. A Backend is opaque: given a structured
// prompt it returns text plus usage metadata, may fail or time out, and has
// no exactly-once guarantee. Adapters for hosted providers live in the
// openai and anthropic subpackages.
package backend

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Usage captures token usage statistics for one invocation.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Prompt is the normalized backend input produced by the cycle package.
type Prompt struct {
	// System carries persona and depth instructions.
	System string `json:"system"`
	// Input is the stage-specific user content.
	Input string `json:"input"`
	// Temperature overrides the adapter default when > 0.
	Temperature float64 `json:"temperature,omitempty"`
}

// Result is the outcome of a successful invocation.
type Result struct {
	Text  string `json:"text"`
	Usage Usage  `json:"usage"`
}

// Info contains metadata about a backend implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Backend is the minimal interface the reasoning cycle drives. Invoke must
// respect ctx cancellation; callers supply the timeout.
type Backend interface {
	Invoke(ctx context.Context, p Prompt) (*Result, error)
	Info() Info
}

// scripted pairs a prompt substring with a canned completion.
type scripted struct {
	contains string
	text     string
}

// MockBackend is a lightweight in-memory Backend useful for tests and
// examples. Responses are matched by substring against the prompt input in
// registration order; unmatched prompts receive an echo completion. An
// injected error, when set, takes precedence over scripted responses.
type MockBackend struct {
	mu      sync.Mutex
	info    Info
	scripts []scripted
	err     error
	// errBudget limits how many invocations fail before err clears; <0
	// means fail forever.
	errBudget int
	calls     int
}

// NewMockBackend constructs a MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{info: Info{Name: "mock", Provider: "mock"}}
}

// AddResponse registers a canned completion for prompts containing the substring.
func (m *MockBackend) AddResponse(contains, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts = append(m.scripts, scripted{contains: contains, text: text})
}

// FailWith makes the next n invocations return err; n < 0 fails forever.
func (m *MockBackend) FailWith(err error, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	m.errBudget = n
}

// Calls reports how many invocations have been made.
func (m *MockBackend) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Invoke implements Backend.
func (m *MockBackend) Invoke(ctx context.Context, p Prompt) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil && m.errBudget != 0 {
		if m.errBudget > 0 {
			m.errBudget--
		}
		return nil, m.err
	}
	for _, s := range m.scripts {
		if strings.Contains(p.Input, s.contains) || strings.Contains(p.System, s.contains) {
			return &Result{Text: s.text, Usage: Usage{TotalTokens: len(s.text) / 4}}, nil
		}
	}
	text := fmt.Sprintf("Mock response to: %s", p.Input)
	return &Result{Text: text, Usage: Usage{TotalTokens: len(text) / 4}}, nil
}

// Info implements Backend.
func (m *MockBackend) Info() Info { return m.info }
