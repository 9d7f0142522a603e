// Package openai adapts the OpenAI Chat Completions API to the generic
// backend.Backend interface. Streaming and tool calling are intentionally
// not exposed; the reasoning cycle consumes whole completions.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/symposium-ai/symposium/backend"
)

// Options configure the OpenAI backend adapter. Fields mirror a minimal
// subset of Chat Completion parameters; extend via functional options
// without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Backend wraps the OpenAI Chat Completions API behind backend.Backend.
type Backend struct {
	client *openai.Client
	opts   Options
}

// New creates a new OpenAI backend using the official client.
func New(optFns ...func(o *Options)) *Backend {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a new OpenAI backend from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Backend {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Backend{client: client, opts: opts}
}

// Invoke implements backend.Backend with a single non-streaming completion.
func (b *Backend) Invoke(ctx context.Context, p backend.Prompt) (*backend.Result, error) {
	temperature := b.opts.Temperature
	if p.Temperature > 0 {
		temperature = p.Temperature
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if p.System != "" {
		messages = append(messages, openai.SystemMessage(p.System))
	}
	messages = append(messages, openai.UserMessage(p.Input))

	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               b.opts.Model,
		Temperature:         openai.Float(temperature),
		MaxCompletionTokens: openai.Int(b.opts.MaxCompletionTokens),
	})
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai api returned no choices")
	}

	return &backend.Result{
		Text: resp.Choices[0].Message.Content,
		Usage: backend.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

// Info implements backend.Backend.
func (b *Backend) Info() backend.Info {
	return backend.Info{Name: b.opts.Model, Provider: "openai"}
}
