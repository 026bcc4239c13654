// Package llm defines the boundary to the external inference backend.
// The rest of the program treats generation as a black box: a prompt string
// goes in, generated text comes out. Model loading, batching, tokenization,
// and hardware selection are all the backend's concern.
package llm

import "context"

// SamplingConfig carries per-call generation parameters. Values are
// forwarded to the backend unmodified; there are no internal invariants
// beyond forwarding.
type SamplingConfig struct {
	Temperature       float64
	TopP              float64
	MaxTokens         int
	RepetitionPenalty float64
}

// Engine is the single entry point to the inference backend. Generate
// blocks until the backend returns the full generated text for the prompt.
type Engine interface {
	Generate(ctx context.Context, prompt string, sampling SamplingConfig) (string, error)
}
