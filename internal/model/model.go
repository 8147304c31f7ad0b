// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package model abstracts the text-completion service the pipeline calls.
// The pipeline treats the model as an opaque, fallible free-text capability;
// parsing structure out of replies is the extraction package's job.
package model

import "context"

// Request holds one completion request. Sampling parameters are set per
// stage: generation runs warmer than analysis.
type Request struct {
	// Prompt is the full prompt text.
	Prompt string

	// Temperature is the sampling temperature.
	Temperature float64

	// TopP is the nucleus sampling parameter.
	TopP float64

	// MaxTokens bounds the output length.
	MaxTokens int
}

// Backend is the model service. Implementations return the raw reply text;
// tests supply mocks.
type Backend interface {
	Complete(ctx context.Context, req Request) (string, error)
}
