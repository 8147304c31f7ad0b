// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the records shared across the persona pipeline stages.
package types

// Persona is a synthesized client archetype discovered from the knowledge
// base and agent persona documents. The ID doubles as the artifact directory
// name for the persona's question and answer files.
type Persona struct {
	// ID is a short slug identifier (2-3 words joined by underscores,
	// e.g. "rookie_trader").
	ID string `json:"client_type" yaml:"client_type"`

	// Description is a prose profile of the client type, 150-200 words.
	Description string `json:"description" yaml:"description"`
}

// Question is a single client question generated for one persona.
type Question struct {
	// Text is the question itself. Generated questions end with '?'.
	Text string `json:"question" yaml:"question"`

	// Context is a 2-3 sentence rationale that helps an agent prepare
	// a response.
	Context string `json:"context" yaml:"context"`
}

// Answer is a grounded response to one question. Answers are correlated to
// questions by verbatim Question text equality, not by position or ID.
type Answer struct {
	// Question is the exact text of the question being answered.
	Question string `json:"question" yaml:"question"`

	// Response is the prose answer.
	Response string `json:"response" yaml:"response"`

	// KeyPoints lists the main points covered by the response, in order.
	KeyPoints []string `json:"key_points" yaml:"key_points"`
}
