// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import "github.com/pdiddy/persona-engine/pkg/types"

// sampleQuestions bounds the analysis prompt by taking at most limit
// questions spread evenly across the set: stride = total/limit when the set
// is larger than the limit, otherwise everything.
func sampleQuestions(questions []types.Question, limit int) []types.Question {
	if len(questions) <= limit {
		return questions
	}
	step := len(questions) / limit
	sampled := make([]types.Question, 0, limit)
	for i := 0; i < len(questions) && len(sampled) < limit; i += step {
		sampled = append(sampled, questions[i])
	}
	return sampled
}
