// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// FallbackScore is the neutral quality rating used by every degraded
// analysis record.
const FallbackScore = 5

// Degraded-value policy for the whole pipeline. Each constructor below is
// the single source of the substitute record used when a model response
// cannot be obtained or parsed; call sites never assemble fallbacks ad hoc.

// UnformattedAnswer wraps a model reply that contained no JSON object.
// The raw text is kept as the response so the material is not lost.
func UnformattedAnswer(question, raw string) Answer {
	return Answer{
		Question:  question,
		Response:  raw,
		KeyPoints: []string{"Response was not properly formatted"},
	}
}

// UnparseableAnswer substitutes for a reply whose JSON could not be parsed.
func UnparseableAnswer(question string) Answer {
	return Answer{
		Question:  question,
		Response:  "I apologize, but I'm unable to process your request at this time. Please contact our customer service for assistance.",
		KeyPoints: []string{"Error parsing response", "Redirected to customer service"},
	}
}

// FailedAnswer substitutes for an answer call that failed outright. Every
// question receives exactly one answer; this is the last resort.
func FailedAnswer(question string) Answer {
	return Answer{
		Question:  question,
		Response:  "I apologize, but I'm unable to provide a specific answer to this question at this time. Please contact our customer service for more detailed information.",
		KeyPoints: []string{"Error generating response", "Redirected to customer service"},
	}
}

// FillerQuestion is the deterministic generic question appended when the
// model returns fewer questions than requested. n is 1-based within the
// padded tail.
func FillerQuestion(personaID string, n int) Question {
	subject := strings.ReplaceAll(personaID, "_", " ")
	return Question{
		Text:    fmt.Sprintf("Follow-up %d: what else should a %s consider before choosing these services?", n, subject),
		Context: "Generic follow-up added to reach the requested question count. The agent should cover any material not addressed by the earlier questions.",
	}
}

// FallbackClientTypeAnalysis is the degraded per-persona analysis. All three
// axes score FallbackScore and every feedback field is non-empty; reason
// describes what went wrong.
func FallbackClientTypeAnalysis(personaID, reason string) ClientTypeAnalysis {
	return ClientTypeAnalysis{
		ClientType:             personaID,
		DescriptionQuality:     FallbackScore,
		DescriptionFeedback:    fmt.Sprintf("Analysis unavailable: %s", reason),
		QuestionQuality:        FallbackScore,
		QuestionFeedback:       "Could not analyze questions for this client type.",
		ResponseQuality:        FallbackScore,
		ResponseFeedback:       "Could not analyze responses for this client type.",
		ImprovementSuggestions: []string{"Review the logs and retry the analysis."},
	}
}

// FallbackPromptSetAnalysis is the degraded run-level rollup. The analyses
// collected so far are preserved; reason is surfaced in the summary.
func FallbackPromptSetAnalysis(owner string, analyses []ClientTypeAnalysis, reason string) PromptSetAnalysis {
	return PromptSetAnalysis{
		Owner:                  owner,
		OverallQuality:         FallbackScore,
		ClientTypeAnalyses:     analyses,
		Strengths:              []string{"Could not identify strengths due to an analysis error."},
		Weaknesses:             []string{"Analysis process failed - review logs for details."},
		ImprovementSuggestions: []string{"Review error logs and retry the analysis."},
		Summary:                fmt.Sprintf("The analysis process encountered an error and could not generate a proper summary: %s", reason),
	}
}
