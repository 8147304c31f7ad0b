// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ClientTypeAnalysis scores one persona's generated material on three axes.
// Exactly one is produced per surviving persona; on any analysis failure a
// deterministic fallback takes its place (see FallbackClientTypeAnalysis).
type ClientTypeAnalysis struct {
	// ClientType is the persona ID being analyzed.
	ClientType string `json:"client_type" yaml:"client_type"`

	// DescriptionQuality rates the persona description, 1-10.
	DescriptionQuality int `json:"description_quality" yaml:"description_quality"`

	// DescriptionFeedback is prose feedback on the description.
	DescriptionFeedback string `json:"description_feedback" yaml:"description_feedback"`

	// QuestionQuality rates the generated questions, 1-10.
	QuestionQuality int `json:"question_quality" yaml:"question_quality"`

	// QuestionFeedback is prose feedback on the questions.
	QuestionFeedback string `json:"question_feedback" yaml:"question_feedback"`

	// ResponseQuality rates the generated responses, 1-10.
	ResponseQuality int `json:"response_quality" yaml:"response_quality"`

	// ResponseFeedback is prose feedback on the responses.
	ResponseFeedback string `json:"response_feedback" yaml:"response_feedback"`

	// ImprovementSuggestions lists concrete suggestions for this persona.
	ImprovementSuggestions []string `json:"improvement_suggestions" yaml:"improvement_suggestions"`
}

// PromptSetAnalysis is the run-level rollup over all per-persona analyses.
// An analysis run always yields exactly one, degraded or not.
type PromptSetAnalysis struct {
	// Owner identifies whose prompt set was analyzed. Used only for
	// labeling the report.
	Owner string `json:"owner" yaml:"owner"`

	// OverallQuality rates the whole prompt set, 1-10.
	OverallQuality int `json:"overall_quality" yaml:"overall_quality"`

	// ClientTypeAnalyses carries the per-persona analyses the rollup was
	// built from.
	ClientTypeAnalyses []ClientTypeAnalysis `json:"client_type_analyses" yaml:"client_type_analyses"`

	// Strengths lists cross-persona strengths.
	Strengths []string `json:"strengths" yaml:"strengths"`

	// Weaknesses lists cross-persona weaknesses.
	Weaknesses []string `json:"weaknesses" yaml:"weaknesses"`

	// ImprovementSuggestions lists strategic suggestions for the set.
	ImprovementSuggestions []string `json:"improvement_suggestions" yaml:"improvement_suggestions"`

	// Summary is a 1-2 paragraph executive summary.
	Summary string `json:"summary" yaml:"summary"`
}
