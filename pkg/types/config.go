package types

import "time"

// AIConfig holds shared settings for stages that call the model API.
type AIConfig struct {
	// Model is the model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the model API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Temperature is the sampling temperature for generation.
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// TopP is the nucleus sampling parameter.
	TopP float64 `json:"top_p" yaml:"top_p"`

	// MaxTokens bounds the model's output length.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Timeout is the per-call HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries is the number of retry attempts for rate-limited calls
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// GenerationConfig holds settings for the persona/question/answer
// generation stage.
type GenerationConfig struct {
	AIConfig `yaml:",inline"`

	// PersonaCount is the discovery target, clamped to [2, 7] (default 5).
	PersonaCount int `json:"persona_count" yaml:"persona_count"`

	// QuestionsPerClient is the exact number of questions each surviving
	// persona ends up with (default 10).
	QuestionsPerClient int `json:"questions_per_client" yaml:"questions_per_client"`

	// QuestionRetryCounts is the reduced-count retry schedule for question
	// generation. After the initial attempt at QuestionsPerClient, each
	// entry is one further attempt at that count. An empty schedule means
	// no retry.
	QuestionRetryCounts []int `json:"question_retry_counts" yaml:"question_retry_counts"`

	// OutputDir is the run-scoped directory for per-persona artifacts.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// AnalysisConfig holds settings for the quality analysis stage.
type AnalysisConfig struct {
	AIConfig `yaml:",inline"`

	// AnalysisDir is the directory for analysis reports.
	AnalysisDir string `json:"analysis_dir" yaml:"analysis_dir"`

	// SampleLimit bounds how many question/answer pairs per persona are
	// sent to the model (default 10). Pairs are sampled evenly across the
	// full set.
	SampleLimit int `json:"sample_limit" yaml:"sample_limit"`
}

// PipelineConfig groups all stage configurations plus the run registry
// location.
type PipelineConfig struct {
	Generation GenerationConfig `json:"generation" yaml:"generation"`
	Analysis   AnalysisConfig   `json:"analysis" yaml:"analysis"`

	// DataDir is the base directory holding prompts/, analysis/ and the
	// run registry database.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}
