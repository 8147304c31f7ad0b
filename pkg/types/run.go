// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunStatus tracks a run through its lifecycle.
type RunStatus string

const (
	RunPending    RunStatus = "pending"
	RunProcessing RunStatus = "processing"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
)

// Terminal reports whether the status is an end state.
func (s RunStatus) Terminal() bool {
	return s == RunCompleted || s == RunFailed
}

// RunRecord is one end-to-end pipeline execution as stored in the run
// registry. Analysis completion is tracked separately from the run status
// because analysis may lag behind generation.
type RunRecord struct {
	// ID is the registry row ID.
	ID int64 `json:"id" yaml:"id"`

	// Owner labels whose run this is. Used for output paths and reports
	// only; the registry is not a user store.
	Owner string `json:"owner" yaml:"owner"`

	// Status is the run's lifecycle state.
	Status RunStatus `json:"status" yaml:"status"`

	// QuestionsPerClient echoes the run parameter.
	QuestionsPerClient int `json:"questions_per_client" yaml:"questions_per_client"`

	// PersonaCount is the number of personas that produced artifacts.
	PersonaCount int `json:"persona_count" yaml:"persona_count"`

	// OutputDir is the run-scoped artifact directory.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// ErrorMessage records why a failed run failed. Empty otherwise.
	ErrorMessage string `json:"error_message,omitempty" yaml:"error_message,omitempty"`

	// AnalysisPath is the analysis report location, once produced.
	AnalysisPath string `json:"analysis_path,omitempty" yaml:"analysis_path,omitempty"`

	// AnalysisCompleted reports whether the analysis stage finished. It
	// can be false for a completed run.
	AnalysisCompleted bool `json:"analysis_completed" yaml:"analysis_completed"`

	// StartedAt is when the run was created.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// CompletedAt is when the run reached a terminal status.
	CompletedAt time.Time `json:"completed_at,omitzero" yaml:"completed_at,omitempty"`
}
