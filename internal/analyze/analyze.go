// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze scores a run's artifact sets: one quality analysis per
// client type, then a rollup over the whole prompt set. Failures degrade to
// deterministic fallback records instead of retrying; an analysis run
// always yields a rollup.
package analyze

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/persona-engine/internal/artifact"
	"github.com/pdiddy/persona-engine/internal/extract"
	"github.com/pdiddy/persona-engine/internal/model"
	"github.com/pdiddy/persona-engine/internal/prompt"
	"github.com/pdiddy/persona-engine/pkg/types"
)

const (
	defaultSampleLimit = 10
	defaultAnalysisDir = "data/analysis"
	defaultTemperature = 0.2
	defaultTopP        = 0.95
	defaultMaxTokens   = 8192

	minScore = 1
	maxScore = 10
)

// Analyzer scores artifact sets through a completion backend.
type Analyzer struct {
	backend model.Backend
	cfg     types.AnalysisConfig
}

// New builds an Analyzer, filling unset config fields with defaults. The
// analyzer runs cooler than the generator so scores stay consistent across
// runs.
func New(backend model.Backend, cfg types.AnalysisConfig) *Analyzer {
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.TopP == 0 {
		cfg.TopP = defaultTopP
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.SampleLimit <= 0 {
		cfg.SampleLimit = defaultSampleLimit
	}
	if cfg.AnalysisDir == "" {
		cfg.AnalysisDir = defaultAnalysisDir
	}
	return &Analyzer{backend: backend, cfg: cfg}
}

// Result reports where the rendered analysis landed.
type Result struct {
	Analysis     types.PromptSetAnalysis
	ReportPath   string
	SnapshotPath string
}

// Run analyzes every artifact set under outputDir and writes the report and
// YAML snapshot for owner. Per-persona and rollup failures degrade to
// fallback records; only missing artifacts and report I/O are fatal.
func (a *Analyzer) Run(ctx context.Context, outputDir, owner string, w io.Writer) (Result, error) {
	sets, skipped, err := artifact.ListSets(outputDir)
	if err != nil {
		return Result{}, fmt.Errorf("reading artifact sets: %w", err)
	}
	for _, name := range skipped {
		fmt.Fprintf(w, "skipping incomplete artifact set %q\n", name)
	}
	if len(sets) == 0 {
		return Result{}, fmt.Errorf("no artifact sets to analyze under %s", outputDir)
	}

	analyses := make([]types.ClientTypeAnalysis, 0, len(sets))
	for _, set := range sets {
		analysis := a.analyzeClientType(ctx, set)
		fmt.Fprintf(w, "analyzed %s: description %d/10, questions %d/10, responses %d/10\n",
			set.Persona.ID, analysis.DescriptionQuality, analysis.QuestionQuality, analysis.ResponseQuality)
		analyses = append(analyses, analysis)
	}

	overall := a.createOverallAnalysis(ctx, owner, analyses)
	fmt.Fprintf(w, "overall quality for %s: %d/10\n", owner, overall.OverallQuality)

	result := Result{Analysis: overall}
	result.ReportPath, result.SnapshotPath, err = writeReport(a.cfg.AnalysisDir, overall)
	if err != nil {
		return Result{}, err
	}
	fmt.Fprintf(w, "report written to %s\n", result.ReportPath)
	return result, nil
}

// analyzeClientType scores one artifact set. Any failure, from the model
// call through JSON extraction to score validation, yields the fallback
// record so one persona never blocks the others.
func (a *Analyzer) analyzeClientType(ctx context.Context, set artifact.Set) types.ClientTypeAnalysis {
	questions := sampleQuestions(set.Questions, a.cfg.SampleLimit)

	p, err := prompt.AnalyzeClientType(set.Persona, questions, set.Answers)
	if err != nil {
		return types.FallbackClientTypeAnalysis(set.Persona.ID, err.Error())
	}
	reply, err := a.complete(ctx, p)
	if err != nil {
		return types.FallbackClientTypeAnalysis(set.Persona.ID, err.Error())
	}

	var analysis types.ClientTypeAnalysis
	if err := extract.Object(reply, &analysis); err != nil {
		return types.FallbackClientTypeAnalysis(set.Persona.ID, "analysis response was not valid JSON")
	}
	analysis.ClientType = set.Persona.ID
	if !validClientAnalysis(analysis) {
		return types.FallbackClientTypeAnalysis(set.Persona.ID, "analysis response was missing required fields")
	}
	return analysis
}

// createOverallAnalysis rolls the per-persona analyses into one prompt-set
// assessment. It never fails: any error produces the fallback rollup
// carrying the analyses collected so far.
func (a *Analyzer) createOverallAnalysis(ctx context.Context, owner string, analyses []types.ClientTypeAnalysis) types.PromptSetAnalysis {
	p, err := prompt.AnalyzeOverall(owner, analyses)
	if err != nil {
		return types.FallbackPromptSetAnalysis(owner, analyses, err.Error())
	}
	reply, err := a.complete(ctx, p)
	if err != nil {
		return types.FallbackPromptSetAnalysis(owner, analyses, err.Error())
	}

	var overall types.PromptSetAnalysis
	if err := extract.Object(reply, &overall); err != nil {
		return types.FallbackPromptSetAnalysis(owner, analyses, "rollup response was not valid JSON")
	}
	overall.Owner = owner
	overall.ClientTypeAnalyses = analyses
	if overall.OverallQuality < minScore || overall.OverallQuality > maxScore || overall.Summary == "" {
		return types.FallbackPromptSetAnalysis(owner, analyses, "rollup response was missing required fields")
	}
	return overall
}

func (a *Analyzer) complete(ctx context.Context, p string) (string, error) {
	return a.backend.Complete(ctx, model.Request{
		Prompt:      p,
		Temperature: a.cfg.Temperature,
		TopP:        a.cfg.TopP,
		MaxTokens:   a.cfg.MaxTokens,
	})
}

func validClientAnalysis(a types.ClientTypeAnalysis) bool {
	scores := []int{a.DescriptionQuality, a.QuestionQuality, a.ResponseQuality}
	for _, s := range scores {
		if s < minScore || s > maxScore {
			return false
		}
	}
	return a.DescriptionFeedback != "" && a.QuestionFeedback != "" && a.ResponseFeedback != ""
}
