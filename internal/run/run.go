// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package run

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pdiddy/persona-engine/internal/analyze"
	"github.com/pdiddy/persona-engine/internal/format"
	"github.com/pdiddy/persona-engine/internal/generate"
	"github.com/pdiddy/persona-engine/pkg/types"
)

// Stage interfaces let tests substitute the pipeline stages.
type generatorStage interface {
	Run(ctx context.Context, kbPath, personaPath, outputDir string, w io.Writer) (generate.Summary, error)
}

type formatterStage interface {
	Write(outputDir, owner string, w io.Writer) (format.Outputs, error)
}

type analyzerStage interface {
	Run(ctx context.Context, outputDir, owner string, w io.Writer) (analyze.Result, error)
}

// Params identifies one run request.
type Params struct {
	Owner              string
	KnowledgeBasePath  string
	PersonaPath        string
	QuestionsPerClient int
}

// Coordinator sequences generation, formatting, and analysis for one run
// and records lifecycle transitions in the registry. All decision logic
// lives in the stages; the coordinator only wires them together.
type Coordinator struct {
	store     *Store
	generator generatorStage
	formatter formatterStage
	analyzer  analyzerStage
	outputDir string
}

// NewCoordinator wires the three pipeline stages to the registry.
// outputDir is the base directory under which each run gets its own
// subdirectory.
func NewCoordinator(store *Store, g *generate.Generator, f *format.Formatter, a *analyze.Analyzer, outputDir string) *Coordinator {
	return &Coordinator{
		store:     store,
		generator: g,
		formatter: f,
		analyzer:  a,
		outputDir: outputDir,
	}
}

// Execute runs the pipeline end to end. The run moves pending →
// processing → completed or failed; generation and formatting failures
// fail the run, while analysis failure leaves a completed run with
// analysis still pending. The returned record reflects the final
// registry state.
func (c *Coordinator) Execute(ctx context.Context, p Params, w io.Writer) (types.RunRecord, error) {
	id, err := c.store.CreateRun(ctx, p.Owner, "", p.QuestionsPerClient)
	if err != nil {
		return types.RunRecord{}, err
	}
	runDir := filepath.Join(c.outputDir, fmt.Sprintf("run_%d", id))
	if err := c.setOutputDir(ctx, id, runDir); err != nil {
		return types.RunRecord{}, err
	}
	fmt.Fprintf(w, "run %d started for %s\n", id, p.Owner)

	if err := c.store.UpdateStatus(ctx, id, types.RunProcessing, ""); err != nil {
		return types.RunRecord{}, err
	}

	summary, err := c.generator.Run(ctx, p.KnowledgeBasePath, p.PersonaPath, runDir, w)
	if err != nil {
		return c.fail(ctx, id, fmt.Errorf("generation: %w", err))
	}
	if err := c.store.SetPersonaCount(ctx, id, summary.Produced); err != nil {
		return types.RunRecord{}, err
	}

	if _, err := c.formatter.Write(runDir, p.Owner, w); err != nil {
		return c.fail(ctx, id, fmt.Errorf("formatting: %w", err))
	}

	if err := c.store.UpdateStatus(ctx, id, types.RunCompleted, ""); err != nil {
		return types.RunRecord{}, err
	}

	// Analysis runs after the run is already completed; its failure never
	// retroactively fails the run.
	result, err := c.analyzer.Run(ctx, runDir, p.Owner, w)
	if err != nil {
		fmt.Fprintf(w, "analysis failed for run %d: %v\n", id, err)
	} else if err := c.store.CompleteAnalysis(ctx, id, result.ReportPath); err != nil {
		return types.RunRecord{}, err
	}

	return c.store.GetRun(ctx, id)
}

func (c *Coordinator) fail(ctx context.Context, id int64, cause error) (types.RunRecord, error) {
	if err := c.store.UpdateStatus(ctx, id, types.RunFailed, cause.Error()); err != nil {
		return types.RunRecord{}, err
	}
	rec, err := c.store.GetRun(ctx, id)
	if err != nil {
		return types.RunRecord{}, err
	}
	return rec, cause
}

func (c *Coordinator) setOutputDir(ctx context.Context, id int64, dir string) error {
	_, err := c.store.db.ExecContext(ctx,
		`UPDATE runs SET output_dir = ? WHERE id = ?`, dir, id)
	if err != nil {
		return fmt.Errorf("recording output dir for run %d: %w", id, err)
	}
	return nil
}
