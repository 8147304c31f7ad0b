package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/persona-engine/internal/analyze"
	"github.com/pdiddy/persona-engine/internal/format"
	"github.com/pdiddy/persona-engine/internal/generate"
	"github.com/pdiddy/persona-engine/internal/run"
	"github.com/pdiddy/persona-engine/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: generate, format, analyze",
	Long: `Run sequences the three pipeline stages for one job and records the run in
the local registry. Each run writes its artifacts to its own subdirectory
under the data directory; use the runs command to list past runs.`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().String("kb", "", "path to the knowledge base text file (required)")
	runCmd.Flags().String("persona", "", "path to the agent persona text file (required)")
	runCmd.Flags().Int("questions", 10, "questions to generate per client type")
	runCmd.Flags().Int("personas", 5, "client types to discover (clamped to 2-7)")
	runCmd.Flags().String("owner", "", "owner label for this run (required)")
	runCmd.Flags().String("data-dir", "data", "base directory for run data")
	runCmd.Flags().String("model", defaultModel, "AI model identifier")
	runCmd.MarkFlagRequired("kb")
	runCmd.MarkFlagRequired("persona")
	runCmd.MarkFlagRequired("owner")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	backend, err := newBackend(cmd)
	if err != nil {
		return err
	}

	kbPath, _ := cmd.Flags().GetString("kb")
	personaPath, _ := cmd.Flags().GetString("persona")
	owner, _ := cmd.Flags().GetString("owner")
	dataDir := stringSetting(cmd, "data-dir")
	questions := intSetting(cmd, "questions")
	modelID := stringSetting(cmd, "model")
	analysisDir := filepath.Join(dataDir, "analysis")

	store, err := run.NewStore(dataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	gen := generate.New(backend, types.GenerationConfig{
		AIConfig:           types.AIConfig{Model: modelID},
		PersonaCount:       intSetting(cmd, "personas"),
		QuestionsPerClient: questions,
	})
	f := &format.Formatter{AnalysisDir: analysisDir}
	a := analyze.New(backend, types.AnalysisConfig{
		AIConfig:    types.AIConfig{Model: modelID},
		AnalysisDir: analysisDir,
	})

	c := run.NewCoordinator(store, gen, f, a, filepath.Join(dataDir, "prompts"))
	rec, err := c.Execute(context.Background(), run.Params{
		Owner:              owner,
		KnowledgeBasePath:  kbPath,
		PersonaPath:        personaPath,
		QuestionsPerClient: questions,
	}, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("run %d %s: %d client type(s) in %s\n", rec.ID, rec.Status, rec.PersonaCount, rec.OutputDir)
	if rec.AnalysisCompleted {
		fmt.Println("analysis report:", rec.AnalysisPath)
	}
	return nil
}
