package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/persona-engine/internal/analyze"
	"github.com/pdiddy/persona-engine/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a generated prompt set",
	Long: `Analyze scores every client type's description, questions, and responses,
then rolls the scores up into an overall assessment of the prompt set. The
report is written as Markdown with a YAML snapshot alongside. Failed
analyses degrade to neutral scores rather than failing the run.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("output-dir", "data/prompts", "directory holding generated artifacts")
	analyzeCmd.Flags().String("analysis-dir", "data/analysis", "directory for analysis reports")
	analyzeCmd.Flags().String("owner", "", "owner label for the report (required)")
	analyzeCmd.Flags().Int("sample-limit", 10, "max question/answer pairs sampled per client type")
	analyzeCmd.Flags().String("model", defaultModel, "AI model identifier")
	analyzeCmd.MarkFlagRequired("owner")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	backend, err := newBackend(cmd)
	if err != nil {
		return err
	}

	owner, _ := cmd.Flags().GetString("owner")

	a := analyze.New(backend, types.AnalysisConfig{
		AIConfig:    types.AIConfig{Model: stringSetting(cmd, "model")},
		AnalysisDir: stringSetting(cmd, "analysis-dir"),
		SampleLimit: intSetting(cmd, "sample-limit"),
	})

	result, err := a.Run(context.Background(), stringSetting(cmd, "output-dir"), owner, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Println("analysis report:", result.ReportPath)
	return nil
}
