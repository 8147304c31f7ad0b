package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/persona-engine/internal/generate"
	"github.com/pdiddy/persona-engine/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate client-type prompts from a knowledge base and persona",
	Long: `Generate discovers distinct client types from the knowledge base and agent
persona, generates the questions each client type would ask, and answers
them grounded in the knowledge base. Each client type's artifacts are
written to their own directory under the output directory.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("kb", "", "path to the knowledge base text file (required)")
	generateCmd.Flags().String("persona", "", "path to the agent persona text file (required)")
	generateCmd.Flags().Int("questions", 10, "questions to generate per client type")
	generateCmd.Flags().Int("personas", 5, "client types to discover (clamped to 2-7)")
	generateCmd.Flags().String("output-dir", "data/prompts", "directory for generated artifacts")
	generateCmd.Flags().String("model", defaultModel, "AI model identifier")
	generateCmd.MarkFlagRequired("kb")
	generateCmd.MarkFlagRequired("persona")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	backend, err := newBackend(cmd)
	if err != nil {
		return err
	}

	kbPath, _ := cmd.Flags().GetString("kb")
	personaPath, _ := cmd.Flags().GetString("persona")
	outputDir := stringSetting(cmd, "output-dir")

	gen := generate.New(backend, types.GenerationConfig{
		AIConfig:           types.AIConfig{Model: stringSetting(cmd, "model")},
		PersonaCount:       intSetting(cmd, "personas"),
		QuestionsPerClient: intSetting(cmd, "questions"),
	})

	summary, err := gen.Run(context.Background(), kbPath, personaPath, outputDir, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Skipped > 0 {
		fmt.Fprintf(os.Stderr, "%d client type(s) skipped\n", summary.Skipped)
	}
	return nil
}
