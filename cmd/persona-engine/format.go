package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/persona-engine/internal/format"
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Merge generated artifacts into consolidated documents",
	Long: `Format folds every client type's artifacts under the output directory into
two consolidated documents: a client-type summary and a knowledge-base Q&A
document. It also locates the newest analysis report for the owner, when
one exists. No model calls are made.`,
	RunE: runFormat,
}

func init() {
	formatCmd.Flags().String("output-dir", "data/prompts", "directory holding generated artifacts")
	formatCmd.Flags().String("analysis-dir", "data/analysis", "directory holding analysis reports")
	formatCmd.Flags().String("owner", "", "owner label for the analysis lookup (required)")
	formatCmd.MarkFlagRequired("owner")

	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	owner, _ := cmd.Flags().GetString("owner")

	f := &format.Formatter{AnalysisDir: stringSetting(cmd, "analysis-dir")}
	out, err := f.Write(stringSetting(cmd, "output-dir"), owner, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Println("client types:", out.PersonaDocPath)
	fmt.Println("knowledge base Q&A:", out.KBDocPath)
	if out.AnalysisPath != "" {
		fmt.Println("latest analysis:", out.AnalysisPath)
	}
	return nil
}
