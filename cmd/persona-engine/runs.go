package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdiddy/persona-engine/internal/run"
	"github.com/pdiddy/persona-engine/pkg/types"
)

var (
	completedColor  = color.New(color.FgGreen, color.Bold)
	failedColor     = color.New(color.FgRed, color.Bold)
	processingColor = color.New(color.FgCyan)
	pendingColor    = color.New(color.FgYellow)
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List past pipeline runs",
	Long: `Runs lists the runs recorded in the local registry, newest first, with
their status, client-type count, and analysis state.`,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().String("owner", "", "only show runs for this owner")
	runsCmd.Flags().String("data-dir", "data", "base directory for run data")
	runsCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	owner, _ := cmd.Flags().GetString("owner")

	store, err := run.NewStore(stringSetting(cmd, "data-dir"))
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(context.Background(), owner)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-5s  %-12s  %-12s  %-8s  %-10s  %-20s  %s\n",
		"ID", "Owner", "Status", "Clients", "Analysis", "Started", "Output")
	for _, r := range runs {
		analysis := "pending"
		if r.AnalysisCompleted {
			analysis = "done"
		}
		fmt.Printf("%-5d  %-12s  %-12s  %-8d  %-10s  %-20s  %s\n",
			r.ID, r.Owner, statusColor(r.Status).Sprint(r.Status), r.PersonaCount,
			analysis, r.StartedAt.Local().Format(time.DateTime), r.OutputDir)
		if r.ErrorMessage != "" {
			failedColor.Printf("       %s\n", r.ErrorMessage)
		}
	}
	return nil
}

func statusColor(s types.RunStatus) *color.Color {
	switch s {
	case types.RunCompleted:
		return completedColor
	case types.RunFailed:
		return failedColor
	case types.RunProcessing:
		return processingColor
	default:
		return pendingColor
	}
}
