// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/persona-engine/pkg/types"
)

// now is swapped by tests needing stable report names.
var now = time.Now

const reportTimeFormat = "20060102_150405"

// writeReport renders the rollup as a Markdown report plus a YAML snapshot
// of the full analysis record, both under analysisDir. Returns the two
// paths.
func writeReport(analysisDir string, analysis types.PromptSetAnalysis) (reportPath, snapshotPath string, err error) {
	if err := os.MkdirAll(analysisDir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating analysis directory: %w", err)
	}

	base := fmt.Sprintf("analysis_%s_%s", analysis.Owner, now().Format(reportTimeFormat))
	reportPath = filepath.Join(analysisDir, base+".md")
	snapshotPath = filepath.Join(analysisDir, base+".yaml")

	if err := os.WriteFile(reportPath, []byte(renderReport(analysis)), 0o644); err != nil {
		return "", "", fmt.Errorf("writing analysis report: %w", err)
	}

	data, err := yaml.Marshal(analysis)
	if err != nil {
		return "", "", fmt.Errorf("marshaling analysis snapshot: %w", err)
	}
	if err := os.WriteFile(snapshotPath, data, 0o644); err != nil {
		return "", "", fmt.Errorf("writing analysis snapshot: %w", err)
	}
	return reportPath, snapshotPath, nil
}

// renderReport lays the rollup out as Markdown: executive summary and
// overall rating, set-wide strengths, weaknesses, and suggestions, then
// one detailed subsection per client type.
func renderReport(analysis types.PromptSetAnalysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# BFSI Sales Bot Prompt Analysis for %s\n\n", analysis.Owner)
	b.WriteString("## Executive Summary\n\n")
	fmt.Fprintf(&b, "%s\n\n", analysis.Summary)
	fmt.Fprintf(&b, "**Overall Quality Rating:** %d/10\n\n", analysis.OverallQuality)

	writeBulletSection(&b, "Overall Strengths", analysis.Strengths)
	writeBulletSection(&b, "Overall Weaknesses", analysis.Weaknesses)
	writeBulletSection(&b, "Strategic Improvement Suggestions", analysis.ImprovementSuggestions)

	b.WriteString("## Detailed Client Type Analyses\n\n")
	for _, ca := range analysis.ClientTypeAnalyses {
		fmt.Fprintf(&b, "### Client Type: %s\n\n", ca.ClientType)

		b.WriteString("#### Description Analysis\n")
		fmt.Fprintf(&b, "**Quality Rating:** %d/10\n\n%s\n\n", ca.DescriptionQuality, ca.DescriptionFeedback)

		b.WriteString("#### Question Analysis\n")
		fmt.Fprintf(&b, "**Quality Rating:** %d/10\n\n%s\n\n", ca.QuestionQuality, ca.QuestionFeedback)

		b.WriteString("#### Response Analysis\n")
		fmt.Fprintf(&b, "**Quality Rating:** %d/10\n\n%s\n\n", ca.ResponseQuality, ca.ResponseFeedback)

		b.WriteString("#### Improvement Suggestions\n")
		for _, s := range ca.ImprovementSuggestions {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n" + strings.Repeat("-", 80) + "\n\n")
	}
	return b.String()
}

func writeBulletSection(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
