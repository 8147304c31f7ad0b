// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format folds per-persona artifact sets into the consolidated
// output documents: a persona summary, a knowledge-base Q&A document, and
// a pointer to the newest analysis report for the owner. The fold is
// deterministic and makes no model calls.
package format

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/persona-engine/internal/artifact"
	"github.com/pdiddy/persona-engine/pkg/types"
)

const (
	personaDocFile = "client_types.md"
	kbDocFile      = "knowledge_base_qa.md"
)

// Outputs holds the paths written by Write. AnalysisPath is empty when no
// analysis report exists for the owner yet; analysis may run after
// formatting.
type Outputs struct {
	PersonaDocPath string
	KBDocPath      string
	AnalysisPath   string
}

// Formatter merges artifact sets found under an output directory.
type Formatter struct {
	// AnalysisDir is searched for the owner's newest report. Empty
	// disables the lookup.
	AnalysisDir string
}

// Write reads every complete artifact set under outputDir, renders the two
// consolidated documents into outputDir, and locates the newest analysis
// report for owner. Incomplete artifact directories are skipped and listed
// on w; I/O failures are fatal.
func (f *Formatter) Write(outputDir, owner string, w io.Writer) (Outputs, error) {
	sets, skipped, err := artifact.ListSets(outputDir)
	if err != nil {
		return Outputs{}, fmt.Errorf("reading artifact sets: %w", err)
	}
	for _, name := range skipped {
		fmt.Fprintf(w, "skipping incomplete artifact set %q\n", name)
	}
	if len(sets) == 0 {
		return Outputs{}, fmt.Errorf("no complete artifact sets under %s", outputDir)
	}

	out := Outputs{
		PersonaDocPath: filepath.Join(outputDir, personaDocFile),
		KBDocPath:      filepath.Join(outputDir, kbDocFile),
	}
	if err := os.WriteFile(out.PersonaDocPath, []byte(personaDocument(sets)), 0o644); err != nil {
		return Outputs{}, fmt.Errorf("writing persona document: %w", err)
	}
	if err := os.WriteFile(out.KBDocPath, []byte(kbDocument(sets)), 0o644); err != nil {
		return Outputs{}, fmt.Errorf("writing knowledge-base document: %w", err)
	}

	out.AnalysisPath = f.newestReport(owner)
	fmt.Fprintf(w, "formatted %d client types into %s\n", len(sets), outputDir)
	return out, nil
}

// personaDocument concatenates every persona's id and description under a
// fixed preamble.
func personaDocument(sets []artifact.Set) string {
	var b strings.Builder
	b.WriteString("# Client Types\n\n")
	b.WriteString("The following client types were identified from the knowledge base and agent persona. Each represents a distinct customer archetype used to generate representative questions and answers.\n")
	for _, set := range sets {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", displayName(set.Persona.ID), set.Persona.Description)
	}
	return b.String()
}

// kbDocument renders every persona's questions and answers as numbered
// sections. Answers are matched to questions by exact text; a question
// whose text matches no answer is rendered without a response block.
func kbDocument(sets []artifact.Set) string {
	var b strings.Builder
	b.WriteString("# Knowledge Base Q&A\n")
	for _, set := range sets {
		fmt.Fprintf(&b, "\n## %s\n", displayName(set.Persona.ID))
		answers := answersByQuestion(set.Answers)
		for i, q := range set.Questions {
			fmt.Fprintf(&b, "\n### Q%d: %s\n", i+1, q.Text)
			if q.Context != "" {
				fmt.Fprintf(&b, "\n*Context: %s*\n", q.Context)
			}
			a, ok := answers[q.Text]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "\n%s\n", a.Response)
			if len(a.KeyPoints) > 0 {
				b.WriteString("\nKey points:\n")
				for _, kp := range a.KeyPoints {
					fmt.Fprintf(&b, "- %s\n", kp)
				}
			}
		}
	}
	return b.String()
}

// answersByQuestion indexes answers by verbatim question text. No
// normalization: near-miss text must not match.
func answersByQuestion(answers []types.Answer) map[string]types.Answer {
	m := make(map[string]types.Answer, len(answers))
	for _, a := range answers {
		m[a.Question] = a
	}
	return m
}

// newestReport returns the most recently modified analysis report for
// owner, or empty when none exists. Lookup failures are treated as
// not-found since the report is optional at format time.
func (f *Formatter) newestReport(owner string) string {
	if f.AnalysisDir == "" {
		return ""
	}
	pattern := filepath.Join(f.AnalysisDir, "analysis_"+owner+"_*.md")
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) == 0 {
		return ""
	}
	sort.Slice(matches, func(i, j int) bool {
		return modTime(matches[i]).After(modTime(matches[j]))
	})
	return matches[0]
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

func displayName(personaID string) string {
	words := strings.Fields(strings.ReplaceAll(personaID, "_", " "))
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
