package format

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/persona-engine/internal/artifact"
	"github.com/pdiddy/persona-engine/pkg/types"
)

func writeSet(t *testing.T, dir string, set artifact.Set) {
	t.Helper()
	if err := artifact.WriteSet(dir, set); err != nil {
		t.Fatal(err)
	}
}

func fullSet(id string) artifact.Set {
	return artifact.Set{
		Persona: types.Persona{ID: id, Description: "Description of " + id + "."},
		Questions: []types.Question{
			{Text: "What are the fees?", Context: "Fee sensitivity is common."},
			{Text: "Is my money insured?", Context: "Safety is a top concern."},
		},
		Answers: []types.Answer{
			{Question: "What are the fees?", Response: "There are no monthly fees.", KeyPoints: []string{"no fees", "no minimum balance"}},
			{Question: "Is my money insured?", Response: "Deposits are insured up to the statutory limit.", KeyPoints: []string{"insured"}},
		},
	}
}

func TestWriteProducesBothDocuments(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, fullSet("day_trader"))
	writeSet(t, dir, fullSet("cautious_saver"))

	f := &Formatter{}
	out, err := f.Write(dir, "alice", io.Discard)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	personaDoc, err := os.ReadFile(out.PersonaDocPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# Client Types", "## Day Trader", "## Cautious Saver", "Description of day_trader."} {
		if !strings.Contains(string(personaDoc), want) {
			t.Errorf("persona document missing %q", want)
		}
	}

	kbDoc, err := os.ReadFile(out.KBDocPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"### Q1: What are the fees?",
		"### Q2: Is my money insured?",
		"There are no monthly fees.",
		"- no minimum balance",
	} {
		if !strings.Contains(string(kbDoc), want) {
			t.Errorf("knowledge-base document missing %q", want)
		}
	}
	if out.AnalysisPath != "" {
		t.Errorf("AnalysisPath = %q, want empty with no reports", out.AnalysisPath)
	}
}

func TestWriteIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, fullSet("day_trader"))

	f := &Formatter{}
	if _, err := f.Write(dir, "alice", io.Discard); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(filepath.Join(dir, kbDocFile))
	if err != nil {
		t.Fatal(err)
	}
	firstPersona, err := os.ReadFile(filepath.Join(dir, personaDocFile))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.Write(dir, "alice", io.Discard); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(filepath.Join(dir, kbDocFile))
	if err != nil {
		t.Fatal(err)
	}
	secondPersona, err := os.ReadFile(filepath.Join(dir, personaDocFile))
	if err != nil {
		t.Fatal(err)
	}

	if string(first) != string(second) {
		t.Error("knowledge-base document differs between identical runs")
	}
	if string(firstPersona) != string(secondPersona) {
		t.Error("persona document differs between identical runs")
	}
}

func TestNearMissAnswerTextIsExcluded(t *testing.T) {
	dir := t.TempDir()
	set := fullSet("day_trader")
	// Trailing whitespace makes the answer a near miss, not a match.
	set.Answers[0].Question = "What are the fees? "
	set.Answers[0].Response = "SHOULD NOT APPEAR"
	writeSet(t, dir, set)

	f := &Formatter{}
	out, err := f.Write(dir, "alice", io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	kbDoc, err := os.ReadFile(out.KBDocPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(kbDoc), "SHOULD NOT APPEAR") {
		t.Error("near-miss answer text was matched to the question")
	}
	// The unmatched question still appears as a section.
	if !strings.Contains(string(kbDoc), "### Q1: What are the fees?") {
		t.Error("unanswered question section missing")
	}
}

func TestWriteSkipsIncompleteSets(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, fullSet("day_trader"))
	if err := os.MkdirAll(filepath.Join(dir, "broken_set"), 0o755); err != nil {
		t.Fatal(err)
	}

	var progress strings.Builder
	f := &Formatter{}
	if _, err := f.Write(dir, "alice", &progress); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(progress.String(), "broken_set") {
		t.Errorf("progress output %q does not mention the skipped set", progress.String())
	}
}

func TestWriteFailsWithNoSets(t *testing.T) {
	f := &Formatter{}
	if _, err := f.Write(t.TempDir(), "alice", io.Discard); err == nil {
		t.Error("Write() over empty directory = nil error, want failure")
	}
}

func TestNewestReport(t *testing.T) {
	analysisDir := t.TempDir()
	older := filepath.Join(analysisDir, "analysis_alice_20260101_120000.md")
	newer := filepath.Join(analysisDir, "analysis_alice_20260301_120000.md")
	other := filepath.Join(analysisDir, "analysis_bob_20260601_120000.md")
	for _, p := range []string{older, newer, other} {
		if err := os.WriteFile(p, []byte("# report"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	f := &Formatter{AnalysisDir: analysisDir}
	if got := f.newestReport("alice"); got != newer {
		t.Errorf("newestReport() = %q, want %q", got, newer)
	}
	if got := f.newestReport("nobody"); got != "" {
		t.Errorf("newestReport() for unknown owner = %q, want empty", got)
	}
}
