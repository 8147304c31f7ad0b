package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/persona-engine/pkg/types"
)

func sampleSet(id string) Set {
	return Set{
		Persona: types.Persona{ID: id, Description: "Description of " + id + "."},
		Questions: []types.Question{
			{Text: "What are the fees?", Context: "Fee sensitivity is common."},
			{Text: "Is my money insured?", Context: "Safety is a top concern."},
		},
		Answers: []types.Answer{
			{Question: "What are the fees?", Response: "There are no monthly fees.", KeyPoints: []string{"no fees"}},
			{Question: "Is my money insured?", Response: "Deposits are insured.", KeyPoints: []string{"insured", "regulated"}},
		},
	}
}

func TestWriteReadSet(t *testing.T) {
	dir := t.TempDir()
	want := sampleSet("cautious_saver")

	if err := WriteSet(dir, want); err != nil {
		t.Fatalf("WriteSet() error = %v", err)
	}

	// The canonical trio must exist under the persona directory.
	for _, name := range []string{"client_type.json", "questions.json", "responses.json"} {
		if _, err := os.Stat(filepath.Join(dir, "cautious_saver", name)); err != nil {
			t.Errorf("missing artifact file %s: %v", name, err)
		}
	}

	got, err := ReadSet(filepath.Join(dir, "cautious_saver"))
	if err != nil {
		t.Fatalf("ReadSet() error = %v", err)
	}
	if got.Persona != want.Persona {
		t.Errorf("persona = %+v, want %+v", got.Persona, want.Persona)
	}
	if len(got.Questions) != 2 || len(got.Answers) != 2 {
		t.Errorf("got %d questions, %d answers, want 2 and 2", len(got.Questions), len(got.Answers))
	}
	if got.Answers[1].Question != "Is my money insured?" {
		t.Errorf("answer order not preserved: %+v", got.Answers)
	}
}

func TestListSetsSkipsIncomplete(t *testing.T) {
	dir := t.TempDir()

	if err := WriteSet(dir, sampleSet("rookie_trader")); err != nil {
		t.Fatal(err)
	}
	if err := WriteSet(dir, sampleSet("cautious_saver")); err != nil {
		t.Fatal(err)
	}

	// A persona directory missing its answers file is skipped, not fatal.
	broken := filepath.Join(dir, "broken_persona")
	if err := os.MkdirAll(broken, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(broken, "client_type.json"), []byte(`{"client_type": "broken_persona", "description": "x"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	sets, skipped, err := ListSets(dir)
	if err != nil {
		t.Fatalf("ListSets() error = %v", err)
	}
	if len(sets) != 2 {
		t.Fatalf("got %d sets, want 2", len(sets))
	}
	// Sorted by persona ID for deterministic downstream folds.
	if sets[0].Persona.ID != "cautious_saver" || sets[1].Persona.ID != "rookie_trader" {
		t.Errorf("sets not sorted by ID: %s, %s", sets[0].Persona.ID, sets[1].Persona.ID)
	}
	if len(skipped) != 1 || skipped[0] != "broken_persona" {
		t.Errorf("skipped = %v, want [broken_persona]", skipped)
	}
}

func legacyContent() string {
	var b strings.Builder
	b.WriteString("Client Type: day_trader\n")
	b.WriteString("An active trader who watches the market all day and wants low-latency execution.\n")
	b.WriteString(strings.Repeat("=", 80) + "\n")
	b.WriteString("## Q1: What are your commission rates?\n")
	b.WriteString("Context: Cost per trade dominates an active trader's economics.\n\n")
	b.WriteString("Response: Commissions are zero for equities.\n\n")
	b.WriteString("Key points:\n- zero commissions\n- equities only\n")
	b.WriteString(strings.Repeat("-", 80) + "\n")
	b.WriteString("## Q2: Do you offer margin accounts?\n")
	b.WriteString("Context: Leverage matters for short-term strategies.\n\n")
	b.WriteString("Response: Yes, subject to approval.\n\n")
	b.WriteString("Key points:\n- margin available\n- approval required\n")
	return b.String()
}

func TestParseLegacyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "day_trader_prompt.txt")
	if err := os.WriteFile(path, []byte(legacyContent()), 0o644); err != nil {
		t.Fatal(err)
	}

	set, err := ParseLegacyFile(path)
	if err != nil {
		t.Fatalf("ParseLegacyFile() error = %v", err)
	}

	if set.Persona.ID != "day_trader" {
		t.Errorf("ID = %q, want day_trader", set.Persona.ID)
	}
	if !strings.Contains(set.Persona.Description, "active trader") {
		t.Errorf("description not parsed: %q", set.Persona.Description)
	}
	if len(set.Questions) != 2 || len(set.Answers) != 2 {
		t.Fatalf("got %d questions, %d answers, want 2 and 2", len(set.Questions), len(set.Answers))
	}
	if set.Questions[0].Text != "What are your commission rates?" {
		t.Errorf("question = %q", set.Questions[0].Text)
	}
	if set.Answers[0].Question != set.Questions[0].Text {
		t.Errorf("answer not keyed by question text")
	}
	if set.Answers[1].Response != "Yes, subject to approval." {
		t.Errorf("response = %q", set.Answers[1].Response)
	}
	if len(set.Answers[1].KeyPoints) != 2 || set.Answers[1].KeyPoints[0] != "margin available" {
		t.Errorf("key points = %v", set.Answers[1].KeyPoints)
	}
}

func TestParseLegacyFileInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad_prompt.txt")
	if err := os.WriteFile(path, []byte("no delimiter here"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ParseLegacyFile(path); err == nil {
		t.Error("ParseLegacyFile() = nil error, want format error")
	}
}

func TestListSetsIncludesLegacyFiles(t *testing.T) {
	dir := t.TempDir()
	if err := WriteSet(dir, sampleSet("cautious_saver")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "day_trader_prompt.txt"), []byte(legacyContent()), 0o644); err != nil {
		t.Fatal(err)
	}

	sets, skipped, err := ListSets(dir)
	if err != nil {
		t.Fatalf("ListSets() error = %v", err)
	}
	if len(skipped) != 0 {
		t.Errorf("skipped = %v, want none", skipped)
	}
	if len(sets) != 2 {
		t.Fatalf("got %d sets, want 2", len(sets))
	}
	if sets[1].Persona.ID != "day_trader" {
		t.Errorf("legacy set missing or misplaced: %+v", sets)
	}
}
