package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/persona-engine/internal/artifact"
	"github.com/pdiddy/persona-engine/internal/model"
	"github.com/pdiddy/persona-engine/pkg/types"
)

// --- mock backend ---

// scriptedBackend routes completion calls to per-job handlers by matching
// prompt markers. Handlers receive the full request for assertions.
type scriptedBackend struct {
	discover  func(model.Request) (string, error)
	questions func(model.Request) (string, error)
	answer    func(model.Request) (string, error)

	questionCalls int
}

func (s *scriptedBackend) Complete(_ context.Context, req model.Request) (string, error) {
	switch {
	case strings.Contains(req.Prompt, "distinct client types"):
		return s.discover(req)
	case strings.Contains(req.Prompt, "realistic questions"):
		s.questionCalls++
		return s.questions(req)
	default:
		return s.answer(req)
	}
}

func twoPersonasJSON() string {
	return `Here are the client types:
[
  {"client_type": "cautious_saver", "description": "A risk-averse client who wants guaranteed returns and clear terms before committing any savings."},
  {"client_type": "rookie_trader", "description": "A newcomer to investing who asks basic questions and needs plain-language explanations."}
]`
}

func questionsJSON(n int) string {
	var items []string
	for i := 1; i <= n; i++ {
		items = append(items, fmt.Sprintf(`{"question": "Question number %d about the savings account?", "context": "Context for question %d."}`, i, i))
	}
	return "[" + strings.Join(items, ",") + "]"
}

// answerFromPrompt extracts the question line from the answer prompt and
// echoes it in a well-formed reply.
func answerFromPrompt(req model.Request) (string, error) {
	return `{"response": "The savings account offers 3% APY with no minimum balance.", "key_points": ["3% APY", "no minimum"]}`, nil
}

func happyBackend() *scriptedBackend {
	return &scriptedBackend{
		discover:  func(model.Request) (string, error) { return twoPersonasJSON(), nil },
		questions: func(model.Request) (string, error) { return questionsJSON(3), nil },
		answer:    answerFromPrompt,
	}
}

func writeSources(t *testing.T) (kbPath, personaPath string) {
	t.Helper()
	dir := t.TempDir()
	kbPath = filepath.Join(dir, "kb.md")
	personaPath = filepath.Join(dir, "persona.md")
	if err := os.WriteFile(kbPath, []byte("We offer savings accounts with 3% APY."), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(personaPath, []byte("Friendly, concise tone."), 0o644); err != nil {
		t.Fatal(err)
	}
	return kbPath, personaPath
}

func testConfig(questions int) types.GenerationConfig {
	return types.GenerationConfig{
		AIConfig:           types.AIConfig{Model: "test-model"},
		PersonaCount:       2,
		QuestionsPerClient: questions,
	}
}

// --- tests ---

func TestRunEndToEnd(t *testing.T) {
	kbPath, personaPath := writeSources(t)
	outputDir := t.TempDir()

	gen := New(happyBackend(), testConfig(3))
	summary, err := gen.Run(context.Background(), kbPath, personaPath, outputDir, io.Discard)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Produced != 2 || summary.Skipped != 0 {
		t.Fatalf("summary = %+v, want 2 produced, 0 skipped", summary)
	}

	sets, skipped, err := artifact.ListSets(outputDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(skipped) != 0 || len(sets) != 2 {
		t.Fatalf("got %d sets (%d skipped), want 2 sets", len(sets), len(skipped))
	}

	for _, set := range sets {
		if len(set.Questions) != 3 {
			t.Errorf("%s: %d questions, want exactly 3", set.Persona.ID, len(set.Questions))
		}
		if len(set.Answers) != 3 {
			t.Errorf("%s: %d answers, want exactly 3", set.Persona.ID, len(set.Answers))
		}
		answered := make(map[string]bool)
		for _, a := range set.Answers {
			answered[a.Question] = true
		}
		for _, q := range set.Questions {
			if !strings.HasSuffix(q.Text, "?") {
				t.Errorf("%s: question %q does not end with '?'", set.Persona.ID, q.Text)
			}
			if !answered[q.Text] {
				t.Errorf("%s: question %q has no text-matched answer", set.Persona.ID, q.Text)
			}
		}
	}
}

func TestRunSourceUnavailable(t *testing.T) {
	outputDir := t.TempDir()
	gen := New(happyBackend(), testConfig(3))

	_, err := gen.Run(context.Background(), filepath.Join(outputDir, "missing.md"), filepath.Join(outputDir, "missing2.md"), outputDir, io.Discard)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("Run() error = %v, want ErrSourceUnavailable", err)
	}

	// Empty files are just as unusable as missing ones.
	empty := filepath.Join(outputDir, "empty.md")
	if err := os.WriteFile(empty, []byte("   \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = gen.Run(context.Background(), empty, empty, outputDir, io.Discard)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("Run() on empty source error = %v, want ErrSourceUnavailable", err)
	}
}

func TestRunDiscoveryFailureIsFatal(t *testing.T) {
	kbPath, personaPath := writeSources(t)
	backend := happyBackend()
	backend.discover = func(model.Request) (string, error) {
		return "I could not identify any distinct groups.", nil
	}

	gen := New(backend, testConfig(3))
	_, err := gen.Run(context.Background(), kbPath, personaPath, t.TempDir(), io.Discard)
	if !errors.Is(err, ErrNoPersonas) {
		t.Errorf("Run() error = %v, want ErrNoPersonas", err)
	}
}

func TestQuestionPadding(t *testing.T) {
	kbPath, personaPath := writeSources(t)
	outputDir := t.TempDir()

	backend := happyBackend()
	backend.questions = func(model.Request) (string, error) {
		// One real question against a request for five.
		return questionsJSON(1), nil
	}

	gen := New(backend, testConfig(5))
	summary, err := gen.Run(context.Background(), kbPath, personaPath, outputDir, io.Discard)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Produced != 2 {
		t.Fatalf("produced = %d, want 2", summary.Produced)
	}

	sets, _, err := artifact.ListSets(outputDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, set := range sets {
		if len(set.Questions) != 5 {
			t.Fatalf("%s: %d questions, want exactly 5 after padding", set.Persona.ID, len(set.Questions))
		}
		if len(set.Answers) != 5 {
			t.Errorf("%s: %d answers, want one per question", set.Persona.ID, len(set.Answers))
		}
		// Padded questions are deterministic and well-formed.
		for _, q := range set.Questions[1:] {
			if !strings.HasSuffix(q.Text, "?") {
				t.Errorf("filler question %q does not end with '?'", q.Text)
			}
			if q.Context == "" {
				t.Errorf("filler question %q has no context", q.Text)
			}
		}
	}
}

func TestQuestionRetryAtReducedCount(t *testing.T) {
	kbPath, personaPath := writeSources(t)

	backend := happyBackend()
	backend.questions = func(req model.Request) (string, error) {
		if strings.Contains(req.Prompt, "exactly 10 realistic") {
			return "", fmt.Errorf("model overloaded")
		}
		// The reduced-count retry asks for 5.
		return questionsJSON(5), nil
	}

	gen := New(backend, testConfig(10))
	summary, err := gen.Run(context.Background(), kbPath, personaPath, t.TempDir(), io.Discard)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Produced != 2 {
		t.Errorf("produced = %d, want 2", summary.Produced)
	}
	// Two attempts per persona: the failed full-count call plus the retry.
	if backend.questionCalls != 4 {
		t.Errorf("question calls = %d, want 4", backend.questionCalls)
	}
}

func TestPersonaSkippedOnQuestionFailure(t *testing.T) {
	kbPath, personaPath := writeSources(t)
	outputDir := t.TempDir()

	backend := happyBackend()
	backend.questions = func(req model.Request) (string, error) {
		if strings.Contains(req.Prompt, "risk-averse") {
			return "no structure here at all", nil
		}
		return questionsJSON(3), nil
	}

	gen := New(backend, testConfig(3))
	summary, err := gen.Run(context.Background(), kbPath, personaPath, outputDir, io.Discard)
	if err != nil {
		t.Fatalf("Run() error = %v; one surviving persona should complete the run", err)
	}
	if summary.Produced != 1 || summary.Skipped != 1 {
		t.Errorf("summary = %+v, want 1 produced, 1 skipped", summary)
	}

	sets, _, err := artifact.ListSets(outputDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 1 || sets[0].Persona.ID != "rookie_trader" {
		t.Errorf("surviving set = %+v, want rookie_trader only", sets)
	}
}

func TestRunFailsWhenAllPersonasFail(t *testing.T) {
	kbPath, personaPath := writeSources(t)

	backend := happyBackend()
	backend.questions = func(model.Request) (string, error) {
		return "", fmt.Errorf("persistent failure")
	}

	gen := New(backend, testConfig(3))
	_, err := gen.Run(context.Background(), kbPath, personaPath, t.TempDir(), io.Discard)
	if err == nil {
		t.Error("Run() = nil error, want failure when no persona produced output")
	}
}

func TestAnswerFallbacks(t *testing.T) {
	tests := []struct {
		name         string
		answer       func(model.Request) (string, error)
		wantResponse string // substring
		wantKeyPoint string
	}{
		{
			name: "prose reply keeps raw text",
			answer: func(model.Request) (string, error) {
				return "Savings accounts earn 3% APY, paid monthly.", nil
			},
			wantResponse: "3% APY",
			wantKeyPoint: "Response was not properly formatted",
		},
		{
			name: "malformed json becomes apology",
			answer: func(model.Request) (string, error) {
				return `{"response": broken}`, nil
			},
			wantResponse: "unable to process your request",
			wantKeyPoint: "Error parsing response",
		},
		{
			name: "backend error becomes placeholder",
			answer: func(model.Request) (string, error) {
				return "", fmt.Errorf("connection reset")
			},
			wantResponse: "unable to provide a specific answer",
			wantKeyPoint: "Error generating response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kbPath, personaPath := writeSources(t)
			outputDir := t.TempDir()

			backend := happyBackend()
			backend.answer = tt.answer

			gen := New(backend, testConfig(3))
			if _, err := gen.Run(context.Background(), kbPath, personaPath, outputDir, io.Discard); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			sets, _, err := artifact.ListSets(outputDir)
			if err != nil {
				t.Fatal(err)
			}
			for _, set := range sets {
				if len(set.Answers) != len(set.Questions) {
					t.Fatalf("%s: answers dropped: %d answers for %d questions",
						set.Persona.ID, len(set.Answers), len(set.Questions))
				}
				for i, a := range set.Answers {
					if a.Question != set.Questions[i].Text {
						t.Errorf("answer %d not keyed by question text", i)
					}
					if !strings.Contains(a.Response, tt.wantResponse) {
						t.Errorf("response = %q, want substring %q", a.Response, tt.wantResponse)
					}
					if len(a.KeyPoints) == 0 || !strings.Contains(strings.Join(a.KeyPoints, " "), tt.wantKeyPoint) {
						t.Errorf("key points = %v, want %q", a.KeyPoints, tt.wantKeyPoint)
					}
				}
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"rookie_trader", "rookie_trader"},
		{"Rookie Trader", "rookie_trader"},
		{"  high-net-worth  ", "high_net_worth"},
		{"weird!!chars##", "weirdchars"},
		{"___", ""},
	}
	for _, tt := range tests {
		if got := slug(tt.in); got != tt.want {
			t.Errorf("slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
