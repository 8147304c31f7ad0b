// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate runs the persona/question/answer generation stage: it
// discovers client personas from the source documents, generates a fixed
// number of questions per persona, answers each question, and persists one
// artifact set per persona.
//
// Failure is absorbed at the finest grain that keeps the run useful: a
// failed answer becomes a placeholder, a failed persona is skipped, and
// only unreadable sources or a wholly failed discovery end the run.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pdiddy/persona-engine/internal/artifact"
	"github.com/pdiddy/persona-engine/internal/extract"
	"github.com/pdiddy/persona-engine/internal/model"
	"github.com/pdiddy/persona-engine/internal/prompt"
	"github.com/pdiddy/persona-engine/pkg/types"
)

// Run-terminal failures. Everything else degrades in place.
var (
	// ErrSourceUnavailable means a source document is missing or empty.
	ErrSourceUnavailable = errors.New("source document unavailable")

	// ErrNoPersonas means persona discovery produced nothing usable.
	ErrNoPersonas = errors.New("no personas generated")
)

const (
	minPersonas = 2
	maxPersonas = 7

	defaultPersonaCount       = 5
	defaultQuestionsPerClient = 10

	// Discovery needs less output room than question/answer generation.
	discoveryMaxTokens = 4096
	defaultMaxTokens   = 8192

	defaultTemperature = 0.7
	defaultTopP        = 0.95
)

// Generator orchestrates one generation run against an injected model
// backend.
type Generator struct {
	backend model.Backend
	cfg     types.GenerationConfig
}

// New creates a Generator with config defaults applied. A nil question
// retry schedule defaults to one retry at a count of 5.
func New(backend model.Backend, cfg types.GenerationConfig) *Generator {
	if cfg.PersonaCount == 0 {
		cfg.PersonaCount = defaultPersonaCount
	}
	if cfg.PersonaCount < minPersonas {
		cfg.PersonaCount = minPersonas
	}
	if cfg.PersonaCount > maxPersonas {
		cfg.PersonaCount = maxPersonas
	}
	if cfg.QuestionsPerClient <= 0 {
		cfg.QuestionsPerClient = defaultQuestionsPerClient
	}
	if cfg.QuestionRetryCounts == nil {
		cfg.QuestionRetryCounts = []int{5}
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.TopP == 0 {
		cfg.TopP = defaultTopP
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	return &Generator{backend: backend, cfg: cfg}
}

// Summary holds counts from one generation run.
type Summary struct {
	// Produced is the number of personas with a persisted artifact set.
	Produced int

	// Skipped is the number of discovered personas that failed question
	// generation or persistence.
	Skipped int

	// PersonaIDs lists the produced persona IDs in discovery order.
	PersonaIDs []string
}

// Run executes the generation stage: read sources, discover personas,
// generate questions and answers per persona, and persist artifact sets
// under outputDir. Progress lines go to w. The run fails only on
// unreadable sources, failed discovery, or zero produced personas.
func (g *Generator) Run(ctx context.Context, kbPath, personaPath, outputDir string, w io.Writer) (Summary, error) {
	knowledgeBase, err := readSource(kbPath)
	if err != nil {
		return Summary{}, err
	}
	agentPersona, err := readSource(personaPath)
	if err != nil {
		return Summary{}, err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating output directory: %w", err)
	}

	fmt.Fprintf(w, "discovering %d client types\n", g.cfg.PersonaCount)
	personas, err := g.discoverPersonas(ctx, knowledgeBase, agentPersona)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	for _, persona := range personas {
		questions, err := g.generateQuestions(ctx, knowledgeBase, agentPersona, persona)
		if err != nil {
			fmt.Fprintf(w, "skipped %s: %v\n", persona.ID, err)
			summary.Skipped++
			continue
		}

		fmt.Fprintf(w, "generating %s (%d questions)\n", persona.ID, len(questions))
		answers := g.generateAnswers(ctx, knowledgeBase, agentPersona, persona, questions)

		set := artifact.Set{Persona: persona, Questions: questions, Answers: answers}
		if err := artifact.WriteSet(outputDir, set); err != nil {
			fmt.Fprintf(w, "skipped %s: %v\n", persona.ID, err)
			summary.Skipped++
			continue
		}

		summary.Produced++
		summary.PersonaIDs = append(summary.PersonaIDs, persona.ID)
	}

	fmt.Fprintf(w, "\nproduced: %d, skipped: %d\n", summary.Produced, summary.Skipped)

	if summary.Produced == 0 {
		return summary, fmt.Errorf("all %d discovered personas failed", len(personas))
	}
	return summary, nil
}

// readSource loads one source document and rejects empty content.
func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrSourceUnavailable, path)
	}
	return content, nil
}

// discoverPersonas asks the model for the configured number of client
// types. Discovery failure is fatal: without personas there is no run.
func (g *Generator) discoverPersonas(ctx context.Context, knowledgeBase, agentPersona string) ([]types.Persona, error) {
	p, err := prompt.DiscoverPersonas(knowledgeBase, agentPersona, g.cfg.PersonaCount)
	if err != nil {
		return nil, fmt.Errorf("building discovery prompt: %w", err)
	}

	raw, err := g.backend.Complete(ctx, model.Request{
		Prompt:      p,
		Temperature: g.cfg.Temperature,
		MaxTokens:   discoveryMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPersonas, err)
	}

	var personas []types.Persona
	if err := extract.Array(raw, &personas); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPersonas, err)
	}

	valid := personas[:0]
	for _, persona := range personas {
		persona.ID = slug(persona.ID)
		if persona.ID == "" || strings.TrimSpace(persona.Description) == "" {
			continue
		}
		valid = append(valid, persona)
	}
	if len(valid) == 0 {
		return nil, ErrNoPersonas
	}
	return valid, nil
}

// generateQuestions requests the configured question count, retrying at
// each reduced count in the schedule before giving up on the persona. A
// short result is padded with deterministic filler questions so the
// persona always carries exactly QuestionsPerClient questions.
func (g *Generator) generateQuestions(ctx context.Context, knowledgeBase, agentPersona string, persona types.Persona) ([]types.Question, error) {
	want := g.cfg.QuestionsPerClient
	counts := []int{want}
	for _, c := range g.cfg.QuestionRetryCounts {
		if c > 0 && c < want {
			counts = append(counts, c)
		}
	}

	var lastErr error
	for _, count := range counts {
		questions, err := g.questionAttempt(ctx, knowledgeBase, agentPersona, persona, count)
		if err != nil {
			lastErr = err
			continue
		}
		for n := 1; len(questions) < want; n++ {
			questions = append(questions, types.FillerQuestion(persona.ID, n))
		}
		return questions[:want], nil
	}
	return nil, fmt.Errorf("question generation failed: %w", lastErr)
}

// questionAttempt makes one question-generation call. An empty result is
// an error: padding only applies when at least one real question came back.
func (g *Generator) questionAttempt(ctx context.Context, knowledgeBase, agentPersona string, persona types.Persona, count int) ([]types.Question, error) {
	p, err := prompt.GenerateQuestions(knowledgeBase, agentPersona, persona, count)
	if err != nil {
		return nil, fmt.Errorf("building questions prompt: %w", err)
	}

	raw, err := g.backend.Complete(ctx, model.Request{
		Prompt:      p,
		Temperature: g.cfg.Temperature,
		TopP:        g.cfg.TopP,
		MaxTokens:   g.cfg.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	var questions []types.Question
	if err := extract.Array(raw, &questions); err != nil {
		return nil, err
	}

	valid := questions[:0]
	for _, q := range questions {
		q.Text = strings.TrimSpace(q.Text)
		if q.Text == "" {
			continue
		}
		if !strings.HasSuffix(q.Text, "?") {
			q.Text += "?"
		}
		valid = append(valid, q)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("no questions extracted")
	}
	return valid, nil
}

// generateAnswers produces exactly one answer per question, in question
// order. Failures never drop a question: the degraded-answer policy from
// pkg/types substitutes for every failure mode.
func (g *Generator) generateAnswers(ctx context.Context, knowledgeBase, agentPersona string, persona types.Persona, questions []types.Question) []types.Answer {
	answers := make([]types.Answer, 0, len(questions))
	for _, q := range questions {
		answers = append(answers, g.generateAnswer(ctx, knowledgeBase, agentPersona, persona, q))
	}
	return answers
}

func (g *Generator) generateAnswer(ctx context.Context, knowledgeBase, agentPersona string, persona types.Persona, question types.Question) types.Answer {
	p, err := prompt.GenerateAnswer(knowledgeBase, agentPersona, persona, question.Text)
	if err != nil {
		return types.FailedAnswer(question.Text)
	}

	raw, err := g.backend.Complete(ctx, model.Request{
		Prompt:      p,
		Temperature: g.cfg.Temperature,
		TopP:        g.cfg.TopP,
		MaxTokens:   g.cfg.MaxTokens,
	})
	if err != nil {
		return types.FailedAnswer(question.Text)
	}

	var answer types.Answer
	if err := extract.Object(raw, &answer); err != nil {
		var f *extract.Failure
		if errors.As(err, &f) && f.Kind == extract.KindNoJSON {
			return types.UnformattedAnswer(question.Text, strings.TrimSpace(raw))
		}
		return types.UnparseableAnswer(question.Text)
	}

	// Answers are matched to questions by verbatim text downstream; never
	// trust the echoed question text.
	answer.Question = question.Text
	if strings.TrimSpace(answer.Response) == "" {
		return types.UnparseableAnswer(question.Text)
	}
	return answer
}

var slugCleanRe = regexp.MustCompile(`[^a-z0-9_]+`)

// slug normalizes a discovered client-type identifier to a filesystem-safe
// lowercase underscore form.
func slug(id string) string {
	s := strings.ToLower(strings.TrimSpace(id))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = slugCleanRe.ReplaceAllString(s, "")
	return strings.Trim(s, "_")
}
