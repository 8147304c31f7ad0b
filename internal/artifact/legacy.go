// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdiddy/persona-engine/pkg/types"
)

// Legacy prompt files carry a header (persona ID line, then description)
// separated from the question blocks by a rule of 80 '=' characters.
// Blocks are separated by a rule of 80 '-' characters:
//
//	## Q1: <question>
//	Context: <context>
//
//	Response: <response>
//
//	Key points:
//	- <point>
var (
	legacyHeaderRule = strings.Repeat("=", 80)
	legacyBlockRule  = strings.Repeat("-", 80)

	legacyQuestionRe = regexp.MustCompile(`##\s+Q\d+:\s+(.*?)\n`)
	legacyContextRe  = regexp.MustCompile(`Context:\s+(.*?)\n\n`)
	legacyResponseRe = regexp.MustCompile(`(?s)Response:\s+(.*?)\n\nKey points:`)
)

// ParseLegacyFile reads a single-file delimited artifact set. The persona
// ID comes from the filename ("<id>_prompt.txt"); questions and answers
// come from the delimited blocks, answers keyed by the block's question
// text.
func ParseLegacyFile(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("reading %s: %w", path, err)
	}

	id := strings.TrimSuffix(filepath.Base(path), legacySuffix)

	sections := strings.SplitN(string(data), legacyHeaderRule, 2)
	if len(sections) < 2 {
		return Set{}, fmt.Errorf("invalid prompt file format: %s", path)
	}

	headerLines := strings.SplitN(strings.TrimSpace(sections[0]), "\n", 2)
	if len(headerLines) < 2 {
		return Set{}, fmt.Errorf("invalid prompt file header: %s", path)
	}
	description := strings.TrimSpace(headerLines[1])

	set := Set{
		Persona: types.Persona{ID: id, Description: description},
	}

	for _, block := range strings.Split(sections[1], legacyBlockRule) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		questionMatch := legacyQuestionRe.FindStringSubmatch(block)
		responseMatch := legacyResponseRe.FindStringSubmatch(block)
		if questionMatch == nil || responseMatch == nil {
			continue
		}

		question := strings.TrimSpace(questionMatch[1])
		context := ""
		if m := legacyContextRe.FindStringSubmatch(block); m != nil {
			context = strings.TrimSpace(m[1])
		}

		set.Questions = append(set.Questions, types.Question{
			Text:    question,
			Context: context,
		})
		set.Answers = append(set.Answers, types.Answer{
			Question:  question,
			Response:  strings.TrimSpace(responseMatch[1]),
			KeyPoints: parseKeyPoints(block),
		})
	}

	return set, nil
}

// parseKeyPoints collects the "- " bullet lines after the last
// "Key points:" marker in a block.
func parseKeyPoints(block string) []string {
	idx := strings.LastIndex(block, "Key points:")
	if idx == -1 {
		return nil
	}

	var points []string
	for _, line := range strings.Split(block[idx+len("Key points:"):], "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "-") {
			points = append(points, strings.TrimSpace(strings.TrimPrefix(line, "-")))
		}
	}
	return points
}
