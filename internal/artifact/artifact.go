// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package artifact persists per-persona artifact sets under a run's output
// directory. The canonical layout is one directory per persona holding
// three JSON files:
//
//	<outputDir>/<persona_id>/client_type.json
//	<outputDir>/<persona_id>/questions.json
//	<outputDir>/<persona_id>/responses.json
//
// A legacy single-file form (<persona_id>_prompt.txt, delimited text) is
// supported read-only so prompt sets written by earlier revisions remain
// usable. Only the JSON form is ever written.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/persona-engine/pkg/types"
)

const (
	personaFile   = "client_type.json"
	questionsFile = "questions.json"
	answersFile   = "responses.json"

	legacySuffix = "_prompt.txt"
)

// Set groups one persona with its questions and answers. It is the unit of
// work and of partial failure: a whole set can be missing without
// invalidating its siblings.
type Set struct {
	Persona   types.Persona
	Questions []types.Question
	Answers   []types.Answer
}

// WriteSet persists the set as the three-file JSON form under
// outputDir/<persona_id>/.
func WriteSet(outputDir string, set Set) error {
	dir := filepath.Join(outputDir, set.Persona.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating persona directory: %w", err)
	}

	files := []struct {
		name string
		v    any
	}{
		{personaFile, set.Persona},
		{questionsFile, set.Questions},
		{answersFile, set.Answers},
	}
	for _, f := range files {
		data, err := json.MarshalIndent(f.v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling %s: %w", f.name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, f.name), data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
	}
	return nil
}

// ReadSet loads the three-file JSON form from one persona directory.
func ReadSet(dir string) (Set, error) {
	var set Set

	if err := readJSON(filepath.Join(dir, personaFile), &set.Persona); err != nil {
		return Set{}, err
	}
	if err := readJSON(filepath.Join(dir, questionsFile), &set.Questions); err != nil {
		return Set{}, err
	}
	if err := readJSON(filepath.Join(dir, answersFile), &set.Answers); err != nil {
		return Set{}, err
	}
	return set, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// ListSets loads every artifact set under outputDir, both JSON directories
// and legacy prompt files. Entries missing required files or failing to
// parse are skipped, not fatal; their names are returned so callers can
// report them. Results are sorted by persona ID so downstream folds are
// deterministic.
func ListSets(outputDir string) ([]Set, []string, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading output directory %s: %w", outputDir, err)
	}

	var (
		sets    []Set
		skipped []string
	)
	for _, entry := range entries {
		switch {
		case entry.IsDir():
			set, err := ReadSet(filepath.Join(outputDir, entry.Name()))
			if err != nil {
				skipped = append(skipped, entry.Name())
				continue
			}
			sets = append(sets, set)
		case strings.HasSuffix(entry.Name(), legacySuffix):
			set, err := ParseLegacyFile(filepath.Join(outputDir, entry.Name()))
			if err != nil {
				skipped = append(skipped, entry.Name())
				continue
			}
			sets = append(sets, set)
		}
	}

	sort.Slice(sets, func(i, j int) bool {
		return sets[i].Persona.ID < sets[j].Persona.ID
	})
	return sets, skipped, nil
}
