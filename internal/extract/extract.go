// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract recovers structured values from model free-text replies.
// Replies usually carry prose or code fences around the JSON payload; the
// recovery strategy is to slice between the outermost bracket pair and
// parse what is inside.
//
// Extraction failures are ordinary errors carrying a Failure kind. Callers
// must substitute a typed fallback value on failure so that one malformed
// reply degrades one item instead of aborting a run.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FailureKind distinguishes why a reply could not be parsed.
type FailureKind string

const (
	// KindNoJSON means no bracket pair of the expected shape was found.
	KindNoJSON FailureKind = "no_json"

	// KindMalformed means a bracket pair was found but its contents are
	// not valid JSON.
	KindMalformed FailureKind = "malformed"
)

// Failure describes an extraction failure. Raw preserves the full reply so
// callers can salvage it (an unformatted answer keeps the prose as its
// response text).
type Failure struct {
	Kind FailureKind
	Raw  string
	Err  error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("extraction failed (%s): %v", f.Kind, f.Err)
	}
	return fmt.Sprintf("extraction failed (%s)", f.Kind)
}

func (f *Failure) Unwrap() error { return f.Err }

// Object locates the outermost {...} in raw and unmarshals it into v.
func Object(raw string, v any) error {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return &Failure{Kind: KindNoJSON, Raw: raw}
	}

	if err := json.Unmarshal([]byte(raw[start:end+1]), v); err != nil {
		return &Failure{Kind: KindMalformed, Raw: raw, Err: err}
	}
	return nil
}

// Array locates the outermost [...] in raw and unmarshals it into v. When
// no brackets are present the whole reply is wrapped in a bracket pair and
// parsed; this recovers replies that omit the outer array around otherwise
// valid elements. If the wrapped text still does not parse, the failure
// kind is KindNoJSON.
func Array(raw string, v any) error {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end < start {
		wrapped := "[" + strings.TrimSpace(raw) + "]"
		if err := json.Unmarshal([]byte(wrapped), v); err != nil {
			return &Failure{Kind: KindNoJSON, Raw: raw, Err: err}
		}
		return nil
	}

	if err := json.Unmarshal([]byte(raw[start:end+1]), v); err != nil {
		return &Failure{Kind: KindMalformed, Raw: raw, Err: err}
	}
	return nil
}
