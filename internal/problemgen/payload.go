package problemgen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/codedrill/internal/store"
)

// defaultCategory fills a missing category field.
const defaultCategory = "algorithm"

// defaultSolution fills a missing reference solution.
const defaultSolution = "(no reference solution provided)"

// rawPayload is the problem shape expected inside the model output.
type rawPayload struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Difficulty  string        `json:"difficulty"`
	Category    string        `json:"category"`
	Tags        []string      `json:"tags"`
	TestCases   []rawTestCase `json:"test_cases"`
	Solution    string        `json:"solution"`
	AISolution  string        `json:"ai_solution"`
}

// rawTestCase tolerates the key variants models actually produce.
type rawTestCase struct {
	Input    string `json:"input"`
	Expected string `json:"expected_output"`
	Output   string `json:"output"`
}

// ParsePayload extracts the problem payload from raw model text. The text
// may carry leading/trailing commentary around the JSON object; only the
// first balanced {...} span is parsed. Missing optional fields get their
// documented defaults; target supplies the difficulty when the payload's is
// absent or unrecognized.
func ParsePayload(raw string, target store.Difficulty) (*Draft, error) {
	span, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	if err := validatePayload(span); err != nil {
		return nil, err
	}

	var p rawPayload
	if err := json.Unmarshal([]byte(span), &p); err != nil {
		return nil, &ErrInvalidPayload{Reason: "malformed JSON object", Err: err}
	}

	d := &Draft{
		Title:       strings.TrimSpace(p.Title),
		Description: strings.TrimSpace(p.Description),
		Category:    strings.TrimSpace(p.Category),
		Tags:        p.Tags,
		Solution:    strings.TrimSpace(p.Solution),
	}

	if d.Title == "" || d.Description == "" {
		return nil, &ErrInvalidPayload{Reason: "empty title or description"}
	}

	if diff, err := store.ParseDifficulty(p.Difficulty); err == nil {
		d.Difficulty = diff
	} else {
		d.Difficulty = target
	}
	if d.Category == "" {
		d.Category = defaultCategory
	}
	if d.Solution == "" {
		d.Solution = strings.TrimSpace(p.AISolution)
	}
	if d.Solution == "" {
		d.Solution = defaultSolution
	}

	d.TestCases = make([]store.TestCase, 0, len(p.TestCases))
	for _, tc := range p.TestCases {
		expected := tc.Expected
		if expected == "" {
			expected = tc.Output
		}
		d.TestCases = append(d.TestCases, store.TestCase{
			Input:    tc.Input,
			Expected: expected,
		})
	}

	return d, nil
}

// extractJSONObject returns the first balanced {...} span in s, honoring
// string literals and escapes. Replaces best-effort regex extraction with a
// clear failure mode.
func extractJSONObject(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", &ErrInvalidPayload{Reason: "no JSON object found"}
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", &ErrInvalidPayload{Reason: "unbalanced JSON object"}
}

// validatePayload checks the extracted span against the problem schema.
func validatePayload(span string) error {
	var parsed any
	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		return &ErrInvalidPayload{Reason: "malformed JSON object", Err: err}
	}

	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile payload schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return &ErrInvalidPayload{Reason: "schema validation failed", Err: err}
	}
	return nil
}
