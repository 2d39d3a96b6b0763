package problemgen

import (
	"fmt"
	"strings"
)

const promptHeader = `You are a coding interview problem setter. Create exactly one original coding practice problem.

Rules:
- The problem must be self-contained and solvable without external resources.
- Write the statement in plain text. No markdown headings, no images.
- Provide 2-4 small test cases with concrete inputs and expected outputs.
- Provide a reference solution outline in the "solution" field.
- Respond with a single JSON object and nothing else, in this exact shape:
{"title": "...", "description": "...", "difficulty": "...", "category": "...", "tags": ["..."], "test_cases": [{"input": "...", "expected_output": "..."}], "solution": "..."}`

// BuildPrompt constructs the full generation prompt. avoidTitles, when
// non-empty, is appended as an exclusion clause on retry attempts.
func BuildPrompt(input GenerateInput, avoidTitles []string) string {
	var b strings.Builder

	b.WriteString(promptHeader)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Difficulty: %s\n", input.Difficulty)
	if input.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", input.Category)
	}

	if len(avoidTitles) > 0 {
		b.WriteString("\nDo not create a problem similar to any of these recent titles:\n")
		for i, t := range avoidTitles {
			fmt.Fprintf(&b, "%d. %s\n", i+1, t)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
