package problemgen

import "github.com/abhisek/codedrill/internal/store"

// Draft is a candidate problem parsed from model output, before an
// identifier is assigned and before persistence.
type Draft struct {
	Title       string
	Description string
	Difficulty  store.Difficulty
	Category    string
	Tags        []string
	TestCases   []store.TestCase
	Solution    string
}

// GenerateInput holds the caller's request for one generated problem.
type GenerateInput struct {
	// Difficulty is the target tier.
	Difficulty store.Difficulty

	// Category is an optional topic hint, e.g. "arrays" or "graphs".
	Category string
}

// Outcome reports what one Generate call produced. Exactly one problem is
// always persisted; FallbackUsed tells the caller which path delivered it.
type Outcome struct {
	Problem *store.Problem

	// Attempts is the number of generation attempts made against the
	// service (0 when it was unavailable from the start).
	Attempts int

	// FallbackUsed is true when the bundled static problem was persisted
	// because generation was unavailable or exhausted its attempts.
	FallbackUsed bool

	// EmbeddingStored is true when the problem's vector reached the index.
	// False is a legal state and never blocks problem usability.
	EmbeddingStored bool
}
