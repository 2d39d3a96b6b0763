package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleProblem(id string) *Problem {
	return &Problem{
		ID:          id,
		Title:       "Two Sum Variant",
		Description: "Given an array of integers, find two that sum to a target.",
		Difficulty:  Easy,
		Category:    "arrays",
		Tags:        []string{"arrays", "hash-table"},
		TestCases: []TestCase{
			{Input: "[2,7,11,15], 9", Expected: "[0,1]"},
		},
		Solution: "Use a hash map from value to index.",
		Source:   SourceAI,
	}
}

func TestInsertAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, sampleProblem("cd-abc12345")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	p, err := s.Get(ctx, "cd-abc12345")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Title != "Two Sum Variant" {
		t.Errorf("unexpected title: %q", p.Title)
	}
	if p.Difficulty != Easy {
		t.Errorf("unexpected difficulty: %q", p.Difficulty)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "arrays" {
		t.Errorf("unexpected tags: %v", p.Tags)
	}
	if len(p.TestCases) != 1 || p.TestCases[0].Expected != "[0,1]" {
		t.Errorf("unexpected test cases: %v", p.TestCases)
	}
	if p.IsSolved {
		t.Error("new problem should not be solved")
	}
	if p.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}
}

func TestGet_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "cd-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestInsert_IdentifierConflict(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, sampleProblem("cd-dup")); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	err := s.Insert(ctx, sampleProblem("cd-dup"))
	var conflict *ErrIdentifierConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ErrIdentifierConflict, got %v", err)
	}
	if conflict.ProblemID != "cd-dup" {
		t.Errorf("unexpected conflict id: %q", conflict.ProblemID)
	}
}

func TestInsert_EmptyID(t *testing.T) {
	s := openTestStore(t)

	err := s.Insert(context.Background(), sampleProblem(""))
	var wf *ErrWriteFailure
	if !errors.As(err, &wf) {
		t.Fatalf("expected ErrWriteFailure, got %v", err)
	}
}

func TestExists(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ok, err := s.Exists(ctx, "cd-x")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Error("expected false for unknown id")
	}

	if err := s.Insert(ctx, sampleProblem("cd-x")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	ok, err = s.Exists(ctx, "cd-x")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !ok {
		t.Error("expected true after insert")
	}
}

func TestList_Filters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	easy := sampleProblem("cd-easy")
	hard := sampleProblem("cd-hard")
	hard.Difficulty = Hard
	hard.Title = "Hard One"
	for _, p := range []*Problem{easy, hard} {
		if err := s.Insert(ctx, p); err != nil {
			t.Fatalf("insert %s: %v", p.ID, err)
		}
	}
	if _, err := s.MarkSolved(ctx, "cd-easy"); err != nil {
		t.Fatalf("mark solved: %v", err)
	}

	all, err := s.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 problems, got %d", len(all))
	}

	hardOnly, err := s.List(ctx, ListFilter{Difficulty: Hard})
	if err != nil {
		t.Fatalf("list hard: %v", err)
	}
	if len(hardOnly) != 1 || hardOnly[0].ID != "cd-hard" {
		t.Errorf("unexpected hard list: %v", hardOnly)
	}

	solved := true
	solvedOnly, err := s.List(ctx, ListFilter{Solved: &solved})
	if err != nil {
		t.Fatalf("list solved: %v", err)
	}
	if len(solvedOnly) != 1 || solvedOnly[0].ID != "cd-easy" {
		t.Errorf("unexpected solved list: %v", solvedOnly)
	}

	limited, err := s.List(ctx, ListFilter{Limit: 1})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 problem with limit, got %d", len(limited))
	}
}

func TestRecentTitles(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i, title := range []string{"Oldest", "Middle", "Newest"} {
		p := sampleProblem("cd-t" + title)
		p.Title = title
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := s.Insert(ctx, p); err != nil {
			t.Fatalf("insert %s: %v", title, err)
		}
	}

	titles, err := s.RecentTitles(ctx, 2)
	if err != nil {
		t.Fatalf("recent titles: %v", err)
	}
	if len(titles) != 2 {
		t.Fatalf("expected 2 titles, got %d", len(titles))
	}
	if titles[0] != "Newest" || titles[1] != "Middle" {
		t.Errorf("unexpected order: %v", titles)
	}
}

func TestMarkSolvedAndUnsolved(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, sampleProblem("cd-m")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	p, err := s.MarkSolved(ctx, "cd-m")
	if err != nil {
		t.Fatalf("mark solved: %v", err)
	}
	if !p.IsSolved || p.SolvedAt == nil {
		t.Error("expected solved with timestamp")
	}

	// Marking again is a no-op and must not append another attempt.
	if _, err := s.MarkSolved(ctx, "cd-m"); err != nil {
		t.Fatalf("second mark solved: %v", err)
	}

	p, err = s.MarkUnsolved(ctx, "cd-m")
	if err != nil {
		t.Fatalf("mark unsolved: %v", err)
	}
	if p.IsSolved || p.SolvedAt != nil {
		t.Error("expected unsolved with cleared timestamp")
	}

	var attempts int
	err = s.DB().QueryRow(`SELECT COUNT(*) FROM attempts WHERE problem_id = 'cd-m'`).Scan(&attempts)
	if err != nil {
		t.Fatalf("count attempts: %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempt records, got %d", attempts)
	}
}

func TestMarkSolved_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.MarkSolved(context.Background(), "cd-nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAssignProblemID_Unique(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := s.AssignProblemID(ctx)
		if err != nil {
			t.Fatalf("assign id: %v", err)
		}
		if len(id) < 4 || id[:3] != "cd-" {
			t.Fatalf("unexpected id shape: %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id assigned: %q", id)
		}
		seen[id] = true

		p := sampleProblem(id)
		if err := s.Insert(ctx, p); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	for in, want := range map[string]Difficulty{
		"easy":   Easy,
		"Medium": Medium,
		" HARD ": Hard,
	} {
		got, err := ParseDifficulty(in)
		if err != nil {
			t.Errorf("ParseDifficulty(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseDifficulty(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParseDifficulty("extreme"); err == nil {
		t.Error("expected error for unknown difficulty")
	}
}
