package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Difficulty is the three-level problem difficulty.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Difficulties lists all difficulty tiers in ascending order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// Problem record sources.
const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
	SourceLeetCode = "leetcode"
)

// ParseDifficulty normalizes a user-supplied difficulty string.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return "", fmt.Errorf("invalid difficulty %q (want Easy, Medium or Hard)", s)
}

// TestCase is a single (input, expected output) pair. Structured data,
// not required to be executable.
type TestCase struct {
	Input    string `json:"input"`
	Expected string `json:"expected_output"`
}

// Problem is a single catalog entry.
type Problem struct {
	ID          string
	Title       string
	Description string
	Difficulty  Difficulty
	Category    string
	Tags        []string
	TestCases   []TestCase
	Solution    string
	Source      string // "ai", "fallback" or "leetcode"
	URL         string
	IsSolved    bool
	SolvedAt    *time.Time
	CreatedAt   time.Time
}

// ListFilter narrows List results. Zero value means no filtering.
type ListFilter struct {
	Difficulty Difficulty // empty = all
	Solved     *bool      // nil = all
	Limit      int        // 0 = unlimited
}

// Insert persists a new problem. CreatedAt is set here if zero.
// A primary key collision is reported as *ErrIdentifierConflict; any other
// failure as *ErrWriteFailure.
func (s *Store) Insert(ctx context.Context, p *Problem) error {
	if p.ID == "" {
		return &ErrWriteFailure{Op: "insert", Err: errors.New("empty problem_id")}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	tagsJSON, err := json.Marshal(p.Tags)
	if err != nil {
		return &ErrWriteFailure{Op: "insert", Err: err}
	}
	casesJSON, err := json.Marshal(p.TestCases)
	if err != nil {
		return &ErrWriteFailure{Op: "insert", Err: err}
	}

	var solvedAt *string
	if p.SolvedAt != nil {
		v := p.SolvedAt.UTC().Format(time.RFC3339)
		solvedAt = &v
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO problems (problem_id, title, description, difficulty, category,
		                       tags, test_cases, solution, source, url,
		                       is_solved, solved_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Description, string(p.Difficulty), p.Category,
		string(tagsJSON), string(casesJSON), p.Solution, p.Source, p.URL,
		boolToInt(p.IsSolved), solvedAt, p.CreatedAt.Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return &ErrIdentifierConflict{ProblemID: p.ID}
		}
		return &ErrWriteFailure{Op: "insert", Err: err}
	}
	return nil
}

// Exists reports whether a problem with the given id is already stored.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM problems WHERE problem_id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Get returns a problem by id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Problem, error) {
	row := s.db.QueryRowContext(ctx, selectProblem+` WHERE problem_id = ?`, id)
	p, err := scanProblem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns problems matching the filter, newest first.
func (s *Store) List(ctx context.Context, f ListFilter) ([]Problem, error) {
	where := []string{"1=1"}
	var args []any

	if f.Difficulty != "" {
		where = append(where, "difficulty = ?")
		args = append(args, string(f.Difficulty))
	}
	if f.Solved != nil {
		where = append(where, "is_solved = ?")
		args = append(args, boolToInt(*f.Solved))
	}

	query := selectProblem + ` WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var problems []Problem
	for rows.Next() {
		p, err := scanProblem(rows)
		if err != nil {
			return nil, err
		}
		problems = append(problems, *p)
	}
	return problems, rows.Err()
}

// RecentTitles returns the titles of the n most recently created problems,
// newest first. Used to build the "avoid these titles" generation hint.
func (s *Store) RecentTitles(ctx context.Context, n int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title FROM problems ORDER BY created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

// MarkSolved flags a problem as solved and appends an attempt record.
// Marking an already-solved problem is a no-op that still returns the record.
func (s *Store) MarkSolved(ctx context.Context, id string) (*Problem, error) {
	return s.setSolved(ctx, id, true)
}

// MarkUnsolved clears the solved flag and appends an attempt record.
func (s *Store) MarkUnsolved(ctx context.Context, id string) (*Problem, error) {
	return s.setSolved(ctx, id, false)
}

func (s *Store) setSolved(ctx context.Context, id string, solved bool) (*Problem, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsSolved == solved {
		return p, nil
	}

	now := time.Now().UTC()
	action := "solved"
	var solvedAt *string
	if solved {
		v := now.Format(time.RFC3339)
		solvedAt = &v
	} else {
		action = "unsolved"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &ErrWriteFailure{Op: action, Err: err}
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE problems SET is_solved = ?, solved_at = ? WHERE problem_id = ?`,
		boolToInt(solved), solvedAt, id)
	if err != nil {
		return nil, &ErrWriteFailure{Op: action, Err: err}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO attempts (problem_id, action, created_at) VALUES (?, ?, ?)`,
		id, action, now.Format(time.RFC3339))
	if err != nil {
		return nil, &ErrWriteFailure{Op: action, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return nil, &ErrWriteFailure{Op: action, Err: err}
	}

	p.IsSolved = solved
	if solved {
		p.SolvedAt = &now
	} else {
		p.SolvedAt = nil
	}
	return p, nil
}

const selectProblem = `SELECT problem_id, title, description, difficulty, category,
       tags, test_cases, solution, source, url, is_solved, solved_at, created_at
FROM problems`

type scanner interface {
	Scan(dest ...any) error
}

func scanProblem(row scanner) (*Problem, error) {
	var p Problem
	var difficulty, createdAt string
	var tagsJSON, casesJSON, solvedAt sql.NullString
	var isSolved int

	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &difficulty, &p.Category,
		&tagsJSON, &casesJSON, &p.Solution, &p.Source, &p.URL,
		&isSolved, &solvedAt, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	p.Difficulty = Difficulty(difficulty)
	p.IsSolved = isSolved != 0
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if solvedAt.Valid {
		t, err := time.Parse(time.RFC3339, solvedAt.String)
		if err == nil {
			p.SolvedAt = &t
		}
	}
	if tagsJSON.Valid && tagsJSON.String != "" {
		json.Unmarshal([]byte(tagsJSON.String), &p.Tags)
	}
	if casesJSON.Valid && casesJSON.String != "" {
		json.Unmarshal([]byte(casesJSON.String), &p.TestCases)
	}
	return &p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
