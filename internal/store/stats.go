package store

import (
	"context"
	"time"
)

// DifficultyCount holds solved/total counts for one difficulty tier.
type DifficultyCount struct {
	Difficulty Difficulty
	Total      int
	Solved     int
}

// Stats summarizes the catalog and solve history.
type Stats struct {
	Total         int
	Solved        int
	ByDifficulty  []DifficultyCount
	CurrentStreak int
	LongestStreak int
}

// CompletionPct returns solved/total as a percentage, 0 for an empty catalog.
func (st Stats) CompletionPct() float64 {
	if st.Total == 0 {
		return 0
	}
	return float64(st.Solved) / float64(st.Total) * 100
}

// Stats computes catalog totals, per-difficulty breakdown and solve streaks.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(is_solved), 0) FROM problems`).
		Scan(&st.Total, &st.Solved)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT difficulty, COUNT(*), COALESCE(SUM(is_solved), 0)
		 FROM problems GROUP BY difficulty`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDiff := map[Difficulty]DifficultyCount{}
	for rows.Next() {
		var dc DifficultyCount
		var d string
		if err := rows.Scan(&d, &dc.Total, &dc.Solved); err != nil {
			return nil, err
		}
		dc.Difficulty = Difficulty(d)
		byDiff[dc.Difficulty] = dc
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, d := range Difficulties {
		dc := byDiff[d]
		dc.Difficulty = d
		st.ByDifficulty = append(st.ByDifficulty, dc)
	}

	days, err := s.solveDays(ctx)
	if err != nil {
		return nil, err
	}
	st.CurrentStreak, st.LongestStreak = streaks(days, time.Now().UTC())

	return st, nil
}

// solveDays returns the distinct UTC calendar days with at least one solve,
// most recent first.
func (s *Store) solveDays(ctx context.Context) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT date(solved_at) FROM problems
		 WHERE is_solved = 1 AND solved_at IS NOT NULL
		 ORDER BY 1 DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			continue
		}
		days = append(days, t)
	}
	return days, rows.Err()
}

// streaks computes the current and longest runs of consecutive solve days.
// days must be distinct calendar days sorted most recent first. The current
// streak counts only if the latest solve day is today or yesterday.
func streaks(days []time.Time, now time.Time) (current, longest int) {
	if len(days) == 0 {
		return 0, 0
	}

	today := now.Truncate(24 * time.Hour)
	gap := today.Sub(days[0]) / (24 * time.Hour)
	active := gap <= 1

	run := 1
	if active {
		current = 1
	}
	longest = 1

	for i := 1; i < len(days); i++ {
		if days[i-1].Sub(days[i]) == 24*time.Hour {
			run++
		} else {
			run = 1
			active = false
		}
		if run > longest {
			longest = run
		}
		if active {
			current = run
		}
	}
	return current, longest
}
