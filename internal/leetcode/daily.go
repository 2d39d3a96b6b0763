package leetcode

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// DailyPick holds one randomly selected unsolved problem per difficulty.
// A nil entry means no unsolved free problem remained for that tier.
type DailyPick struct {
	Easy   *Question `json:"easy"`
	Medium *Question `json:"medium"`
	Hard   *Question `json:"hard"`
}

// dailyCache is the day-keyed cache file format.
type dailyCache struct {
	Date  string    `json:"date"`
	Picks DailyPick `json:"problems"`
}

// DailyProblems returns the day's picks, one per difficulty, excluding paid
// problems and anything in solvedIDs. Selection is seeded with the calendar
// date so repeated runs within a day agree, and cached on disk so only the
// first run of the day hits the network.
func (c *Client) DailyProblems(ctx context.Context, cachePath string, solvedIDs map[string]bool) (*DailyPick, error) {
	today := time.Now().Format("2006-01-02")

	if picks := loadDailyCache(cachePath, today); picks != nil {
		return picks, nil
	}

	questions, err := c.FetchQuestions(ctx)
	if err != nil {
		return nil, err
	}

	picks := pickDaily(questions, solvedIDs, time.Now())
	saveDailyCache(cachePath, today, picks)
	return picks, nil
}

// pickDaily selects one random free unsolved problem per difficulty with a
// deterministic daily seed (YYYYMMDD).
func pickDaily(questions []Question, solvedIDs map[string]bool, now time.Time) *DailyPick {
	seed, _ := strconv.ParseInt(now.Format("20060102"), 10, 64)
	rng := rand.New(rand.NewSource(seed))

	byDifficulty := map[string][]Question{}
	for _, q := range questions {
		if q.PaidOnly || solvedIDs[q.FrontendID] {
			continue
		}
		byDifficulty[q.Difficulty] = append(byDifficulty[q.Difficulty], q)
	}

	pick := func(pool []Question) *Question {
		if len(pool) == 0 {
			return nil
		}
		q := pool[rng.Intn(len(pool))]
		return &q
	}

	return &DailyPick{
		Easy:   pick(byDifficulty["Easy"]),
		Medium: pick(byDifficulty["Medium"]),
		Hard:   pick(byDifficulty["Hard"]),
	}
}

func loadDailyCache(path, today string) *DailyPick {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var cached dailyCache
	if err := json.Unmarshal(data, &cached); err != nil || cached.Date != today {
		return nil
	}
	return &cached.Picks
}

func saveDailyCache(path, today string, picks *DailyPick) {
	if picks == nil {
		return
	}
	data, err := json.MarshalIndent(dailyCache{Date: today, Picks: *picks}, "", "  ")
	if err != nil {
		return
	}
	os.MkdirAll(filepath.Dir(path), 0o755)
	os.WriteFile(path, data, 0o644)
}

// DefaultCachePath resolves the daily cache file location under the user
// cache directory.
func DefaultCachePath() (string, error) {
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		cacheHome = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheHome, "codedrill", "daily.json"), nil
}
