package leetcode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testQuestions() []Question {
	return []Question{
		{FrontendID: "1", Title: "Two Sum", TitleSlug: "two-sum", Difficulty: "Easy", AcRate: 48.5},
		{FrontendID: "2", Title: "Add Two Numbers", TitleSlug: "add-two-numbers", Difficulty: "Medium", AcRate: 40.1},
		{FrontendID: "3", Title: "Longest Substring", TitleSlug: "longest-substring", Difficulty: "Medium", AcRate: 33.0},
		{FrontendID: "4", Title: "Median of Two Sorted Arrays", TitleSlug: "median-arrays", Difficulty: "Hard", AcRate: 36.2},
		{FrontendID: "5", Title: "Paid Problem", TitleSlug: "paid", Difficulty: "Easy", PaidOnly: true},
	}
}

func TestPickDaily_Deterministic(t *testing.T) {
	now := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	later := time.Date(2026, 8, 27, 22, 0, 0, 0, time.UTC)

	a := pickDaily(testQuestions(), nil, now)
	b := pickDaily(testQuestions(), nil, later)

	if a.Easy.FrontendID != b.Easy.FrontendID ||
		a.Medium.FrontendID != b.Medium.FrontendID ||
		a.Hard.FrontendID != b.Hard.FrontendID {
		t.Errorf("same-day picks differ: %+v vs %+v", a, b)
	}
}

func TestPickDaily_ExcludesPaidAndSolved(t *testing.T) {
	now := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	solved := map[string]bool{"2": true}

	picks := pickDaily(testQuestions(), solved, now)

	if picks.Easy == nil || picks.Easy.FrontendID != "1" {
		t.Errorf("expected the only free easy problem, got %+v", picks.Easy)
	}
	if picks.Medium == nil || picks.Medium.FrontendID != "3" {
		t.Errorf("solved medium problem not excluded: %+v", picks.Medium)
	}
}

func TestPickDaily_EmptyTier(t *testing.T) {
	questions := []Question{
		{FrontendID: "1", Title: "Two Sum", Difficulty: "Easy"},
	}
	picks := pickDaily(questions, nil, time.Now())

	if picks.Easy == nil {
		t.Error("expected an easy pick")
	}
	if picks.Medium != nil || picks.Hard != nil {
		t.Error("expected nil picks for empty tiers")
	}
}

func catalogResponse() []byte {
	resp := map[string]any{
		"data": map[string]any{
			"problemsetQuestionList": map[string]any{
				"questions": testQuestions(),
			},
		},
	}
	data, _ := json.Marshal(resp)
	return data
}

func TestFetchQuestions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode query: %v", err)
		}
		if body["query"] == "" {
			t.Error("empty GraphQL query")
		}
		w.Write(catalogResponse())
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	questions, err := c.FetchQuestions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(questions))
	}
	if questions[0].Title != "Two Sum" {
		t.Errorf("unexpected first question: %+v", questions[0])
	}
}

func TestDailyProblems_CachesPerDay(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write(catalogResponse())
	}))
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "daily.json")
	c := NewClient(srv.URL)

	first, err := c.DailyProblems(context.Background(), cachePath, nil)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := c.DailyProblems(context.Background(), cachePath, nil)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if requests != 1 {
		t.Errorf("expected 1 network request, got %d", requests)
	}
	if first.Easy.FrontendID != second.Easy.FrontendID {
		t.Errorf("cached picks differ: %+v vs %+v", first.Easy, second.Easy)
	}
}

func TestDailyProblems_IgnoresStaleCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(catalogResponse())
	}))
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "daily.json")
	stale, _ := json.Marshal(dailyCache{
		Date:  "2001-01-01",
		Picks: DailyPick{Easy: &Question{FrontendID: "999", Title: "Stale"}},
	})
	if err := os.WriteFile(cachePath, stale, 0o644); err != nil {
		t.Fatalf("plant stale cache: %v", err)
	}

	picks, err := NewClient(srv.URL).DailyProblems(context.Background(), cachePath, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if picks.Easy != nil && picks.Easy.FrontendID == "999" {
		t.Error("stale cache entry was served")
	}
}

func TestFindByID(t *testing.T) {
	questions := testQuestions()

	q := FindByID(questions, "3")
	if q == nil || q.Title != "Longest Substring" {
		t.Errorf("unexpected result: %+v", q)
	}
	if FindByID(questions, "404") != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestQuestionURL(t *testing.T) {
	q := Question{TitleSlug: "two-sum"}
	if got := q.URL(); got != "https://leetcode.com/problems/two-sum/" {
		t.Errorf("unexpected url: %q", got)
	}
}
