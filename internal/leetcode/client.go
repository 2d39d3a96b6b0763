// Package leetcode retrieves the public problem catalog over the LeetCode
// GraphQL API and picks a stable daily challenge per difficulty.
package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultEndpoint is the public GraphQL endpoint.
const DefaultEndpoint = "https://leetcode.com/graphql"

// questionListQuery fetches the full free problem set in one request.
const questionListQuery = `
{
  problemsetQuestionList: questionList(categorySlug: "", filters: {}, limit: 10000) {
    questions: data {
      acRate
      difficulty
      frontendQuestionId: questionFrontendId
      paidOnly: isPaidOnly
      title
      titleSlug
    }
  }
}
`

// Question is one catalog entry as returned by the API.
type Question struct {
	AcRate     float64 `json:"acRate"`
	Difficulty string  `json:"difficulty"`
	FrontendID string  `json:"frontendQuestionId"`
	PaidOnly   bool    `json:"paidOnly"`
	Title      string  `json:"title"`
	TitleSlug  string  `json:"titleSlug"`
}

// URL returns the public problem page.
func (q Question) URL() string {
	return "https://leetcode.com/problems/" + q.TitleSlug + "/"
}

// Client fetches the problem catalog.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a Client for the given endpoint; empty means the public
// API.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchQuestions retrieves the full question list.
func (c *Client) FetchQuestions(ctx context.Context) ([]Question, error) {
	payload, err := json.Marshal(map[string]string{"query": questionListQuery})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch problems: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch problems: status %d: %s", resp.StatusCode, body)
	}

	var parsed struct {
		Data struct {
			ProblemsetQuestionList struct {
				Questions []Question `json:"questions"`
			} `json:"problemsetQuestionList"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode problems: %w", err)
	}
	return parsed.Data.ProblemsetQuestionList.Questions, nil
}

// FindByID returns the question with the given frontend id, or nil.
func FindByID(questions []Question, id string) *Question {
	for i := range questions {
		if questions[i].FrontendID == id {
			return &questions[i]
		}
	}
	return nil
}
