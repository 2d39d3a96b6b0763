package llm

import "fmt"

// ErrServiceUnavailable indicates the generation service is unreachable,
// timed out, or returned a non-success transport result. Recoverable: the
// caller falls back or skips the optional step, never fails the operation.
type ErrServiceUnavailable struct {
	Err error
}

func (e *ErrServiceUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation service unavailable: %v", e.Err)
	}
	return "generation service unavailable"
}

func (e *ErrServiceUnavailable) Unwrap() error { return e.Err }

// ErrEmptyResponse indicates the service answered but produced no text.
// Counts as "no problem produced" for the attempt.
type ErrEmptyResponse struct{}

func (e *ErrEmptyResponse) Error() string {
	return "generation service returned an empty response"
}
