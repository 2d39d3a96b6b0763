package problemgen

import "fmt"

// ErrInvalidPayload indicates the model output contained no usable problem:
// no parseable JSON object, or empty title/description after defaulting.
// Recoverable — the generator retries the attempt.
type ErrInvalidPayload struct {
	Reason string
	Err    error
}

func (e *ErrInvalidPayload) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid payload: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid payload: %s", e.Reason)
}

func (e *ErrInvalidPayload) Unwrap() error { return e.Err }

// ErrDuplicateDetected indicates the candidate is too similar to a stored
// problem. Recoverable — the generator retries with adjusted parameters and
// discards the candidate entirely.
type ErrDuplicateDetected struct {
	Title string  // title of the nearest stored problem
	Score float64 // its similarity to the candidate
}

func (e *ErrDuplicateDetected) Error() string {
	return fmt.Sprintf("candidate duplicates %q (similarity %.2f)", e.Title, e.Score)
}
