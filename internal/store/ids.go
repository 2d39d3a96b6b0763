package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// idAttempts bounds the random-candidate loop before falling back to a
// timestamp-derived identifier that is unique by construction.
const idAttempts = 10

// AssignProblemID produces a problem_id that does not exist in the store at
// the time of the call. The insert path still treats the primary key as the
// backstop: a concurrent writer can win the race, in which case Insert
// reports *ErrIdentifierConflict and the caller assigns a fresh id.
func (s *Store) AssignProblemID(ctx context.Context) (string, error) {
	for i := 0; i < idAttempts; i++ {
		candidate := "cd-" + uuid.NewString()[:8]
		exists, err := s.Exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check id existence: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	// Monotonic nanosecond clock component makes this unique within
	// the process; the store's primary key covers the rest.
	return "cd-" + strconv.FormatInt(time.Now().UnixNano(), 36), nil
}
