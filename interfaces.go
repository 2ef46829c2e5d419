package lottopick

import (
	"context"
	"time"
)

// CombinationSource defines the interface for producing one structurally
// valid, non-extreme combination per call
type CombinationSource interface {
	// Sample draws a candidate combination, redrawing until the candidate
	// passes the extreme-pattern filter or the attempt ceiling is reached
	Sample() (Combination, error)
}

// HistoricalDrawProvider defines the interface implemented by the data layer:
// it supplies the full set of past winning combinations currently known to
// the system
type HistoricalDrawProvider interface {
	// ExistingCombinations returns an immutable snapshot of all historical
	// winning combinations. Failures must be returned as errors, never
	// swallowed; the fail-safe duplicate policy is applied by the caller.
	ExistingCombinations(ctx context.Context) (CombinationSet, error)
}

// DuplicateChecker defines the interface for historical duplicate queries
type DuplicateChecker interface {
	// IsDuplicate reports whether the numbers match a past winning draw.
	// Malformed input and provider failures both report true.
	IsDuplicate(ctx context.Context, numbers []int) bool

	// IsNewCombination is the exact negation of IsDuplicate
	IsNewCombination(ctx context.Context, numbers []int) bool

	// ClearCache drops the cached snapshot, forcing the next query to hit
	// the provider
	ClearCache()
}

// Clock abstracts wall-clock time so cache staleness is testable
type Clock interface {
	Now() time.Time
}

// systemClock is the production Clock
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
