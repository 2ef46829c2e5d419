package lottopick

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// HistoricalDuplicateIndex answers "has this exact combination already been
// drawn?" against a TTL-cached snapshot of the provider's winning draws.
//
// The snapshot is replaced wholesale under a mutex, never mutated in place.
// The mutex is held across the provider fetch, so concurrent stale readers
// coalesce into a single fetch instead of racing redundant ones.
type HistoricalDuplicateIndex struct {
	provider HistoricalDrawProvider
	ttl      time.Duration
	clock    Clock
	logger   Logger
	monitor  *GenerationMonitor

	mu       sync.Mutex
	cache    CombinationSet
	cachedAt time.Time
}

// NewHistoricalDuplicateIndex creates an index with the default 1 hour TTL
func NewHistoricalDuplicateIndex(provider HistoricalDrawProvider) *HistoricalDuplicateIndex {
	return &HistoricalDuplicateIndex{
		provider: provider,
		ttl:      DefaultHistoryCacheTTL,
		clock:    systemClock{},
		logger:   &DefaultLogger{},
	}
}

// NewHistoricalDuplicateIndexWithTTL creates an index with a custom cache TTL
func NewHistoricalDuplicateIndexWithTTL(
	provider HistoricalDrawProvider, ttl time.Duration,
) (*HistoricalDuplicateIndex, error) {
	if ttl < MinHistoryCacheTTL || ttl > MaxHistoryCacheTTL {
		return nil, ErrInvalidCacheTTL.WithDetails(fmt.Sprintf("got %v", ttl))
	}

	index := NewHistoricalDuplicateIndex(provider)
	index.ttl = ttl
	return index, nil
}

// SetLogger replaces the logger
func (idx *HistoricalDuplicateIndex) SetLogger(logger Logger) {
	if logger != nil {
		idx.logger = logger
	}
}

// SetClock replaces the clock. Tests inject a fake clock to step through
// TTL expiry deterministically.
func (idx *HistoricalDuplicateIndex) SetClock(clock Clock) {
	if clock != nil {
		idx.clock = clock
	}
}

// SetMonitor attaches a generation monitor for refresh and rejection counters
func (idx *HistoricalDuplicateIndex) SetMonitor(monitor *GenerationMonitor) {
	idx.monitor = monitor
}

// refreshIfStale returns the current snapshot, fetching a fresh one from the
// provider when the cache is empty or older than the TTL. This is the only
// suspension point of the pipeline.
func (idx *HistoricalDuplicateIndex) refreshIfStale(ctx context.Context) (CombinationSet, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	now := idx.clock.Now()
	if idx.cache != nil && now.Sub(idx.cachedAt) <= idx.ttl {
		return idx.cache, nil
	}

	idx.logger.Debug("refreshing historical draw snapshot")

	snapshot, err := idx.provider.ExistingCombinations(ctx)
	if err != nil {
		return nil, err
	}

	// 整体替换缓存
	idx.cache = snapshot
	idx.cachedAt = now

	if idx.monitor != nil {
		idx.monitor.RecordCacheRefresh()
	}
	idx.logger.Info("historical draw snapshot refreshed: %d combinations", len(snapshot))

	return idx.cache, nil
}

// IsDuplicate reports whether the numbers, regardless of order, match a past
// winning draw. It fails safe: malformed input and provider failures both
// report true, so a candidate is resampled rather than risking an undetected
// duplicate. This is the single boundary where provider errors are absorbed.
func (idx *HistoricalDuplicateIndex) IsDuplicate(ctx context.Context, numbers []int) bool {
	if len(numbers) != PickCount {
		idx.logger.Error("duplicate check on malformed combination: got %d numbers", len(numbers))
		return true
	}

	snapshot, err := idx.refreshIfStale(ctx)
	if err != nil {
		if idx.monitor != nil {
			idx.monitor.RecordProviderError()
		}
		idx.logger.Error("historical snapshot unavailable, treating candidate as duplicate: %v", err)
		return true
	}

	key := sortedKey(numbers)
	if snapshot.Contains(key) {
		idx.logger.Debug("historical duplicate detected: %v", numbers)
		return true
	}

	return false
}

// IsNewCombination is the exact negation of IsDuplicate for the same input
// and cache state
func (idx *HistoricalDuplicateIndex) IsNewCombination(ctx context.Context, numbers []int) bool {
	return !idx.IsDuplicate(ctx, numbers)
}

// ClearCache drops the snapshot so the next query refreshes from the
// provider. Used by tests and after new draws are recorded.
func (idx *HistoricalDuplicateIndex) ClearCache() {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.cache = nil
	idx.cachedAt = time.Time{}
	idx.logger.Info("historical draw snapshot cleared")
}
