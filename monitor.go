package lottopick

import (
	"sync"
	"sync/atomic"
	"time"
)

// GenerationMetrics collects counters for the generation pipeline
type GenerationMetrics struct {
	// Request level
	TotalRequests      int64 `json:"total_requests"`      // Generate calls
	SuccessfulRequests int64 `json:"successful_requests"` // calls returning a full batch
	FailedRequests     int64 `json:"failed_requests"`     // validation or exhaustion failures

	// Combination level
	GeneratedCombinations int64 `json:"generated_combinations"` // combinations handed to callers
	SampleAttempts        int64 `json:"sample_attempts"`        // raw draws inside the sampler
	ExtremeRejections     int64 `json:"extreme_rejections"`     // draws rejected by the pattern filter
	HistoricalRejections  int64 `json:"historical_rejections"`  // candidates matching a past draw
	InBatchRejections     int64 `json:"in_batch_rejections"`    // candidates repeating within one batch

	// Collaborator level
	ProviderErrors int64 `json:"provider_errors"` // failed snapshot fetches
	CacheRefreshes int64 `json:"cache_refreshes"` // successful snapshot swaps

	// Timing
	TotalGenerateTime int64 `json:"total_generate_time"` // nanoseconds across all requests
	StartTime         int64 `json:"start_time"`
	LastUpdateTime    int64 `json:"last_update_time"`
}

// GetSuccessRate returns the percentage of Generate calls that returned a
// full batch
func (gm *GenerationMetrics) GetSuccessRate() float64 {
	total := atomic.LoadInt64(&gm.TotalRequests)
	if total == 0 {
		return 0.0
	}
	successful := atomic.LoadInt64(&gm.SuccessfulRequests)
	return float64(successful) / float64(total) * 100.0
}

// GetAverageAttemptsPerCombination returns how many raw draws it took, on
// average, to produce one accepted combination
func (gm *GenerationMetrics) GetAverageAttemptsPerCombination() float64 {
	generated := atomic.LoadInt64(&gm.GeneratedCombinations)
	if generated == 0 {
		return 0.0
	}
	attempts := atomic.LoadInt64(&gm.SampleAttempts)
	return float64(attempts) / float64(generated)
}

// GetThroughput returns generated combinations per second
func (gm *GenerationMetrics) GetThroughput() float64 {
	startTime := atomic.LoadInt64(&gm.StartTime)
	lastUpdate := atomic.LoadInt64(&gm.LastUpdateTime)
	if startTime == 0 || lastUpdate <= startTime {
		return 0.0
	}

	duration := time.Duration(lastUpdate - startTime)
	generated := atomic.LoadInt64(&gm.GeneratedCombinations)

	return float64(generated) / duration.Seconds()
}

// Reset zeroes all counters
func (gm *GenerationMetrics) Reset() {
	atomic.StoreInt64(&gm.TotalRequests, 0)
	atomic.StoreInt64(&gm.SuccessfulRequests, 0)
	atomic.StoreInt64(&gm.FailedRequests, 0)
	atomic.StoreInt64(&gm.GeneratedCombinations, 0)
	atomic.StoreInt64(&gm.SampleAttempts, 0)
	atomic.StoreInt64(&gm.ExtremeRejections, 0)
	atomic.StoreInt64(&gm.HistoricalRejections, 0)
	atomic.StoreInt64(&gm.InBatchRejections, 0)
	atomic.StoreInt64(&gm.ProviderErrors, 0)
	atomic.StoreInt64(&gm.CacheRefreshes, 0)
	atomic.StoreInt64(&gm.TotalGenerateTime, 0)
	atomic.StoreInt64(&gm.StartTime, time.Now().UnixNano())
	atomic.StoreInt64(&gm.LastUpdateTime, time.Now().UnixNano())
}

// ================================================================================

// GenerationMonitor wraps GenerationMetrics with an enable switch so the
// counters can be turned off in hot paths
type GenerationMonitor struct {
	metrics *GenerationMetrics
	mu      sync.RWMutex
	enabled bool
}

// NewGenerationMonitor creates an enabled monitor with zeroed counters
func NewGenerationMonitor() *GenerationMonitor {
	gm := &GenerationMonitor{
		metrics: &GenerationMetrics{},
		enabled: true,
	}
	gm.metrics.Reset()
	return gm
}

// Enable turns counter recording on
func (gm *GenerationMonitor) Enable() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	gm.enabled = true
}

// Disable turns counter recording off
func (gm *GenerationMonitor) Disable() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	gm.enabled = false
}

// IsEnabled reports whether recording is on
func (gm *GenerationMonitor) IsEnabled() bool {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	return gm.enabled
}

// RecordRequest records one Generate call and its outcome
func (gm *GenerationMonitor) RecordRequest(success bool, duration time.Duration) {
	if !gm.IsEnabled() {
		return
	}

	atomic.AddInt64(&gm.metrics.TotalRequests, 1)
	atomic.AddInt64(&gm.metrics.TotalGenerateTime, int64(duration))

	if success {
		atomic.AddInt64(&gm.metrics.SuccessfulRequests, 1)
	} else {
		atomic.AddInt64(&gm.metrics.FailedRequests, 1)
	}

	atomic.StoreInt64(&gm.metrics.LastUpdateTime, time.Now().UnixNano())
}

// RecordAccepted records one combination handed to a caller
func (gm *GenerationMonitor) RecordAccepted() {
	if !gm.IsEnabled() {
		return
	}

	atomic.AddInt64(&gm.metrics.GeneratedCombinations, 1)
	atomic.StoreInt64(&gm.metrics.LastUpdateTime, time.Now().UnixNano())
}

// RecordSampleAttempt records one raw draw inside the sampler
func (gm *GenerationMonitor) RecordSampleAttempt() {
	if !gm.IsEnabled() {
		return
	}

	atomic.AddInt64(&gm.metrics.SampleAttempts, 1)
}

// RecordExtremeRejection records a draw rejected by the pattern filter
func (gm *GenerationMonitor) RecordExtremeRejection() {
	if !gm.IsEnabled() {
		return
	}

	atomic.AddInt64(&gm.metrics.ExtremeRejections, 1)
}

// RecordHistoricalRejection records a candidate that matched a past draw
func (gm *GenerationMonitor) RecordHistoricalRejection() {
	if !gm.IsEnabled() {
		return
	}

	atomic.AddInt64(&gm.metrics.HistoricalRejections, 1)
}

// RecordInBatchRejection records a candidate repeated within one batch
func (gm *GenerationMonitor) RecordInBatchRejection() {
	if !gm.IsEnabled() {
		return
	}

	atomic.AddInt64(&gm.metrics.InBatchRejections, 1)
}

// RecordProviderError records a failed snapshot fetch
func (gm *GenerationMonitor) RecordProviderError() {
	if !gm.IsEnabled() {
		return
	}

	atomic.AddInt64(&gm.metrics.ProviderErrors, 1)
	atomic.StoreInt64(&gm.metrics.LastUpdateTime, time.Now().UnixNano())
}

// RecordCacheRefresh records a successful snapshot swap
func (gm *GenerationMonitor) RecordCacheRefresh() {
	if !gm.IsEnabled() {
		return
	}

	atomic.AddInt64(&gm.metrics.CacheRefreshes, 1)
	atomic.StoreInt64(&gm.metrics.LastUpdateTime, time.Now().UnixNano())
}

// GetMetrics returns a consistent copy of the counters
func (gm *GenerationMonitor) GetMetrics() GenerationMetrics {
	return GenerationMetrics{
		TotalRequests:         atomic.LoadInt64(&gm.metrics.TotalRequests),
		SuccessfulRequests:    atomic.LoadInt64(&gm.metrics.SuccessfulRequests),
		FailedRequests:        atomic.LoadInt64(&gm.metrics.FailedRequests),
		GeneratedCombinations: atomic.LoadInt64(&gm.metrics.GeneratedCombinations),
		SampleAttempts:        atomic.LoadInt64(&gm.metrics.SampleAttempts),
		ExtremeRejections:     atomic.LoadInt64(&gm.metrics.ExtremeRejections),
		HistoricalRejections:  atomic.LoadInt64(&gm.metrics.HistoricalRejections),
		InBatchRejections:     atomic.LoadInt64(&gm.metrics.InBatchRejections),
		ProviderErrors:        atomic.LoadInt64(&gm.metrics.ProviderErrors),
		CacheRefreshes:        atomic.LoadInt64(&gm.metrics.CacheRefreshes),
		TotalGenerateTime:     atomic.LoadInt64(&gm.metrics.TotalGenerateTime),
		StartTime:             atomic.LoadInt64(&gm.metrics.StartTime),
		LastUpdateTime:        atomic.LoadInt64(&gm.metrics.LastUpdateTime),
	}
}

// ResetMetrics zeroes the counters
func (gm *GenerationMonitor) ResetMetrics() { gm.metrics.Reset() }
