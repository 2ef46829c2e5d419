package lottopick

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// BatchGenerator produces batches of combinations that are simultaneously
// non-extreme, absent from the historical winning draws, and pairwise
// distinct within the batch. A request either yields the full batch or
// fails; partial batches are never returned.
type BatchGenerator struct {
	sampler CombinationSource
	checker DuplicateChecker
	logger  Logger
	monitor *GenerationMonitor

	mu         sync.RWMutex // 保护 maxRetries 的并发访问
	maxRetries int
}

// NewBatchGenerator creates a generator over the given historical draw
// provider, with the default sampler, duplicate index, and retry budget
func NewBatchGenerator(provider HistoricalDrawProvider) *BatchGenerator {
	monitor := NewGenerationMonitor()

	sampler := NewCombinationSampler()
	sampler.SetMonitor(monitor)

	index := NewHistoricalDuplicateIndex(provider)
	index.SetMonitor(monitor)

	return &BatchGenerator{
		sampler:    sampler,
		checker:    index,
		logger:     &DefaultLogger{},
		monitor:    monitor,
		maxRetries: DefaultMaxGenerateRetries,
	}
}

// NewBatchGeneratorWithConfig creates a generator configured from a loaded
// Config: retry budget, sampler ceiling, and history cache TTL
func NewBatchGeneratorWithConfig(provider HistoricalDrawProvider, cm *ConfigManager) (*BatchGenerator, error) {
	cfg := cm.GetConfig()
	if cfg == nil || cfg.Generator == nil {
		return nil, ErrConfigInvalid.WithDetails("generator configuration missing")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	monitor := NewGenerationMonitor()

	sampler, err := NewCombinationSamplerWithAttempts(cfg.Generator.MaxSampleAttempts)
	if err != nil {
		return nil, err
	}
	sampler.SetMonitor(monitor)

	index, err := NewHistoricalDuplicateIndexWithTTL(provider, cfg.Generator.HistoryCacheTTL)
	if err != nil {
		return nil, err
	}
	index.SetMonitor(monitor)

	return &BatchGenerator{
		sampler:    sampler,
		checker:    index,
		logger:     &DefaultLogger{},
		monitor:    monitor,
		maxRetries: cfg.Generator.MaxGenerateRetries,
	}, nil
}

// NewBatchGeneratorWithLogger creates a generator with a custom logger
func NewBatchGeneratorWithLogger(provider HistoricalDrawProvider, logger Logger) *BatchGenerator {
	g := NewBatchGenerator(provider)
	g.SetLogger(logger)
	return g
}

// NewBatchGeneratorFromParts assembles a generator from explicit
// collaborators. Tests use this to substitute fakes.
func NewBatchGeneratorFromParts(sampler CombinationSource, checker DuplicateChecker, logger Logger) *BatchGenerator {
	if logger == nil {
		logger = &DefaultLogger{}
	}

	return &BatchGenerator{
		sampler:    sampler,
		checker:    checker,
		logger:     logger,
		monitor:    NewGenerationMonitor(),
		maxRetries: DefaultMaxGenerateRetries,
	}
}

// SetLogger updates the logger at runtime
func (g *BatchGenerator) SetLogger(logger Logger) {
	if logger != nil {
		g.logger = logger

		if index, ok := g.checker.(*HistoricalDuplicateIndex); ok {
			index.SetLogger(logger)
		}
	}
}

// GetLogger returns the current logger
func (g *BatchGenerator) GetLogger() Logger { return g.logger }

// SetMaxRetries updates the per-slot retry budget at runtime
func (g *BatchGenerator) SetMaxRetries(maxRetries int) error {
	if maxRetries < 1 || maxRetries > MaxGenerateRetriesCeiling {
		g.logger.Error("SetMaxRetries failed: invalid budget %d", maxRetries)
		return ErrInvalidRetryBudget.WithDetails(fmt.Sprintf("got %d", maxRetries))
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.maxRetries = maxRetries
	g.logger.Info("retry budget updated to %d", maxRetries)
	return nil
}

// GetMaxRetries returns the current per-slot retry budget
func (g *BatchGenerator) GetMaxRetries() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.maxRetries
}

// ClearHistoryCache drops the duplicate index snapshot so the next query
// refreshes from the provider. Call after recording a new winning draw.
func (g *BatchGenerator) ClearHistoryCache() { g.checker.ClearCache() }

// Generate produces exactly count combinations in generation order.
//
// Validation errors and retry exhaustion propagate to the caller unchanged;
// provider failures never surface here, they degrade into resampling inside
// the duplicate checker.
func (g *BatchGenerator) Generate(ctx context.Context, count int, requesterID string) ([]Combination, error) {
	startTime := time.Now()
	g.logger.Debug("Generate called with count=%d, requesterID=%s", count, requesterID)

	if err := ValidatePredictionCount(count); err != nil {
		g.logger.Error("Generate validation failed: %v", err)
		g.monitor.RecordRequest(false, time.Since(startTime))
		if requesterID != "" {
			if lottoErr, ok := err.(*LottoError); ok {
				return nil, lottoErr.WithRequesterID(requesterID)
			}
		}
		return nil, err
	}

	g.mu.RLock()
	maxRetries := g.maxRetries
	g.mu.RUnlock()

	accepted := make([]Combination, 0, count)
	acceptedSet := make(CombinationSet, count)

	for slot := 0; slot < count; slot++ {
		combo, err := g.fillSlot(ctx, maxRetries, acceptedSet)
		if err != nil {
			g.logger.Error("Generate aborted at slot %d/%d: %v", slot+1, count, err)
			g.monitor.RecordRequest(false, time.Since(startTime))
			if requesterID != "" {
				if lottoErr, ok := err.(*LottoError); ok {
					return nil, lottoErr.WithRequesterID(requesterID)
				}
			}
			return nil, err
		}

		accepted = append(accepted, combo)
		acceptedSet.Add(combo.Key())
		g.monitor.RecordAccepted()
		g.logger.Debug("slot %d/%d filled: %s", slot+1, count, combo)
	}

	duration := time.Since(startTime)
	g.monitor.RecordRequest(true, duration)
	g.logger.Info("Generate successful: count=%d, requesterID=%s, elapsed=%v",
		count, requesterID, duration)

	return accepted, nil
}

// GenerateResult runs Generate for a GenerationRequest and wraps the batch
// with request bookkeeping for API and bot collaborators
func (g *BatchGenerator) GenerateResult(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	startTime := time.Now()
	attemptsBefore := g.monitor.GetMetrics().SampleAttempts

	combos, err := g.Generate(ctx, req.Count, req.RequesterID)
	if err != nil {
		return nil, err
	}

	attemptsAfter := g.monitor.GetMetrics().SampleAttempts

	return &GenerationResult{
		Combinations: combos,
		RequesterID:  req.RequesterID,
		GeneratedAt:  time.Now(),
		Attempts:     int(attemptsAfter - attemptsBefore),
		ElapsedMs:    float64(time.Since(startTime).Microseconds()) / 1000.0,
	}, nil
}

// Metrics returns a copy of the pipeline counters
func (g *BatchGenerator) Metrics() GenerationMetrics {
	return g.monitor.GetMetrics()
}

// ResetMetrics zeroes the pipeline counters
func (g *BatchGenerator) ResetMetrics() { g.monitor.ResetMetrics() }

// EnableMonitoring turns counter recording on
func (g *BatchGenerator) EnableMonitoring() { g.monitor.Enable() }

// DisableMonitoring turns counter recording off
func (g *BatchGenerator) DisableMonitoring() { g.monitor.Disable() }

// fillSlot attempts up to maxRetries times to produce one usable combination
// for the next slot. Exhausting the budget fails the whole batch.
func (g *BatchGenerator) fillSlot(
	ctx context.Context, maxRetries int, exclusions CombinationSet,
) (Combination, error) {
	for attempt := 1; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return Combination{}, ErrSystemError.WithDetails("generation cancelled").WithCause(ctx.Err())
		default:
		}

		candidate, err := g.sampler.Sample()
		if err != nil {
			// Sampler exhaustion burns one slot attempt like any other
			// rejection; a persistently failing sampler ends in the same
			// exhaustion error below.
			g.logger.Error("sample failed on attempt %d/%d: %v", attempt, maxRetries, err)
			continue
		}

		if !g.isUsable(ctx, candidate, exclusions) {
			g.logger.Debug("candidate rejected on attempt %d/%d: %s", attempt, maxRetries, candidate)
			continue
		}

		return candidate, nil
	}

	return Combination{}, ErrGenerationExhausted.WithDetails(
		fmt.Sprintf("%d attempts", maxRetries))
}

// isUsable is the single acceptance predicate: a candidate is usable iff it
// is neither a historical duplicate nor a member of the exclusion set built
// from the batch so far
func (g *BatchGenerator) isUsable(ctx context.Context, combo Combination, exclusions CombinationSet) bool {
	if g.checker.IsDuplicate(ctx, combo.Numbers()) {
		g.monitor.RecordHistoricalRejection()
		return false
	}

	if exclusions.Contains(combo.Key()) {
		g.monitor.RecordInBatchRejection()
		return false
	}

	return true
}
