package lottopick

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSampler replays a fixed sequence of combinations, repeating the
// last one once the script runs out
type scriptedSampler struct {
	combos []Combination
	next   int
	err    error
}

func (s *scriptedSampler) Sample() (Combination, error) {
	if s.err != nil {
		return Combination{}, s.err
	}
	if s.next >= len(s.combos) {
		return s.combos[len(s.combos)-1], nil
	}
	combo := s.combos[s.next]
	s.next++
	return combo, nil
}

func newEmptyHistoryGenerator(t *testing.T) *BatchGenerator {
	t.Helper()
	return NewBatchGeneratorWithLogger(NewStaticDrawProvider(), NewSilentLogger())
}

func TestBatchGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	generator := newEmptyHistoryGenerator(t)

	combos, err := generator.Generate(ctx, 5, "")
	require.NoError(t, err)
	require.Len(t, combos, 5)

	seen := make(CombinationSet)
	for _, combo := range combos {
		// structural validity
		require.NoError(t, ValidateNumbers(combo.Numbers()))
		// non-extremeness
		require.False(t, IsExtremePattern(combo))
		// batch uniqueness as sets
		require.False(t, seen.Contains(combo.Key()), "duplicate in batch: %s", combo)
		seen.Add(combo.Key())
	}
}

func TestBatchGenerator_CountValidation(t *testing.T) {
	ctx := context.Background()
	generator := newEmptyHistoryGenerator(t)

	tests := []struct {
		name        string
		count       int
		expectError bool
	}{
		{"zero_count", 0, true},
		{"negative_count", -1, true},
		{"above_maximum", 21, true},
		{"minimum_count", 1, false},
		{"maximum_count", 20, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			combos, err := generator.Generate(ctx, tt.count, "")
			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidPredictionCount)
				assert.Contains(t, err.Error(), "must be between 1 and 20")
				assert.Nil(t, combos)
			} else {
				require.NoError(t, err)
				assert.Len(t, combos, tt.count)
			}
		})
	}
}

func TestBatchGenerator_HistoricalExclusion(t *testing.T) {
	ctx := context.Background()

	historical := mustCombination(t, 7, 14, 23, 28, 35, 42)
	fresh := mustCombination(t, 3, 11, 19, 27, 36, 44)

	index := NewHistoricalDuplicateIndex(NewStaticDrawProvider(historical))
	index.SetLogger(NewSilentLogger())

	// The sampler keeps offering the historical draw before a fresh one
	sampler := &scriptedSampler{combos: []Combination{historical, historical, fresh}}
	generator := NewBatchGeneratorFromParts(sampler, index, NewSilentLogger())

	combos, err := generator.Generate(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, combos, 1)
	assert.Equal(t, fresh, combos[0])

	metrics := generator.Metrics()
	assert.Equal(t, int64(2), metrics.HistoricalRejections)
}

func TestBatchGenerator_InBatchUniqueness(t *testing.T) {
	ctx := context.Background()

	first := mustCombination(t, 7, 14, 23, 28, 35, 42)
	second := mustCombination(t, 3, 11, 19, 27, 36, 44)

	index := NewHistoricalDuplicateIndex(NewStaticDrawProvider())
	index.SetLogger(NewSilentLogger())

	// The second slot first sees a repeat of the first slot's pick
	sampler := &scriptedSampler{combos: []Combination{first, first, second}}
	generator := NewBatchGeneratorFromParts(sampler, index, NewSilentLogger())

	combos, err := generator.Generate(ctx, 2, "")
	require.NoError(t, err)
	assert.Equal(t, []Combination{first, second}, combos)

	metrics := generator.Metrics()
	assert.Equal(t, int64(1), metrics.InBatchRejections)
}

func TestBatchGenerator_ExhaustionFailsWholeBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("provider_permanently_down", func(t *testing.T) {
		provider := newFakeProvider()
		provider.setError(errors.New("connection refused"))
		index := NewHistoricalDuplicateIndex(provider)
		index.SetLogger(NewSilentLogger())

		// Fail-safe turns every candidate into a duplicate, so the retry
		// budget runs out and no partial batch leaks.
		generator := NewBatchGeneratorFromParts(NewCombinationSampler(), index, NewSilentLogger())

		combos, err := generator.Generate(ctx, 3, "")
		assert.ErrorIs(t, err, ErrGenerationExhausted)
		assert.Nil(t, combos)
	})

	t.Run("sampler_permanently_failing", func(t *testing.T) {
		index := NewHistoricalDuplicateIndex(NewStaticDrawProvider())
		index.SetLogger(NewSilentLogger())

		sampler := &scriptedSampler{err: ErrSampleExhausted}
		generator := NewBatchGeneratorFromParts(sampler, index, NewSilentLogger())

		combos, err := generator.Generate(ctx, 1, "")
		assert.ErrorIs(t, err, ErrGenerationExhausted)
		assert.Nil(t, combos)
	})
}

func TestBatchGenerator_RequesterIDOnErrors(t *testing.T) {
	ctx := context.Background()
	generator := newEmptyHistoryGenerator(t)

	_, err := generator.Generate(ctx, 0, "user-42")
	require.Error(t, err)

	var lottoErr *LottoError
	require.ErrorAs(t, err, &lottoErr)
	assert.Equal(t, "user-42", lottoErr.RequesterID)
	assert.ErrorIs(t, err, ErrInvalidPredictionCount)
}

func TestBatchGenerator_ContextCancellation(t *testing.T) {
	generator := newEmptyHistoryGenerator(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	combos, err := generator.Generate(ctx, 5, "")
	assert.Error(t, err)
	assert.Nil(t, combos)
}

func TestBatchGenerator_SetMaxRetries(t *testing.T) {
	generator := newEmptyHistoryGenerator(t)

	assert.Equal(t, DefaultMaxGenerateRetries, generator.GetMaxRetries())

	require.NoError(t, generator.SetMaxRetries(10))
	assert.Equal(t, 10, generator.GetMaxRetries())

	assert.ErrorIs(t, generator.SetMaxRetries(0), ErrInvalidRetryBudget)
	assert.ErrorIs(t, generator.SetMaxRetries(MaxGenerateRetriesCeiling+1), ErrInvalidRetryBudget)
	assert.Equal(t, 10, generator.GetMaxRetries())
}

func TestBatchGenerator_GenerateResult(t *testing.T) {
	ctx := context.Background()
	generator := newEmptyHistoryGenerator(t)

	result, err := generator.GenerateResult(ctx, GenerationRequest{Count: 3, RequesterID: "scheduler"})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Count())
	assert.Equal(t, "scheduler", result.RequesterID)
	assert.False(t, result.GeneratedAt.IsZero())
	assert.GreaterOrEqual(t, result.Attempts, 3)

	data, err := result.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"combinations"`)
}

func TestBatchGenerator_Metrics(t *testing.T) {
	ctx := context.Background()
	generator := newEmptyHistoryGenerator(t)

	_, err := generator.Generate(ctx, 3, "")
	require.NoError(t, err)
	_, err = generator.Generate(ctx, 0, "")
	require.Error(t, err)

	metrics := generator.Metrics()
	assert.Equal(t, int64(2), metrics.TotalRequests)
	assert.Equal(t, int64(1), metrics.SuccessfulRequests)
	assert.Equal(t, int64(1), metrics.FailedRequests)
	assert.Equal(t, int64(3), metrics.GeneratedCombinations)
	assert.Equal(t, 50.0, metrics.GetSuccessRate())
	assert.GreaterOrEqual(t, metrics.GetAverageAttemptsPerCombination(), 1.0)

	generator.ResetMetrics()
	assert.Equal(t, int64(0), generator.Metrics().TotalRequests)
}

func TestBatchGenerator_MonitoringToggle(t *testing.T) {
	ctx := context.Background()
	generator := newEmptyHistoryGenerator(t)

	generator.DisableMonitoring()
	_, err := generator.Generate(ctx, 2, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), generator.Metrics().TotalRequests)

	generator.EnableMonitoring()
	_, err = generator.Generate(ctx, 2, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), generator.Metrics().TotalRequests)
}

func TestBatchGenerator_WithConfig(t *testing.T) {
	cm, err := NewGeneratorConfigManager(50, 500, DefaultHistoryCacheTTL)
	require.NoError(t, err)

	generator, err := NewBatchGeneratorWithConfig(NewStaticDrawProvider(), cm)
	require.NoError(t, err)
	generator.SetLogger(NewSilentLogger())

	assert.Equal(t, 50, generator.GetMaxRetries())

	combos, err := generator.Generate(context.Background(), 2, "")
	require.NoError(t, err)
	assert.Len(t, combos, 2)
}
