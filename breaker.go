package lottopick

import (
	"context"

	"github.com/sony/gobreaker"
)

// CircuitBreakerProvider wraps a HistoricalDrawProvider with a circuit
// breaker, so a flapping data layer stops being hammered with snapshot
// fetches. An open breaker surfaces as a provider error, which the duplicate
// index already degrades into its fail-safe resampling path.
type CircuitBreakerProvider struct {
	provider HistoricalDrawProvider

	breaker *gobreaker.CircuitBreaker
	logger  Logger
	config  *CircuitBreakerConfig
}

// NewCircuitBreakerProvider wraps the given provider. A disabled config
// returns a pass-through wrapper.
func NewCircuitBreakerProvider(
	provider HistoricalDrawProvider, config *CircuitBreakerConfig, logger Logger,
) *CircuitBreakerProvider {
	if logger == nil {
		logger = &DefaultLogger{}
	}
	if config == nil {
		config = DefaultCircuitBreakerConfig()
	}

	if !config.Enabled {
		return &CircuitBreakerProvider{
			provider: provider,
			logger:   logger,
			config:   config,
		}
	}

	settings := gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= config.MinRequests &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= config.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if config.OnStateChange && logger != nil {
				logger.Info("Circuit breaker '%s' state changed from %s to %s", name, from, to)
			}
		},
	}

	return &CircuitBreakerProvider{
		provider: provider,
		breaker:  gobreaker.NewCircuitBreaker(settings),
		logger:   logger,
		config:   config,
	}
}

// ExistingCombinations fetches the snapshot through the breaker
func (c *CircuitBreakerProvider) ExistingCombinations(ctx context.Context) (CombinationSet, error) {
	if c.breaker == nil {
		return c.provider.ExistingCombinations(ctx)
	}

	result, err := c.breaker.Execute(func() (any, error) {
		return c.provider.ExistingCombinations(ctx)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			return nil, ErrCircuitBreakerOpen.WithDetails("snapshot fetches are being rejected")
		}
		if err == gobreaker.ErrTooManyRequests {
			return nil, ErrCircuitBreakerOpen.WithDetails("too many requests, circuit breaker is half-open")
		}
		return nil, err
	}

	return result.(CombinationSet), nil
}

// State returns the current breaker state, or closed when disabled
func (c *CircuitBreakerProvider) State() gobreaker.State {
	if c.breaker == nil {
		return gobreaker.StateClosed
	}
	return c.breaker.State()
}
