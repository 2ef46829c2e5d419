package lottopick

import "time"

const (
	// MinNumber is the smallest ball number on a lotto ticket
	MinNumber = 1

	// MaxNumber is the largest ball number on a lotto ticket
	MaxNumber = 45

	// PickCount is the number of balls in one combination
	PickCount = 6

	// MinPredictionCount is the minimum number of combinations per request
	MinPredictionCount = 1

	// MaxPredictionCount is the maximum number of combinations per request
	MaxPredictionCount = 20
)

const (
	// MinCombinationSum is the lower bound of a plausible combination sum.
	// Combinations summing below this are rejected as extreme.
	MinCombinationSum = 80

	// MaxCombinationSum is the upper bound of a plausible combination sum
	MaxCombinationSum = 200

	// MaxConsecutiveRun is the longest run of consecutive numbers tolerated.
	// A run of this length or more marks the combination as extreme.
	MaxConsecutiveRun = 5

	// MaxBucketConcentration is how many numbers of one combination may fall
	// into a single decile bucket before it counts as extreme
	MaxBucketConcentration = 5
)

const (
	// DefaultMaxGenerateRetries is the default per-slot retry budget for
	// batch generation
	DefaultMaxGenerateRetries = 100

	// DefaultMaxSampleAttempts is the default redraw ceiling for the
	// pattern-rejection loop inside the sampler
	DefaultMaxSampleAttempts = 1000

	// DefaultHistoryCacheTTL is the default TTL for the cached snapshot of
	// historical winning combinations
	DefaultHistoryCacheTTL = 1 * time.Hour

	// MinHistoryCacheTTL is the minimum history cache TTL allowed
	MinHistoryCacheTTL = 1 * time.Second

	// MaxHistoryCacheTTL is the maximum history cache TTL allowed
	MaxHistoryCacheTTL = 24 * time.Hour

	// MaxGenerateRetriesCeiling is the maximum configurable retry budget
	MaxGenerateRetriesCeiling = 10000
)

const (
	// DrawSetKey is the Redis key holding the set of historical winning draws
	DrawSetKey = "lottopick:draws"

	// DrawKeySeparator joins the six numbers of an encoded draw member
	DrawKeySeparator = "-"
)

const (
	// DefaultCircuitBreakerName is the default name for the provider breaker
	DefaultCircuitBreakerName = "lottopick-provider"

	// DefaultCircuitBreakerMaxRequests is the default max half-open requests
	DefaultCircuitBreakerMaxRequests = 3

	// DefaultCircuitBreakerInterval is the default counting interval
	DefaultCircuitBreakerInterval = 60 * time.Second

	// DefaultCircuitBreakerTimeout is the default open-state timeout
	DefaultCircuitBreakerTimeout = 30 * time.Second

	// DefaultCircuitBreakerFailureRatio is the default trip ratio
	DefaultCircuitBreakerFailureRatio = 0.6

	// DefaultCircuitBreakerMinRequests is the default request floor before
	// the failure ratio is considered
	DefaultCircuitBreakerMinRequests = 3
)

const (
	DefaultRedisAddr         = "localhost:6379"
	DefaultRedisPassword     = ""
	DefaultRedisDB           = 0
	DefaultRedisPoolSize     = 50
	DefaultRedisMinIdleConns = 10
	DefaultRedisMaxRetries   = 3
	DefaultRedisDialTimeout  = 5 * time.Second
	DefaultRedisReadTimeout  = 3 * time.Second
	DefaultRedisWriteTimeout = 3 * time.Second
	DefaultRedisPoolTimeout  = 4 * time.Second
)
