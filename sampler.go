package lottopick

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
)

// CombinationSampler produces uniformly random combinations and filters out
// statistically extreme patterns. Randomness comes from crypto/rand:
// predictability is a correctness concern for lottery-adjacent tooling, not a
// performance trade-off.
type CombinationSampler struct {
	maxAttempts int
	monitor     *GenerationMonitor
}

// NewCombinationSampler creates a sampler with the default redraw ceiling
func NewCombinationSampler() *CombinationSampler {
	return &CombinationSampler{maxAttempts: DefaultMaxSampleAttempts}
}

// NewCombinationSamplerWithAttempts creates a sampler with a custom redraw
// ceiling. The ceiling must be positive.
func NewCombinationSamplerWithAttempts(maxAttempts int) (*CombinationSampler, error) {
	if maxAttempts <= 0 {
		return nil, ErrInvalidRetryBudget.WithDetails(
			fmt.Sprintf("sample attempts: got %d", maxAttempts))
	}
	return &CombinationSampler{maxAttempts: maxAttempts}, nil
}

// SetMonitor attaches a generation monitor so redraws and extreme-pattern
// rejections show up in the metrics
func (s *CombinationSampler) SetMonitor(monitor *GenerationMonitor) {
	s.monitor = monitor
}

// Sample draws candidate combinations until one passes the extreme-pattern
// filter. In practice rejection is rare and the loop finishes within a few
// attempts; the ceiling exists so a broken filter cannot spin forever.
func (s *CombinationSampler) Sample() (Combination, error) {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if s.monitor != nil {
			s.monitor.RecordSampleAttempt()
		}

		combo, err := s.drawCombination()
		if err != nil {
			// crypto/rand failure, not a pattern rejection
			return Combination{}, ErrSystemError.WithCause(err).WithDetails(
				"secure random source failed")
		}

		if IsExtremePattern(combo) {
			if s.monitor != nil {
				s.monitor.RecordExtremeRejection()
			}
			continue
		}

		return combo, nil
	}

	return Combination{}, ErrSampleExhausted.WithDetails(
		fmt.Sprintf("%d attempts", s.maxAttempts))
}

// drawCombination picks PickCount distinct numbers uniformly from
// [MinNumber, MaxNumber] and returns them sorted ascending
func (s *CombinationSampler) drawCombination() (Combination, error) {
	var combo Combination
	seen := make(map[int]struct{}, PickCount)

	for i := 0; i < PickCount; {
		n, err := secureIntInRange(MinNumber, MaxNumber)
		if err != nil {
			return Combination{}, err
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		combo[i] = n
		i++
	}

	sort.Ints(combo[:])
	return combo, nil
}

// secureIntInRange generates a secure random number within [min, max] (inclusive)
func secureIntInRange(min, max int) (int, error) {
	rangeSize := max - min + 1
	randomBig, err := rand.Int(rand.Reader, big.NewInt(int64(rangeSize)))
	if err != nil {
		return 0, err
	}
	return int(randomBig.Int64()) + min, nil
}

// IsExtremePattern reports whether a combination matches any of the five
// structural rules deemed statistically implausible:
//
//  1. 5 or more consecutive numbers
//  2. arithmetic progression with a common gap greater than 1
//  3. sum below MinCombinationSum or above MaxCombinationSum
//  4. all odd or all even
//  5. 5 or more numbers inside one decile bucket
//
// Every rule is evaluated; the result is their logical OR.
func IsExtremePattern(combo Combination) bool {
	extreme := false

	// 1. longest consecutive run
	consecutive := 0
	maxConsecutive := 0
	for i := 0; i < PickCount-1; i++ {
		if combo[i+1]-combo[i] == 1 {
			consecutive++
			if consecutive+1 > maxConsecutive {
				maxConsecutive = consecutive + 1
			}
		} else {
			consecutive = 0
		}
	}
	if maxConsecutive >= MaxConsecutiveRun {
		extreme = true
	}

	// 2. arithmetic progression with gap > 1. A common gap of exactly 1 is
	// the full six-run already caught by rule 1.
	commonGap := combo[1] - combo[0]
	isProgression := true
	for i := 1; i < PickCount-1; i++ {
		if combo[i+1]-combo[i] != commonGap {
			isProgression = false
			break
		}
	}
	if isProgression && commonGap > 1 {
		extreme = true
	}

	// 3. extreme sum
	if sum := combo.Sum(); sum < MinCombinationSum || sum > MaxCombinationSum {
		extreme = true
	}

	// 4. single parity
	oddCount := 0
	for _, n := range combo {
		if n%2 == 1 {
			oddCount++
		}
	}
	if oddCount == 0 || oddCount == PickCount {
		extreme = true
	}

	// 5. decile concentration across the fixed buckets
	// {1-10, 11-20, 21-30, 31-40, 41-45}
	var buckets [5]int
	for _, n := range combo {
		buckets[(n-MinNumber)/10]++
	}
	for _, occupancy := range buckets {
		if occupancy >= MaxBucketConcentration {
			extreme = true
		}
	}

	return extreme
}
