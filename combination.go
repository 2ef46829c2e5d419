package lottopick

import (
	"fmt"
	"sort"
	"strings"
)

// CombinationKey is the canonical comparable form of a combination: the six
// numbers in ascending order. Identical number sets map to identical keys
// regardless of input order, so it serves as the member type of every
// duplicate set in the pipeline.
type CombinationKey [PickCount]int

// CombinationSet is a membership set of combinations keyed by their
// canonical form
type CombinationSet map[CombinationKey]struct{}

// Contains reports whether the set holds the given key
func (s CombinationSet) Contains(key CombinationKey) bool {
	_, ok := s[key]
	return ok
}

// Add inserts a key into the set
func (s CombinationSet) Add(key CombinationKey) {
	s[key] = struct{}{}
}

// Combination is a lotto pick: exactly PickCount distinct numbers in
// [MinNumber, MaxNumber], stored in ascending order. Construct through
// NewCombination so the invariant always holds.
type Combination [PickCount]int

// NewCombination builds a Combination from arbitrary-order numbers.
// The input is normalized (sorted ascending) and validated.
func NewCombination(numbers []int) (Combination, error) {
	var combo Combination

	if len(numbers) != PickCount {
		return combo, ErrCombinationLength.WithDetails(
			fmt.Sprintf("got %d numbers", len(numbers)))
	}

	copy(combo[:], numbers)
	sort.Ints(combo[:])

	for i, n := range combo {
		if n < MinNumber || n > MaxNumber {
			return Combination{}, ErrCombinationRange.WithDetails(
				fmt.Sprintf("got %d", n))
		}
		if i > 0 && combo[i-1] == n {
			return Combination{}, ErrCombinationRepeats.WithDetails(
				fmt.Sprintf("%d appears more than once", n))
		}
	}

	return combo, nil
}

// Key returns the canonical comparable form of the combination
func (c Combination) Key() CombinationKey {
	return CombinationKey(c)
}

// Numbers returns the numbers as a fresh slice in ascending order
func (c Combination) Numbers() []int {
	numbers := make([]int, PickCount)
	copy(numbers, c[:])
	return numbers
}

// Sum returns the sum of the six numbers
func (c Combination) Sum() int {
	sum := 0
	for _, n := range c {
		sum += n
	}
	return sum
}

// Equal reports whether two combinations denote the same number set
func (c Combination) Equal(other Combination) bool {
	return c == other
}

// String renders the combination as "1-7-13-24-35-42"
func (c Combination) String() string {
	parts := make([]string, PickCount)
	for i, n := range c {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, DrawKeySeparator)
}

// ValidateNumbers checks an arbitrary number slice against the combination
// invariant without constructing a Combination. It reports length, range and
// duplicate violations.
func ValidateNumbers(numbers []int) error {
	_, err := NewCombination(numbers)
	return err
}

// sortedKey normalizes an arbitrary-order slice of exactly PickCount numbers
// into a CombinationKey. The caller is responsible for the length check.
func sortedKey(numbers []int) CombinationKey {
	var key CombinationKey
	copy(key[:], numbers)
	sort.Ints(key[:])
	return key
}
