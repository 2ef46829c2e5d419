package lottopick

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ValidatePredictionCount validates the per-request combination count
func ValidatePredictionCount(count int) error {
	if count < MinPredictionCount || count > MaxPredictionCount {
		return ErrInvalidPredictionCount.WithDetails(fmt.Sprintf("got %d", count))
	}
	return nil
}

// ParseCount coerces a decoded request value into a prediction count.
// JSON decoding and bot input hand over float64, json.Number or string; any
// value without an exact integer representation is rejected with the
// not-an-integer validation error. Range checking is left to Generate.
func ParseCount(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, ErrCountNotInteger.WithDetails(fmt.Sprintf("got %v", v))
		}
		return int(v), nil
	case float32:
		f := float64(v)
		if f != math.Trunc(f) {
			return 0, ErrCountNotInteger.WithDetails(fmt.Sprintf("got %v", v))
		}
		return int(f), nil
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, ErrCountNotInteger.WithDetails(fmt.Sprintf("got %q", v.String()))
		}
		return int(i), nil
	case string:
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, ErrCountNotInteger.WithDetails(fmt.Sprintf("got %q", v))
		}
		return i, nil
	case nil:
		return 0, ErrCountNotInteger.WithDetails("got nil")
	default:
		return 0, ErrCountNotInteger.WithDetails(fmt.Sprintf("got %T", value))
	}
}
