package lottopick

import (
	"encoding/json"
	"time"
)

// GenerationRequest describes one batch generation call. It is fully
// consumed within a single Generate call and never persisted here.
type GenerationRequest struct {
	Count       int    `json:"count"`                  // number of combinations, 1..20
	RequesterID string `json:"requester_id,omitempty"` // optional caller identity
}

// Validate checks the request count against the allowed bounds
func (r *GenerationRequest) Validate() error {
	return ValidatePredictionCount(r.Count)
}

// GenerationResult is a completed batch: the combinations in generation
// order plus request bookkeeping. No quality score is assigned.
type GenerationResult struct {
	Combinations []Combination `json:"combinations"`
	RequesterID  string        `json:"requester_id,omitempty"`
	GeneratedAt  time.Time     `json:"generated_at"`
	Attempts     int           `json:"attempts"` // sample attempts spent across all slots
	ElapsedMs    float64       `json:"elapsed_ms"`
}

// Count returns how many combinations the result holds
func (r *GenerationResult) Count() int { return len(r.Combinations) }

// ToJSON renders the result for API and bot collaborators
func (r *GenerationResult) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// MarshalJSON renders a Combination as a plain array of its six numbers
func (c Combination) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Numbers())
}

// UnmarshalJSON parses a number array, normalizing and validating it
func (c *Combination) UnmarshalJSON(data []byte) error {
	var numbers []int
	if err := json.Unmarshal(data, &numbers); err != nil {
		return err
	}

	combo, err := NewCombination(numbers)
	if err != nil {
		return err
	}

	*c = combo
	return nil
}
