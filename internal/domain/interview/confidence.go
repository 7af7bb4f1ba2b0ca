package interview

import (
	"encoding/json"
	"fmt"
	"math"
)

// ConfidenceLevel buckets a score into five ordered classes.
type ConfidenceLevel string

const (
	ConfidenceVeryLow  ConfidenceLevel = "very_low"
	ConfidenceLow      ConfidenceLevel = "low"
	ConfidenceMedium   ConfidenceLevel = "medium"
	ConfidenceHigh     ConfidenceLevel = "high"
	ConfidenceVeryHigh ConfidenceLevel = "very_high"
)

// confidenceEpsilon absorbs floating-point drift on equality checks.
const confidenceEpsilon = 0.001

// ConfidenceScore is a normalized probability in [0,1], stored rounded to
// three decimal places. Immutable after construction.
type ConfidenceScore struct {
	value float64
}

// NewConfidenceScore validates and rounds v. Out-of-domain input is rejected,
// never clamped.
func NewConfidenceScore(v float64) (ConfidenceScore, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ConfidenceScore{}, ValidationError("Confidence score must be a finite number")
	}
	if v < 0 || v > 1 {
		return ConfidenceScore{}, ValidationError(fmt.Sprintf("Confidence score must be between 0 and 1, got %v", v))
	}
	return ConfidenceScore{value: roundConfidence(v)}, nil
}

func roundConfidence(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func (c ConfidenceScore) Value() float64 { return c.value }

// Level classifies the score: very_low < 0.25 <= low < 0.5 <= medium < 0.75 <= high < 0.9 <= very_high.
func (c ConfidenceScore) Level() ConfidenceLevel {
	switch {
	case c.value < 0.25:
		return ConfidenceVeryLow
	case c.value < 0.5:
		return ConfidenceLow
	case c.value < 0.75:
		return ConfidenceMedium
	case c.value < 0.9:
		return ConfidenceHigh
	default:
		return ConfidenceVeryHigh
	}
}

// Add saturates at 1.0 rather than overflowing the domain.
func (c ConfidenceScore) Add(other ConfidenceScore) ConfidenceScore {
	sum := c.value + other.value
	if sum > 1 {
		sum = 1
	}
	return ConfidenceScore{value: roundConfidence(sum)}
}

// Multiply is the plain product; two in-range values cannot leave the range.
func (c ConfidenceScore) Multiply(other ConfidenceScore) ConfidenceScore {
	return ConfidenceScore{value: roundConfidence(c.value * other.value)}
}

// Equals compares within epsilon.
func (c ConfidenceScore) Equals(other ConfidenceScore) bool {
	return math.Abs(c.value-other.value) < confidenceEpsilon
}

// AtLeast reports whether the score meets the threshold (epsilon-tolerant).
func (c ConfidenceScore) AtLeast(threshold float64) bool {
	return c.value >= threshold-confidenceEpsilon
}

// AverageConfidence fails on empty input.
func AverageConfidence(scores []ConfidenceScore) (ConfidenceScore, error) {
	if len(scores) == 0 {
		return ConfidenceScore{}, ValidationError("Cannot average empty confidence score list")
	}
	var sum float64
	for _, s := range scores {
		sum += s.value
	}
	return NewConfidenceScore(sum / float64(len(scores)))
}

// WeightedAverageConfidence fails on empty input, mismatched lengths, or zero
// total weight.
func WeightedAverageConfidence(scores []ConfidenceScore, weights []float64) (ConfidenceScore, error) {
	if len(scores) == 0 {
		return ConfidenceScore{}, ValidationError("Cannot average empty confidence score list")
	}
	if len(scores) != len(weights) {
		return ConfidenceScore{}, ValidationError("Confidence scores and weights must have the same length")
	}
	var sum, totalWeight float64
	for i, s := range scores {
		sum += s.value * weights[i]
		totalWeight += weights[i]
	}
	if totalWeight == 0 {
		return ConfidenceScore{}, ValidationError("Total weight must not be zero")
	}
	return NewConfidenceScore(sum / totalWeight)
}

func (c ConfidenceScore) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.value)
}

func (c *ConfidenceScore) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	score, err := NewConfidenceScore(v)
	if err != nil {
		return err
	}
	*c = score
	return nil
}
