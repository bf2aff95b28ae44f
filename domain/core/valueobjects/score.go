package valueobjects

import (
	pkgerrors "ideaforge-backend/pkg/errors"
)

const (
	// MinScore is the lowest score the analyzer can assign
	MinScore = 0
	// MaxScore is the highest score the analyzer can assign
	MaxScore = 100

	// legacyScaleMax is the upper bound of the old 0-5 scoring scale. Records
	// written before the scale migration store values on it; anything at or
	// below this bound is rescaled, anything above is already 0-100.
	legacyScaleMax = 5
	// legacyScaleFactor converts a 0-5 score to the 0-100 scale
	legacyScaleFactor = 20
)

// Score is a bounded evaluation score on the 0-100 scale
type Score struct {
	value int
}

// NewScore creates a Score, failing for values outside 0-100
func NewScore(value int) (Score, error) {
	if value < MinScore || value > MaxScore {
		return Score{}, pkgerrors.NewInvalidValueError("score must be between 0 and 100").
			WithCode("INVALID_SCORE").
			WithDetail("value", value)
	}
	return Score{value: value}, nil
}

// NormalizeScore maps a persisted raw score onto the 0-100 scale.
// Values at or below 5 are treated as legacy 0-5 scores and multiplied by 20;
// values above 5 are treated as already 0-100. The same rule runs on read and
// on write so round-trips are stable.
func NormalizeScore(raw int) (Score, error) {
	score, err := NewScore(raw)
	if err != nil {
		return Score{}, err
	}
	return score.Canonical(), nil
}

// Canonical returns the score on the canonical 0-100 scale, rescaling a
// legacy 0-5 value. A value on 0-100 rescales to itself, so applying this on
// both read and write keeps round-trips stable.
func (s Score) Canonical() Score {
	if s.value <= legacyScaleMax {
		return Score{value: s.value * legacyScaleFactor}
	}
	return s
}

// Value returns the score as an integer on the 0-100 scale
func (s Score) Value() int {
	return s.value
}

// Equals checks if two Scores are equal
func (s Score) Equals(other Score) bool {
	return s.value == other.value
}
