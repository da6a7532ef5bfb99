// Package health interprets mental-health assessments of a caller.
package health

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

const (
	// Min is the most distressed rating.
	Min = 1
	// Max is the healthiest rating.
	Max = 10
	// Neutral is used whenever an assessment cannot be read.
	Neutral = 5
	// InitialPrevious seeds the delta of the very first assessment of a run.
	InitialPrevious = 5

	// CrisisThreshold and below ends a call as lost.
	CrisisThreshold = 2
	// RecoveredThreshold and above ends a call as won.
	RecoveredThreshold = 8
)

// Outcome classifies a call after an assessment.
type Outcome string

const (
	OutcomeInProgress Outcome = "in_progress"
	OutcomePositive   Outcome = "positive"
	OutcomeNegative   Outcome = "negative"
)

// Terminal reports whether the call is over.
func (o Outcome) Terminal() bool {
	return o == OutcomePositive || o == OutcomeNegative
}

// Points is the session score adjustment for the outcome.
func (o Outcome) Points() int {
	switch o {
	case OutcomePositive:
		return 1
	case OutcomeNegative:
		return -1
	default:
		return 0
	}
}

// Classify maps a health score onto a call outcome.
func Classify(score int) Outcome {
	switch {
	case score <= CrisisThreshold:
		return OutcomeNegative
	case score >= RecoveredThreshold:
		return OutcomePositive
	default:
		return OutcomeInProgress
	}
}

// ParseScore reads a rating out of free-form assessor output. Every decimal
// digit, in any script, is concatenated into one number which is clamped to
// [Min, Max]. Output without digits yields Neutral.
func ParseScore(raw string) int {
	var digits strings.Builder
	for _, r := range raw {
		if d, ok := digitValue(r); ok {
			digits.WriteByte(byte('0' + d))
		}
	}
	if digits.Len() == 0 {
		return Neutral
	}

	val, err := strconv.Atoi(digits.String())
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return Max
		}
		return Neutral
	}
	return Clamp(val)
}

// digitValue maps a decimal digit (category Nd) to its value. Nd digits come
// in contiguous runs from zero to nine, and every range of the table starts
// at a zero.
func digitValue(r rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	if !unicode.IsDigit(r) {
		return 0, false
	}
	for _, rng := range unicode.Nd.R16 {
		if lo, hi := rune(rng.Lo), rune(rng.Hi); r >= lo && r <= hi {
			return int(r-lo) % 10, true
		}
	}
	for _, rng := range unicode.Nd.R32 {
		if lo, hi := rune(rng.Lo), rune(rng.Hi); r >= lo && r <= hi {
			return int(r-lo) % 10, true
		}
	}
	return 0, false
}

// Clamp bounds a score to [Min, Max].
func Clamp(score int) int {
	if score < Min {
		return Min
	}
	if score > Max {
		return Max
	}
	return score
}

// FormatDelta renders a change in score the way notifications show it:
// "+3" for improvements, "-2" or "0" otherwise.
func FormatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
