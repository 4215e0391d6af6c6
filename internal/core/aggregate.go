package core

import (
	"fmt"
	"strings"
)

// TotalPolicy decides which total a record carries.
type TotalPolicy string

const (
	// TotalRecompute sums the hole scores; any missing hole makes the total missing.
	TotalRecompute TotalPolicy = "recompute"
	// TotalDeclared trusts the transcribed total token.
	TotalDeclared TotalPolicy = "declared"
)

// ParseTotalPolicy converts a config value to a TotalPolicy.
func ParseTotalPolicy(s string) (TotalPolicy, error) {
	switch p := TotalPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case TotalRecompute, TotalDeclared:
		return p, nil
	default:
		return "", fmt.Errorf("unknown total policy %q", s)
	}
}

// SumScores adds the hole scores. The sum is missing if any score is missing.
func SumScores(scores []Score) Score {
	sum := 0
	for _, s := range scores {
		if !s.Valid {
			return Missing
		}
		sum += s.Int
	}
	return Present(sum)
}

// Reconcile returns the total chosen by the policy, the computed sum, and
// whether a present declared total disagrees with a present computed one.
// A mismatch is reported under either policy and is never fatal.
func (p TotalPolicy) Reconcile(scores []Score, declared Score) (total, computed Score, mismatch bool) {
	computed = SumScores(scores)
	mismatch = computed.Valid && declared.Valid && computed.Int != declared.Int

	if p == TotalDeclared {
		return declared, computed, mismatch
	}
	return computed, computed, mismatch
}
