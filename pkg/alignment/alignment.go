// Package alignment computes windowed sentiment/return alignment statistics.
package alignment

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// stdTolerance is the minimum standard deviation below which a series is
// treated as constant and its correlation defined as zero.
const stdTolerance = 0.001

// Interpretation labels.
const (
	InterpretationAligned    = "Aligned"
	InterpretationMisleading = "Misleading"
	InterpretationNoisy      = "Noisy"
)

// WindowMetrics holds the alignment statistics for one window.
type WindowMetrics struct {
	Corr             float64
	DirectionalMatch float64
	AlignmentScore   float64
	MisalignmentDays int
	Interpretation   string
}

// ComputeWindow computes alignment metrics over two equal-length series of
// daily sentiment averages and daily percent returns.
func ComputeWindow(sentiments, returns []float64) (WindowMetrics, error) {
	if len(sentiments) == 0 {
		return WindowMetrics{}, fmt.Errorf("empty input series")
	}
	if len(sentiments) != len(returns) {
		return WindowMetrics{}, fmt.Errorf("series length mismatch: %d vs %d", len(sentiments), len(returns))
	}

	corr := 0.0
	if stat.StdDev(sentiments, nil) >= stdTolerance && stat.StdDev(returns, nil) >= stdTolerance {
		corr = stat.Correlation(sentiments, returns, nil)
		if math.IsNaN(corr) || math.IsInf(corr, 0) {
			corr = 0.0
		}
	}

	matches := 0
	for i := range sentiments {
		if sign(sentiments[i]) == sign(returns[i]) {
			matches++
		}
	}
	directionalMatch := float64(matches) / float64(len(sentiments))
	misalignmentDays := len(sentiments) - matches

	// Blend linear co-movement with sign agreement, equally weighted.
	// Directional match is rescaled from [0,1] to [-1,1] before averaging.
	score := 0.5*corr + 0.5*(directionalMatch*2-1)
	score = math.Max(-1.0, math.Min(1.0, score))

	return WindowMetrics{
		Corr:             round4(corr),
		DirectionalMatch: round4(directionalMatch),
		AlignmentScore:   round4(score),
		MisalignmentDays: misalignmentDays,
		Interpretation:   Interpret(score),
	}, nil
}

// ComputeRolling evaluates ComputeWindow for every full window of length
// `window` over the aligned series. The result at index i covers the window
// ending at series index i+window-1. Fewer than `window` observations yield
// an empty result.
func ComputeRolling(sentiments, returns []float64, window int) ([]WindowMetrics, error) {
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %d", window)
	}
	if len(sentiments) != len(returns) {
		return nil, fmt.Errorf("series length mismatch: %d vs %d", len(sentiments), len(returns))
	}
	if len(sentiments) < window {
		return nil, nil
	}

	results := make([]WindowMetrics, 0, len(sentiments)-window+1)
	for end := window; end <= len(sentiments); end++ {
		m, err := ComputeWindow(sentiments[end-window:end], returns[end-window:end])
		if err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	return results, nil
}

// Interpret maps an alignment score onto its operator-facing label.
func Interpret(score float64) string {
	switch {
	case score >= 0.3:
		return InterpretationAligned
	case score <= -0.3:
		return InterpretationMisleading
	default:
		return InterpretationNoisy
	}
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
