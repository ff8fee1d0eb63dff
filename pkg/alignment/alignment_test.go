package alignment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonum.org/v1/gonum/stat"
)

func TestComputeWindowAllSignsMatch(t *testing.T) {
	sentiments := []float64{0.10, -0.20, 0.30, 0.40, -0.10, 0.20, 0.15}
	returns := []float64{1.0, -2.0, 3.0, 2.0, -1.0, 1.0, 0.5}

	m, err := ComputeWindow(sentiments, returns)
	require.NoError(t, err)

	assert.Equal(t, 1.0, m.DirectionalMatch)
	assert.Equal(t, 0, m.MisalignmentDays)

	wantCorr := math.Round(stat.Correlation(sentiments, returns, nil)*10000) / 10000
	assert.Equal(t, wantCorr, m.Corr)

	wantScore := math.Round((0.5*stat.Correlation(sentiments, returns, nil)+0.5)*10000) / 10000
	assert.Equal(t, wantScore, m.AlignmentScore)
	assert.Equal(t, InterpretationAligned, m.Interpretation)
}

func TestComputeWindowConstantSeries(t *testing.T) {
	tests := []struct {
		name       string
		sentiments []float64
		returns    []float64
	}{
		{
			name:       "constant sentiment",
			sentiments: []float64{0.5, 0.5, 0.5, 0.5, 0.5},
			returns:    []float64{1.0, -2.0, 3.0, -1.0, 0.5},
		},
		{
			name:       "constant returns",
			sentiments: []float64{0.1, -0.2, 0.3, -0.4, 0.5},
			returns:    []float64{2.0, 2.0, 2.0, 2.0, 2.0},
		},
		{
			name:       "all zeros",
			sentiments: []float64{0, 0, 0, 0, 0},
			returns:    []float64{0, 0, 0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ComputeWindow(tt.sentiments, tt.returns)
			require.NoError(t, err)
			assert.Equal(t, 0.0, m.Corr)
		})
	}
}

func TestComputeWindowZeroSignsMatch(t *testing.T) {
	// sign(0) matches sign(0) only.
	m, err := ComputeWindow(
		[]float64{0, 0, 0.5},
		[]float64{0, 1.0, -1.0},
	)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, m.DirectionalMatch, 0.0001)
	assert.Equal(t, 2, m.MisalignmentDays)
}

func TestComputeWindowScoreBounds(t *testing.T) {
	tests := []struct {
		name       string
		sentiments []float64
		returns    []float64
	}{
		{
			name:       "perfectly aligned",
			sentiments: []float64{0.1, 0.2, 0.3, 0.4, 0.5},
			returns:    []float64{1.0, 2.0, 3.0, 4.0, 5.0},
		},
		{
			name:       "perfectly opposed",
			sentiments: []float64{0.1, 0.2, 0.3, 0.4, 0.5},
			returns:    []float64{-1.0, -2.0, -3.0, -4.0, -5.0},
		},
		{
			name:       "mixed",
			sentiments: []float64{0.1, -0.7, 0.3, -0.2, 0.9},
			returns:    []float64{-3.0, 2.0, 1.0, 4.0, -0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ComputeWindow(tt.sentiments, tt.returns)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, m.AlignmentScore, -1.0)
			assert.LessOrEqual(t, m.AlignmentScore, 1.0)
			assert.GreaterOrEqual(t, m.DirectionalMatch, 0.0)
			assert.LessOrEqual(t, m.DirectionalMatch, 1.0)
		})
	}
}

func TestComputeWindowPerfectlyOpposed(t *testing.T) {
	m, err := ComputeWindow(
		[]float64{0.1, 0.2, 0.3, 0.4, 0.5},
		[]float64{-1.0, -2.0, -3.0, -4.0, -5.0},
	)
	require.NoError(t, err)
	assert.Equal(t, -1.0, m.Corr)
	assert.Equal(t, 0.0, m.DirectionalMatch)
	assert.Equal(t, -1.0, m.AlignmentScore)
	assert.Equal(t, InterpretationMisleading, m.Interpretation)
}

func TestComputeWindowInputErrors(t *testing.T) {
	_, err := ComputeWindow(nil, nil)
	assert.Error(t, err)

	_, err = ComputeWindow([]float64{1, 2}, []float64{1})
	assert.Error(t, err)
}

func TestComputeRolling(t *testing.T) {
	sentiments := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}
	returns := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	results, err := ComputeRolling(sentiments, returns, 7)
	require.NoError(t, err)
	require.Len(t, results, 4)

	for _, m := range results {
		assert.Equal(t, 1.0, m.Corr)
		assert.Equal(t, 1.0, m.DirectionalMatch)
	}
}

func TestComputeRollingInsufficientData(t *testing.T) {
	results, err := ComputeRolling([]float64{0.1, 0.2}, []float64{1, 2}, 7)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestComputeRollingBadWindow(t *testing.T) {
	_, err := ComputeRolling([]float64{0.1}, []float64{1}, 0)
	assert.Error(t, err)
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.5, InterpretationAligned},
		{0.3, InterpretationAligned},
		{0.2999, InterpretationNoisy},
		{0.0, InterpretationNoisy},
		{-0.2999, InterpretationNoisy},
		{-0.3, InterpretationMisleading},
		{-0.9, InterpretationMisleading},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Interpret(tt.score), "score %v", tt.score)
	}
}
