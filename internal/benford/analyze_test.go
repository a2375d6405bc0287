package benford

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeCountsExcludeZeros(t *testing.T) {
	a, err := Analyze(NewSeries([]float64{123, -45.6, 0.007, 0}), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 4, a.N)
	assert.Equal(t, 3, a.Counts.Total())
	assert.Equal(t, 1, a.Digits.Dropped)
	assert.InDelta(t, 1.0/3, a.Observed().Freq(1), 1e-12)
	assert.InDelta(t, 1.0, a.Observed().Sum(), 1e-12)
}

func TestAnalyzeOnlyZeros(t *testing.T) {
	_, err := Analyze(NewSeries([]float64{0, 0}), DefaultOptions())
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestAnalyzeDefaultsThreshold(t *testing.T) {
	a, err := Analyze(NewSeries([]float64{1, 2, 3}), Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultThreshold, a.Comparison.Threshold)
	assert.Equal(t, Deviates, a.Verdict())
}

func TestAdjustAligned(t *testing.T) {
	s := Series{IDs: []int{2, 5, 9}, Values: []float64{300, 310, 320}}
	out, err := Adjust(s, NewSeededSynthesizer(2))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5, 9}, out.IDs)
	assert.InEpsilon(t, 310.0, (out.Values[0]+out.Values[1]+out.Values[2])/3, 1e-9)
}

func TestAdjustEmpty(t *testing.T) {
	_, err := Adjust(Series{}, nil)
	assert.ErrorIs(t, err, ErrInsufficientData)
}
