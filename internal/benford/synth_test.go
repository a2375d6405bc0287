package benford

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotas(t *testing.T) {
	for _, n := range []int{1, 7, 10, 99, 100, 1000, 12345} {
		q := Quotas(n)
		sum := 0
		for i, v := range q {
			assert.Equal(t, int(math.Floor(Theoretical()[i]*float64(n))), v)
			sum += v
		}
		assert.LessOrEqual(t, sum, n)
		assert.GreaterOrEqual(t, sum, n-NumDigits)
	}
	assert.Equal(t, [NumDigits]int{}, Quotas(0))
}

func TestSampleKeepsLeadingDigit(t *testing.T) {
	s := NewSeededSynthesizer(7)
	for d := 1; d <= NumDigits; d++ {
		for i := 0; i < 2000; i++ {
			v := s.Sample(d)
			got, ok := LeadingDigit(v)
			require.True(t, ok)
			require.Equal(t, d, got, "sample %v for digit %d", v, d)
			require.GreaterOrEqual(t, v, float64(d))
			require.Less(t, v, float64(d+1)*100)
		}
	}
}

func TestDrawMeetsQuotas(t *testing.T) {
	s := NewSeededSynthesizer(11)
	n := 1003
	samples := s.draw(n)
	require.Len(t, samples, n)
	var c Counts
	for _, v := range samples {
		d, ok := LeadingDigit(v)
		require.True(t, ok)
		c[d-1]++
	}
	for i, q := range Quotas(n) {
		assert.GreaterOrEqual(t, c[i], q, "digit %d", i+1)
	}
}

func TestSynthesizePreservesLengthAndMean(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	s := NewSeededSynthesizer(3)
	for _, n := range []int{1, 2, 9, 50, 1000} {
		values := make([]float64, n)
		for i := range values {
			values[i] = 1 + rng.Float64()*500
		}
		mean := 0.0
		for _, v := range values {
			mean += v
		}
		mean /= float64(n)

		out, err := s.Synthesize(values)
		require.NoError(t, err)
		require.Len(t, out, n)
		got := 0.0
		for _, v := range out {
			got += v
		}
		got /= float64(n)
		assert.InEpsilon(t, mean, got, 1e-6, "n=%d", n)
	}
}

func TestSynthesizeDoesNotMutateInput(t *testing.T) {
	values := []float64{5, 5, 5, 5}
	_, err := NewSeededSynthesizer(5).Synthesize(values)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 5, 5, 5}, values)
}

func TestSynthesizeApproximatesBenford(t *testing.T) {
	values := make([]float64, 5000)
	for i := range values {
		values[i] = 500 + float64(i%100)
	}
	out, err := NewSeededSynthesizer(99).Synthesize(values)
	require.NoError(t, err)
	a, err := Analyze(NewSeries(out), DefaultOptions())
	require.NoError(t, err)
	// rescaling shifts some digits, but far less than the threshold
	assert.Equal(t, Conforms, a.Verdict(), "max deviation %v at %d", a.Comparison.MaxDeviation, a.Comparison.MaxDigit)
}

func TestSynthesizeEmpty(t *testing.T) {
	_, err := NewSeededSynthesizer(1).Synthesize(nil)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestSynthesizeRejectsNaN(t *testing.T) {
	_, err := NewSeededSynthesizer(1).Synthesize([]float64{1, math.NaN()})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestSynthesizeSeededIsReproducible(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50, 60, 70}
	a, err := NewSeededSynthesizer(42).Synthesize(values)
	require.NoError(t, err)
	b, err := NewSeededSynthesizer(42).Synthesize(values)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSynthesizeSeriesKeepsIDs(t *testing.T) {
	src := Series{IDs: []int{4, 8, 15}, Values: []float64{16, 23, 42}}
	out, err := NewSeededSynthesizer(8).SynthesizeSeries(src)
	require.NoError(t, err)
	assert.Equal(t, src.IDs, out.IDs)
	assert.Len(t, out.Values, 3)
}
