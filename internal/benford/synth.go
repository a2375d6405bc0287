package benford

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// magnitudeBands is the width of the exponent draw: samples fall in the
	// ones, tens or hundreds band of their leading digit.
	magnitudeBands = 3

	// maxFraction keeps d+frac strictly below d+1 after rounding.
	maxFraction = 1 - 1e-9
)

// Synthesizer draws mean-preserving value sequences whose leading digits follow
// Benford's Law. A Synthesizer is not safe for concurrent use.
type Synthesizer struct {
	rng    *rand.Rand
	digits distuv.Categorical
}

// NewSynthesizer returns a Synthesizer drawing from src. A nil src is seeded from
// the clock.
func NewSynthesizer(src rand.Source) *Synthesizer {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>1|1)
	}
	weights := Theoretical()
	return &Synthesizer{
		rng:    rand.New(src),
		digits: distuv.NewCategorical(weights[:], src),
	}
}

// NewSeededSynthesizer returns a Synthesizer that reproduces the same draws for
// the same seed. Seed 0 falls back to a clock-seeded source.
func NewSeededSynthesizer(seed uint64) *Synthesizer {
	if seed == 0 {
		return NewSynthesizer(nil)
	}
	return NewSynthesizer(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Quotas returns floor(Theoretical[d] * n) for each digit: the number of samples
// guaranteed to each leading digit. The quotas sum to at most n.
func Quotas(n int) [NumDigits]int {
	var q [NumDigits]int
	if n <= 0 {
		return q
	}
	t := Theoretical()
	for i, f := range t {
		q[i] = int(math.Floor(f * float64(n)))
	}
	return q
}

// Sample returns one magnitude whose leading digit is d. A single u ~ U[0,3)
// selects the band (floor(u)) and the mantissa fraction (u - floor(u)), so
// samples span d .. (d+1)*100.
func (s *Synthesizer) Sample(d int) float64 {
	u := s.rng.Float64() * magnitudeBands
	k := math.Floor(u)
	frac := math.Min(u-k, maxFraction)
	return (float64(d) + frac) * math.Pow10(int(k))
}

// draw generates n samples: per-digit quotas first, then Benford-weighted
// re-draws for the shortfall left by flooring.
func (s *Synthesizer) draw(n int) []float64 {
	out := make([]float64, 0, n)
	for i, q := range Quotas(n) {
		for j := 0; j < q; j++ {
			out = append(out, s.Sample(i+1))
		}
	}
	for len(out) < n {
		d := int(s.digits.Rand()) + 1
		out = append(out, s.Sample(d))
	}
	return out[:n]
}

// Synthesize returns len(values) samples following Benford's leading-digit
// distribution, rescaled so their mean equals the mean of values. Rescaling can
// move samples near a power of ten into a neighbouring digit.
func (s *Synthesizer) Synthesize(values []float64) ([]float64, error) {
	n := len(values)
	if n == 0 {
		return nil, ErrInsufficientData
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: value %v at position %d", ErrInvalidValue, v, i)
		}
	}
	mean := stat.Mean(values, nil)
	out := s.draw(n)
	generated := stat.Mean(out, nil)
	scale := mean / generated
	for i := range out {
		out[i] *= scale
	}
	return out, nil
}

// SynthesizeSeries runs Synthesize over src and keeps its IDs, so the result is
// index-aligned to the input rows.
func (s *Synthesizer) SynthesizeSeries(src Series) (Series, error) {
	if err := src.validate(); err != nil {
		return Series{}, err
	}
	vals, err := s.Synthesize(src.Values)
	if err != nil {
		return Series{}, err
	}
	ids := make([]int, len(src.IDs))
	copy(ids, src.IDs)
	return Series{IDs: ids, Values: vals}, nil
}
