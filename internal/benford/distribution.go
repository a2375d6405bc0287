package benford

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// NumDigits is the number of possible leading digits (1..9).
const NumDigits = 9

// Distribution maps each leading digit 1..9 to a frequency. Index 0 holds digit 1.
type Distribution [NumDigits]float64

// Freq returns the frequency of digit d, or 0 when d is outside 1..9.
func (p Distribution) Freq(d int) float64 {
	if d < 1 || d > NumDigits {
		return 0
	}
	return p[d-1]
}

// Sum returns the total mass of the distribution.
func (p Distribution) Sum() float64 { return floats.Sum(p[:]) }

// Map returns the distribution keyed by digit, with all nine keys present.
func (p Distribution) Map() map[int]float64 {
	m := make(map[int]float64, NumDigits)
	for i, f := range p {
		m[i+1] = f
	}
	return m
}

var theoretical = sync.OnceValue(func() Distribution {
	var p Distribution
	for d := 1; d <= NumDigits; d++ {
		p[d-1] = math.Log10(1 + 1/float64(d))
	}
	return p
})

// Theoretical returns Benford's distribution, log10(1 + 1/d) for d in 1..9.
// It is computed once per process and returned by value.
func Theoretical() Distribution { return theoretical() }

// Counts holds the number of occurrences of each leading digit. Index 0 holds digit 1.
type Counts [NumDigits]int

// Count returns the occurrences of digit d, or 0 when d is outside 1..9.
func (c Counts) Count(d int) int {
	if d < 1 || d > NumDigits {
		return 0
	}
	return c[d-1]
}

// Total returns the number of digits counted.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Distribution converts counts to relative frequencies.
func (c Counts) Distribution() (Distribution, error) {
	total := c.Total()
	if total == 0 {
		return Distribution{}, ErrInsufficientData
	}
	var p Distribution
	for i, v := range c {
		p[i] = float64(v) / float64(total)
	}
	return p, nil
}

// CountDigits tallies the digits of seq.
func CountDigits(seq DigitSequence) (Counts, error) {
	var c Counts
	for i, d := range seq.Digits {
		if d < 1 || d > NumDigits {
			return Counts{}, fmt.Errorf("%w: digit %d at position %d", ErrInvalidValue, d, i)
		}
		c[d-1]++
	}
	return c, nil
}

// Observe returns the empirical leading-digit distribution of seq.
func Observe(seq DigitSequence) (Distribution, error) {
	c, err := CountDigits(seq)
	if err != nil {
		return Distribution{}, err
	}
	return c.Distribution()
}
