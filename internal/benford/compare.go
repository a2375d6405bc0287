package benford

import (
	"fmt"
	"math"
)

// DefaultThreshold is the maximum per-digit absolute deviation tolerated before a
// dataset is flagged as non-conforming.
const DefaultThreshold = 0.05

// Verdict is the outcome of a conformance check.
type Verdict int

const (
	Conforms Verdict = iota
	Deviates
)

func (v Verdict) String() string {
	switch v {
	case Conforms:
		return "CONFORMS"
	case Deviates:
		return "DEVIATES"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

// MarshalText encodes the verdict by name for JSON and YAML output.
func (v Verdict) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// UnmarshalText decodes a verdict name written by MarshalText.
func (v *Verdict) UnmarshalText(b []byte) error {
	switch string(b) {
	case "CONFORMS":
		*v = Conforms
	case "DEVIATES":
		*v = Deviates
	default:
		return fmt.Errorf("unknown verdict %q", b)
	}
	return nil
}

// Comparison is the per-digit comparison of an observed distribution against Benford's.
type Comparison struct {
	Expected  Distribution
	Observed  Distribution
	Deviation [NumDigits]float64 // Observed[d] - Expected[d]
	Threshold float64
	// MaxDeviation is the largest absolute deviation, found at MaxDigit.
	MaxDeviation float64
	MaxDigit     int
	Verdict      Verdict
}

// ValidateThreshold reports whether t can be used as a per-digit threshold.
func ValidateThreshold(t float64) error {
	if math.IsNaN(t) || t <= 0 || t >= 1 {
		return fmt.Errorf("%w: %v (must be in (0, 1))", ErrInvalidThreshold, t)
	}
	return nil
}

// Compare checks observed against the theoretical distribution. The verdict is
// Deviates when any digit's absolute deviation exceeds threshold.
func Compare(observed Distribution, threshold float64) (Comparison, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return Comparison{}, err
	}
	c := Comparison{
		Expected:  Theoretical(),
		Observed:  observed,
		Threshold: threshold,
		Verdict:   Conforms,
	}
	for i := range c.Deviation {
		dev := observed[i] - c.Expected[i]
		c.Deviation[i] = dev
		if a := math.Abs(dev); a > c.MaxDeviation || c.MaxDigit == 0 {
			c.MaxDeviation = a
			c.MaxDigit = i + 1
		}
		if math.Abs(dev) > threshold {
			c.Verdict = Deviates
		}
	}
	return c, nil
}

// AbsDeviation returns |Observed[d] - Expected[d]|.
func (c Comparison) AbsDeviation(d int) float64 {
	if d < 1 || d > NumDigits {
		return 0
	}
	return math.Abs(c.Deviation[d-1])
}

// Exceeding lists the digits whose absolute deviation is above the threshold.
func (c Comparison) Exceeding() []int {
	var out []int
	for d := 1; d <= NumDigits; d++ {
		if c.AbsDeviation(d) > c.Threshold {
			out = append(out, d)
		}
	}
	return out
}

// Conforms reports whether the verdict is Conforms.
func (c Comparison) Conforms() bool { return c.Verdict == Conforms }
