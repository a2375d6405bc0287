package benford

import "fmt"

// Options controls an analysis run.
type Options struct {
	// Threshold is the per-digit absolute deviation above which the data deviates.
	Threshold float64
}

// DefaultOptions returns the standard audit settings.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold}
}

// Analysis is the result of checking one series against Benford's Law.
type Analysis struct {
	// N is the number of input values; Digits.Len() of them yielded a digit.
	N          int
	Digits     DigitSequence
	Counts     Counts
	Comparison Comparison
}

// Observed returns the empirical distribution.
func (a *Analysis) Observed() Distribution { return a.Comparison.Observed }

// Verdict returns the conformance verdict.
func (a *Analysis) Verdict() Verdict { return a.Comparison.Verdict }

// Analyze extracts leading digits from s and compares their distribution with
// Benford's. Zero values contribute no digit and do not enter the denominator.
func Analyze(s Series, opt Options) (*Analysis, error) {
	if opt.Threshold == 0 {
		opt.Threshold = DefaultThreshold
	}
	seq, err := Extract(s)
	if err != nil {
		return nil, err
	}
	if seq.Len() == 0 {
		return nil, fmt.Errorf("analyze: %w", ErrInsufficientData)
	}
	counts, err := CountDigits(seq)
	if err != nil {
		return nil, err
	}
	observed, err := counts.Distribution()
	if err != nil {
		return nil, err
	}
	cmp, err := Compare(observed, opt.Threshold)
	if err != nil {
		return nil, err
	}
	return &Analysis{N: s.Len(), Digits: seq, Counts: counts, Comparison: cmp}, nil
}

// Adjust synthesizes a Benford-conforming replacement for s that keeps its mean,
// aligned to the IDs of s. s is not modified.
func Adjust(s Series, syn *Synthesizer) (Series, error) {
	if syn == nil {
		syn = NewSynthesizer(nil)
	}
	out, err := syn.SynthesizeSeries(s)
	if err != nil {
		return Series{}, fmt.Errorf("adjust: %w", err)
	}
	return out, nil
}
