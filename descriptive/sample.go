// Package descriptive computes descriptive statistics and frequency
// distributions over a finite sample of float64 observations.
//
// A Sample owns its observations and, unless told otherwise, precalculates
// every statistic that needs no argument when it is built. The Calculator
// behind it exposes each statistic directly; FrequencyTable derives the
// probability mass function, cumulative distribution and histograms.
package descriptive

import (
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// Result is the cached outcome of one precalculated statistic.
type Result struct {
	Value any
	Err   error
}

// Float returns a scalar result.
func (r Result) Float() (float64, bool) {
	v, ok := r.Value.(float64)
	return v, ok
}

// Bool returns a predicate result.
func (r Result) Bool() (bool, bool) {
	v, ok := r.Value.(bool)
	return v, ok
}

// Int returns a counting result.
func (r Result) Int() (int, bool) {
	v, ok := r.Value.(int)
	return v, ok
}

// Pair returns a range or quartile-pair result.
func (r Result) Pair() (Pair, bool) {
	v, ok := r.Value.(Pair)
	return v, ok
}

// Floats returns a list result such as the modes.
func (r Result) Floats() ([]float64, bool) {
	v, ok := r.Value.([]float64)
	return v, ok
}

// Fractions returns a result keyed by sample fraction.
func (r Result) Fractions() (map[float64]float64, bool) {
	v, ok := r.Value.(map[float64]float64)
	return v, ok
}

// Table returns a frequency-table result.
func (r Result) Table() (*FrequencyTable, bool) {
	v, ok := r.Value.(*FrequencyTable)
	return v, ok
}

// Sample is an ordered, immutable set of observations together with the
// statistics precalculated for it.
type Sample struct {
	values          []float64
	precalculations []Statistic
	calc            *Calculator
	results         map[Statistic]Result
}

// Option configures NewSample.
type Option func(*sampleOptions)

type sampleOptions struct {
	precalculations []Statistic
	explicit        bool
}

// WithPrecalculations restricts the statistics computed at construction to
// names. Called with no names, nothing is precalculated.
func WithPrecalculations(names ...Statistic) Option {
	return func(o *sampleOptions) {
		o.precalculations = names
		o.explicit = true
	}
}

// NewSample copies values into a new Sample and precalculates the selected
// statistics (by default all of EagerStatistics).
func NewSample(values []float64, opts ...Option) (*Sample, error) {
	var o sampleOptions
	for _, opt := range opts {
		opt(&o)
	}
	names := o.precalculations
	if !o.explicit {
		names = EagerStatistics()
	}
	selected := make([]statistic, len(names))
	for i, name := range names {
		st, ok := lookupStatistic(name)
		if !ok {
			return nil, fmt.Errorf("precalculate %q: %w", name, ErrInvalidArgument)
		}
		if st.local {
			return nil, fmt.Errorf("precalculate %q: needs an argument: %w", name, ErrInvalidArgument)
		}
		selected[i] = st
	}

	s := &Sample{
		values:          slices.Clone(values),
		precalculations: slices.Clone(names),
	}
	s.calc = newCalculator(s.values)
	s.results = precalculate(s.calc, selected)
	return s, nil
}

// precalculate evaluates each statistic once. The statistics share nothing
// but the calculator's lazily built caches, so they run concurrently and
// each goroutine writes only its own slot.
func precalculate(c *Calculator, selected []statistic) map[Statistic]Result {
	slots := make([]Result, len(selected))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, st := range selected {
		g.Go(func() error {
			v, err := st.compute(c)
			slots[i] = Result{Value: v, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	results := make(map[Statistic]Result, len(selected))
	for i, st := range selected {
		results[st.name] = slots[i]
	}
	return results
}

// derive builds a sample from values with the same precalculation set.
func (s *Sample) derive(values []float64) (*Sample, error) {
	return NewSample(values, WithPrecalculations(s.precalculations...))
}

// Values returns a copy of the observations in their original order.
func (s *Sample) Values() []float64 {
	return slices.Clone(s.values)
}

// Len is the number of observations.
func (s *Sample) Len() int {
	return len(s.values)
}

// Calculator exposes every statistic, local ones included.
func (s *Sample) Calculator() *Calculator {
	return s.calc
}

// Precalculations lists the statistics computed at construction.
func (s *Sample) Precalculations() []Statistic {
	return slices.Clone(s.precalculations)
}

// Lookup returns a precalculated statistic. A statistic whose computation
// failed (for instance one that is not implemented) returns its error.
func (s *Sample) Lookup(name Statistic) (Result, error) {
	r, ok := s.results[name]
	if !ok {
		return Result{}, fmt.Errorf("%s: %w", name, ErrNotPrecalculated)
	}
	return r, r.Err
}

// Bound picks the reference point for Normalize. The zero value maps the
// maximum to 1.
type Bound struct {
	value  float64
	bottom bool
	set    bool
}

// ToTop scales so the maximum becomes top.
func ToTop(top float64) Bound { return Bound{value: top, set: true} }

// ToBottom scales so the minimum becomes bottom.
func ToBottom(bottom float64) Bound { return Bound{value: bottom, bottom: true, set: true} }

// Normalize multiplies every observation by one ratio so that either the
// maximum maps to the top bound or the minimum maps to the bottom bound.
func (s *Sample) Normalize(b Bound) (*Sample, error) {
	if !b.set {
		b = ToTop(1)
	}
	scaled := s.Values()
	if len(scaled) > 0 {
		r := s.calc.Range()
		ref := r.High
		if b.bottom {
			ref = r.Low
		}
		floats.Scale(b.value/ref, scaled)
	}
	return s.derive(scaled)
}

// Round rounds every observation to digits decimal places, half away from
// zero.
func (s *Sample) Round(digits int) (*Sample, error) {
	rounded := make([]float64, len(s.values))
	for i, v := range s.values {
		rounded[i] = scalar.Round(v, digits)
	}
	return s.derive(rounded)
}

// DifferenceOptions selects the element-wise comparison made by
// Difference. Relative takes precedence over Absolute; with neither set the
// signed difference is returned.
type DifferenceOptions struct {
	Relative bool
	Absolute bool
}

// Difference compares other against s element by element: other/s when
// relative, |other-s| when absolute, other-s otherwise.
func (s *Sample) Difference(other *Sample, opts DifferenceOptions) (*Sample, error) {
	if len(s.values) != len(other.values) {
		return nil, fmt.Errorf("difference of %d and %d observations: %w",
			len(s.values), len(other.values), ErrLengthMismatch)
	}
	out := make([]float64, len(s.values))
	for i, a := range s.values {
		b := other.values[i]
		switch {
		case opts.Relative:
			out[i] = b / a
		case opts.Absolute:
			out[i] = math.Abs(b - a)
		default:
			out[i] = b - a
		}
	}
	return s.derive(out)
}

// Partition splits the observations, in order, into n consecutive samples.
// Chunk sizes differ by at most one, with the larger chunks first; when n
// exceeds the number of observations the trailing samples are empty.
func (s *Sample) Partition(n int) ([]*Sample, error) {
	if n <= 0 {
		return nil, fmt.Errorf("partition into %d chunks: %w", n, ErrInvalidArgument)
	}
	size, extra := len(s.values)/n, len(s.values)%n
	parts := make([]*Sample, 0, n)
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < extra {
			end++
		}
		part, err := s.derive(s.values[start:end])
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
		start = end
	}
	return parts, nil
}

// DrawOptions configures Draw. A nil Source uses the global generator.
type DrawOptions struct {
	Replacement bool
	Source      rand.Source
}

// Draw picks n observations at random, with or without replacement.
func (s *Sample) Draw(n int, opts DrawOptions) (*Sample, error) {
	size := len(s.values)
	switch {
	case n < 0:
		return nil, fmt.Errorf("draw %d observations: %w", n, ErrInvalidArgument)
	case !opts.Replacement && n > size:
		return nil, fmt.Errorf("draw %d of %d observations without replacement: %w", n, size, ErrInvalidArgument)
	case opts.Replacement && size == 0 && n > 0:
		return nil, fmt.Errorf("draw from an empty sample: %w", ErrInvalidArgument)
	}
	intN := rand.IntN
	perm := rand.Perm
	if opts.Source != nil {
		r := rand.New(opts.Source)
		intN, perm = r.IntN, r.Perm
	}
	drawn := make([]float64, n)
	if opts.Replacement {
		for i := range drawn {
			drawn[i] = s.values[intN(size)]
		}
	} else {
		for i, j := range perm(size)[:n] {
			drawn[i] = s.values[j]
		}
	}
	return s.derive(drawn)
}

// TrimOptions describes which observations Trim would drop.
type TrimOptions struct {
	Percentage float64
	LT, GT     *float64
	StdDev     float64
}

// Resample is not provided yet.
func (s *Sample) Resample(n int, opts DrawOptions) (*Sample, error) {
	return nil, fmt.Errorf("resample: %w", ErrNotImplemented)
}

// Trim is not provided yet.
func (s *Sample) Trim(opts TrimOptions) (*Sample, error) {
	return nil, fmt.Errorf("trim: %w", ErrNotImplemented)
}
