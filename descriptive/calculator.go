package descriptive

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
)

// Pair is a fixed two-value result such as a range or a quartile pair.
type Pair struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

// Moment selects the center that deviations are measured from. The zero
// value uses the sample mean.
type Moment struct {
	Mu    float64
	HasMu bool
}

// About measures deviations from mu instead of the sample mean.
func About(mu float64) Moment {
	return Moment{Mu: mu, HasMu: true}
}

// RankBy selects how Rank and Index locate a position. Build one with
// ByValue or ByPercentile; the zero value selects nothing.
type RankBy struct {
	kind rankKind
	x    float64
}

type rankKind int

const (
	rankUnset rankKind = iota
	rankValue
	rankPercentile
)

// ByValue ranks v among the observations.
func ByValue(v float64) RankBy { return RankBy{kind: rankValue, x: v} }

// ByPercentile ranks the position implied by percentile p (0-100).
func ByPercentile(p float64) RankBy { return RankBy{kind: rankPercentile, x: p} }

// Calculator computes statistics over the values of one Sample. It never
// modifies those values. The sorted view and the PMF/CDF tables are built on
// first use and shared by later calls, from any goroutine.
type Calculator struct {
	values []float64

	sortOnce sync.Once
	sorted   []float64

	pmfOnce sync.Once
	pmf     *FrequencyTable

	cdfOnce sync.Once
	cdf     *FrequencyTable
}

func newCalculator(values []float64) *Calculator {
	return &Calculator{values: values}
}

func (c *Calculator) n() float64 {
	return float64(len(c.values))
}

func (c *Calculator) sortedValues() []float64 {
	c.sortOnce.Do(func() {
		c.sorted = slices.Clone(c.values)
		slices.Sort(c.sorted)
	})
	return c.sorted
}

// at returns the sorted observation at index i, clamped into range. It
// returns NaN for an empty sample.
func (c *Calculator) at(i int) float64 {
	s := c.sortedValues()
	if len(s) == 0 {
		return math.NaN()
	}
	if i < 0 {
		i = 0
	}
	if i >= len(s) {
		i = len(s) - 1
	}
	return s[i]
}

// PMF returns the probability mass function of the sample.
func (c *Calculator) PMF() *FrequencyTable {
	c.pmfOnce.Do(func() {
		c.pmf = NewFrequencyTable(c.values).Normalize()
	})
	return c.pmf
}

// CDF returns the cumulative distribution function of the sample.
func (c *Calculator) CDF() *FrequencyTable {
	c.cdfOnce.Do(func() {
		c.cdf = NewFrequencyTable(c.values).Normalize().Cumulate()
	})
	return c.cdf
}

// Histogram bins the observations by interval and returns the normalized
// bins keyed by their center.
func (c *Calculator) Histogram(interval float64) (*FrequencyTable, error) {
	return NewFrequencyTable(c.values).Bin(interval)
}

// Mean is the arithmetic mean. It is NaN for an empty sample.
func (c *Calculator) Mean() float64 {
	return floats.Sum(c.values) / c.n()
}

// Median returns the sorted observation at 1-based rank round(n/2). For an
// even count this is the lower of the two central values, not their
// average; see InterpolatedMedian.
func (c *Calculator) Median() float64 {
	return c.at(int(math.Round(c.n()/2)) - 1)
}

// InterpolatedMedian averages the two central values of an even-sized
// sample and otherwise equals Median.
func (c *Calculator) InterpolatedMedian() float64 {
	if c.HasTrueMedian() {
		return c.Median()
	}
	half := len(c.values) / 2
	return average(c.at(half-1), c.at(half))
}

// HasTrueMedian reports whether the sample has a single central value.
func (c *Calculator) HasTrueMedian() bool {
	return len(c.values)%2 == 1
}

// Modes returns every value whose frequency equals the highest frequency,
// in ascending order.
func (c *Calculator) Modes() []float64 {
	entries := c.PMF().Entries()
	var modes []float64
	highest := math.Inf(-1)
	for _, e := range entries {
		switch {
		case e.Value > highest:
			highest = e.Value
			modes = append(modes[:0], e.Key)
		case e.Value == highest:
			modes = append(modes, e.Key)
		}
	}
	return modes
}

// IsMultimodal reports whether more than one value ties for the highest
// frequency.
func (c *Calculator) IsMultimodal() bool {
	return len(c.Modes()) > 1
}

func (c *Calculator) center(m Moment) float64 {
	if m.HasMu {
		return m.Mu
	}
	return c.Mean()
}

// MeanDeviation is the mean of (x - mu)^power over all observations.
func (c *Calculator) MeanDeviation(m Moment, power float64) float64 {
	mu := c.center(m)
	deviations := make([]float64, len(c.values))
	for i, x := range c.values {
		deviations[i] = math.Pow(x-mu, power)
	}
	// The derived sample must not run its own eager pass, which would
	// recurse back into MeanDeviation.
	derived, err := NewSample(deviations, WithPrecalculations())
	if err != nil {
		return math.NaN()
	}
	return derived.Calculator().Mean()
}

// Variance is the second mean deviation (population variance when m is
// the zero Moment).
func (c *Calculator) Variance(m Moment) float64 {
	return c.MeanDeviation(m, 2)
}

// Skewness is the standardized third moment m3 / m2^1.5.
func (c *Calculator) Skewness(m Moment) float64 {
	m2 := c.MeanDeviation(m, 2)
	m3 := c.MeanDeviation(m, 3)
	return m3 / math.Pow(m2, 1.5)
}

// PearsonSkewness is Pearson's second coefficient, 3(mu - median)/stddev.
func (c *Calculator) PearsonSkewness(m Moment) float64 {
	return 3 * (c.center(m) - c.Median()) / c.StdDev(1, Moment{})
}

// StdDev returns k standard deviations. m is passed through to Variance
// unchanged.
func (c *Calculator) StdDev(k float64, m Moment) float64 {
	return k * math.Sqrt(c.Variance(m))
}

// CentralMoment is not provided yet.
func (c *Calculator) CentralMoment(k int) (float64, error) {
	return 0, fmt.Errorf("central moment %d: %w", k, ErrNotImplemented)
}

// Kurtosis is not provided yet.
func (c *Calculator) Kurtosis() (float64, error) {
	return 0, fmt.Errorf("kurtosis: %w", ErrNotImplemented)
}

// Range returns the smallest and largest observation.
func (c *Calculator) Range() Pair {
	s := c.sortedValues()
	if len(s) == 0 {
		return Pair{Low: math.NaN(), High: math.NaN()}
	}
	return Pair{Low: s[0], High: s[len(s)-1]}
}

// ApproximateInterquartileRange cuts the sorted sample at the nearest rank
// to 25% from either end. The result is keyed by the fraction of the sample
// at or below each cut, e.g. 0.25 and 0.75 for eight observations.
func (c *Calculator) ApproximateInterquartileRange() map[float64]float64 {
	n := len(c.values)
	if n == 0 {
		return map[float64]float64{}
	}
	left := int(math.Round(0.25 * float64(n)))
	right := n - left
	return map[float64]float64{
		float64(left) / float64(n):  c.at(left - 1),
		float64(right) / float64(n): c.at(right - 1),
	}
}

// InterpolatedInterquartileRange averages the two observations straddling
// each quartile cut.
func (c *Calculator) InterpolatedInterquartileRange() Pair {
	left, err := c.Index(ByPercentile(25))
	if err != nil {
		return Pair{Low: math.NaN(), High: math.NaN()}
	}
	right := len(c.values) - left
	return Pair{
		Low:  average(c.at(left-1), c.at(left)),
		High: average(c.at(right-1), c.at(right)),
	}
}

// InterquartileRange returns the observations at the 25th and 75th
// percentile ranks, without interpolation.
func (c *Calculator) InterquartileRange() Pair {
	lo, err := c.Index(ByPercentile(25))
	if err != nil {
		return Pair{Low: math.NaN(), High: math.NaN()}
	}
	hi, err := c.Index(ByPercentile(75))
	if err != nil {
		return Pair{Low: math.NaN(), High: math.NaN()}
	}
	return Pair{Low: c.at(lo), High: c.at(hi)}
}

// Rank returns a 1-based position in the sorted sample. ByValue yields one
// plus the number of observations strictly below the value. ByPercentile
// yields the ordinal rank round(p/100*n + 0.5).
func (c *Calculator) Rank(by RankBy) (int, error) {
	switch by.kind {
	case rankValue:
		i, _ := slices.BinarySearch(c.sortedValues(), by.x)
		return i + 1, nil
	case rankPercentile:
		return int(math.Round(by.x/100*c.n() + 0.5)), nil
	default:
		return 0, fmt.Errorf("rank needs a value or a percentile: %w", ErrInvalidArgument)
	}
}

// Index converts Rank to a 0-based position.
func (c *Calculator) Index(by RankBy) (int, error) {
	r, err := c.Rank(by)
	if err != nil {
		return 0, err
	}
	return r - 1, nil
}

// Percentile expresses the rank of v as a whole percentage of the sample,
// rounded up.
func (c *Calculator) Percentile(v float64) float64 {
	r, _ := c.Rank(ByValue(v))
	return math.Ceil(float64(r) / c.n() * 100)
}

// Count is the number of observations.
func (c *Calculator) Count() int {
	return len(c.values)
}

// CountOf is the number of observations equal to x.
func (c *Calculator) CountOf(x float64) int {
	var n int
	for _, v := range c.values {
		if v == x {
			n++
		}
	}
	return n
}

func average(a, b float64) float64 {
	return (a + b) / 2
}
