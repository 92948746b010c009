package descriptive

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/stat"
)

func calculatorFor(t *testing.T, values ...float64) *Calculator {
	t.Helper()
	s, err := NewSample(values, WithPrecalculations())
	if err != nil {
		t.Fatalf("NewSample error: %v", err)
	}
	return s.Calculator()
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func TestMeanAndMedianOddSample(t *testing.T) {
	c := calculatorFor(t, 5, 3, 1, 4, 2)

	if got := c.Mean(); got != 3 {
		t.Fatalf("expected mean 3, got %v", got)
	}
	if !c.HasTrueMedian() {
		t.Fatalf("expected odd sample to have a true median")
	}
	if got := c.Median(); got != 3 {
		t.Fatalf("expected median 3, got %v", got)
	}
	if got := c.InterpolatedMedian(); got != 3 {
		t.Fatalf("expected interpolated median 3, got %v", got)
	}
}

func TestMedianEvenSamplePicksCentralValue(t *testing.T) {
	c := calculatorFor(t, 4, 1, 3, 2)

	if c.HasTrueMedian() {
		t.Fatalf("expected even sample to have no true median")
	}
	if got := c.Median(); got != 2 {
		t.Fatalf("expected median 2, got %v", got)
	}
	if got := c.InterpolatedMedian(); got != 2.5 {
		t.Fatalf("expected interpolated median 2.5, got %v", got)
	}
}

func TestMeanMatchesGonum(t *testing.T) {
	values := []float64{36, 7, 40, 41, 6, 42, 43, 47, 49, 15, 39}
	c := calculatorFor(t, values...)

	mean, variance := stat.PopMeanVariance(values, nil)
	if !approxEqual(c.Mean(), mean) {
		t.Fatalf("mean %v, gonum %v", c.Mean(), mean)
	}
	if !approxEqual(c.Variance(Moment{}), variance) {
		t.Fatalf("variance %v, gonum %v", c.Variance(Moment{}), variance)
	}
	if !approxEqual(c.StdDev(1, Moment{}), math.Sqrt(variance)) {
		t.Fatalf("stddev %v, want %v", c.StdDev(1, Moment{}), math.Sqrt(variance))
	}
}

func TestModesReportsTies(t *testing.T) {
	c := calculatorFor(t, 1, 1, 2, 2, 3)

	if diff := cmp.Diff([]float64{1, 2}, c.Modes()); diff != "" {
		t.Fatalf("unexpected modes (-want +got):\n%s", diff)
	}
	if !c.IsMultimodal() {
		t.Fatalf("expected multimodal sample")
	}

	single := calculatorFor(t, 4, 4, 4, 1)
	if diff := cmp.Diff([]float64{4}, single.Modes()); diff != "" {
		t.Fatalf("unexpected modes (-want +got):\n%s", diff)
	}
	if single.IsMultimodal() {
		t.Fatalf("expected a single mode")
	}
}

func TestMeanDeviationAndMoments(t *testing.T) {
	c := calculatorFor(t, 1, 2, 3)

	if got := c.MeanDeviation(Moment{}, 1); got != 0 {
		t.Fatalf("expected first mean deviation 0, got %v", got)
	}
	if got := c.MeanDeviation(About(0), 1); got != 2 {
		t.Fatalf("expected first deviation about 0 to be 2, got %v", got)
	}
	want := 2 * math.Sqrt(14.0/3)
	if got := c.StdDev(2, About(0)); !approxEqual(got, want) {
		t.Fatalf("expected stddev %v, got %v", want, got)
	}
}

func TestSkewness(t *testing.T) {
	c := calculatorFor(t, 0, 0, 3)
	if got := c.Skewness(Moment{}); !approxEqual(got, 1/math.Sqrt2) {
		t.Fatalf("expected skewness %v, got %v", 1/math.Sqrt2, got)
	}

	symmetric := calculatorFor(t, 1, 2, 3, 4, 5)
	if got := symmetric.Skewness(Moment{}); !approxEqual(got, 0) {
		t.Fatalf("expected zero skewness, got %v", got)
	}
	if got := symmetric.PearsonSkewness(Moment{}); !approxEqual(got, 0) {
		t.Fatalf("expected zero pearson skewness, got %v", got)
	}
}

func TestPearsonSkewnessUsesMeanMedianGap(t *testing.T) {
	c := calculatorFor(t, 0, 0, 3)
	// mean 1, median 0, stddev sqrt(2)
	want := 3 * (1 - 0) / math.Sqrt2
	if got := c.PearsonSkewness(Moment{}); !approxEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestUnimplementedMoments(t *testing.T) {
	c := calculatorFor(t, 1, 2)
	if _, err := c.CentralMoment(4); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
	if _, err := c.Kurtosis(); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}

func TestRangeAndQuartiles(t *testing.T) {
	c := calculatorFor(t, 8, 3, 5, 1, 7, 2, 6, 4)

	if got := c.Range(); got != (Pair{Low: 1, High: 8}) {
		t.Fatalf("unexpected range: %#v", got)
	}
	if got := c.InterquartileRange(); got != (Pair{Low: 3, High: 7}) {
		t.Fatalf("unexpected interquartile range: %#v", got)
	}
	if got := c.InterpolatedInterquartileRange(); got != (Pair{Low: 2.5, High: 6.5}) {
		t.Fatalf("unexpected interpolated interquartile range: %#v", got)
	}
	want := map[float64]float64{0.25: 2, 0.75: 6}
	if diff := cmp.Diff(want, c.ApproximateInterquartileRange()); diff != "" {
		t.Fatalf("unexpected approximate interquartile range (-want +got):\n%s", diff)
	}
}

func TestRankByValue(t *testing.T) {
	c := calculatorFor(t, 4, 1, 3, 2, 3)

	for _, tc := range []struct {
		value float64
		rank  int
	}{
		{0, 1},
		{1, 1},
		{3, 3},
		{3.5, 5},
		{9, 6},
	} {
		got, err := c.Rank(ByValue(tc.value))
		if err != nil {
			t.Fatalf("Rank error: %v", err)
		}
		if got != tc.rank {
			t.Fatalf("rank of %v: expected %d, got %d", tc.value, tc.rank, got)
		}
	}
}

func TestRankByPercentileAndIndex(t *testing.T) {
	c := calculatorFor(t, 1, 2, 3, 4)

	rank, err := c.Rank(ByPercentile(25))
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	if rank != 2 {
		t.Fatalf("expected rank 2, got %d", rank)
	}
	index, err := c.Index(ByPercentile(75))
	if err != nil {
		t.Fatalf("Index error: %v", err)
	}
	if index != 3 {
		t.Fatalf("expected index 3, got %d", index)
	}
}

func TestRankWithoutSelectorFails(t *testing.T) {
	c := calculatorFor(t, 1, 2, 3)
	if _, err := c.Rank(RankBy{}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := c.Index(RankBy{}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestPercentile(t *testing.T) {
	c := calculatorFor(t, 1, 2, 3, 4)
	if got := c.Percentile(3); got != 75 {
		t.Fatalf("expected percentile 75, got %v", got)
	}
	if got := c.Percentile(1); got != 25 {
		t.Fatalf("expected percentile 25, got %v", got)
	}
}

func TestCount(t *testing.T) {
	c := calculatorFor(t, 1, 2, 2, 5)
	if c.Count() != 4 {
		t.Fatalf("expected count 4, got %d", c.Count())
	}
	if c.CountOf(2) != 2 || c.CountOf(7) != 0 {
		t.Fatalf("unexpected occurrence counts: %d %d", c.CountOf(2), c.CountOf(7))
	}
}

func TestPMFAndCDFAreCached(t *testing.T) {
	c := calculatorFor(t, 2, 2, 1, 5)

	if c.PMF() != c.PMF() || c.CDF() != c.CDF() {
		t.Fatalf("expected tables to be built once")
	}
	want := []Entry{{Key: 1, Value: 0.25}, {Key: 2, Value: 0.75}, {Key: 5, Value: 1}}
	if diff := cmp.Diff(want, c.CDF().Entries(), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("unexpected cdf (-want +got):\n%s", diff)
	}
}

func TestEmptySampleDoesNotPanic(t *testing.T) {
	c := calculatorFor(t)

	if !math.IsNaN(c.Mean()) || !math.IsNaN(c.Median()) || !math.IsNaN(c.InterpolatedMedian()) {
		t.Fatalf("expected NaN central values for an empty sample")
	}
	if c.Modes() != nil {
		t.Fatalf("expected no modes, got %v", c.Modes())
	}
	if r := c.Range(); !math.IsNaN(r.Low) || !math.IsNaN(r.High) {
		t.Fatalf("expected NaN range, got %#v", r)
	}
	if len(c.ApproximateInterquartileRange()) != 0 {
		t.Fatalf("expected empty approximate interquartile range")
	}
}

func TestQuartilesSingleObservation(t *testing.T) {
	c := calculatorFor(t, 5)

	if diff := cmp.Diff(map[float64]float64{0: 5, 1: 5}, c.ApproximateInterquartileRange()); diff != "" {
		t.Fatalf("unexpected approximate interquartile range (-want +got):\n%s", diff)
	}
	if got := c.InterpolatedInterquartileRange(); got != (Pair{Low: 5, High: 5}) {
		t.Fatalf("unexpected interpolated interquartile range: %#v", got)
	}
	if got := c.InterquartileRange(); got != (Pair{Low: 5, High: 5}) {
		t.Fatalf("unexpected interquartile range: %#v", got)
	}
}

func TestQuartilesTwoObservations(t *testing.T) {
	c := calculatorFor(t, 3, 1)

	// left and right cut at the same rank, so both fractions are 0.5.
	if diff := cmp.Diff(map[float64]float64{0.5: 1}, c.ApproximateInterquartileRange()); diff != "" {
		t.Fatalf("unexpected approximate interquartile range (-want +got):\n%s", diff)
	}
	if got := c.InterpolatedInterquartileRange(); got != (Pair{Low: 1, High: 3}) {
		t.Fatalf("unexpected interpolated interquartile range: %#v", got)
	}
	if got := c.InterquartileRange(); got != (Pair{Low: 1, High: 3}) {
		t.Fatalf("unexpected interquartile range: %#v", got)
	}
}

func TestQuartilesThreeObservations(t *testing.T) {
	c := calculatorFor(t, 3, 1, 2)

	want := map[float64]float64{1.0 / 3: 1, 2.0 / 3: 2}
	if diff := cmp.Diff(want, c.ApproximateInterquartileRange()); diff != "" {
		t.Fatalf("unexpected approximate interquartile range (-want +got):\n%s", diff)
	}
	if got := c.InterpolatedInterquartileRange(); got != (Pair{Low: 1, High: 3}) {
		t.Fatalf("unexpected interpolated interquartile range: %#v", got)
	}
	if got := c.InterquartileRange(); got != (Pair{Low: 1, High: 3}) {
		t.Fatalf("unexpected interquartile range: %#v", got)
	}
}
