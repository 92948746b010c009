package descriptive

import "fmt"

// Statistic names one Calculator operation.
type Statistic string

const (
	StatPMF                            Statistic = "pmf"
	StatCDF                            Statistic = "cdf"
	StatMean                           Statistic = "mean"
	StatMedian                         Statistic = "median"
	StatInterpolatedMedian             Statistic = "interpolated_median"
	StatHasTrueMedian                  Statistic = "has_true_median"
	StatModes                          Statistic = "modes"
	StatIsMultimodal                   Statistic = "is_multimodal"
	StatMeanDeviation                  Statistic = "mean_deviation"
	StatVariance                       Statistic = "variance"
	StatSkewness                       Statistic = "skewness"
	StatPearsonSkewness                Statistic = "pearson_skewness"
	StatStdDev                         Statistic = "stddev"
	StatCentralMoment                  Statistic = "central_moment"
	StatKurtosis                       Statistic = "kurtosis"
	StatRange                          Statistic = "range"
	StatApproximateInterquartileRange  Statistic = "approximate_interquartile_range"
	StatInterpolatedInterquartileRange Statistic = "interpolated_interquartile_range"
	StatInterquartileRange             Statistic = "interquartile_range"
	StatCount                          Statistic = "count"
	StatIndex                          Statistic = "index"
	StatRank                           Statistic = "rank"
	StatPercentile                     Statistic = "percentile"
)

type statistic struct {
	name Statistic
	// local statistics need a caller-supplied argument and are never
	// precalculated.
	local   bool
	compute func(c *Calculator) (any, error)
}

func value[T any](f func(c *Calculator) T) func(c *Calculator) (any, error) {
	return func(c *Calculator) (any, error) { return f(c), nil }
}

// registry is assigned in init to break the initialization cycle
// registry -> MeanDeviation -> NewSample -> registry.
var registry []statistic

func init() {
	registry = []statistic{
		{name: StatPMF, compute: value((*Calculator).PMF)},
		{name: StatCDF, compute: value((*Calculator).CDF)},
		{name: StatMean, compute: value((*Calculator).Mean)},
		{name: StatMedian, compute: value((*Calculator).Median)},
		{name: StatInterpolatedMedian, compute: value((*Calculator).InterpolatedMedian)},
		{name: StatHasTrueMedian, compute: value((*Calculator).HasTrueMedian)},
		{name: StatModes, compute: value((*Calculator).Modes)},
		{name: StatIsMultimodal, compute: value((*Calculator).IsMultimodal)},
		{name: StatMeanDeviation, compute: value(func(c *Calculator) float64 { return c.MeanDeviation(Moment{}, 1) })},
		{name: StatVariance, compute: value(func(c *Calculator) float64 { return c.Variance(Moment{}) })},
		{name: StatSkewness, compute: value(func(c *Calculator) float64 { return c.Skewness(Moment{}) })},
		{name: StatPearsonSkewness, compute: value(func(c *Calculator) float64 { return c.PearsonSkewness(Moment{}) })},
		{name: StatStdDev, compute: value(func(c *Calculator) float64 { return c.StdDev(1, Moment{}) })},
		{name: StatCentralMoment, compute: func(c *Calculator) (any, error) { return c.CentralMoment(1) }},
		{name: StatKurtosis, compute: func(c *Calculator) (any, error) { return c.Kurtosis() }},
		{name: StatRange, compute: value((*Calculator).Range)},
		{name: StatApproximateInterquartileRange, compute: value((*Calculator).ApproximateInterquartileRange)},
		{name: StatInterpolatedInterquartileRange, compute: value((*Calculator).InterpolatedInterquartileRange)},
		{name: StatInterquartileRange, compute: value((*Calculator).InterquartileRange)},
		{name: StatCount, compute: value((*Calculator).Count)},
		{name: StatIndex, local: true},
		{name: StatRank, local: true},
		{name: StatPercentile, local: true},
	}
}

func lookupStatistic(name Statistic) (statistic, bool) {
	for _, s := range registry {
		if s.name == name {
			return s, true
		}
	}
	return statistic{}, false
}

// Statistics lists every known statistic name, local ones included.
func Statistics() []Statistic {
	names := make([]Statistic, len(registry))
	for i, s := range registry {
		names[i] = s.name
	}
	return names
}

// EagerStatistics lists the statistics a Sample precalculates by default.
func EagerStatistics() []Statistic {
	var names []Statistic
	for _, s := range registry {
		if !s.local {
			names = append(names, s.name)
		}
	}
	return names
}

// IsLocal reports whether name needs an explicit argument.
func IsLocal(name Statistic) bool {
	s, ok := lookupStatistic(name)
	return ok && s.local
}

// ParseStatistic validates a statistic name.
func ParseStatistic(name string) (Statistic, error) {
	if _, ok := lookupStatistic(Statistic(name)); !ok {
		return "", fmt.Errorf("unknown statistic %q: %w", name, ErrInvalidArgument)
	}
	return Statistic(name), nil
}
