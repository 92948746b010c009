package main

import (
	"fmt"
	"math"

	"github.com/a11ejandro/statworker/descriptive"
)

// Report is the battery of statistics stored for one test run.
type Report struct {
	Count              int
	Min                float64
	Max                float64
	Mean               float64
	Median             float64
	InterpolatedMedian float64
	Q1                 float64
	Q3                 float64
	StdDev             float64
	Variance           float64
	Skewness           float64
	PearsonSkewness    float64
	Modes              []float64
	Multimodal         bool
	Histogram          []descriptive.Entry
}

// reportStatistics are precalculated for every report.
var reportStatistics = []descriptive.Statistic{
	descriptive.StatCount,
	descriptive.StatRange,
	descriptive.StatMean,
	descriptive.StatMedian,
	descriptive.StatInterpolatedMedian,
	descriptive.StatInterquartileRange,
	descriptive.StatStdDev,
	descriptive.StatVariance,
	descriptive.StatSkewness,
	descriptive.StatPearsonSkewness,
	descriptive.StatModes,
	descriptive.StatIsMultimodal,
}

// calculateReport summarizes samples. An empty input yields the zero
// Report. A positive binWidth adds a normalized histogram.
func calculateReport(samples []float64, binWidth float64) (Report, error) {
	if len(samples) == 0 {
		return Report{}, nil
	}
	s, err := descriptive.NewSample(samples, descriptive.WithPrecalculations(reportStatistics...))
	if err != nil {
		return Report{}, err
	}

	var r Report
	rng := lookup(s, descriptive.StatRange, descriptive.Result.Pair, &err)
	iqr := lookup(s, descriptive.StatInterquartileRange, descriptive.Result.Pair, &err)
	r.Count = lookup(s, descriptive.StatCount, descriptive.Result.Int, &err)
	r.Min, r.Max = rng.Low, rng.High
	r.Q1, r.Q3 = iqr.Low, iqr.High
	r.Mean = lookup(s, descriptive.StatMean, descriptive.Result.Float, &err)
	r.Median = lookup(s, descriptive.StatMedian, descriptive.Result.Float, &err)
	r.InterpolatedMedian = lookup(s, descriptive.StatInterpolatedMedian, descriptive.Result.Float, &err)
	r.StdDev = lookup(s, descriptive.StatStdDev, descriptive.Result.Float, &err)
	r.Variance = lookup(s, descriptive.StatVariance, descriptive.Result.Float, &err)
	r.Skewness = lookup(s, descriptive.StatSkewness, descriptive.Result.Float, &err)
	r.PearsonSkewness = lookup(s, descriptive.StatPearsonSkewness, descriptive.Result.Float, &err)
	r.Modes = lookup(s, descriptive.StatModes, descriptive.Result.Floats, &err)
	r.Multimodal = lookup(s, descriptive.StatIsMultimodal, descriptive.Result.Bool, &err)
	if err != nil {
		return Report{}, err
	}

	if binWidth > 0 {
		bins, err := s.Calculator().Histogram(binWidth)
		if err != nil {
			return Report{}, err
		}
		r.Histogram = bins.Entries()
	}
	return r, nil
}

// lookup reads one precalculated statistic, recording the first failure
// in errp.
func lookup[T any](s *descriptive.Sample, name descriptive.Statistic, as func(descriptive.Result) (T, bool), errp *error) T {
	var zero T
	if *errp != nil {
		return zero
	}
	res, err := s.Lookup(name)
	if err != nil {
		*errp = err
		return zero
	}
	v, ok := as(res)
	if !ok {
		*errp = fmt.Errorf("%s: unexpected result type %T", name, res.Value)
		return zero
	}
	return v
}

func isNaNOrInf(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
