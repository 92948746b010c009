package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/a11ejandro/statworker/descriptive"
)

type describeOptions struct {
	round    int
	binWidth float64
	stats    []string
}

func newDescribeCommand() *cobra.Command {
	var opts describeOptions
	cmd := &cobra.Command{
		Use:   "describe [values...]",
		Short: "Print descriptive statistics for values given as arguments or on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := readValues(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			out, err := describe(values, opts)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().IntVar(&opts.round, "round", -1, "round values to this many decimal places first (negative: keep as is)")
	cmd.Flags().Float64Var(&opts.binWidth, "bin", 0, "add a histogram with this bin width")
	cmd.Flags().StringSliceVar(&opts.stats, "stats", nil, "statistics to print (default: all that need no argument)")
	return cmd
}

// readValues parses args, or whitespace-separated numbers from r when no
// args are given.
func readValues(args []string, r io.Reader) ([]float64, error) {
	if len(args) == 0 {
		scanner := bufio.NewScanner(r)
		scanner.Split(bufio.ScanWords)
		for scanner.Scan() {
			args = append(args, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}
	values := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i+1, err)
		}
		values[i] = v
	}
	return values, nil
}

func describe(values []float64, opts describeOptions) ([]byte, error) {
	names := descriptive.EagerStatistics()
	if len(opts.stats) > 0 {
		names = names[:0:0]
		for _, raw := range opts.stats {
			name, err := descriptive.ParseStatistic(raw)
			if err != nil {
				return nil, err
			}
			names = append(names, name)
		}
	}
	if opts.round >= 0 {
		var err error
		if values, err = roundValues(values, opts.round); err != nil {
			return nil, err
		}
	}
	s, err := descriptive.NewSample(values, descriptive.WithPrecalculations(names...))
	if err != nil {
		return nil, err
	}

	doc := yaml.MapSlice{}
	for _, name := range names {
		res, err := s.Lookup(name)
		doc = append(doc, yaml.MapItem{Key: string(name), Value: yamlValue(res, err)})
	}
	if opts.binWidth > 0 {
		bins, err := s.Calculator().Histogram(opts.binWidth)
		if err != nil {
			return nil, err
		}
		doc = append(doc, yaml.MapItem{Key: "histogram", Value: bins.Entries()})
	}
	return yaml.Marshal(doc)
}

// roundValues rounds through a sample that precalculates nothing, so the
// only eager pass runs on the rounded values.
func roundValues(values []float64, digits int) ([]float64, error) {
	raw, err := descriptive.NewSample(values, descriptive.WithPrecalculations())
	if err != nil {
		return nil, err
	}
	rounded, err := raw.Round(digits)
	if err != nil {
		return nil, err
	}
	return rounded.Values(), nil
}

func yamlValue(res descriptive.Result, err error) any {
	if err != nil {
		return "error: " + err.Error()
	}
	if table, ok := res.Table(); ok {
		return table.Entries()
	}
	return res.Value
}
