package descriptive

import (
	"fmt"
	"math"

	"golang.org/x/exp/slices"
)

// Entry is one key/payload pair of a FrequencyTable.
type Entry struct {
	Key   float64 `yaml:"key"`
	Value float64 `yaml:"value"`
}

// FrequencyTable maps each distinct observation (or bin center) to a
// payload: a raw count, a probability, or a running sum of either. Keys are
// kept in ascending order. Tables are never modified after construction;
// Normalize, Cumulate and Bin return new tables.
type FrequencyTable struct {
	keys    []float64
	payload map[float64]float64
	source  []float64 // raw observations the table was counted from
}

// NewFrequencyTable counts the occurrences of every distinct value.
func NewFrequencyTable(values []float64) *FrequencyTable {
	t := &FrequencyTable{
		payload: make(map[float64]float64),
		source:  slices.Clone(values),
	}
	for _, v := range values {
		if _, ok := t.payload[v]; !ok {
			t.keys = append(t.keys, v)
		}
		t.payload[v]++
	}
	slices.Sort(t.keys)
	return t
}

// duplicate copies the entries of t into a new table sharing the same
// (read-only) source observations.
func (t *FrequencyTable) duplicate() *FrequencyTable {
	d := &FrequencyTable{
		keys:    slices.Clone(t.keys),
		payload: make(map[float64]float64, len(t.payload)),
		source:  t.source,
	}
	for k, v := range t.payload {
		d.payload[k] = v
	}
	return d
}

// Normalize divides every payload by the sample size. Applied to raw
// counts it yields the probability mass function.
func (t *FrequencyTable) Normalize() *FrequencyTable {
	d := t.duplicate()
	n := float64(len(t.source))
	for _, k := range d.keys {
		d.payload[k] /= n
	}
	return d
}

// Cumulate replaces each payload with the running sum of payloads visited
// in ascending key order. Applied to a PMF it yields the cumulative
// distribution function; applied to raw counts the last payload is the
// sample size.
func (t *FrequencyTable) Cumulate() *FrequencyTable {
	d := t.duplicate()
	var sum float64
	for _, k := range d.keys {
		sum += d.payload[k]
		d.payload[k] = sum
	}
	return d
}

// Bin groups the raw observations by their nearest multiple of interval
// and returns the normalized grouping, keyed by bin center.
func (t *FrequencyTable) Bin(interval float64) (*FrequencyTable, error) {
	if !(interval > 0) || math.IsInf(interval, 1) {
		return nil, fmt.Errorf("bin interval %v: %w", interval, ErrInvalidArgument)
	}
	centers := make([]float64, len(t.source))
	for i, v := range t.source {
		centers[i] = math.Round(v/interval) * interval
	}
	binned := NewFrequencyTable(centers)
	// Keep the original observations so the binned table can be re-binned.
	binned.source = t.source
	return binned.Normalize(), nil
}

// Keys returns the distinct keys in ascending order.
func (t *FrequencyTable) Keys() []float64 {
	return slices.Clone(t.keys)
}

// Get returns the payload stored for key.
func (t *FrequencyTable) Get(key float64) (float64, bool) {
	v, ok := t.payload[key]
	return v, ok
}

// Len is the number of distinct keys.
func (t *FrequencyTable) Len() int {
	return len(t.keys)
}

// SampleSize is the number of raw observations behind the table.
func (t *FrequencyTable) SampleSize() int {
	return len(t.source)
}

// Total sums all payloads.
func (t *FrequencyTable) Total() float64 {
	var sum float64
	for _, k := range t.keys {
		sum += t.payload[k]
	}
	return sum
}

// Entries lists the table in ascending key order.
func (t *FrequencyTable) Entries() []Entry {
	entries := make([]Entry, len(t.keys))
	for i, k := range t.keys {
		entries[i] = Entry{Key: k, Value: t.payload[k]}
	}
	return entries
}
