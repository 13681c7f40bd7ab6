// Package timeseries provides core time series data structures and operations.
package timeseries

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// YoYLag is the lag, in months, of a year-over-year comparison.
const YoYLag = 12

// Series represents a time series with timestamps and values.
// Every slot holds an observation; use Sparse when slots may be empty.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
}

// NewWithTimestamps creates a time series with explicit timestamps.
func NewWithTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, fmt.Errorf("%w: %d timestamps for %d values", ErrInvalidArgument, len(timestamps), len(values))
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}, nil
}

// NewMonthly creates a series of consecutive months starting at start's month.
func NewMonthly(name string, start time.Time, values []float64) *Series {
	timestamps := make([]time.Time, len(values))
	for i := range timestamps {
		timestamps[i] = AddMonths(start, i)
	}
	v := make([]float64, len(values))
	copy(v, values)
	return &Series{
		Timestamps: timestamps,
		Values:     v,
		Name:       name,
	}
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// Validate checks that timestamps and values line up and that observations fall in
// strictly increasing calendar months with monthly spacing.
func (s *Series) Validate() error {
	if len(s.Timestamps) != len(s.Values) {
		return fmt.Errorf("%w: series %q has %d timestamps for %d values",
			ErrInvalidArgument, s.Name, len(s.Timestamps), len(s.Values))
	}
	if err := checkMonthly(s.Timestamps); err != nil {
		return fmt.Errorf("series %q: %w", s.Name, err)
	}
	return nil
}

// Mean calculates the arithmetic mean of the series. An empty series has a NaN mean.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return stat.Mean(s.Values, nil)
}

// Std calculates the sample standard deviation of the series.
func (s *Series) Std() float64 {
	if len(s.Values) < 2 {
		return math.NaN()
	}
	return stat.StdDev(s.Values, nil)
}

// Min returns the smallest value, or NaN for an empty series.
func (s *Series) Min() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Min(s.Values)
}

// Max returns the largest value, or NaN for an empty series.
func (s *Series) Max() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Max(s.Values)
}

// Median returns the median value of the series.
func (s *Series) Median() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Last returns the final observation. ok is false for an empty series.
func (s *Series) Last() (t time.Time, v float64, ok bool) {
	n := len(s.Values)
	if n == 0 || len(s.Timestamps) != n {
		return time.Time{}, 0, false
	}
	return s.Timestamps[n-1], s.Values[n-1], true
}

// Scale returns a copy with every value multiplied by k.
func (s *Series) Scale(k float64) *Series {
	out := s.Copy()
	for i := range out.Values {
		out.Values[i] *= k
	}
	return out
}

// PctChange returns the percentage change of each observation relative to the
// observation exactly months calendar months earlier:
//
//	(v[t] - v[t-months]) / v[t-months] * 100
//
// Observations with no counterpart months earlier are dropped. A zero base value
// is divided through as-is, yielding ±Inf or NaN.
func (s *Series) PctChange(months int) (*Series, error) {
	if months < 1 {
		return nil, fmt.Errorf("%w: lag must be at least 1 month, got %d", ErrInvalidArgument, months)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.Len() < months+1 {
		return nil, fmt.Errorf("%w: percent change over %d months needs at least %d observations, got %d",
			ErrInsufficientData, months, months+1, s.Len())
	}

	present := make([]bool, s.Len())
	for i := range present {
		present[i] = true
	}
	values, ok := pctChange(s.Timestamps, s.Values, present, months)

	out := &Series{
		Timestamps: []time.Time{},
		Values:     []float64{},
		Name:       s.Name,
	}
	for i := range values {
		if ok[i] {
			out.Timestamps = append(out.Timestamps, s.Timestamps[i])
			out.Values = append(out.Values, values[i])
		}
	}
	return out, nil
}

// YoY returns the year-over-year percentage change of the series.
func (s *Series) YoY() (*Series, error) {
	return s.PctChange(YoYLag)
}

// pctChange computes the lagged percent change slot by slot on an index.
// Slots are matched by calendar month, so gaps in the index never shift the lag.
func pctChange(timestamps []time.Time, values []float64, present []bool, months int) ([]float64, []bool) {
	byMonth := make(map[int]int, len(timestamps))
	for i, t := range timestamps {
		if present[i] {
			byMonth[monthKey(t)] = i
		}
	}

	out := make([]float64, len(timestamps))
	ok := make([]bool, len(timestamps))
	for i, t := range timestamps {
		if !present[i] {
			continue
		}
		j, found := byMonth[monthKey(t)-months]
		if !found {
			continue
		}
		base := values[j]
		out[i] = (values[i] - base) / base * 100
		ok[i] = true
	}
	return out, ok
}

// Slice returns a slice of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Timestamps: []time.Time{}, Values: []float64{}, Name: s.Name}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	timestamps := make([]time.Time, len(values))
	if len(s.Timestamps) >= end {
		copy(timestamps, s.Timestamps[start:end])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Tail returns a copy of the last n observations.
func (s *Series) Tail(n int) *Series {
	return s.Slice(s.Len()-n, s.Len())
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Finite reports whether every value is a finite number.
func (s *Series) Finite() bool {
	for _, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
