package timeseries

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jan2020 = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

func compound(n int, base, rate float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = base * math.Pow(1+rate, float64(i))
	}
	return values
}

func TestNewMonthly(t *testing.T) {
	values := []float64{1, 2, 3}
	s := NewMonthly("cpi", time.Date(2020, time.November, 17, 0, 0, 0, 0, time.UTC), values)

	require.Equal(t, 3, s.Len())
	assert.Equal(t, time.Date(2020, time.November, 1, 0, 0, 0, 0, time.UTC), s.Timestamps[0])
	assert.Equal(t, time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC), s.Timestamps[2])

	values[0] = 99
	assert.Equal(t, 1.0, s.Values[0], "series must not share the caller's slice")
}

func TestNewWithTimestampsLengthMismatch(t *testing.T) {
	_, err := NewWithTimestamps([]time.Time{jan2020}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"simple", []float64{1, 2, 3, 4, 5}, 3.0},
		{"single", []float64{5}, 5.0},
		{"negative", []float64{-1, -2, -3}, -2.0},
		{"mixed", []float64{-1, 0, 1}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMonthly("x", jan2020, tt.values)
			assert.InDelta(t, tt.expected, s.Mean(), 1e-10)
		})
	}

	assert.True(t, math.IsNaN(NewMonthly("x", jan2020, nil).Mean()))
}

func TestStd(t *testing.T) {
	s := NewMonthly("x", jan2020, []float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, math.Sqrt(4.571428571428571), s.Std(), 1e-10)
}

func TestMinMaxMedian(t *testing.T) {
	s := NewMonthly("x", jan2020, []float64{5, 2, 8, 1, 9, 3})

	assert.Equal(t, 1.0, s.Min())
	assert.Equal(t, 9.0, s.Max())
	assert.Equal(t, 4.0, s.Median())
	assert.Equal(t, []float64{5, 2, 8, 1, 9, 3}, s.Values, "median must not reorder the series")
}

func TestYoYLength(t *testing.T) {
	for _, n := range []int{13, 24, 60} {
		s := NewMonthly("cpi", jan2020, compound(n, 100, 0.002))
		yoy, err := s.YoY()
		require.NoError(t, err)
		assert.Equal(t, n-12, yoy.Len())
		assert.Equal(t, s.Timestamps[12], yoy.Timestamps[0])
	}
}

func TestYoYCompoundGrowth(t *testing.T) {
	s := NewMonthly("All Items", jan2020, compound(24, 100, 0.01))

	yoy, err := s.YoY()
	require.NoError(t, err)
	require.Equal(t, 12, yoy.Len())

	want := (math.Pow(1.01, 12) - 1) * 100
	for i, v := range yoy.Values {
		assert.InDelta(t, want, v, 1e-9, "index %d", i)
	}
	assert.InDelta(t, 12.6825, want, 1e-3)
}

func TestYoYScaleInvariant(t *testing.T) {
	values := []float64{250, 251, 249, 253, 255, 258, 260, 259, 262, 264, 266, 270, 271, 275, 276, 280}
	s := NewMonthly("cpi", jan2020, values)

	base, err := s.YoY()
	require.NoError(t, err)

	for _, k := range []float64{0.01, 3, 1000} {
		scaled, err := s.Scale(k).YoY()
		require.NoError(t, err)
		require.Equal(t, base.Len(), scaled.Len())
		for i := range base.Values {
			assert.InDelta(t, base.Values[i], scaled.Values[i], 1e-9)
		}
	}
}

func TestYoYInsufficientData(t *testing.T) {
	s := NewMonthly("cpi", jan2020, compound(12, 100, 0.01))
	_, err := s.YoY()
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestYoYInteriorGap(t *testing.T) {
	s := NewMonthly("cpi", jan2020, compound(26, 100, 0.01))
	// Drop March 2020: March 2021 then has no prior-year observation.
	s.Timestamps = append(s.Timestamps[:2], s.Timestamps[3:]...)
	s.Values = append(s.Values[:2], s.Values[3:]...)

	yoy, err := s.YoY()
	require.NoError(t, err)
	// 25 observations, 11 of them in the first year, and March 2021 unmatched.
	assert.Equal(t, 25-11-1, yoy.Len())
	for _, ts := range yoy.Timestamps {
		assert.NotEqual(t, time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC), ts)
	}
}

func TestYoYZeroBase(t *testing.T) {
	values := compound(14, 100, 0.01)
	values[0] = 0
	values[1] = 0
	values[13] = 0
	s := NewMonthly("cpi", jan2020, values)

	yoy, err := s.YoY()
	require.NoError(t, err)
	assert.True(t, math.IsInf(yoy.Values[0], 1))
	assert.True(t, math.IsNaN(yoy.Values[1]))
	assert.False(t, yoy.Finite())
}

func TestYoYRejectsNonMonthly(t *testing.T) {
	tests := []struct {
		name       string
		timestamps []time.Time
	}{
		{"duplicate month", []time.Time{jan2020, jan2020.AddDate(0, 0, 14)}},
		{"decreasing", []time.Time{jan2020.AddDate(0, 1, 0), jan2020}},
		{"quarterly", []time.Time{jan2020, jan2020.AddDate(0, 3, 0), jan2020.AddDate(0, 6, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewWithTimestamps(tt.timestamps, make([]float64, len(tt.timestamps)))
			require.NoError(t, err)
			assert.ErrorIs(t, s.Validate(), ErrAlignmentMismatch)
		})
	}
}

func TestYoYDoesNotAliasInput(t *testing.T) {
	s := NewMonthly("cpi", jan2020, compound(20, 100, 0.01))
	yoy, err := s.YoY()
	require.NoError(t, err)

	yoy.Timestamps[0] = time.Time{}
	assert.Equal(t, jan2020.AddDate(1, 0, 0), s.Timestamps[12])
}

func TestSliceTailCopy(t *testing.T) {
	s := NewMonthly("x", jan2020, []float64{1, 2, 3, 4, 5})

	tail := s.Tail(2)
	assert.Equal(t, []float64{4, 5}, tail.Values)
	assert.Equal(t, s.Timestamps[3], tail.Timestamps[0])

	assert.Equal(t, 0, s.Slice(4, 2).Len())
	assert.Equal(t, 5, s.Tail(10).Len())

	c := s.Copy()
	c.Values[0] = 42
	assert.Equal(t, 1.0, s.Values[0])
}

func TestLast(t *testing.T) {
	s := NewMonthly("x", jan2020, []float64{1, 2, 3})
	ts, v, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, 3.0, v)
	assert.Equal(t, jan2020.AddDate(0, 2, 0), ts)

	_, _, ok = NewMonthly("x", jan2020, nil).Last()
	assert.False(t, ok)
}

func TestMonthsAfter(t *testing.T) {
	months := MonthsAfter(time.Date(2023, time.November, 30, 12, 0, 0, 0, time.UTC), 3)
	assert.Equal(t, []time.Time{
		time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
	}, months)
	assert.Empty(t, MonthsAfter(jan2020, 0))
}

func TestMonthsBetween(t *testing.T) {
	assert.Equal(t, 0, MonthsBetween(jan2020, time.Date(2020, time.January, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 13, MonthsBetween(jan2020, time.Date(2021, time.February, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, MonthsBetween(jan2020, time.Date(2019, time.December, 15, 0, 0, 0, 0, time.UTC)))
}
